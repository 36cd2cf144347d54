package mirror

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitemirror/sitemirror/pkg/device"
	"github.com/sitemirror/sitemirror/pkg/errors"
	"github.com/sitemirror/sitemirror/pkg/inventory"
	"github.com/sitemirror/sitemirror/pkg/lab"
	"github.com/sitemirror/sitemirror/pkg/topology"
)

type fakeDirectory struct {
	devices []inventory.Device
	err     error

	requested string
}

func (d *fakeDirectory) SiteDevices(_ context.Context, site string) ([]inventory.Device, error) {
	d.requested = site
	if d.err != nil {
		return nil, d.err
	}
	return d.devices, nil
}

type fakeSession struct {
	config    string
	identity  device.Identity
	neighbors topology.NeighborTable
}

func (s *fakeSession) RunningConfig(context.Context) (string, error) {
	return s.config, nil
}

func (s *fakeSession) Identity(context.Context) (device.Identity, error) {
	return s.identity, nil
}

func (s *fakeSession) Neighbors(context.Context) (topology.NeighborTable, error) {
	return s.neighbors, nil
}

func (s *fakeSession) Close() error { return nil }

type fakeDialer struct {
	mu       sync.Mutex
	sessions map[string]*fakeSession
	dialErr  map[string]error
	dialed   map[string]int
}

func (d *fakeDialer) Dial(_ context.Context, name, _ string) (device.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dialed == nil {
		d.dialed = make(map[string]int)
	}
	d.dialed[name]++

	if err := d.dialErr[name]; err != nil {
		return nil, err
	}
	return d.sessions[name], nil
}

func (d *fakeDialer) dialCount(name string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dialed[name]
}

type fakeRunner struct {
	deploys    []string
	destroys   []string
	deployErr  error
	destroyErr error
}

func (r *fakeRunner) Deploy(_ context.Context, topologyPath string) ([]byte, error) {
	r.deploys = append(r.deploys, topologyPath)
	if r.deployErr != nil {
		return nil, r.deployErr
	}
	return []byte("lab state"), nil
}

func (r *fakeRunner) Destroy(_ context.Context, topologyPath string) error {
	r.destroys = append(r.destroys, topologyPath)
	return r.destroyErr
}

func testDevices() []inventory.Device {
	return []inventory.Device{
		{Name: "leaf01", MgmtAddr: "192.0.2.1", Role: "leaf-router-switch"},
		{Name: "spine01", MgmtAddr: "192.0.2.2", Role: "spine-router-switch"},
	}
}

// testSessions wires a two-device site where each side reports the other
// over LLDP. The spine reports the leaf by FQDN to exercise peer
// resolution through the full pipeline.
func testSessions() map[string]*fakeSession {
	return map[string]*fakeSession{
		"leaf01": {
			config:   "hostname leaf01\n",
			identity: device.Identity{SerialNumber: "JPE001", SystemMAC: "44:4c:a8:a0:3b:01"},
			neighbors: topology.NeighborTable{
				"Ethernet2": {{PeerName: "spine01", PeerPort: "Ethernet1"}},
			},
		},
		"spine01": {
			config:   "hostname spine01\n",
			identity: device.Identity{SerialNumber: "JPE002", SystemMAC: "44:4c:a8:a0:3b:02"},
			neighbors: topology.NeighborTable{
				"Ethernet1": {{PeerName: "leaf01.dc1.example.net", PeerPort: "Ethernet2"}},
			},
		},
	}
}

func testMirror(base string, dialer *fakeDialer, runner *fakeRunner) *Mirror {
	return &Mirror{
		Site:       "DC1",
		Directory:  &fakeDirectory{devices: testDevices()},
		Dialer:     dialer,
		Runner:     runner,
		BaseDir:    base,
		Convention: topology.ConventionCEOS,
		Image:      "ceos:4.32.0F",
	}
}

func TestUpFullRun(t *testing.T) {
	base := t.TempDir()
	runner := &fakeRunner{}
	m := testMirror(base, &fakeDialer{sessions: testSessions()}, runner)

	summary, err := m.Up(context.Background())
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, "DC1", summary.Site)
	assert.Equal(t, 2, summary.Devices)
	assert.Equal(t, 2, summary.Reachable)
	assert.Empty(t, summary.Unreachable)
	assert.Equal(t, 1, summary.Links)
	assert.True(t, summary.Deployed)
	assert.NotEmpty(t, summary.Duration)

	config, err := os.ReadFile(filepath.Join(base, "dc1", "nodes", "configs", "leaf01.cfg"))
	require.NoError(t, err)
	assert.Equal(t, "hostname leaf01\n", string(config))

	identity, err := os.ReadFile(filepath.Join(base, "dc1", "nodes", "sn", "spine01.txt"))
	require.NoError(t, err)
	assert.Equal(t, "SERIALNUMBER=JPE002\nSYSTEMMACADDR=44:4c:a8:a0:3b:02\n", string(identity))

	data, err := os.ReadFile(summary.TopologyPath)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "name: dc1")
	assert.Contains(t, text, "leaf01:")
	assert.Contains(t, text, "startup-config: nodes/configs/leaf01.cfg")
	assert.Contains(t, text, `["leaf01:eth2", "spine01:eth1"]`)

	require.Len(t, runner.deploys, 1)
	assert.Equal(t, summary.TopologyPath, runner.deploys[0])
}

func TestUpSkipDeploy(t *testing.T) {
	runner := &fakeRunner{}
	m := testMirror(t.TempDir(), &fakeDialer{sessions: testSessions()}, runner)
	m.SkipDeploy = true

	summary, err := m.Up(context.Background())
	require.NoError(t, err)

	assert.False(t, summary.Deployed)
	assert.Empty(t, runner.deploys)

	_, err = os.Stat(summary.TopologyPath)
	require.NoError(t, err)
}

func TestUpSkipProbe(t *testing.T) {
	dialer := &fakeDialer{sessions: testSessions()}
	m := testMirror(t.TempDir(), dialer, &fakeRunner{})
	m.SkipProbe = true

	_, err := m.Up(context.Background())
	require.NoError(t, err)

	// Harvest and neighbor collection only, no probe pass.
	assert.Equal(t, 2, dialer.dialCount("leaf01"))
	assert.Equal(t, 2, dialer.dialCount("spine01"))
}

func TestUpDropsUnreachableDevice(t *testing.T) {
	base := t.TempDir()
	dialer := &fakeDialer{
		sessions: testSessions(),
		dialErr: map[string]error{
			"spine01": errors.New(errors.ErrCodeUnreachable, "connection refused"),
		},
	}
	runner := &fakeRunner{}
	m := testMirror(base, dialer, runner)

	summary, err := m.Up(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Devices)
	assert.Equal(t, 1, summary.Reachable)
	assert.Equal(t, []string{"spine01"}, summary.Unreachable)
	assert.Equal(t, 0, summary.Links)
	assert.True(t, summary.Deployed)

	// The failed device leaves no artifacts and no rendered node.
	_, err = os.Stat(filepath.Join(base, "dc1", "nodes", "configs", "spine01.cfg"))
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(summary.TopologyPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "spine01")
	assert.NotContains(t, string(data), "links:")
}

func TestUpAllUnreachable(t *testing.T) {
	dialer := &fakeDialer{
		dialErr: map[string]error{
			"leaf01":  errors.New(errors.ErrCodeUnreachable, "connection refused"),
			"spine01": errors.New(errors.ErrCodeUnreachable, "connection refused"),
		},
	}
	runner := &fakeRunner{}
	m := testMirror(t.TempDir(), dialer, runner)

	summary, err := m.Up(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnreachable))

	require.NotNil(t, summary)
	assert.Equal(t, []string{"leaf01", "spine01"}, summary.Unreachable)
	assert.Equal(t, 0, summary.Reachable)
	assert.False(t, summary.Deployed)
	assert.Empty(t, runner.deploys)
}

func TestUpSiteNotFound(t *testing.T) {
	m := testMirror(t.TempDir(), &fakeDialer{}, &fakeRunner{})
	m.Directory = &fakeDirectory{
		err: errors.NewWithContext(errors.ErrCodeSiteNotFound, "site not found", map[string]any{"site": "DC1"}),
	}

	summary, err := m.Up(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSiteNotFound))
	assert.Nil(t, summary)
}

func TestUpEmptyDeviceSet(t *testing.T) {
	m := testMirror(t.TempDir(), &fakeDialer{}, &fakeRunner{})
	m.Directory = &fakeDirectory{}

	summary, err := m.Up(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))

	require.NotNil(t, summary)
	assert.Equal(t, 0, summary.Devices)
}

func TestUpValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Mirror)
	}{
		{"missing site", func(m *Mirror) { m.Site = "" }},
		{"missing directory", func(m *Mirror) { m.Directory = nil }},
		{"missing dialer", func(m *Mirror) { m.Dialer = nil }},
		{"unknown convention", func(m *Mirror) { m.Convention = topology.Convention("junos") }},
		{"missing image", func(m *Mirror) { m.Image = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := testMirror(t.TempDir(), &fakeDialer{sessions: testSessions()}, &fakeRunner{})
			tc.mutate(m)

			summary, err := m.Up(context.Background())
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
			assert.Nil(t, summary)
		})
	}
}

func TestDownDestroysWorkspace(t *testing.T) {
	base := t.TempDir()
	ws, err := lab.NewWorkspace(base, "dc1")
	require.NoError(t, err)
	_, err = ws.WriteTopology([]byte("name: dc1\n"))
	require.NoError(t, err)

	runner := &fakeRunner{}
	m := &Mirror{Site: "DC1", BaseDir: base, Runner: runner}

	require.NoError(t, m.Down(context.Background()))

	require.Len(t, runner.destroys, 1)
	assert.Equal(t, ws.TopologyPath(), runner.destroys[0])

	_, err = os.Stat(ws.Root())
	assert.True(t, os.IsNotExist(err))
}

func TestDownWithoutTopology(t *testing.T) {
	base := t.TempDir()
	ws, err := lab.NewWorkspace(base, "dc1")
	require.NoError(t, err)

	runner := &fakeRunner{}
	m := &Mirror{Site: "dc1", BaseDir: base, Runner: runner}

	// No rendered topology means there is no lab to destroy, but the
	// workspace is still cleaned up.
	require.NoError(t, m.Down(context.Background()))
	assert.Empty(t, runner.destroys)

	_, err = os.Stat(ws.Root())
	assert.True(t, os.IsNotExist(err))
}

func TestDownKeepFiles(t *testing.T) {
	base := t.TempDir()
	ws, err := lab.NewWorkspace(base, "dc1")
	require.NoError(t, err)
	_, err = ws.WriteTopology([]byte("name: dc1\n"))
	require.NoError(t, err)

	runner := &fakeRunner{}
	m := &Mirror{Site: "dc1", BaseDir: base, Runner: runner, KeepFiles: true}

	require.NoError(t, m.Down(context.Background()))
	require.Len(t, runner.destroys, 1)

	// Harvested files and the topology survive the teardown.
	_, err = os.Stat(ws.TopologyPath())
	require.NoError(t, err)
}

func TestDownDestroyFailureKeepsWorkspace(t *testing.T) {
	base := t.TempDir()
	ws, err := lab.NewWorkspace(base, "dc1")
	require.NoError(t, err)
	_, err = ws.WriteTopology([]byte("name: dc1\n"))
	require.NoError(t, err)

	runner := &fakeRunner{
		destroyErr: errors.New(errors.ErrCodeToolingFailed, "exit status 1"),
	}
	m := &Mirror{Site: "dc1", BaseDir: base, Runner: runner}

	err = m.Down(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeToolingFailed))

	// Workspace survives so the teardown can be retried.
	_, err = os.Stat(ws.Root())
	require.NoError(t, err)
}
