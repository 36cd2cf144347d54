package lab

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitemirror/sitemirror/pkg/errors"
	"github.com/sitemirror/sitemirror/pkg/poller"
)

// The harvester hands artifacts straight to the workspace.
var _ poller.ArtifactSink = (*Workspace)(nil)

func TestNewWorkspaceLayout(t *testing.T) {
	base := t.TempDir()

	w, err := NewWorkspace(base, "DC1")
	require.NoError(t, err)

	assert.Equal(t, "dc1", w.Name())
	assert.Equal(t, filepath.Join(base, "dc1"), w.Root())

	for _, dir := range []string{
		filepath.Join(w.Root(), "nodes", "configs"),
		filepath.Join(w.Root(), "nodes", "sn"),
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestOpenWorkspaceDoesNotCreateDirectories(t *testing.T) {
	base := t.TempDir()

	w, err := OpenWorkspace(base, "DC1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "dc1"), w.Root())
	assert.False(t, w.HasTopology())

	_, err = os.Stat(w.Root())
	assert.True(t, os.IsNotExist(err))
}

func TestNewWorkspaceRequiresSite(t *testing.T) {
	for _, site := range []string{"", "   "} {
		_, err := NewWorkspace(t.TempDir(), site)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
	}
}

func TestWorkspaceWriteArtifacts(t *testing.T) {
	w, err := NewWorkspace(t.TempDir(), "dc1")
	require.NoError(t, err)

	require.NoError(t, w.WriteConfig("leaf01", "hostname leaf01\n"))
	require.NoError(t, w.WriteIdentity("leaf01", "SERIALNUMBER=JPE001\nSYSTEMMACADDR=44:4c:a8:a0:3b:51\n"))

	config, err := os.ReadFile(filepath.Join(w.Root(), "nodes", "configs", "leaf01.cfg"))
	require.NoError(t, err)
	assert.Equal(t, "hostname leaf01\n", string(config))

	identity, err := os.ReadFile(filepath.Join(w.Root(), "nodes", "sn", "leaf01.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(identity), "SERIALNUMBER=JPE001")
}

func TestWorkspaceRejectsUnsafeDeviceNames(t *testing.T) {
	w, err := NewWorkspace(t.TempDir(), "dc1")
	require.NoError(t, err)

	for _, device := range []string{"", "leaf/01", `leaf\01`, "../../etc/passwd"} {
		err := w.WriteConfig(device, "hostname x\n")
		require.Error(t, err, "device %q", device)
		assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
	}
}

func TestWorkspaceTopologyPath(t *testing.T) {
	w, err := NewWorkspace(t.TempDir(), "DC1")
	require.NoError(t, err)

	assert.False(t, w.HasTopology())

	written, err := w.WriteTopology([]byte("name: dc1\n"))
	require.NoError(t, err)
	assert.Equal(t, w.TopologyPath(), written)
	assert.True(t, strings.HasSuffix(written, filepath.Join("dc1", "dc1.clab.yml")))
	assert.True(t, w.HasTopology())

	data, err := os.ReadFile(written)
	require.NoError(t, err)
	assert.Equal(t, "name: dc1\n", string(data))
}

func TestWorkspaceStartupConfigPath(t *testing.T) {
	w, err := NewWorkspace(t.TempDir(), "dc1")
	require.NoError(t, err)

	// Relative to the topology file, forward slashes only.
	assert.Equal(t, "nodes/configs/leaf01.cfg", w.StartupConfigPath("leaf01"))
}

func TestWorkspaceRemove(t *testing.T) {
	w, err := NewWorkspace(t.TempDir(), "dc1")
	require.NoError(t, err)
	require.NoError(t, w.WriteConfig("leaf01", "hostname leaf01\n"))

	require.NoError(t, w.Remove())

	_, err = os.Stat(w.Root())
	assert.True(t, os.IsNotExist(err))

	// Removing an already absent workspace is not an error.
	require.NoError(t, w.Remove())
}
