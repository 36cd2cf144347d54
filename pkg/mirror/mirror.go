// Package mirror orchestrates site mirroring runs end to end: inventory
// lookup, device polling, topology synthesis, rendering, and the lab
// lifecycle around the result.
package mirror

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sitemirror/sitemirror/pkg/device"
	"github.com/sitemirror/sitemirror/pkg/errors"
	"github.com/sitemirror/sitemirror/pkg/fleet"
	"github.com/sitemirror/sitemirror/pkg/inventory"
	"github.com/sitemirror/sitemirror/pkg/lab"
	"github.com/sitemirror/sitemirror/pkg/poller"
	"github.com/sitemirror/sitemirror/pkg/render"
	"github.com/sitemirror/sitemirror/pkg/topology"
)

// LabRunner is the subset of lab lifecycle operations a run drives.
type LabRunner interface {
	Deploy(ctx context.Context, topologyPath string) ([]byte, error)
	Destroy(ctx context.Context, topologyPath string) error
}

var _ LabRunner = (*lab.Runner)(nil)

// Mirror builds an emulated copy of a live site. It resolves the site's
// devices from the inventory, polls them over SSH, synthesizes the cabling
// topology from LLDP data, renders a containerlab definition, and boots it.
type Mirror struct {
	// Site is the inventory site to mirror.
	Site string

	// Directory resolves sites to device inventories.
	Directory inventory.Directory

	// Dialer opens device sessions for polling.
	Dialer device.Dialer

	// Runner drives lab deploy and destroy. If nil, a default containerlab
	// runner is used.
	Runner LabRunner

	// BaseDir is where site workspaces are created. Empty means the
	// current directory.
	BaseDir string

	// Convention selects interface naming in the rendered topology.
	Convention topology.Convention

	// Image is the container image used for every rendered node.
	Image string

	// Workers bounds concurrent device polling. Zero means the poller
	// default.
	Workers int

	// SkipProbe skips the reachability pre-pass and goes straight to
	// harvesting.
	SkipProbe bool

	// SkipDeploy renders and writes the topology without booting the lab.
	SkipDeploy bool

	// KeepFiles leaves the workspace on disk after Down.
	KeepFiles bool
}

// Summary reports the outcome of a site run. It is produced for every run
// that resolved a device set, including runs that then failed.
type Summary struct {
	RunID        string   `json:"run_id" yaml:"run_id"`
	Site         string   `json:"site" yaml:"site"`
	Devices      int      `json:"devices" yaml:"devices"`
	Reachable    int      `json:"reachable" yaml:"reachable"`
	Unreachable  []string `json:"unreachable,omitempty" yaml:"unreachable,omitempty"`
	Links        int      `json:"links" yaml:"links"`
	TopologyPath string   `json:"topology_path,omitempty" yaml:"topology_path,omitempty"`
	Deployed     bool     `json:"deployed" yaml:"deployed"`
	Duration     string   `json:"duration" yaml:"duration"`
}

// Up mirrors the site into a deployed lab. Devices that fail any polling
// stage are dropped from the run and reported in the summary rather than
// failing it. The returned summary is non-nil whenever the device set was
// resolved, even if a later stage failed.
func (m *Mirror) Up(ctx context.Context) (summary *Summary, err error) {
	if err := m.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		runDuration.WithLabelValues(operationUp).Observe(time.Since(start).Seconds())
		runsTotal.WithLabelValues(operationUp, outcomeLabel(err)).Inc()
	}()

	runID := uuid.New().String()
	slog.Info("starting site mirror",
		slog.String("run_id", runID),
		slog.String("site", m.Site),
	)

	devices, err := m.Directory.SiteDevices(ctx, m.Site)
	if err != nil {
		return nil, err
	}

	summary = &Summary{
		RunID:   runID,
		Site:    m.Site,
		Devices: len(devices),
	}
	failed := fleet.NewFailureSet()
	defer func() {
		summary.Unreachable = failed.Names()
		summary.Reachable = summary.Devices - failed.Len()
		summary.Duration = time.Since(start).Round(time.Millisecond).String()
		runDevices.WithLabelValues(stateTotal).Set(float64(summary.Devices))
		runDevices.WithLabelValues(stateUnreachable).Set(float64(failed.Len()))
	}()

	if len(devices) == 0 {
		return summary, errors.NewWithContext(errors.ErrCodeInvalidRequest, "site has no eligible devices", map[string]any{
			"site": m.Site,
		})
	}

	poll := &poller.Poller{Dialer: m.Dialer, Workers: m.Workers}

	if m.SkipProbe {
		slog.Debug("probe stage skipped")
	} else if err = poll.Probe(ctx, devices, failed); err != nil {
		return summary, err
	}

	ws, err := lab.NewWorkspace(m.BaseDir, m.Site)
	if err != nil {
		return summary, err
	}

	if err = poll.Harvest(ctx, devices, failed, ws); err != nil {
		return summary, err
	}

	report, err := poll.CollectNeighbors(ctx, devices, failed)
	if err != nil {
		return summary, err
	}

	synth := &topology.Synthesizer{Convention: m.Convention}
	topo, err := synth.Synthesize(deviceNames(devices), failed, report)
	if err != nil {
		return summary, err
	}
	summary.Links = len(topo.Links)

	if len(topo.Devices) == 0 {
		return summary, errors.NewWithContext(errors.ErrCodeUnreachable, "no reachable devices left to mirror", map[string]any{
			"site":    m.Site,
			"devices": len(devices),
		})
	}

	def := render.Definition{
		Name:  ws.Name(),
		Kind:  render.DefaultNodeKind,
		Image: m.Image,
		Links: topo.Links,
	}
	for _, name := range topo.Devices {
		def.Nodes = append(def.Nodes, render.Node{
			Name:          name,
			StartupConfig: ws.StartupConfigPath(name),
		})
	}

	data, err := render.Render(def)
	if err != nil {
		return summary, err
	}

	topologyPath, err := ws.WriteTopology(data)
	if err != nil {
		return summary, err
	}
	summary.TopologyPath = topologyPath

	if m.SkipDeploy {
		slog.Info("deploy skipped, topology rendered",
			slog.String("site", m.Site),
			slog.String("topology", topologyPath),
		)
		return summary, nil
	}

	state, err := m.runner().Deploy(ctx, topologyPath)
	if err != nil {
		return summary, err
	}
	summary.Deployed = true

	slog.Info("lab deployed",
		slog.String("site", m.Site),
		slog.Int("nodes", len(topo.Devices)),
		slog.Int("links", len(topo.Links)),
	)
	slog.Debug("lab state", slog.String("output", strings.TrimSpace(string(state))))

	return summary, nil
}

// Down tears down a previously deployed lab and removes its workspace.
func (m *Mirror) Down(ctx context.Context) (err error) {
	if strings.TrimSpace(m.Site) == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "site is required")
	}

	start := time.Now()
	defer func() {
		runDuration.WithLabelValues(operationDown).Observe(time.Since(start).Seconds())
		runsTotal.WithLabelValues(operationDown, outcomeLabel(err)).Inc()
	}()

	ws, err := lab.OpenWorkspace(m.BaseDir, m.Site)
	if err != nil {
		return err
	}

	if ws.HasTopology() {
		slog.Info("destroying lab", slog.String("site", m.Site))
		if err = m.runner().Destroy(ctx, ws.TopologyPath()); err != nil {
			return err
		}
	} else {
		// Nothing was rendered for this site; there is no lab to destroy.
		slog.Warn("no rendered topology for site, skipping destroy",
			slog.String("site", m.Site),
			slog.String("path", ws.TopologyPath()),
		)
	}

	if m.KeepFiles {
		slog.Info("workspace kept", slog.String("root", ws.Root()))
		return nil
	}

	if err = ws.Remove(); err != nil {
		return err
	}

	slog.Info("lab destroyed and workspace removed",
		slog.String("site", m.Site),
		slog.String("root", ws.Root()),
	)

	return nil
}

func (m *Mirror) validate() error {
	if strings.TrimSpace(m.Site) == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "site is required")
	}
	if m.Directory == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "inventory directory is required")
	}
	if m.Dialer == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "device dialer is required")
	}
	if m.Convention.IsUnknown() {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "unknown naming convention", map[string]any{
			"supported": topology.SupportedConventions(),
		})
	}
	if strings.TrimSpace(m.Image) == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "node image is required")
	}
	return nil
}

func (m *Mirror) runner() LabRunner {
	if m.Runner != nil {
		return m.Runner
	}
	return &lab.Runner{}
}

func deviceNames(devices []inventory.Device) []string {
	names := make([]string, 0, len(devices))
	for _, dev := range devices {
		names = append(names, dev.Name)
	}
	return names
}

func outcomeLabel(err error) string {
	if err != nil {
		return outcomeError
	}
	return outcomeSuccess
}
