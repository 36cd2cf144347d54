// Package poller drives the per-device polling stages across a site's
// fleet. Each stage fans out over a bounded worker pool, records a typed
// outcome per device, and folds the failures into the shared failure set
// only after the pool has drained, so the set mutates on one goroutine.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sitemirror/sitemirror/pkg/defaults"
	"github.com/sitemirror/sitemirror/pkg/device"
	"github.com/sitemirror/sitemirror/pkg/errors"
	"github.com/sitemirror/sitemirror/pkg/fleet"
	"github.com/sitemirror/sitemirror/pkg/inventory"
	"github.com/sitemirror/sitemirror/pkg/topology"
)

// ArtifactSink receives per-device artifacts harvested from the fleet.
// Writes happen sequentially during the fold phase.
type ArtifactSink interface {
	// WriteConfig stores the device's running configuration.
	WriteConfig(device, config string) error

	// WriteIdentity stores the device's rendered identity text.
	WriteIdentity(device, identity string) error
}

// Poller runs polling stages against a device fleet.
type Poller struct {
	// Dialer opens management sessions.
	Dialer device.Dialer

	// Workers caps concurrent device sessions. Zero or negative means
	// defaults.PollerWorkers.
	Workers int
}

type probeOutcome struct {
	device string
	err    error
}

type harvestOutcome struct {
	device   string
	config   string
	identity device.Identity
	err      error
}

type neighborOutcome struct {
	device string
	table  topology.NeighborTable
	err    error
}

// Probe dials every device not already in the failure set and marks the
// ones that cannot be reached. A probe failure never aborts the stage; only
// run cancellation does.
func (p *Poller) Probe(ctx context.Context, devices []inventory.Device, failed *fleet.FailureSet) error {
	slog.Debug("starting probe stage", slog.Int("devices", len(devices)))

	start := time.Now()
	defer func() {
		stageDuration.WithLabelValues(stageProbe).Observe(time.Since(start).Seconds())
	}()

	var mu sync.Mutex
	outcomes := make([]probeOutcome, 0, len(devices))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workerCount())

	for _, dev := range devices {
		if failed.IsUnreachable(dev.Name) {
			continue
		}
		g.Go(func() error {
			err := p.probeOne(gctx, dev)
			if err != nil && gctx.Err() != nil {
				// Interrupted, not a verdict on the device.
				return gctx.Err()
			}
			mu.Lock()
			outcomes = append(outcomes, probeOutcome{device: dev.Name, err: err})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "probe stage interrupted", err)
	}

	reachable := 0
	for _, o := range outcomes {
		if o.err != nil {
			failed.MarkUnreachable(o.device)
			deviceOutcomeTotal.WithLabelValues(stageProbe, outcomeFailed).Inc()
			slog.Warn("device dropped from run",
				slog.String("stage", stageProbe),
				slog.String("device", o.device),
				slog.String("error", o.err.Error()))
			continue
		}
		deviceOutcomeTotal.WithLabelValues(stageProbe, outcomeOK).Inc()
		reachable++
	}

	slog.Debug("probe stage complete",
		slog.Int("reachable", reachable),
		slog.Int("unreachable", len(outcomes)-reachable))
	return nil
}

func (p *Poller) probeOne(ctx context.Context, dev inventory.Device) error {
	session, err := p.Dialer.Dial(ctx, dev.Name, dev.MgmtAddr)
	if err != nil {
		return err
	}
	defer session.Close()
	return nil
}

// Harvest pulls the running configuration and hardware identity off every
// device still in the run and hands the artifacts to the sink. Devices that
// fail mid-harvest join the failure set; sink errors abort the run.
func (p *Poller) Harvest(ctx context.Context, devices []inventory.Device, failed *fleet.FailureSet, sink ArtifactSink) error {
	slog.Debug("starting harvest stage", slog.Int("devices", len(devices)))

	start := time.Now()
	defer func() {
		stageDuration.WithLabelValues(stageHarvest).Observe(time.Since(start).Seconds())
	}()

	var mu sync.Mutex
	outcomes := make([]harvestOutcome, 0, len(devices))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workerCount())

	for _, dev := range devices {
		if failed.IsUnreachable(dev.Name) {
			continue
		}
		g.Go(func() error {
			config, identity, err := p.harvestOne(gctx, dev)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			mu.Lock()
			outcomes = append(outcomes, harvestOutcome{
				device:   dev.Name,
				config:   config,
				identity: identity,
				err:      err,
			})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "harvest stage interrupted", err)
	}

	harvested := 0
	for _, o := range outcomes {
		if o.err != nil {
			failed.MarkUnreachable(o.device)
			deviceOutcomeTotal.WithLabelValues(stageHarvest, outcomeFailed).Inc()
			slog.Warn("device dropped from run",
				slog.String("stage", stageHarvest),
				slog.String("device", o.device),
				slog.String("error", o.err.Error()))
			continue
		}
		if err := sink.WriteConfig(o.device, o.config); err != nil {
			return err
		}
		if err := sink.WriteIdentity(o.device, o.identity.Text()); err != nil {
			return err
		}
		deviceOutcomeTotal.WithLabelValues(stageHarvest, outcomeOK).Inc()
		harvested++
	}

	slog.Debug("harvest stage complete",
		slog.Int("harvested", harvested),
		slog.Int("failed", len(outcomes)-harvested))
	return nil
}

func (p *Poller) harvestOne(ctx context.Context, dev inventory.Device) (string, device.Identity, error) {
	session, err := p.Dialer.Dial(ctx, dev.Name, dev.MgmtAddr)
	if err != nil {
		return "", device.Identity{}, err
	}
	defer session.Close()

	config, err := session.RunningConfig(ctx)
	if err != nil {
		return "", device.Identity{}, err
	}
	identity, err := session.Identity(ctx)
	if err != nil {
		return "", device.Identity{}, err
	}
	return config, identity, nil
}

// CollectNeighbors gathers the LLDP neighbor table from every device still
// in the run. Devices that cannot produce a table join the failure set; the
// report only carries entries for devices that answered.
func (p *Poller) CollectNeighbors(ctx context.Context, devices []inventory.Device, failed *fleet.FailureSet) (topology.NeighborReport, error) {
	slog.Debug("starting neighbor collection stage", slog.Int("devices", len(devices)))

	start := time.Now()
	defer func() {
		stageDuration.WithLabelValues(stageNeighbors).Observe(time.Since(start).Seconds())
	}()

	var mu sync.Mutex
	outcomes := make([]neighborOutcome, 0, len(devices))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workerCount())

	for _, dev := range devices {
		if failed.IsUnreachable(dev.Name) {
			continue
		}
		g.Go(func() error {
			table, err := p.neighborsOne(gctx, dev)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			mu.Lock()
			outcomes = append(outcomes, neighborOutcome{
				device: dev.Name,
				table:  table,
				err:    err,
			})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "neighbor collection interrupted", err)
	}

	report := make(topology.NeighborReport, len(outcomes))
	for _, o := range outcomes {
		if o.err != nil {
			failed.MarkUnreachable(o.device)
			deviceOutcomeTotal.WithLabelValues(stageNeighbors, outcomeFailed).Inc()
			slog.Warn("device dropped from run",
				slog.String("stage", stageNeighbors),
				slog.String("device", o.device),
				slog.String("error", o.err.Error()))
			continue
		}
		deviceOutcomeTotal.WithLabelValues(stageNeighbors, outcomeOK).Inc()
		report[o.device] = o.table
	}

	slog.Debug("neighbor collection complete", slog.Int("reports", len(report)))
	return report, nil
}

func (p *Poller) neighborsOne(ctx context.Context, dev inventory.Device) (topology.NeighborTable, error) {
	session, err := p.Dialer.Dial(ctx, dev.Name, dev.MgmtAddr)
	if err != nil {
		return nil, err
	}
	defer session.Close()
	return session.Neighbors(ctx)
}

func (p *Poller) workerCount() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return defaults.PollerWorkers
}
