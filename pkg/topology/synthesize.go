package topology

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/sitemirror/sitemirror/pkg/errors"
	"github.com/sitemirror/sitemirror/pkg/fleet"
)

// Synthesizer turns raw neighbor reports into a Topology.
type Synthesizer struct {
	// Convention is the interface-naming rule for the target lab.
	Convention Convention

	// Resolver maps peer hints to canonical names. Nil means PrefixResolver.
	Resolver Resolver
}

// Synthesize builds the topology for the given device names. Devices present
// in the failure set are excluded from the canonical set entirely: they
// appear in no link and are not consulted as resolution candidates, even if
// the report still carries data for them. Neighbor records that cannot be
// resolved, that involve interfaces without a lab equivalent, or that
// duplicate an already-recorded link are dropped without error.
func (s *Synthesizer) Synthesize(devices []string, failed *fleet.FailureSet, report NeighborReport) (*Topology, error) {
	if s.Convention.IsUnknown() {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown naming convention: %q", s.Convention))
	}
	resolver := s.Resolver
	if resolver == nil {
		resolver = PrefixResolver{}
	}

	canonical := make([]string, 0, len(devices))
	for _, name := range devices {
		if failed != nil && failed.IsUnreachable(name) {
			continue
		}
		canonical = append(canonical, name)
	}
	sort.Strings(canonical)

	topo := &Topology{
		Devices: canonical,
		Links:   []Link{},
	}
	seen := make(map[string]struct{})

	for _, local := range canonical {
		table, ok := report[local]
		if !ok {
			continue
		}
		for _, iface := range sortedInterfaces(table) {
			for _, nb := range table[iface] {
				peer, ok := resolver.Resolve(nb.PeerName, canonical)
				if !ok {
					discardedNeighbors.WithLabelValues(discardReasonUnresolved).Inc()
					slog.Debug("discarding neighbor with unresolvable peer",
						"device", local,
						"interface", iface,
						"hint", nb.PeerName)
					continue
				}

				localPort := s.Convention.MapInterface(iface)
				peerPort := s.Convention.MapInterface(nb.PeerPort)
				if !HasVirtualEquivalent(localPort) || !HasVirtualEquivalent(peerPort) {
					discardedNeighbors.WithLabelValues(discardReasonNoEquiv).Inc()
					continue
				}

				link := Link{Endpoints: []string{
					local + ":" + localPort,
					peer + ":" + peerPort,
				}}
				if _, dup := seen[link.Key()]; dup {
					discardedNeighbors.WithLabelValues(discardReasonDuplicate).Inc()
					continue
				}
				seen[link.Key()] = struct{}{}
				topo.Links = append(topo.Links, link)
			}
		}
	}

	linkCount.Set(float64(len(topo.Links)))
	slog.Debug("topology synthesized",
		"devices", len(topo.Devices),
		"links", len(topo.Links))
	return topo, nil
}

// sortedInterfaces returns the table's interface names in sorted order so
// synthesis output is deterministic for a given report.
func sortedInterfaces(table NeighborTable) []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
