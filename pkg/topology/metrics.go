package topology

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// linkCount tracks the size of the most recently synthesized topology.
	linkCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sitemirror_topology_links",
		Help: "Number of links in the last synthesized topology",
	})

	// discardedNeighbors counts neighbor records dropped during synthesis,
	// labeled by reason.
	discardedNeighbors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitemirror_topology_discarded_neighbors_total",
		Help: "Total number of neighbor records discarded during synthesis",
	}, []string{"reason"})
)

const (
	discardReasonUnresolved = "unresolved_peer"
	discardReasonNoEquiv    = "no_virtual_equivalent"
	discardReasonDuplicate  = "duplicate"
)
