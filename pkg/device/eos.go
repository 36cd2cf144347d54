package device

import (
	"encoding/json"

	"github.com/sitemirror/sitemirror/pkg/errors"
	"github.com/sitemirror/sitemirror/pkg/topology"
)

// EOS show commands issued over the management session. Neighbor output is
// requested in JSON so parsing does not depend on column layout.
const (
	cmdRunningConfig = "show running-config"
	cmdShowVersion   = "show version"
	cmdLLDPNeighbors = "show lldp neighbors | json"
)

type lldpNeighborsResponse struct {
	LLDPNeighbors []lldpNeighborRecord `json:"lldpNeighbors"`
}

type lldpNeighborRecord struct {
	Port           string `json:"port"`
	NeighborDevice string `json:"neighborDevice"`
	NeighborPort   string `json:"neighborPort"`
}

// ParseLLDPNeighbors decodes the JSON form of the EOS LLDP neighbor listing
// into a neighbor table. Records without a local port or a peer name carry
// no usable adjacency and are skipped.
func ParseLLDPNeighbors(raw []byte) (topology.NeighborTable, error) {
	var resp lldpNeighborsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, errors.Wrap(errors.ErrCodePartialData, "failed to decode lldp neighbor output", err)
	}

	table := make(topology.NeighborTable)
	for _, rec := range resp.LLDPNeighbors {
		if rec.Port == "" || rec.NeighborDevice == "" {
			continue
		}
		table[rec.Port] = append(table[rec.Port], topology.Neighbor{
			PeerName: rec.NeighborDevice,
			PeerPort: rec.NeighborPort,
		})
	}
	return table, nil
}
