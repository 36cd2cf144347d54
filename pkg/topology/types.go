// Copyright (c) 2026, the sitemirror authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package topology reconciles per-device LLDP neighbor reports into a
// canonical, deduplicated link set ready for rendering.
//
// LLDP data is messy in two ways this package exists to absorb: peer
// hostnames rarely match inventory names exactly (domain suffixes,
// truncation, case drift), and interface names follow the reporting device's
// native convention rather than the emulated image's. Resolution, remapping,
// and unordered-pair deduplication happen here; everything upstream just
// hands over what the devices said.
package topology

// Neighbor is a single LLDP neighbor record as reported by a local device.
type Neighbor struct {
	// PeerName is the free-text system name the remote LLDP agent
	// advertises. Not guaranteed to equal any canonical device name.
	PeerName string `json:"peer_name" yaml:"peer_name"`

	// PeerPort is the remote interface name in the peer's native convention.
	PeerPort string `json:"peer_port" yaml:"peer_port"`
}

// NeighborTable maps a device's local interface name to the neighbors seen
// on that interface.
type NeighborTable map[string][]Neighbor

// NeighborReport maps a device name to its neighbor table. Devices that
// failed neighbor collection are simply absent.
type NeighborReport map[string]NeighborTable

// Link is one synthesized inter-device link. Endpoints are
// "device:interface" strings with the reporting device first.
type Link struct {
	Endpoints []string `json:"endpoints" yaml:"endpoints"`
}

// Key returns the unordered-pair identity of the link: both endpoint strings
// sorted lexicographically and joined. Both ends of a physical link report it
// independently over LLDP; sorting makes the two reports collide on one key.
func (l Link) Key() string {
	a, b := l.Endpoints[0], l.Endpoints[1]
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// Topology is the synthesis output: the canonical device list (sorted) and
// the deduplicated links in discovery order.
type Topology struct {
	Devices []string `json:"devices" yaml:"devices"`
	Links   []Link   `json:"links" yaml:"links"`
}
