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

// Package inventory resolves a site name to its candidate device set using
// the inventory system of record (NetBox). Results are filtered to active
// devices of a fixed vendor whose role is on the allow-list; devices are
// immutable for the duration of a run.
package inventory

import (
	"context"
	"strings"
)

// Device is a single inventory record. Name is unique within a site and is
// the canonical identifier every later stage joins on.
type Device struct {
	// Name is the inventory system's authoritative device name.
	Name string `json:"name" yaml:"name"`

	// MgmtAddr is the primary management IP with any prefix length stripped
	// ("10.0.0.1/24" becomes "10.0.0.1"). Empty when the device has no
	// primary IP assigned.
	MgmtAddr string `json:"mgmt_addr,omitempty" yaml:"mgmt_addr,omitempty"`

	// Role is the device role slug from the inventory.
	Role string `json:"role,omitempty" yaml:"role,omitempty"`
}

// Directory returns the candidate device set for a site.
//
// Implementations distinguish two outcomes: an unknown site is an error
// (errors.ErrCodeSiteNotFound), while a known site with no matching devices
// returns an empty slice and no error.
type Directory interface {
	SiteDevices(ctx context.Context, site string) ([]Device, error)
}

// DefaultVendor is the manufacturer slug devices must carry to be mirrored.
const DefaultVendor = "arista"

// StatusActive is the inventory lifecycle status required of candidates.
const StatusActive = "active"

// DefaultRoles is the device role allow-list. Roles outside this list (PDUs,
// console servers, patch panels) have no place in an emulated topology.
var DefaultRoles = []string{
	"core",
	"core-switch",
	"clubhouse",
	"dmz-switch",
	"edge-router-switch",
	"firewall",
	"l2-switch",
	"idf-switch",
	"l2-switch-enduser",
	"l2-switch-wifi",
	"l2-switch-wired",
	"lan-switch",
	"leaf-router-switch",
	"mpls-router",
	"oob-switch",
	"oob-vpn-router",
	"service-leaf-router-switch",
	"spine-router-switch",
	"stringer",
	"tapagg-switch",
	"transit-router-switch",
	"vpn-router",
}

// StripPrefixLen removes a CIDR prefix length from an address if present.
func StripPrefixLen(addr string) string {
	if i := strings.IndexByte(addr, '/'); i >= 0 {
		return addr[:i]
	}
	return addr
}
