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

// Package device provides management-plane access to network devices over
// SSH: opening sessions, running show commands, and decoding the results
// into inventory-neutral types.
package device

import (
	"context"

	"github.com/sitemirror/sitemirror/pkg/topology"
)

// DefaultSSHPort is the management SSH port used when none is configured.
const DefaultSSHPort = 22

// Credentials holds the login used for every device in a run.
type Credentials struct {
	Username string
	Password string
}

// Session is an authenticated management session on a single device.
// Implementations are not required to be safe for concurrent use; the poller
// gives each device its own session.
type Session interface {
	// RunningConfig returns the device's full running configuration.
	RunningConfig(ctx context.Context) (string, error)

	// Identity returns the hardware identity parsed from version output.
	Identity(ctx context.Context) (Identity, error)

	// Neighbors returns the device's current LLDP neighbor table.
	Neighbors(ctx context.Context) (topology.NeighborTable, error)

	// Close tears down the underlying connection.
	Close() error
}

// Dialer opens management sessions. The name is the canonical inventory
// name, used only for error context; addr is the management address.
type Dialer interface {
	Dial(ctx context.Context, name, addr string) (Session, error)
}
