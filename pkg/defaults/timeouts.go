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

package defaults

import "time"

// Poller limits for concurrent fleet polling.
const (
	// PollerWorkers is the default worker pool size for per-device tasks.
	// Probing, harvesting, and neighbor collection all share this budget.
	PollerWorkers = 10

	// DialRatePerSecond paces management session dials across the pool so a
	// large fleet does not stampede the auth backend.
	DialRatePerSecond = 5
)

// Session timeouts for device management connections.
const (
	// SessionDialTimeout is the default timeout for establishing an SSH
	// session, TCP connect and handshake included.
	SessionDialTimeout = 30 * time.Second

	// SessionCommandTimeout is the per-command execution limit on an open
	// session. Full running-config transfers on large devices dominate this.
	SessionCommandTimeout = 60 * time.Second
)

// HTTP client timeouts for inventory API requests.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)

// Lab tool timeouts for containerlab lifecycle commands.
const (
	// LabDeployTimeout is the node readiness timeout passed to the deploy
	// command (--timeout).
	LabDeployTimeout = 4 * time.Minute

	// LabCommandTimeout bounds a containerlab process invocation end to end.
	// Deploys of large topologies pull images, so this stays generous.
	LabCommandTimeout = 15 * time.Minute
)
