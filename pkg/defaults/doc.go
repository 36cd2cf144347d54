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

// Package defaults provides centralized configuration constants for sitemirror.
//
// This package defines timeout values, concurrency limits, and other
// configuration defaults used across the codebase. Centralizing these values
// ensures consistency and makes tuning easier.
//
// # Categories
//
// Defaults are organized by component:
//
//   - Poller limits: Worker pool size and dial pacing for fleet polling
//   - Session timeouts: SSH dial and per-command limits
//   - HTTP client timeouts: For inventory API requests
//   - Lab tool timeouts: For containerlab lifecycle commands
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/sitemirror/sitemirror/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.SessionCommandTimeout)
//	defer cancel()
package defaults
