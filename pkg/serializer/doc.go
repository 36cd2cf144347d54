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

// Package serializer provides encoding of run artifacts in multiple formats.
//
// # Overview
//
// The serializer package converts mirror run payloads (summaries, synthesized
// topologies, inventories) into the output formats the CLI exposes: JSON,
// YAML, and human-readable tables.
//
// # Supported Formats
//
// JSON:
//   - Machine-parseable, compact representation
//   - Suitable for scripting and programmatic consumption
//   - Standard encoding/json package
//
// YAML:
//   - Human-readable with preserved structure
//   - Suitable for configuration files and version control
//   - gopkg.in/yaml.v3 package
//
// Table:
//   - Flattened key/value representation
//   - Suitable for terminal/console viewing
//   - Write-only (no deserialization support)
//
// # Core Types
//
// Format: Enum representing output formats (JSON, YAML, Table)
//
// Serializer: Interface for encoding data to output
//
//	type Serializer interface {
//	    Serialize(ctx context.Context, payload any) error
//	}
//
// # Usage
//
// Write to stdout (YAML):
//
//	writer := serializer.NewStdoutWriter(serializer.FormatYAML)
//	if err := writer.Serialize(ctx, summary); err != nil {
//	    log.Fatal(err)
//	}
//
// Write to a file, falling back to stdout when the path is empty:
//
//	writer := serializer.NewFileWriterOrStdout(serializer.FormatJSON, "summary.json")
//	if closer, ok := writer.(serializer.Closer); ok {
//	    defer closer.Close()
//	}
//
//	if err := writer.Serialize(ctx, summary); err != nil {
//	    log.Fatal(err)
//	}
//
// # Table Format
//
// The table format flattens nested structures into dotted keys:
//
//	FIELD                  VALUE
//	-----                  -----
//	Site                   dc1
//	Devices.Reachable      40
//	Devices.Unreachable    2
//	Links.[0].Endpoints    [leaf01:eth1 spine01:eth1]
//
// # Resource Management
//
// Always close writers that manage files:
//
//	writer := serializer.NewFileWriterOrStdout(serializer.FormatJSON, path)
//	if closer, ok := writer.(serializer.Closer); ok {
//	    defer closer.Close() // Required for file resources
//	}
//
// Stdout writers don't require closing but Close() is safe to call.
//
// # Error Handling
//
// Errors are returned when:
//   - Data cannot be marshaled
//   - The underlying writer fails
//
// Unknown formats fall back to JSON with a logged warning rather than
// failing the run.
//
// # Integration
//
// Used throughout sitemirror for run output:
//   - pkg/cli - command output formatting
//   - pkg/mirror - run summary serialization
package serializer
