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

// Package render produces containerlab topology definitions from a
// synthesized site topology.
package render

import (
	"bytes"
	_ "embed"
	"sort"
	"text/template"

	"github.com/sitemirror/sitemirror/pkg/errors"
	"github.com/sitemirror/sitemirror/pkg/topology"
)

//go:embed templates/topology.clab.yml.tmpl
var topologyTemplate string

// DefaultNodeKind is the containerlab node kind for emulated EOS devices.
const DefaultNodeKind = "ceos"

// Node is one emulated device in the rendered lab.
type Node struct {
	// Name is the canonical device name, used as the containerlab node name.
	Name string

	// StartupConfig is the path to the node's startup configuration,
	// relative to the topology file.
	StartupConfig string
}

// Definition is the input to topology rendering: one emulated lab.
type Definition struct {
	// Name is the lab name.
	Name string

	// Kind is the containerlab node kind. Empty means DefaultNodeKind.
	Kind string

	// Image is the container image every node boots. Validated and
	// normalized before rendering.
	Image string

	Nodes []Node
	Links []topology.Link
}

// Render executes the topology template for the definition and returns the
// containerlab YAML document. Nodes render in name order so repeated runs
// produce identical files.
func Render(def Definition) ([]byte, error) {
	if def.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "lab name is required")
	}
	if len(def.Nodes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "topology has no nodes to render")
	}
	if def.Kind == "" {
		def.Kind = DefaultNodeKind
	}

	image, err := NormalizeImage(def.Image)
	if err != nil {
		return nil, err
	}
	def.Image = image

	nodes := make([]Node, len(def.Nodes))
	copy(nodes, def.Nodes)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	def.Nodes = nodes

	tmpl, err := template.New("topology").Parse(topologyTemplate)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to parse topology template", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, def); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to render topology", err)
	}
	return buf.Bytes(), nil
}
