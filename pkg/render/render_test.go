package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sitemirror/sitemirror/pkg/errors"
	"github.com/sitemirror/sitemirror/pkg/topology"
)

type clabNode struct {
	Kind          string `yaml:"kind"`
	Image         string `yaml:"image"`
	StartupConfig string `yaml:"startup-config"`
}

type clabLink struct {
	Endpoints []string `yaml:"endpoints"`
}

type clabDoc struct {
	Name     string `yaml:"name"`
	Topology struct {
		Nodes map[string]clabNode `yaml:"nodes"`
		Links []clabLink          `yaml:"links"`
	} `yaml:"topology"`
}

func TestRenderTopology(t *testing.T) {
	def := Definition{
		Name:  "dc1",
		Image: "ceos:4.32.0F",
		Nodes: []Node{
			{Name: "spine01", StartupConfig: "nodes/configs/spine01.cfg"},
			{Name: "leaf01", StartupConfig: "nodes/configs/leaf01.cfg"},
		},
		Links: []topology.Link{
			{Endpoints: []string{"leaf01:eth1", "spine01:eth1"}},
			{Endpoints: []string{"leaf01:eth2", "spine01:eth2"}},
		},
	}

	out, err := Render(def)
	require.NoError(t, err)

	var doc clabDoc
	require.NoError(t, yaml.Unmarshal(out, &doc), "rendered topology must be valid YAML")

	assert.Equal(t, "dc1", doc.Name)
	require.Len(t, doc.Topology.Nodes, 2)

	leaf := doc.Topology.Nodes["leaf01"]
	assert.Equal(t, "ceos", leaf.Kind)
	assert.Equal(t, "ceos:4.32.0F", leaf.Image)
	assert.Equal(t, "nodes/configs/leaf01.cfg", leaf.StartupConfig)

	require.Len(t, doc.Topology.Links, 2)
	assert.Equal(t, []string{"leaf01:eth1", "spine01:eth1"}, doc.Topology.Links[0].Endpoints)

	// Nodes must appear in name order regardless of input order.
	text := string(out)
	assert.Less(t, strings.Index(text, "leaf01:"), strings.Index(text, "spine01:"))
}

func TestRenderWithoutLinks(t *testing.T) {
	def := Definition{
		Name:  "dc1",
		Image: "ceos:4.32.0F",
		Nodes: []Node{
			{Name: "leaf01", StartupConfig: "nodes/configs/leaf01.cfg"},
		},
	}

	out, err := Render(def)
	require.NoError(t, err)

	var doc clabDoc
	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Empty(t, doc.Topology.Links)
	assert.NotContains(t, string(out), "links:")
}

func TestRenderDefaultsKind(t *testing.T) {
	out, err := Render(Definition{
		Name:  "dc1",
		Image: "ceos:4.32.0F",
		Nodes: []Node{{Name: "leaf01", StartupConfig: "nodes/configs/leaf01.cfg"}},
	})
	require.NoError(t, err)

	var doc clabDoc
	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Equal(t, DefaultNodeKind, doc.Topology.Nodes["leaf01"].Kind)
}

func TestRenderNormalizesImage(t *testing.T) {
	out, err := Render(Definition{
		Name:  "dc1",
		Image: "arista/ceos",
		Nodes: []Node{{Name: "leaf01", StartupConfig: "nodes/configs/leaf01.cfg"}},
	})
	require.NoError(t, err)

	var doc clabDoc
	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Equal(t, "arista/ceos:latest", doc.Topology.Nodes["leaf01"].Image)
}

func TestRenderValidation(t *testing.T) {
	nodes := []Node{{Name: "leaf01", StartupConfig: "nodes/configs/leaf01.cfg"}}

	tests := []struct {
		name string
		def  Definition
	}{
		{
			name: "missing lab name",
			def:  Definition{Image: "ceos:4.32.0F", Nodes: nodes},
		},
		{
			name: "no nodes",
			def:  Definition{Name: "dc1", Image: "ceos:4.32.0F"},
		},
		{
			name: "bad image",
			def:  Definition{Name: "dc1", Image: "CEOS::bad", Nodes: nodes},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.def)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
		})
	}
}

func TestNormalizeImage(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{
			name: "tagged image",
			in:   "ceos:4.32.0F",
			want: "ceos:4.32.0F",
		},
		{
			name: "untagged image gets latest",
			in:   "ceos",
			want: "ceos:latest",
		},
		{
			name: "private registry with port",
			in:   "registry.example.com:5000/arista/ceos:4.32.0F",
			want: "registry.example.com:5000/arista/ceos:4.32.0F",
		},
		{
			name: "surrounding whitespace",
			in:   "  ceos:4.32.0F ",
			want: "ceos:4.32.0F",
		},
		{
			name:    "empty",
			in:      "",
			wantErr: true,
		},
		{
			name:    "uppercase repository",
			in:      "CEOS:4.32.0F",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeImage(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
