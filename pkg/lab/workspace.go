// Package lab manages the on-disk workspace for an emulated site and the
// containerlab runs that boot and tear it down.
//
// A workspace groups everything one run produces under a single directory
// named after the site:
//
//	<base>/<site>/
//	  <site>.clab.yml           rendered topology definition
//	  nodes/configs/<dev>.cfg   harvested startup configs
//	  nodes/sn/<dev>.txt        harvested identity records
//
// Startup config paths inside the topology file are written relative to the
// topology file itself, which is how containerlab resolves them.
package lab

import (
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sitemirror/sitemirror/pkg/errors"
)

const (
	nodesDirName    = "nodes"
	configsDirName  = "configs"
	identityDirName = "sn"

	configSuffix   = ".cfg"
	identitySuffix = ".txt"
	topologySuffix = ".clab.yml"
)

// Workspace is the on-disk layout for a single site run.
type Workspace struct {
	root string
	name string
}

// OpenWorkspace returns a handle on a site's workspace without touching the
// filesystem. The site name is lowered so repeated runs against the same
// site land in the same directory regardless of inventory casing.
func OpenWorkspace(baseDir, site string) (*Workspace, error) {
	name := strings.ToLower(strings.TrimSpace(site))
	if name == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "site name is required")
	}

	return &Workspace{
		root: filepath.Join(baseDir, name),
		name: name,
	}, nil
}

// NewWorkspace opens a site's workspace under baseDir and creates its
// directory structure.
func NewWorkspace(baseDir, site string) (*Workspace, error) {
	w, err := OpenWorkspace(baseDir, site)
	if err != nil {
		return nil, err
	}

	for _, dir := range []string{w.configDir(), w.identityDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInternal, "failed to create workspace directory", err, map[string]any{
				"directory": dir,
			})
		}
	}

	slog.Debug("workspace ready",
		slog.String("site", w.name),
		slog.String("root", w.root),
	)

	return w, nil
}

// Name returns the lowered site name the workspace was created for.
func (w *Workspace) Name() string {
	return w.name
}

// Root returns the workspace directory.
func (w *Workspace) Root() string {
	return w.root
}

// TopologyPath returns where the rendered topology definition lives.
func (w *Workspace) TopologyPath() string {
	return filepath.Join(w.root, w.name+topologySuffix)
}

// HasTopology reports whether a rendered topology exists on disk.
func (w *Workspace) HasTopology() bool {
	_, err := os.Stat(w.TopologyPath())
	return err == nil
}

// StartupConfigPath returns a device's config path relative to the topology
// file, the form containerlab expects inside node definitions. The result
// always uses forward slashes.
func (w *Workspace) StartupConfigPath(device string) string {
	return path.Join(nodesDirName, configsDirName, device+configSuffix)
}

// WriteConfig stores a device's running config.
func (w *Workspace) WriteConfig(device, config string) error {
	return w.writeNodeFile(w.configDir(), device, configSuffix, config)
}

// WriteIdentity stores a device's identity record.
func (w *Workspace) WriteIdentity(device, identity string) error {
	return w.writeNodeFile(w.identityDir(), device, identitySuffix, identity)
}

// WriteTopology stores the rendered topology definition and returns its path.
func (w *Workspace) WriteTopology(data []byte) (string, error) {
	topologyPath := w.TopologyPath()
	if err := os.WriteFile(topologyPath, data, 0600); err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeInternal, "failed to write topology file", err, map[string]any{
			"path": topologyPath,
		})
	}

	slog.Debug("topology written",
		slog.String("path", topologyPath),
		slog.Int("size_bytes", len(data)),
	)

	return topologyPath, nil
}

// Remove deletes the workspace directory and everything in it.
func (w *Workspace) Remove() error {
	if err := os.RemoveAll(w.root); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInternal, "failed to remove workspace", err, map[string]any{
			"root": w.root,
		})
	}

	slog.Debug("workspace removed", slog.String("root", w.root))

	return nil
}

func (w *Workspace) configDir() string {
	return filepath.Join(w.root, nodesDirName, configsDirName)
}

func (w *Workspace) identityDir() string {
	return filepath.Join(w.root, nodesDirName, identityDirName)
}

// writeNodeFile writes one per-device artifact. Device names become file
// names, so anything that could escape the workspace is rejected.
func (w *Workspace) writeNodeFile(dir, device, suffix, content string) error {
	if device == "" || strings.ContainsAny(device, `/\`) {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "invalid device name for artifact file", map[string]any{
			"device": device,
		})
	}

	artifactPath := filepath.Join(dir, device+suffix)
	if err := os.WriteFile(artifactPath, []byte(content), 0600); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInternal, "failed to write artifact", err, map[string]any{
			"path": artifactPath,
		})
	}

	slog.Debug("artifact written",
		slog.String("path", artifactPath),
		slog.Int("size_bytes", len(content)),
	)

	return nil
}
