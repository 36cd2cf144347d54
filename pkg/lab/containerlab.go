package lab

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/sitemirror/sitemirror/pkg/defaults"
	"github.com/sitemirror/sitemirror/pkg/errors"
)

// ToolName is the binary that boots and tears down emulated labs.
const ToolName = "containerlab"

// Runner shells out to containerlab for lab lifecycle operations.
//
// The zero value is usable and runs the containerlab binary found in PATH
// with the default deploy timeout.
type Runner struct {
	// Tool overrides the binary name or path. Empty means ToolName.
	Tool string

	// DeployTimeout is handed to containerlab's deploy --timeout flag.
	// Zero means defaults.LabDeployTimeout.
	DeployTimeout time.Duration

	// Test seams. Nil means exec.LookPath and a real subprocess.
	lookPath   func(file string) (string, error)
	runCommand func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Deploy boots the lab described by the topology file and returns the
// inspect output for the freshly deployed lab.
func (r *Runner) Deploy(ctx context.Context, topologyPath string) ([]byte, error) {
	timeout := r.DeployTimeout
	if timeout <= 0 {
		timeout = defaults.LabDeployTimeout
	}

	if _, err := r.run(ctx, "deploy", "-t", topologyPath, "--timeout", timeout.String()); err != nil {
		return nil, err
	}

	return r.Inspect(ctx, topologyPath)
}

// Inspect reports the state of a deployed lab.
func (r *Runner) Inspect(ctx context.Context, topologyPath string) ([]byte, error) {
	return r.run(ctx, "inspect", "-t", topologyPath)
}

// Destroy tears down the lab and its container artifacts.
func (r *Runner) Destroy(ctx context.Context, topologyPath string) error {
	_, err := r.run(ctx, "destroy", "-t", topologyPath, "--cleanup")
	return err
}

func (r *Runner) tool() string {
	if r.Tool != "" {
		return r.Tool
	}
	return ToolName
}

func (r *Runner) run(ctx context.Context, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "lab operation canceled", err)
	}

	lookPath := r.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	toolPath, err := lookPath(r.tool())
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeToolingMissing, "lab tool not found in PATH", err, map[string]any{
			"tool": r.tool(),
		})
	}

	slog.Debug("running lab tool",
		slog.String("tool", toolPath),
		slog.String("args", strings.Join(args, " ")),
	)

	runCommand := r.runCommand
	if runCommand == nil {
		runCommand = runCombined
	}

	start := time.Now()

	output, err := runCommand(ctx, toolPath, args...)
	if err != nil {
		return output, errors.WrapWithContext(errors.ErrCodeToolingFailed, "lab tool failed", err, map[string]any{
			"tool":   r.tool(),
			"args":   strings.Join(args, " "),
			"output": strings.TrimSpace(string(output)),
		})
	}

	slog.Debug("lab tool finished",
		slog.String("args", strings.Join(args, " ")),
		slog.Duration("duration", time.Since(start)),
	)

	return output, nil
}

func runCombined(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}
