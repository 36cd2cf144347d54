/*
Copyright © 2026 the sitemirror authors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/sitemirror/sitemirror/pkg/mirror"
)

// downCmdOptions holds parsed options for the down command.
type downCmdOptions struct {
	site      string
	baseDir   string
	keepFiles bool
}

// parseDownCmdOptions parses and validates command options.
func parseDownCmdOptions(cmd *cli.Command) (*downCmdOptions, error) {
	opts := &downCmdOptions{
		site:      cmd.String("site"),
		baseDir:   cmd.String("dir"),
		keepFiles: cmd.Bool("keep-files"),
	}

	if strings.TrimSpace(opts.site) == "" {
		return nil, fmt.Errorf("--site (or SITEMIRROR_SITE) is required")
	}

	return opts, nil
}

func downCmd() *cli.Command {
	return &cli.Command{
		Name:                  "down",
		EnableShellCompletion: true,
		Usage:                 "Destroy a mirrored site's lab and remove its workspace",
		Description: `Destroys the containerlab deployment for a previously mirrored site and
removes the site workspace, including harvested configs and identity
records.

The workspace is left in place if the teardown fails, so the command can
be retried.

# Examples

Tear down a mirrored site:
  sitemirror down --site DC1

Tear down a lab whose workspace lives outside the current directory:
  sitemirror down --site DC1 --dir /var/lib/sitemirror

Destroy the lab but keep the harvested files:
  sitemirror down --site DC1 --keep-files`,
		Flags: []cli.Flag{
			siteFlag,
			dirFlag,
			&cli.BoolFlag{
				Name:  "keep-files",
				Usage: "Keep the site workspace on disk after the lab is destroyed",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := parseDownCmdOptions(cmd)
			if err != nil {
				return err
			}

			slog.Info("tearing down site lab",
				slog.String("site", opts.site),
				slog.String("dir", opts.baseDir),
			)

			m := &mirror.Mirror{
				Site:      opts.site,
				BaseDir:   opts.baseDir,
				KeepFiles: opts.keepFiles,
			}

			if err := m.Down(ctx); err != nil {
				slog.Error("teardown failed", slog.String("error", err.Error()))
				return err
			}

			if opts.keepFiles {
				fmt.Printf("Lab for site %s destroyed; workspace kept.\n", opts.site)
			} else {
				fmt.Printf("Lab for site %s destroyed and workspace removed.\n", opts.site)
			}
			return nil
		},
	}
}
