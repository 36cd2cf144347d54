/*
Copyright © 2026 the sitemirror authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/sitemirror/sitemirror/pkg/serializer"
)

// defaultNodeImage is the container image rendered nodes boot unless
// overridden with --image.
const defaultNodeImage = "ceos:4.32.0F"

// Flags shared across commands.
var (
	siteFlag = &cli.StringFlag{
		Name:     "site",
		Aliases:  []string{"s"},
		Required: true,
		Usage:    "Inventory site name",
		Sources:  cli.EnvVars("SITEMIRROR_SITE"),
	}

	dirFlag = &cli.StringFlag{
		Name:    "dir",
		Aliases: []string{"d"},
		Value:   ".",
		Usage:   "Base directory for lab workspaces",
	}

	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path for the run summary (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   string(serializer.FormatTable),
		Usage:   "Output format: table, yaml, or json",
	}
)

// parseOutputFormat validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	format := serializer.Format(cmd.String("format"))
	if format.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q (supported: %s)",
			cmd.String("format"), strings.Join(serializer.SupportedFormats(), ", "))
	}
	return format, nil
}
