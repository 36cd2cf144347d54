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
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"

	"github.com/sitemirror/sitemirror/pkg/defaults"
	"github.com/sitemirror/sitemirror/pkg/device"
	"github.com/sitemirror/sitemirror/pkg/inventory"
	"github.com/sitemirror/sitemirror/pkg/lab"
	"github.com/sitemirror/sitemirror/pkg/mirror"
	"github.com/sitemirror/sitemirror/pkg/serializer"
	"github.com/sitemirror/sitemirror/pkg/topology"
)

// upCmdOptions holds parsed options for the up command.
type upCmdOptions struct {
	site          string
	netboxURL     string
	netboxToken   string
	insecureTLS   bool
	username      string
	password      string
	workers       int
	skipProbe     bool
	skipDeploy    bool
	baseDir       string
	convention    topology.Convention
	image         string
	sshTimeout    time.Duration
	deployTimeout time.Duration
	output        string
	format        serializer.Format
}

// parseUpCmdOptions parses and validates command options.
func parseUpCmdOptions(cmd *cli.Command) (*upCmdOptions, error) {
	opts := &upCmdOptions{
		site:          cmd.String("site"),
		netboxURL:     cmd.String("netbox-url"),
		netboxToken:   cmd.String("netbox-token"),
		insecureTLS:   cmd.Bool("insecure-tls"),
		username:      cmd.String("username"),
		password:      cmd.String("password"),
		workers:       int(cmd.Int("workers")),
		skipProbe:     cmd.Bool("skip-probe"),
		skipDeploy:    cmd.Bool("skip-deploy"),
		baseDir:       cmd.String("dir"),
		image:         cmd.String("image"),
		sshTimeout:    cmd.Duration("ssh-timeout"),
		deployTimeout: cmd.Duration("deploy-timeout"),
		output:        cmd.String("output"),
	}

	format, err := parseOutputFormat(cmd)
	if err != nil {
		return nil, err
	}
	opts.format = format

	opts.convention = topology.ParseConvention(cmd.String("convention"))
	if opts.convention.IsUnknown() {
		return nil, fmt.Errorf("unknown convention: %q (supported: %s)",
			cmd.String("convention"), strings.Join(topology.SupportedConventions(), ", "))
	}

	if strings.TrimSpace(opts.netboxURL) == "" {
		return nil, fmt.Errorf("--netbox-url (or NETBOX_URL) is required")
	}
	if opts.username == "" || opts.password == "" {
		return nil, fmt.Errorf("device credentials are required (--username/--password or DEVICE_USERNAME/DEVICE_PASSWORD)")
	}
	if opts.workers < 1 {
		return nil, fmt.Errorf("--workers must be at least 1, got %d", opts.workers)
	}

	return opts, nil
}

func upCmd() *cli.Command {
	return &cli.Command{
		Name:                  "up",
		EnableShellCompletion: true,
		Usage:                 "Mirror a site into a running containerlab topology",
		Description: `Mirrors a live site into a containerlab topology:

  1. Resolve the site's devices from NetBox (active Arista devices whose
     role is on the allow-list)
  2. Probe each device's management address over SSH
  3. Harvest running configs and identity records
  4. Collect LLDP neighbor tables
  5. Synthesize the cabling topology and render <site>.clab.yml
  6. Deploy the lab with containerlab

Devices that cannot be reached are dropped from the run and reported in
the summary; the lab is built from the devices that answered.

# Workspace Layout

  <dir>/<site>/
    <site>.clab.yml           rendered topology
    nodes/configs/<dev>.cfg   harvested startup configs
    nodes/sn/<dev>.txt        harvested identity records

# Examples

Mirror a site and deploy it:
  sitemirror up --site DC1 --netbox-url https://netbox.example.net \
    --netbox-token $NETBOX_TOKEN --username admin --password admin

Render the topology without booting the lab:
  sitemirror up --site DC1 --skip-deploy

Skip the reachability pre-pass and widen the polling pool:
  sitemirror up --site DC1 --skip-probe --workers 20

Mirror onto real hardware interface names:
  sitemirror up --site DC1 --convention hardware --image ceos:4.32.0F

Write the run summary to a file as JSON:
  sitemirror up --site DC1 --output run.json --format json`,
		Flags: []cli.Flag{
			siteFlag,
			&cli.StringFlag{
				Name:    "netbox-url",
				Usage:   "NetBox API base URL",
				Sources: cli.EnvVars("NETBOX_URL"),
			},
			&cli.StringFlag{
				Name:    "netbox-token",
				Usage:   "NetBox API token",
				Sources: cli.EnvVars("NETBOX_TOKEN"),
			},
			&cli.BoolFlag{
				Name:  "insecure-tls",
				Usage: "Skip TLS certificate verification for the NetBox API",
			},
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "SSH username for device polling",
				Sources: cli.EnvVars("DEVICE_USERNAME"),
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "SSH password for device polling",
				Sources: cli.EnvVars("DEVICE_PASSWORD"),
			},
			&cli.IntFlag{
				Name:  "workers",
				Value: defaults.PollerWorkers,
				Usage: "Concurrent device polling sessions",
			},
			&cli.BoolFlag{
				Name:  "skip-probe",
				Usage: "Skip the reachability pre-pass and go straight to harvesting",
			},
			&cli.BoolFlag{
				Name:  "skip-deploy",
				Usage: "Render the topology without booting the lab",
			},
			dirFlag,
			&cli.StringFlag{
				Name:  "convention",
				Value: string(topology.ConventionCEOS),
				Usage: "Interface naming convention for rendered nodes: ceos or hardware",
			},
			&cli.StringFlag{
				Name:    "image",
				Value:   defaultNodeImage,
				Usage:   "Container image for rendered nodes",
				Sources: cli.EnvVars("SITEMIRROR_IMAGE"),
			},
			&cli.DurationFlag{
				Name:  "ssh-timeout",
				Value: defaults.SessionDialTimeout,
				Usage: "Timeout for establishing a device SSH session",
			},
			&cli.DurationFlag{
				Name:  "deploy-timeout",
				Value: defaults.LabDeployTimeout,
				Usage: "Timeout handed to containerlab deploy",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := parseUpCmdOptions(cmd)
			if err != nil {
				return err
			}

			slog.Info("mirroring site",
				slog.String("site", opts.site),
				slog.String("netbox", opts.netboxURL),
				slog.Int("workers", opts.workers),
				slog.Bool("skip_probe", opts.skipProbe),
				slog.Bool("skip_deploy", opts.skipDeploy),
			)

			directory := inventory.NewNetBox(opts.netboxURL, opts.netboxToken,
				inventory.WithInsecureTLS(opts.insecureTLS),
			)

			dialer := device.NewSSHDialer(
				device.Credentials{Username: opts.username, Password: opts.password},
				device.WithDialTimeout(opts.sshTimeout),
				device.WithDialRate(rate.Limit(defaults.DialRatePerSecond), opts.workers),
			)

			m := &mirror.Mirror{
				Site:       opts.site,
				Directory:  directory,
				Dialer:     dialer,
				Runner:     &lab.Runner{DeployTimeout: opts.deployTimeout},
				BaseDir:    opts.baseDir,
				Convention: opts.convention,
				Image:      opts.image,
				Workers:    opts.workers,
				SkipProbe:  opts.skipProbe,
				SkipDeploy: opts.skipDeploy,
			}

			summary, runErr := m.Up(ctx)

			// The summary is reported even when the run failed partway.
			if summary != nil {
				out := serializer.NewFileWriterOrStdout(opts.format, opts.output)
				if serr := out.Serialize(ctx, summary); serr != nil {
					slog.Error("failed to serialize summary", slog.String("error", serr.Error()))
					if runErr == nil {
						runErr = serr
					}
				}
				if closer, ok := out.(serializer.Closer); ok {
					_ = closer.Close()
				}
			}

			if runErr != nil {
				slog.Error("site mirror failed", slog.String("error", runErr.Error()))
				return runErr
			}

			printUpNextSteps(summary)
			return nil
		},
	}
}

// printUpNextSteps prints user-friendly follow-up commands.
func printUpNextSteps(summary *mirror.Summary) {
	if summary == nil {
		return
	}

	if summary.Deployed {
		fmt.Printf("\nLab for site %s is up.\n", summary.Site)
		fmt.Printf("Nodes: %d (unreachable: %d), links: %d\n",
			summary.Reachable, len(summary.Unreachable), summary.Links)
		fmt.Printf("\nTo inspect:\n  containerlab inspect -t %s\n", summary.TopologyPath)
		fmt.Printf("\nTo tear down:\n  %s down --site %s\n", name, summary.Site)
		return
	}

	fmt.Printf("\nTopology rendered to %s (deploy skipped).\n", summary.TopologyPath)
	fmt.Printf("\nTo deploy manually:\n  containerlab deploy -t %s\n", summary.TopologyPath)
}
