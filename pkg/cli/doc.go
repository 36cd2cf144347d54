// Package cli implements the command-line interface for the sitemirror tool.
//
// # Overview
//
// The sitemirror CLI mirrors live network sites into containerlab topologies.
// It is designed for network engineers who want a disposable, bootable copy
// of a production site for change rehearsal, tooling development, and
// failure drills.
//
// # Commands
//
// up - Mirror a site into a running lab:
//
//	sitemirror up --site DC1 [--skip-probe] [--skip-deploy] [--workers N]
//
// Resolves the site's devices from NetBox, harvests configs and LLDP
// neighbor data over SSH, synthesizes the cabling topology, renders a
// containerlab definition, and boots it. Unreachable devices are dropped
// from the run and reported in the summary.
//
// down - Destroy a mirrored lab:
//
//	sitemirror down --site DC1 [--dir DIR]
//
// Destroys the containerlab deployment for the site and removes its
// workspace.
//
// # Global Flags
//
//	--log-level    Logging verbosity: debug, info, warn, error (default: info)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Output Formats
//
// The up command reports a run summary in YAML (default), JSON, or table
// format, to stdout or a file chosen with --output.
//
// # Usage Examples
//
// Mirror a site end to end:
//
//	sitemirror up --site DC1 --netbox-url https://netbox.example.net \
//	  --netbox-token $NETBOX_TOKEN --username admin --password admin
//
// Render without deploying, then boot by hand:
//
//	sitemirror up --site DC1 --skip-deploy
//	containerlab deploy -t dc1/dc1.clab.yml
//
// Tear a site back down:
//
//	sitemirror down --site DC1
//
// # Environment Variables
//
//	SITEMIRROR_SITE       Default for --site
//	SITEMIRROR_IMAGE      Default for --image
//	SITEMIRROR_LOG_LEVEL  Default for --log-level
//	NETBOX_URL            Default for --netbox-url
//	NETBOX_TOKEN          Default for --netbox-token
//	DEVICE_USERNAME       Default for --username
//	DEVICE_PASSWORD       Default for --password
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, execution failure)
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized packages:
//   - pkg/mirror - Run orchestration
//   - pkg/inventory - NetBox site resolution
//   - pkg/poller - Concurrent device polling
//   - pkg/topology - Topology synthesis
//   - pkg/render - containerlab definition rendering
//   - pkg/lab - Workspace and lab lifecycle
//   - pkg/serializer - Output formatting
//   - pkg/logging - Structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/sitemirror/sitemirror/pkg/cli.version=1.0.0'"
package cli
