// Package cmd implements the command-line interface of dComm.
//
// The package is organized into several subpackages:
//
//   - serve: Runs a listener until SIGINT or SIGTERM
//   - client: Connector commands (send, bench)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set with an environment variable DCOMM_<FLAG>
// (e.g. DCOMM_TRANSPORT=unix), .env and .env.local are loaded on start.
//
// See dcomm -help for a list of all commands.
package cmd
