// Package cli wires together the Cobra command tree for the glint binary.
//
// It defines the root command and its subcommands (serve, version), binds
// flags, loads configuration, and assembles the provider orchestrator and
// HTTP server with graceful shutdown.
package cli
