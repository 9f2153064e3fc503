// Package main hosts the Beacon CLI entrypoint and command graph.
//
// The Cobra-based command tree records action progress into the state
// database, lists and clears tracked actions, runs the watch loop that turns
// transitions into notifications, and scaffolds configuration. Configuration
// is resolved lazily so commands such as `config init` work before a config
// file exists.
package main
