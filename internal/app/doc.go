// Package app loads runtime configuration and wires the vault, block store,
// pub/sub transport, and identity engine into one application context for
// the CLI.
package app
