// Package commands implements the peerpass CLI: vault initialisation,
// identity creation, lookups against the synced view, and the long-running
// sync daemon.
package commands
