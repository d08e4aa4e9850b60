// Package crypto wraps the keypair handling used by peerpass: ed25519
// generation, the typed vault encoding of keypairs, and small helpers for
// presenting public keys to users.
package crypto
