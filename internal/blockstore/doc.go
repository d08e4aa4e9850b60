// Package blockstore provides content-addressed block storage.
//
// Blocks are keyed by the base58-encoded SHA-256 of their content. The file
// store keeps one file per block plus a JSON pin set; the memory store
// mirrors the same semantics for tests and single-process use. Neither store
// garbage-collects, but the pin set marks blocks a future collector must
// keep.
package blockstore
