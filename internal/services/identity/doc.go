// Package identity implements the identity synchronization engine.
//
// A Service owns the local peer's self identity, keeps a cache of identities
// observed from other peers, and runs one background goroutine that both
// broadcasts the self identity on a pub/sub topic and ingests peer
// broadcasts into the cache. Foreground calls (CreateIdentity, Lookup,
// UpdateIdentity) never block the background loop.
//
// Broadcast payloads are neither signed nor sequenced: the cache applies
// last-writer-wins by arrival, so a peer that publishes last can overwrite
// another peer's cached record with stale or forged data. Integrators who
// need authenticity must verify payloads against the advertised public key
// before trusting a cached record.
package identity
