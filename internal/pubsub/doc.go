// Package pubsub provides the topic-based publish/subscribe transports.
//
// Memory is an in-process broker for tests and single-process setups. Relay
// is a websocket client speaking a small JSON frame protocol to the relay
// server (Server here, served standalone by cmd/relay). Both implement
// domain.PubSub: fire-and-forget publish, channel-backed subscriptions, and
// a best-effort Discover.
package pubsub
