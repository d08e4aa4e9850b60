package domain

import "context"

// Vault stores secret material keyed by string. Implementations must be
// unlocked with a passphrase before secrets can be read or written; a locked
// vault returns ErrVaultLocked and a missing key returns ErrSecretNotFound.
type Vault interface {
	Retrieve(key string) ([]byte, error)
	Set(key string, value []byte) error
	Exists(key string) bool
}

// BlockStore is a content-addressed store. Put derives the CID from the
// content itself; Get of an unknown id returns ErrBlockNotFound. Pin retains
// a block against garbage collection.
type BlockStore interface {
	Put(ctx context.Context, data []byte) (CID, error)
	Get(ctx context.Context, id CID) ([]byte, error)
	Pin(ctx context.Context, id CID) error
}

// Message is a single payload received from a pub/sub topic.
type Message struct {
	Topic string
	From  string
	Data  []byte
}

// Subscription yields messages received on a topic. The channel is closed
// when the subscription is cancelled or the transport shuts down.
type Subscription interface {
	Messages() <-chan Message
	Cancel()
}

// PubSub is a topic-based publish/subscribe transport. Publish is
// fire-and-forget: delivery is unacknowledged. Discover asks the transport
// to find other peers participating in a topic; it is best-effort.
type PubSub interface {
	Subscribe(ctx context.Context, topic string) (Subscription, error)
	Publish(ctx context.Context, topic string, data []byte) error
	Discover(ctx context.Context, topic string) error
}
