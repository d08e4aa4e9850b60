package pubsub_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"peerpass/internal/domain"
	"peerpass/internal/pubsub"
)

func newRelayPair(t *testing.T) (*pubsub.Relay, *pubsub.Relay) {
	t.Helper()
	log := zaptest.NewLogger(t)

	srv := httptest.NewServer(pubsub.NewServer(log))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	a, err := pubsub.Dial(ctx, srv.URL, log) // http:// form is rewritten to ws://
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	b, err := pubsub.Dial(ctx, srv.URL, log)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	return a, b
}

func TestRelay_PublishReachesOtherPeers(t *testing.T) {
	ctx := context.Background()
	a, b := newRelayPair(t)

	subB, err := b.Subscribe(ctx, "identity")
	require.NoError(t, err)

	// The sub frame travels asynchronously; republish until it lands.
	var got domain.Message
	require.Eventually(t, func() bool {
		if err := a.Publish(ctx, "identity", []byte("record")); err != nil {
			return false
		}
		select {
		case got = <-subB.Messages():
			return true
		default:
			return false
		}
	}, 2*time.Second, 50*time.Millisecond)

	require.Equal(t, "identity", got.Topic)
	require.Equal(t, []byte("record"), got.Data)
	require.NotEmpty(t, got.From)
}

func TestRelay_ServerDoesNotEchoToSender(t *testing.T) {
	ctx := context.Background()
	a, b := newRelayPair(t)

	subA, err := a.Subscribe(ctx, "identity")
	require.NoError(t, err)
	subB, err := b.Subscribe(ctx, "identity")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		if err := a.Publish(ctx, "identity", []byte("record")); err != nil {
			return false
		}
		select {
		case <-subB.Messages():
			return true
		default:
			return false
		}
	}, 2*time.Second, 50*time.Millisecond)

	select {
	case msg := <-subA.Messages():
		t.Fatalf("sender received its own frame: %q", msg.Data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRelay_CancelUnsubscribes(t *testing.T) {
	ctx := context.Background()
	_, b := newRelayPair(t)

	sub, err := b.Subscribe(ctx, "identity")
	require.NoError(t, err)
	sub.Cancel()

	_, open := <-sub.Messages()
	require.False(t, open)
}

func TestRelay_DiscoverIsBestEffort(t *testing.T) {
	ctx := context.Background()
	a, _ := newRelayPair(t)
	require.NoError(t, a.Discover(ctx, "identity"))
}

func TestRelay_RejectsUnknownScheme(t *testing.T) {
	_, err := pubsub.Dial(context.Background(), "ftp://relay", nil)
	require.Error(t, err)
}
