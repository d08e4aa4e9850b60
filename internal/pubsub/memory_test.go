package pubsub_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"peerpass/internal/domain"
	"peerpass/internal/pubsub"
)

func recv(t *testing.T, sub domain.Subscription) domain.Message {
	t.Helper()
	select {
	case msg := <-sub.Messages():
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return domain.Message{}
	}
}

func TestMemory_FansOutToAllSubscribers(t *testing.T) {
	ctx := context.Background()
	bus := pubsub.NewMemory(nil)

	a, err := bus.Subscribe(ctx, "topic")
	require.NoError(t, err)
	b, err := bus.Subscribe(ctx, "topic")
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, "topic", []byte("hi")))
	require.Equal(t, []byte("hi"), recv(t, a).Data)
	require.Equal(t, []byte("hi"), recv(t, b).Data)
}

func TestMemory_TopicsAreIsolated(t *testing.T) {
	ctx := context.Background()
	bus := pubsub.NewMemory(nil)

	other, err := bus.Subscribe(ctx, "other")
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, "topic", []byte("hi")))
	select {
	case msg := <-other.Messages():
		t.Fatalf("unexpected message on other topic: %q", msg.Data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemory_CancelClosesChannel(t *testing.T) {
	ctx := context.Background()
	bus := pubsub.NewMemory(nil)

	sub, err := bus.Subscribe(ctx, "topic")
	require.NoError(t, err)
	sub.Cancel()

	_, open := <-sub.Messages()
	require.False(t, open)

	// Publishing after cancel must not panic or deliver.
	require.NoError(t, bus.Publish(ctx, "topic", []byte("late")))
}

func TestMemory_PublishWithoutSubscribers_OK(t *testing.T) {
	bus := pubsub.NewMemory(nil)
	require.NoError(t, bus.Publish(context.Background(), "empty", []byte("x")))
	require.NoError(t, bus.Discover(context.Background(), "empty"))
}
