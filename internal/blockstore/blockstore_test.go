package blockstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"peerpass/internal/blockstore"
	"peerpass/internal/domain"
)

func TestFile_PutGet_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := blockstore.NewFile(t.TempDir())
	require.NoError(t, err)

	id, err := s.Put(ctx, []byte("hello"))
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)
}

func TestFile_PutIsContentAddressed(t *testing.T) {
	ctx := context.Background()
	s, err := blockstore.NewFile(t.TempDir())
	require.NoError(t, err)

	a, err := s.Put(ctx, []byte("same bytes"))
	require.NoError(t, err)
	b, err := s.Put(ctx, []byte("same bytes"))
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := s.Put(ctx, []byte("other bytes"))
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}

func TestFile_GetUnknown_NotFound(t *testing.T) {
	s, err := blockstore.NewFile(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get(context.Background(), domain.CID("missing"))
	require.ErrorIs(t, err, domain.ErrBlockNotFound)
}

func TestFile_PinSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := blockstore.NewFile(dir)
	require.NoError(t, err)
	id, err := s.Put(ctx, []byte("pinned"))
	require.NoError(t, err)
	require.NoError(t, s.Pin(ctx, id))

	reopened, err := blockstore.NewFile(dir)
	require.NoError(t, err)
	require.True(t, reopened.IsPinned(id))

	got, err := reopened.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []byte("pinned"), got)
}

func TestFile_PinUnknown_Errors(t *testing.T) {
	s, err := blockstore.NewFile(t.TempDir())
	require.NoError(t, err)
	require.ErrorIs(t, s.Pin(context.Background(), domain.CID("missing")), domain.ErrBlockNotFound)
}

func TestFile_Unpin_IsForgiving(t *testing.T) {
	ctx := context.Background()
	s, err := blockstore.NewFile(t.TempDir())
	require.NoError(t, err)

	id, err := s.Put(ctx, []byte("x"))
	require.NoError(t, err)
	require.NoError(t, s.Pin(ctx, id))
	require.NoError(t, s.Unpin(ctx, id))
	require.False(t, s.IsPinned(id))
	require.NoError(t, s.Unpin(ctx, id)) // already unpinned
}

func TestMemory_MirrorsFileSemantics(t *testing.T) {
	ctx := context.Background()
	s := blockstore.NewMemory()

	id, err := s.Put(ctx, []byte("hello"))
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)

	_, err = s.Get(ctx, domain.CID("missing"))
	require.ErrorIs(t, err, domain.ErrBlockNotFound)

	require.ErrorIs(t, s.Pin(ctx, domain.CID("missing")), domain.ErrBlockNotFound)
	require.NoError(t, s.Pin(ctx, id))
	require.True(t, s.IsPinned(id))
}
