package identity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"peerpass/internal/domain"
)

// newBareService returns a Service wired for ingestion only; the background
// loop and adapters are exercised in service_test.go.
func newBareService(t *testing.T) *Service {
	t.Helper()
	return &Service{
		log:     zap.NewNop(),
		metrics: NewMetrics(nil),
	}
}

func ident(key byte, username string) domain.Identity {
	return domain.Identity{
		PublicKey: domain.PublicKey{key, key, key},
		Username:  username,
		ShortID:   100 + uint16(key),
	}
}

func encode(t *testing.T, id domain.Identity) []byte {
	t.Helper()
	raw, err := json.Marshal(id)
	require.NoError(t, err)
	return raw
}

func TestIngest_OneEntryPerPublicKey(t *testing.T) {
	s := newBareService(t)

	a := ident(1, "alice")
	for i := 0; i < 5; i++ {
		a.Status = string(rune('a' + i)) // each delivery differs
		s.ingest(encode(t, a))
	}
	s.ingest(encode(t, ident(2, "bob")))

	cached := s.CachedIdentities()
	require.Len(t, cached, 2)
}

func TestIngest_FreshnessReplacesAndMovesToEnd(t *testing.T) {
	s := newBareService(t)

	a := ident(1, "alice")
	b := ident(2, "bob")
	s.ingest(encode(t, a))
	s.ingest(encode(t, b))

	renamed := a
	renamed.Username = "alicia"
	s.ingest(encode(t, renamed))

	cached := s.CachedIdentities()
	require.Len(t, cached, 2)
	require.Equal(t, "bob", cached[0].Username)
	require.Equal(t, "alicia", cached[1].Username)
}

func TestIngest_EchoOfSelfIsDiscarded(t *testing.T) {
	s := newBareService(t)
	self := ident(9, "me")
	s.setSelf(self)

	s.ingest(encode(t, self))
	require.Empty(t, s.CachedIdentities())

	// A different record from the same key is not an echo: our own persisted
	// state is authoritative for our key, but the cache only ever holds
	// remote peers, so this still lands in the cache.
	changed := self
	changed.Username = "imposter"
	s.ingest(encode(t, changed))
	require.Len(t, s.CachedIdentities(), 1)
}

func TestIngest_ExactRedeliveryIsIdempotent(t *testing.T) {
	s := newBareService(t)
	a := ident(1, "alice")

	s.ingest(encode(t, a))
	s.ingest(encode(t, a))

	require.Len(t, s.CachedIdentities(), 1)
}

func TestIngest_MalformedPayloadIsDropped(t *testing.T) {
	s := newBareService(t)

	s.ingest([]byte("not json"))
	s.ingest([]byte(`{"username":"keyless"}`)) // no public key
	s.ingest(nil)

	require.Empty(t, s.CachedIdentities())
}

func TestIngest_ReplacementScenario(t *testing.T) {
	s := newBareService(t)

	a := ident(1, "alice")
	b := ident(2, "bob")
	aPrime := a
	aPrime.Username = "alice-renamed"

	s.ingest(encode(t, a))
	s.ingest(encode(t, b))
	s.ingest(encode(t, aPrime))

	cached := s.CachedIdentities()
	require.Len(t, cached, 2)
	require.Equal(t, b.Username, cached[0].Username)
	require.Equal(t, aPrime.Username, cached[1].Username)

	got, err := s.Lookup(ByPublicKey(a.PublicKey))
	require.NoError(t, err)
	require.Equal(t, "alice-renamed", got.Username)
}

func TestLookup_SelfShadowsCache(t *testing.T) {
	s := newBareService(t)
	self := ident(9, "me")
	s.setSelf(self)

	peer := ident(1, "me") // same username, different key
	s.ingest(encode(t, peer))

	got, err := s.Lookup(ByUsername("me"))
	require.NoError(t, err)
	require.True(t, got.PublicKey.Equal(self.PublicKey))
}
