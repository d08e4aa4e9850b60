package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"peerpass/internal/domain"
)

func TestIdentity_EqualityIsByValue(t *testing.T) {
	a := domain.Identity{
		PublicKey: domain.PublicKey{1, 2, 3},
		Username:  "alice",
		ShortID:   421,
	}
	same := a
	require.True(t, a.Equal(same))

	renamed := a
	renamed.Username = "alicia"
	require.False(t, a.Equal(renamed))
	require.True(t, a.SameKey(renamed))

	other := a
	other.PublicKey = domain.PublicKey{9, 9, 9}
	require.False(t, a.SameKey(other))
}

func TestIdentity_DisplayName(t *testing.T) {
	id := domain.Identity{Username: "alice", ShortID: 42}
	require.Equal(t, "alice#0042", id.DisplayName())
}

func TestIdentity_WireFormat(t *testing.T) {
	id := domain.Identity{
		PublicKey: domain.PublicKey{1, 2, 3},
		Username:  "alice",
		ShortID:   421,
	}
	raw, err := json.Marshal(id)
	require.NoError(t, err)

	var got domain.Identity
	require.NoError(t, json.Unmarshal(raw, &got))
	require.True(t, id.Equal(got))
}

func TestPublicKey_ParseRejectsGarbage(t *testing.T) {
	_, err := domain.ParsePublicKey("not!base58!")
	require.Error(t, err)

	pk, err := domain.ParsePublicKey(domain.PublicKey{1, 2, 3}.String())
	require.NoError(t, err)
	require.True(t, pk.Equal(domain.PublicKey{1, 2, 3}))
}
