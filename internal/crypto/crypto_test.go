package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"peerpass/internal/crypto"
	"peerpass/internal/domain"
)

func TestKeypair_EncodeDecode_RoundTrip(t *testing.T) {
	priv, err := crypto.GenerateKeypair()
	require.NoError(t, err)

	raw, err := crypto.EncodeKeypair(priv)
	require.NoError(t, err)

	got, err := crypto.DecodeKeypair(raw)
	require.NoError(t, err)
	require.Equal(t, priv, got)
	require.True(t, crypto.PublicKeyOf(priv).Equal(crypto.PublicKeyOf(got)))
}

func TestDecodeKeypair_UnsupportedType(t *testing.T) {
	_, err := crypto.DecodeKeypair([]byte(`{"type":"secp256k1","key":"3vQB7B"}`))
	require.ErrorIs(t, err, domain.ErrKeypairUnsupported)
}

func TestDecodeKeypair_Invalid(t *testing.T) {
	_, err := crypto.DecodeKeypair([]byte("not a keypair"))
	require.ErrorIs(t, err, domain.ErrKeypairInvalid)

	// Right shape, wrong key length.
	_, err = crypto.DecodeKeypair([]byte(`{"type":"ed25519","key":"3vQB7B"}`))
	require.ErrorIs(t, err, domain.ErrKeypairInvalid)
}

func TestFingerprint_IsShortAndStable(t *testing.T) {
	a := crypto.Fingerprint([]byte("public key bytes"))
	b := crypto.Fingerprint([]byte("public key bytes"))
	require.Equal(t, a, b)
	require.Len(t, a, 20)

	require.NotEqual(t, a, crypto.Fingerprint([]byte("other key")))
}

func TestWipe_ZeroesBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	crypto.Wipe(buf)
	require.Equal(t, []byte{0, 0, 0, 0}, buf)
}
