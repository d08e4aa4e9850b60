package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"

	"peerpass/internal/domain"
)

// KeypairTypeEd25519 is the only signing keypair kind this build supports.
const KeypairTypeEd25519 = "ed25519"

// storedKeypair is the JSON form a keypair takes inside the vault. The type
// tag lets a future build introduce other curves without breaking old vaults.
type storedKeypair struct {
	Type string `json:"type"`
	Key  string `json:"key"` // base58 of the ed25519 private key (seed ∥ public)
}

// GenerateKeypair returns a fresh ed25519 signing keypair.
func GenerateKeypair() (ed25519.PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return priv, nil
}

// EncodeKeypair serialises priv into the vault representation.
func EncodeKeypair(priv ed25519.PrivateKey) ([]byte, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, domain.ErrKeypairInvalid
	}
	return json.Marshal(storedKeypair{
		Type: KeypairTypeEd25519,
		Key:  base58.Encode(priv),
	})
}

// DecodeKeypair parses a vault-stored keypair.
//
// A payload that is not the stored form at all, or whose key material does
// not decode to a valid ed25519 private key, yields ErrKeypairInvalid. A
// well-formed payload of a different kind yields ErrKeypairUnsupported.
func DecodeKeypair(raw []byte) (ed25519.PrivateKey, error) {
	var sk storedKeypair
	if err := json.Unmarshal(raw, &sk); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrKeypairInvalid, err)
	}
	if sk.Type != KeypairTypeEd25519 {
		return nil, fmt.Errorf("%w: %q", domain.ErrKeypairUnsupported, sk.Type)
	}
	key, err := base58.Decode(sk.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrKeypairInvalid, err)
	}
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: got %d bytes", domain.ErrKeypairInvalid, len(key))
	}
	return ed25519.PrivateKey(key), nil
}

// PublicKeyOf derives the domain public key bound to priv.
func PublicKeyOf(priv ed25519.PrivateKey) domain.PublicKey {
	pub := priv.Public().(ed25519.PublicKey)
	out := make(domain.PublicKey, len(pub))
	copy(out, pub)
	return out
}
