package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
)

// PublicKey is a peer's long-term public key. It is the sole equality key
// used for de-duplication and replacement across the network.
type PublicKey []byte

// String returns the base58 form of the key.
func (k PublicKey) String() string { return base58.Encode(k) }

// Equal reports whether two keys hold the same bytes.
func (k PublicKey) Equal(other PublicKey) bool { return bytes.Equal(k, other) }

// IsZero reports whether the key is empty.
func (k PublicKey) IsZero() bool { return len(k) == 0 }

// MarshalJSON encodes the key as a base58 string.
func (k PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(base58.Encode(k))
}

// UnmarshalJSON decodes a base58 string into the key.
func (k *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("public key: %w", err)
	}
	*k = raw
	return nil
}

// ParsePublicKey decodes a base58-encoded public key.
func ParsePublicKey(s string) (PublicKey, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	return PublicKey(raw), nil
}

// CID identifies a block in the content-addressed store. It is the base58
// form of the sha256 digest of the block's content.
type CID string

// String returns the string form of the content id.
func (c CID) String() string { return string(c) }
