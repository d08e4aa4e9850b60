package vault

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"peerpass/internal/crypto"
)

const (
	// The current supported version of the encrypted blob format stored on disk.
	vaultFormatVersion = 1

	saltBytes = 16
)

var (
	// Returned when the passphrase is incorrect or the ciphertext has been
	// modified / corrupted.
	errWrongPassphrase = errors.New("wrong passphrase or corrupted vault")
)

// blob is the on-disk JSON structure holding the ciphertext and KDF parameters.
type blob struct {
	V       int    `json:"v"`
	Salt    []byte `json:"salt"`
	Time    uint32 `json:"argon_time"`
	Memory  uint32 `json:"argon_memory"`
	Threads uint8  `json:"argon_threads"`
	Nonce   []byte `json:"nonce"`
	Cipher  []byte `json:"cipher"`
}

// Tunables for argon2id key derivation.
func argonParamsDefault() (time, memory uint32, threads uint8) {
	return 1, 1 << 16, 8
}

// encrypt derives a key from passphrase and seals raw into a JSON blob.
func encrypt(passphrase, raw []byte) ([]byte, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	t, m, p := argonParamsDefault()
	key := argon2.IDKey(passphrase, salt, t, m, p, chacha20poly1305.KeySize)
	defer crypto.Wipe(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	ct := aead.Seal(nil, nonce, raw, salt)

	return json.Marshal(blob{
		V:       vaultFormatVersion,
		Salt:    salt,
		Time:    t,
		Memory:  m,
		Threads: p,
		Nonce:   nonce,
		Cipher:  ct,
	})
}

// decrypt opens the JSON blob using a key derived from passphrase.
func decrypt(passphrase, b []byte) ([]byte, error) {
	var bl blob
	if err := json.Unmarshal(b, &bl); err != nil {
		return nil, err
	}
	if bl.V > vaultFormatVersion {
		return nil, fmt.Errorf("unsupported vault version %d", bl.V)
	}

	key := argon2.IDKey(passphrase, bl.Salt, bl.Time, bl.Memory, bl.Threads, chacha20poly1305.KeySize)
	defer crypto.Wipe(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, bl.Nonce, bl.Cipher, bl.Salt)
	if err != nil {
		return nil, errWrongPassphrase
	}
	return pt, nil
}
