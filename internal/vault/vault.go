package vault

import (
	"encoding/json"
	"errors"
	"os"
	"sync"

	"go.uber.org/zap"

	"peerpass/internal/crypto"
	"peerpass/internal/domain"
)

// Option configures a Vault.
type Option func(*Vault)

// WithAutosave writes the vault back to disk after every mutation.
func WithAutosave() Option {
	return func(v *Vault) { v.autosave = true }
}

// WithLogger attaches a logger. Defaults to zap.NewNop().
func WithLogger(log *zap.Logger) Option {
	return func(v *Vault) { v.log = log }
}

// Vault stores secrets in memory while unlocked and persists them as one
// encrypted file. All methods are concurrency-safe via internal locking.
type Vault struct {
	path     string
	autosave bool
	log      *zap.Logger

	mu         sync.Mutex
	unlocked   bool
	passphrase []byte
	secrets    map[string][]byte
}

// New returns a locked vault backed by the file at path. The file is only
// read on Unlock and may not exist yet.
func New(path string, opts ...Option) *Vault {
	v := &Vault{path: path, log: zap.NewNop()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Unlock decrypts the vault file with the passphrase, or initialises an
// empty vault when no file exists yet. Unlocking an unlocked vault is an
// error; callers must Lock first.
func (v *Vault) Unlock(passphrase string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.unlocked {
		return errors.New("vault already unlocked")
	}

	secrets := make(map[string][]byte)
	raw, err := os.ReadFile(v.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// First use; nothing on disk yet.
	case err != nil:
		return err
	default:
		pt, err := decrypt([]byte(passphrase), raw)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(pt, &secrets); err != nil {
			return err
		}
		crypto.Wipe(pt)
	}

	v.passphrase = []byte(passphrase)
	v.secrets = secrets
	v.unlocked = true
	v.log.Debug("vault unlocked", zap.String("path", v.path), zap.Int("secrets", len(secrets)))
	return nil
}

// Lock wipes the decrypted secrets and passphrase from memory. The on-disk
// state is whatever was last saved.
func (v *Vault) Lock() {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, val := range v.secrets {
		crypto.Wipe(val)
	}
	crypto.Wipe(v.passphrase)
	v.secrets = nil
	v.passphrase = nil
	v.unlocked = false
	v.log.Debug("vault locked", zap.String("path", v.path))
}

// IsUnlocked reports whether secrets are currently accessible.
func (v *Vault) IsUnlocked() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.unlocked
}

// Retrieve returns a copy of the secret stored under key.
func (v *Vault) Retrieve(key string) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.unlocked {
		return nil, domain.ErrVaultLocked
	}
	val, ok := v.secrets[key]
	if !ok {
		return nil, domain.ErrSecretNotFound
	}
	return append([]byte(nil), val...), nil
}

// Set stores a copy of value under key, replacing any previous value.
func (v *Vault) Set(key string, value []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.unlocked {
		return domain.ErrVaultLocked
	}
	v.secrets[key] = append([]byte(nil), value...)
	if v.autosave {
		return v.save()
	}
	return nil
}

// Delete removes the secret stored under key, if any.
func (v *Vault) Delete(key string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.unlocked {
		return domain.ErrVaultLocked
	}
	if val, ok := v.secrets[key]; ok {
		crypto.Wipe(val)
		delete(v.secrets, key)
	}
	if v.autosave {
		return v.save()
	}
	return nil
}

// Exists reports whether key holds a secret. A locked vault reports false.
func (v *Vault) Exists(key string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.unlocked {
		return false
	}
	_, ok := v.secrets[key]
	return ok
}

// Save encrypts the current secrets and writes them to the vault file.
func (v *Vault) Save() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.unlocked {
		return domain.ErrVaultLocked
	}
	return v.save()
}

// save assumes v.mu is held.
func (v *Vault) save() error {
	raw, err := json.Marshal(v.secrets)
	if err != nil {
		return err
	}
	defer crypto.Wipe(raw)

	sealed, err := encrypt(v.passphrase, raw)
	if err != nil {
		return err
	}
	return os.WriteFile(v.path, sealed, 0o600)
}

// Compile-time assertion that Vault implements domain.Vault.
var _ domain.Vault = (*Vault)(nil)
