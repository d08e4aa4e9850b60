package blockstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"peerpass/internal/domain"
)

const pinsFile = "pins.json" // map[CID]bool

// File stores blocks on disk, one file per block named by content id.
type File struct {
	dir string
	mu  sync.Mutex
}

// NewFile returns a block store rooted at dir, creating it if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &File{dir: dir}, nil
}

// Put stores data and returns its content id. Existing blocks are left as-is;
// content addressing makes the write idempotent.
func (s *File) Put(_ context.Context, data []byte) (domain.CID, error) {
	id := Sum(data)
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.blockPath(id)
	if _, err := os.Stat(path); err == nil {
		return id, nil
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return id, nil
}

// Get returns the block stored under id.
func (s *File) Get(_ context.Context, id domain.CID) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.blockPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrBlockNotFound
	}
	return data, err
}

// Pin marks id as retained. Pinning an unknown id is an error.
func (s *File) Pin(_ context.Context, id domain.CID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.blockPath(id)); errors.Is(err, os.ErrNotExist) {
		return domain.ErrBlockNotFound
	} else if err != nil {
		return err
	}

	pins := make(map[domain.CID]bool)
	if err := readJSON(filepath.Join(s.dir, pinsFile), &pins); err != nil {
		return err
	}
	pins[id] = true
	return writeJSON(filepath.Join(s.dir, pinsFile), pins, 0o600)
}

// Unpin releases a previous pin. Unpinning an unpinned id is a no-op.
func (s *File) Unpin(_ context.Context, id domain.CID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pins := make(map[domain.CID]bool)
	if err := readJSON(filepath.Join(s.dir, pinsFile), &pins); err != nil {
		return err
	}
	delete(pins, id)
	return writeJSON(filepath.Join(s.dir, pinsFile), pins, 0o600)
}

// IsPinned reports whether id is currently pinned.
func (s *File) IsPinned(id domain.CID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pins := make(map[domain.CID]bool)
	if err := readJSON(filepath.Join(s.dir, pinsFile), &pins); err != nil {
		return false
	}
	return pins[id]
}

func (s *File) blockPath(id domain.CID) string {
	return filepath.Join(s.dir, id.String()+".block")
}

// ---------- helpers ----------

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

func writeJSON(path string, v any, mode os.FileMode) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, mode)
}

// Compile-time assertion that File implements domain.BlockStore.
var _ domain.BlockStore = (*File)(nil)
