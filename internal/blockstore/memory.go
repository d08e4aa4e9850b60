package blockstore

import (
	"context"
	"sync"

	"peerpass/internal/domain"
)

// Memory is an in-process block store.
type Memory struct {
	mu     sync.RWMutex
	blocks map[domain.CID][]byte
	pins   map[domain.CID]struct{}
}

// NewMemory returns an empty in-memory block store.
func NewMemory() *Memory {
	return &Memory{
		blocks: make(map[domain.CID][]byte),
		pins:   make(map[domain.CID]struct{}),
	}
}

// Put stores data and returns its content id. Storing the same content twice
// is a no-op yielding the same id.
func (m *Memory) Put(_ context.Context, data []byte) (domain.CID, error) {
	id := Sum(data)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blocks[id]; !ok {
		m.blocks[id] = append([]byte(nil), data...)
	}
	return id, nil
}

// Get returns a copy of the block stored under id.
func (m *Memory) Get(_ context.Context, id domain.CID) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blocks[id]
	if !ok {
		return nil, domain.ErrBlockNotFound
	}
	return append([]byte(nil), data...), nil
}

// Pin marks id as retained. Pinning an unknown id is an error.
func (m *Memory) Pin(_ context.Context, id domain.CID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blocks[id]; !ok {
		return domain.ErrBlockNotFound
	}
	m.pins[id] = struct{}{}
	return nil
}

// Unpin releases a previous pin. Unpinning an unpinned id is a no-op.
func (m *Memory) Unpin(_ context.Context, id domain.CID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pins, id)
	return nil
}

// IsPinned reports whether id is currently pinned.
func (m *Memory) IsPinned(id domain.CID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.pins[id]
	return ok
}

// Compile-time assertion that Memory implements domain.BlockStore.
var _ domain.BlockStore = (*Memory)(nil)
