package targets

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests and ephemeral runs.
type MemoryStore struct {
	mu     sync.RWMutex
	stored *Targets
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored record or Defaults when nothing was saved yet.
func (m *MemoryStore) Load(ctx context.Context) (Targets, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.stored == nil {
		return Defaults(), nil
	}
	return *m.stored, nil
}

// Save replaces the stored record.
func (m *MemoryStore) Save(ctx context.Context, t Targets) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := t
	m.stored = &copied
	return nil
}
