package snapshot

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu           sync.RWMutex
	byCollection map[string]*Snapshot
}

// NewMemoryRepository constructs an in-memory snapshot repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{byCollection: make(map[string]*Snapshot)}
}

func (m *memoryRepository) Create(_ context.Context, snap *Snapshot) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cloned := cloneSnapshot(snap)
	m.byCollection[cloned.Collection] = cloned
	return cloneSnapshot(cloned), nil
}

func (m *memoryRepository) Update(_ context.Context, snap *Snapshot) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byCollection[snap.Collection]; !ok {
		return nil, &NotFoundError{Collection: snap.Collection}
	}
	cloned := cloneSnapshot(snap)
	m.byCollection[cloned.Collection] = cloned
	return cloneSnapshot(cloned), nil
}

func (m *memoryRepository) GetByCollection(_ context.Context, collection string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.byCollection[collection]
	if !ok {
		return nil, &NotFoundError{Collection: collection}
	}
	return cloneSnapshot(record), nil
}
