package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore implements Store with an in-memory map. State is lost on
// process exit.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]*WorkloadState
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[string]*WorkloadState),
	}
}

// Save inserts or updates a workload state.
func (m *MemoryStore) Save(ctx context.Context, state *WorkloadState) error {
	if state == nil || state.ID == "" {
		return errInvalidState
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	saved := *state
	saved.UpdatedAt = time.Now().UTC()
	m.states[saved.ID] = &saved
	return nil
}

// Load retrieves a workload state by ID. Returns nil if not found.
func (m *MemoryStore) Load(ctx context.Context, id string) (*WorkloadState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.states[id]
	if !ok {
		return nil, nil
	}
	copied := *state
	return &copied, nil
}

// List returns all persisted workload states ordered by creation time.
func (m *MemoryStore) List(ctx context.Context) ([]*WorkloadState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	states := make([]*WorkloadState, 0, len(m.states))
	for _, state := range m.states {
		copied := *state
		states = append(states, &copied)
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].CreatedAt.Before(states[j].CreatedAt)
	})
	return states, nil
}

// Delete removes a workload state.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.states, id)
	return nil
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() error {
	return nil
}
