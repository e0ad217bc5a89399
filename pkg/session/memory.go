package session

import (
	"context"
	"sync"

	"github.com/interomap/interomap/pkg/observability"
)

// MemoryStore is an in-memory session store for single-instance hosting,
// development, and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*State
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*State)}
}

// Get retrieves a session snapshot.
func (m *MemoryStore) Get(ctx context.Context, id string) (*State, error) {
	m.mu.RLock()
	st, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		observability.Store().OnMiss(ctx, "memory")
		return nil, nil
	}
	if st.IsExpired() {
		observability.Store().OnMiss(ctx, "memory")
		return nil, ErrExpired
	}
	observability.Store().OnHit(ctx, "memory")
	return st, nil
}

// Set stores a session snapshot.
func (m *MemoryStore) Set(ctx context.Context, st *State) error {
	m.mu.Lock()
	m.sessions[st.ID] = st
	m.mu.Unlock()
	observability.Store().OnSet(ctx, "memory", len(st.History))
	return nil
}

// Delete removes a session.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Cleanup removes expired sessions.
func (m *MemoryStore) Cleanup(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, st := range m.sessions {
		if st.IsExpired() {
			delete(m.sessions, id)
		}
	}
	return nil
}

// Close does nothing.
func (m *MemoryStore) Close() error {
	return nil
}

// Len returns the number of stored sessions, expired included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
