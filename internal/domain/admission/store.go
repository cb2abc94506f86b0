package admission

import (
	"context"
	"sync"
	"time"
)

// Store holds the last accepted submission time per source identity. It is
// injectable so the in-memory default can be swapped for a persistent or
// distributed backend without touching pipeline logic.
type Store interface {
	// LastAccepted returns the identity's last accepted submission time,
	// or false if the identity has never been accepted.
	LastAccepted(ctx context.Context, identity string) (time.Time, bool)

	// Reserve records t as the identity's last accepted submission time.
	Reserve(ctx context.Context, identity string, t time.Time)
}

// memoryStore is the default Store: a mutex-guarded map. State lives only in
// process memory; a restart resets every window, which is acceptable for this
// limiter.
type memoryStore struct {
	mu   sync.RWMutex
	last map[string]time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() Store {
	return &memoryStore{last: make(map[string]time.Time)}
}

func (s *memoryStore) LastAccepted(_ context.Context, identity string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.last[identity]
	return t, ok
}

func (s *memoryStore) Reserve(_ context.Context, identity string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[identity] = t
}
