package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory snapshot store for tests and ephemeral
// use. Snapshots are copied on Save and Get so callers cannot mutate
// stored state.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]Snapshot)}
}

// Save stores a copy of the snapshot.
func (s *MemoryStore) Save(ctx context.Context, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[snap.ID] = *snap
	return nil
}

// List returns summaries, newest first, without the Matrix payload.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snaps := make([]*Snapshot, 0, len(s.snaps))
	for _, snap := range s.snaps {
		summary := snap
		summary.Matrix = nil
		snaps = append(snaps, &summary)
	}

	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
	})
	if limit > 0 && len(snaps) > limit {
		snaps = snaps[:limit]
	}
	return snaps, nil
}

// Get retrieves a full snapshot by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snaps[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &snap, nil
}

// Close does nothing for memory stores.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
