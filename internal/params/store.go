package params

import "sync"

// Store is the single owner of a persisted snapshot.
type Store interface {
	Snapshot() Snapshot
	Set(partial Params)
	Reset()
}

// MemoryStore is a mutex-guarded Store. Concurrent writers serialize through
// the lock; the last write wins.
type MemoryStore struct {
	mu       sync.Mutex
	snap     Snapshot
	onChange func(Snapshot)
}

// NewMemoryStore returns a store seeded with a cleaned copy of initial.
func NewMemoryStore(initial Snapshot) *MemoryStore {
	return &MemoryStore{snap: Merge(initial, nil)}
}

// OnChange registers a listener called after every write with the new
// snapshot. The listener runs outside the lock.
func (s *MemoryStore) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *MemoryStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

func (s *MemoryStore) Set(partial Params) {
	s.mu.Lock()
	s.snap = Merge(s.snap, partial)
	snap, fn := s.snap.Clone(), s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

func (s *MemoryStore) Reset() {
	s.mu.Lock()
	s.snap = Snapshot{}
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(Snapshot{})
	}
}
