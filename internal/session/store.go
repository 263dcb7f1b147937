// Package session keeps the aggregate behind each generated poster so a
// client can re-render it with new options.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/youruser/posterboxd/internal/media"
)

// ErrNotFound is returned for unknown or evicted tokens.
var ErrNotFound = errors.New("session not found")

const DefaultCapacity = 100

// Store maps session tokens to aggregates.
type Store interface {
	Get(ctx context.Context, token string) (*media.Aggregate, error)
	Set(ctx context.Context, token string, agg *media.Aggregate) error
}

// MemoryStore is a bounded in-process store. Once above capacity the oldest
// insertion is evicted.
type MemoryStore struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*media.Aggregate
	order    []string
}

func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{
		capacity: capacity,
		items:    make(map[string]*media.Aggregate, capacity),
	}
}

func (s *MemoryStore) Get(_ context.Context, token string) (*media.Aggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	agg, ok := s.items[token]
	if !ok {
		return nil, ErrNotFound
	}
	return agg, nil
}

func (s *MemoryStore) Set(_ context.Context, token string, agg *media.Aggregate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[token]; !ok {
		s.order = append(s.order, token)
	}
	s.items[token] = agg
	for len(s.items) > s.capacity {
		s.evictOldest()
	}
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *MemoryStore) evictOldest() {
	oldest := s.order[0]
	s.order[0] = ""
	s.order = s.order[1:]
	delete(s.items, oldest)
	// Re-home the queue once the dead prefix outgrows the live entries.
	if cap(s.order) > 2*s.capacity {
		s.order = append(make([]string, 0, s.capacity+1), s.order...)
	}
}
