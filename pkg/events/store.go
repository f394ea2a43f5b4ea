package events

import (
	"context"
	"sort"
	"sync"
)

// Store provides filtered access to normalized event records.
// Upload, parsing and enrichment live upstream; this is their boundary.
type Store interface {
	// Events returns all records matching the filter, in timestamp order
	Events(ctx context.Context, filter Filter) ([]Event, error)
	// Datasets lists the dataset scopes known to the store
	Datasets(ctx context.Context) ([]string, error)
}

// MemoryStore is an in-memory Store, used in tests and the demo dataset
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryStore creates a store pre-loaded with the given events
func NewMemoryStore(evts ...Event) *MemoryStore {
	s := &MemoryStore{}
	s.Add(evts...)
	return s
}

// Add appends events to the store
func (s *MemoryStore) Add(evts ...Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evts...)
}

// Events returns matching events sorted by timestamp
func (s *MemoryStore) Events(ctx context.Context, filter Filter) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]Event, 0)
	for _, e := range s.events {
		if filter.Match(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// Datasets lists distinct dataset scopes in insertion order
func (s *MemoryStore) Datasets(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, e := range s.events {
		if !seen[e.Dataset] {
			seen[e.Dataset] = true
			out = append(out, e.Dataset)
		}
	}
	return out, nil
}
