package memory

import (
	"context"
	"fmt"
	"sync"

	"cofrinho/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items []core.Entry
}

// New returns a store holding seed, last element first. Seed IDs are
// assumed unique.
func New(seed ...core.Entry) *Store {
	s := &Store{}
	for _, e := range seed {
		s.items = append([]core.Entry{e}, s.items...)
	}
	return s
}

// Append puts e in front of every stored entry. An ID already in the
// ledger is rejected with core.ErrDuplicateID.
func (s *Store) Append(_ context.Context, e core.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.ID == e.ID {
			return fmt.Errorf("append %s: %w", e.ID, core.ErrDuplicateID)
		}
	}
	items := make([]core.Entry, 0, len(s.items)+1)
	items = append(items, e)
	s.items = append(items, s.items...)
	return nil
}

// Remove drops the entry with the given id, if any.
func (s *Store) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.items {
		if e.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}

// All returns a copy so callers cannot reorder or edit the ledger.
func (s *Store) All(_ context.Context) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Entry(nil), s.items...), nil
}

func (s *Store) Close() error { return nil }
