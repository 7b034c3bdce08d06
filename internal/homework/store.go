// Package homework holds the in-memory homework list.
package homework

import (
	"slices"
	"sync"

	"github.com/benvon/homework-helper/internal/models"
)

// Store is an ordered, in-memory list of homework items.
//
// The store does no validation: callers reject blank text before calling Add.
// Every mutation publishes a fresh slice, so a snapshot returned by List is
// never modified afterwards.
type Store struct {
	mu    sync.RWMutex
	items []models.HomeworkItem
	ids   *IDGenerator
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithIDGenerator overrides the identifier generator
func WithIDGenerator(g *IDGenerator) StoreOption {
	return func(s *Store) {
		s.ids = g
	}
}

// NewStore creates an empty store
func NewStore(opts ...StoreOption) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = NewIDGenerator()
	}
	return s
}

// Add appends a new, not yet completed item and returns it
func (s *Store) Add(text, dueDate, category string) models.HomeworkItem {
	item := models.HomeworkItem{
		ID:       s.ids.Next(),
		Text:     text,
		DueDate:  dueDate,
		Category: category,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.HomeworkItem, len(s.items), len(s.items)+1)
	copy(next, s.items)
	s.items = append(next, item)
	return item
}

// Toggle flips the completed flag of the item with the given id.
// It returns the updated item and false if no item matched.
func (s *Store) Toggle(id int64) (models.HomeworkItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.HomeworkItem{}, false
	}

	next := slices.Clone(s.items)
	next[idx].Completed = !next[idx].Completed
	s.items = next
	return next[idx], true
}

// Delete removes the item with the given id. It reports whether an item was removed.
func (s *Store) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}

	next := make([]models.HomeworkItem, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)
	s.items = next
	return true
}

// List returns a copy of the items in insertion order
func (s *Store) List() []models.HomeworkItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.HomeworkItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Stats counts pending and completed items
func (s *Store) Stats() models.HomeworkStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats models.HomeworkStats
	for _, item := range s.items {
		if item.Completed {
			stats.Completed++
		} else {
			stats.Pending++
		}
	}
	return stats
}

// indexOf must be called with mu held
func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.items, func(item models.HomeworkItem) bool {
		return item.ID == id
	})
}
