package itinerary

import (
	"fmt"
	"sync"

	"github.com/pkordes/daytrip/internal/domain"
)

// Store is the ItineraryStore: it owns the ordered activity list and the
// completion flags. The set never grows or shrinks after construction.
// Completion state lives for the process lifetime only.
type Store struct {
	mu         sync.RWMutex
	activities []domain.Activity
	index      map[string]int
	listeners  []func()
}

// NewStore builds a Store from a plan, preserving its order.
// Returns domain.ErrValidation if two activities share an id.
func NewStore(plan []domain.Activity) (*Store, error) {
	s := &Store{
		activities: make([]domain.Activity, len(plan)),
		index:      make(map[string]int, len(plan)),
	}
	for i, a := range plan {
		if _, dup := s.index[a.ID]; dup {
			return nil, fmt.Errorf("itinerary.NewStore: %w: duplicate activity id %q", domain.ErrValidation, a.ID)
		}
		s.index[a.ID] = i
		s.activities[i] = cloneActivity(a)
	}
	return s, nil
}

// List returns a copy of all activities in itinerary order.
func (s *Store) List() []domain.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Activity, len(s.activities))
	for i, a := range s.activities {
		out[i] = cloneActivity(a)
	}
	return out
}

// Get returns the activity with the given id.
// Returns domain.ErrNotFound if no activity has that id.
func (s *Store) Get(id string) (domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return domain.Activity{}, fmt.Errorf("itinerary.Store.Get: %w", domain.ErrNotFound)
	}
	return cloneActivity(s.activities[i]), nil
}

// ToggleCompletion flips the completed flag of the activity with the given id.
// An unknown id is a silent no-op; the return value reports whether anything changed.
func (s *Store) ToggleCompletion(id string) bool {
	s.mu.Lock()
	i, ok := s.index[id]
	if ok {
		s.activities[i].Completed = !s.activities[i].Completed
	}
	listeners := s.listeners
	s.mu.Unlock()

	if !ok {
		return false
	}
	for _, fn := range listeners {
		fn()
	}
	return true
}

// OnChange registers fn to run after every effective completion toggle.
// fn runs outside the store lock and may read the store.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// cloneActivity copies a so callers never share the EndCoords pointer with the store.
func cloneActivity(a domain.Activity) domain.Activity {
	if a.EndCoords != nil {
		c := *a.EndCoords
		a.EndCoords = &c
	}
	return a
}
