// Package service contains the business logic of the trip companion.
// Services validate input, enforce business rules and orchestrate repo calls.
// No SQL lives here: services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkordes/daytrip/internal/domain"
	"github.com/pkordes/daytrip/internal/repo"
)

// WaypointStore is the POIPersistenceStore: the canonical owner of the
// user-created waypoint set. The in-memory set is the read-after-write source
// of truth; every mutation rewrites the whole set to the repo before returning.
type WaypointStore struct {
	repo repo.WaypointRepo
	log  *slog.Logger
	now  func() time.Time

	mu        sync.RWMutex
	set       []domain.Waypoint
	lastMilli int64
	dirty     bool
	listeners []func()
}

// WaypointStoreOption configures a WaypointStore.
type WaypointStoreOption func(*WaypointStore)

// WithNow replaces the clock used to stamp new waypoints.
func WithNow(now func() time.Time) WaypointStoreOption {
	return func(s *WaypointStore) { s.now = now }
}

// NewWaypointStore constructs an empty WaypointStore backed by r.
// Call Load once at startup to read the stored set.
func NewWaypointStore(r repo.WaypointRepo, log *slog.Logger, opts ...WaypointStoreOption) *WaypointStore {
	if log == nil {
		log = slog.Default()
	}
	s := &WaypointStore{repo: r, log: log, now: time.Now, set: []domain.Waypoint{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the stored set, replacing whatever is in memory. It never fails:
// a missing record is an empty set, a malformed record keeps whatever entries
// decoded, and a storage error starts empty. Problems are logged.
func (s *WaypointStore) Load(ctx context.Context) {
	ws, err := s.repo.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, repo.ErrMalformedRecord):
		s.log.Warn("stored waypoints partly unreadable; skipping bad entries",
			"error", err, "recovered", len(ws))
	default:
		s.log.Warn("could not read stored waypoints; starting empty", "error", err)
		ws = nil
	}
	if ws == nil {
		ws = []domain.Waypoint{}
	}

	s.mu.Lock()
	s.set = ws
	for _, w := range ws {
		if ms := w.CreatedAt.UnixMilli(); ms > s.lastMilli {
			s.lastMilli = ms
		}
	}
	s.mu.Unlock()

	s.log.Info("waypoints loaded", "count", len(ws))
	s.notify()
}

// List returns a copy of the set in insertion order.
func (s *WaypointStore) List() []domain.Waypoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Waypoint, len(s.set))
	copy(out, s.set)
	return out
}

// Get returns the waypoint with the given id.
// Returns domain.ErrNotFound if it does not exist.
func (s *WaypointStore) Get(id string) (domain.Waypoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.set {
		if w.ID == id {
			return w, nil
		}
	}
	return domain.Waypoint{}, fmt.Errorf("service.WaypointStore.Get: %w", domain.ErrNotFound)
}

// Add validates and commits a new waypoint at coords.
// Title and description are trimmed; a blank title is rejected with
// domain.ErrValidation and the set is left untouched.
// The id is the creation time in Unix milliseconds, bumped when two
// waypoints are created within the same millisecond.
func (s *WaypointStore) Add(ctx context.Context, coords domain.Coordinate, title, description string) (domain.Waypoint, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Waypoint{}, fmt.Errorf("service.WaypointStore.Add: %w: title is required", domain.ErrValidation)
	}
	if err := coords.Validate(); err != nil {
		return domain.Waypoint{}, fmt.Errorf("service.WaypointStore.Add: %w", err)
	}

	s.mu.Lock()
	ms := s.now().UnixMilli()
	if ms <= s.lastMilli {
		ms = s.lastMilli + 1
	}
	s.lastMilli = ms
	w := domain.Waypoint{
		ID:          strconv.FormatInt(ms, 10),
		Coords:      coords,
		Title:       title,
		Description: strings.TrimSpace(description),
		CreatedAt:   time.UnixMilli(ms),
	}
	s.set = append(s.set, w)
	s.persistLocked(ctx, "add", w.ID)
	s.mu.Unlock()

	s.notify()
	return w, nil
}

// Remove deletes the waypoint with the given id and persists the set.
// An unknown id is a no-op; the return value reports whether anything changed.
func (s *WaypointStore) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	idx := -1
	for i, w := range s.set {
		if w.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	next := make([]domain.Waypoint, 0, len(s.set)-1)
	next = append(next, s.set[:idx]...)
	s.set = append(next, s.set[idx+1:]...)
	s.persistLocked(ctx, "remove", id)
	s.mu.Unlock()

	s.notify()
	return true
}

// Flush rewrites the set if an earlier save failed. Call it on shutdown.
func (s *WaypointStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	if err := s.repo.Save(ctx, s.set); err != nil {
		return fmt.Errorf("service.WaypointStore.Flush: %w", err)
	}
	s.dirty = false
	return nil
}

// OnChange registers fn to run after every load, add or remove.
func (s *WaypointStore) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// persistLocked writes the full set. A failed write keeps the in-memory set
// and marks it dirty; the next mutation or Flush rewrites everything.
func (s *WaypointStore) persistLocked(ctx context.Context, op, id string) {
	if err := s.repo.Save(ctx, s.set); err != nil {
		s.dirty = true
		s.log.Error("waypoint set not persisted", "op", op, "waypoint_id", id, "error", err)
		return
	}
	s.dirty = false
}

func (s *WaypointStore) notify() {
	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}
