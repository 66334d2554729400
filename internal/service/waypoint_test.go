package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/daytrip/internal/domain"
	"github.com/pkordes/daytrip/internal/repo"
	"github.com/pkordes/daytrip/internal/service"
)

// ---- mock repo -------------------------------------------------------------

// mockWaypointRepo is a hand-written test double for repo.WaypointRepo.
// With no load func it behaves as an empty store; with no save func it
// records every saved set.
type mockWaypointRepo struct {
	load  func(ctx context.Context) ([]domain.Waypoint, error)
	save  func(ctx context.Context, ws []domain.Waypoint) error
	saved [][]domain.Waypoint
}

func (m *mockWaypointRepo) Load(ctx context.Context) ([]domain.Waypoint, error) {
	if m.load == nil {
		return []domain.Waypoint{}, nil
	}
	return m.load(ctx)
}
func (m *mockWaypointRepo) Save(ctx context.Context, ws []domain.Waypoint) error {
	cp := append([]domain.Waypoint(nil), ws...)
	m.saved = append(m.saved, cp)
	if m.save == nil {
		return nil
	}
	return m.save(ctx, ws)
}

// compile-time check: mockWaypointRepo must satisfy repo.WaypointRepo.
var _ repo.WaypointRepo = (*mockWaypointRepo)(nil)

// ---- helpers ---------------------------------------------------------------

var harbour = domain.Coordinate{Lat: 62.4722, Lng: 6.1497}

// fixedClock returns a now func that always reports t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newStore(r repo.WaypointRepo, now time.Time) *service.WaypointStore {
	return service.NewWaypointStore(r, nil, service.WithNow(fixedClock(now)))
}

// ---- Load ------------------------------------------------------------------

func TestWaypointStore_Load_OK(t *testing.T) {
	stored := []domain.Waypoint{{ID: "1", Coords: harbour, Title: "Pier", CreatedAt: time.UnixMilli(1)}}
	s := newStore(&mockWaypointRepo{
		load: func(context.Context) ([]domain.Waypoint, error) { return stored, nil },
	}, time.UnixMilli(5))

	s.Load(context.Background())

	assert.Equal(t, stored, s.List())
}

func TestWaypointStore_Load_StorageErrorStartsEmpty(t *testing.T) {
	s := newStore(&mockWaypointRepo{
		load: func(context.Context) ([]domain.Waypoint, error) { return nil, errors.New("io") },
	}, time.UnixMilli(5))

	s.Load(context.Background())

	assert.Empty(t, s.List())
}

func TestWaypointStore_Load_MalformedKeepsRecovered(t *testing.T) {
	good := domain.Waypoint{ID: "1", Coords: harbour, Title: "Pier", CreatedAt: time.UnixMilli(1)}
	s := newStore(&mockWaypointRepo{
		load: func(context.Context) ([]domain.Waypoint, error) {
			return []domain.Waypoint{good}, fmt.Errorf("entry 1: %w", repo.ErrMalformedRecord)
		},
	}, time.UnixMilli(5))

	s.Load(context.Background())

	assert.Equal(t, []domain.Waypoint{good}, s.List())
}

// ---- Add -------------------------------------------------------------------

func TestWaypointStore_Add_OK(t *testing.T) {
	r := &mockWaypointRepo{}
	now := time.UnixMilli(1765350000123)
	s := newStore(r, now)

	got, err := s.Add(context.Background(), harbour, "  Bakery ", " buns ")

	require.NoError(t, err)
	assert.Equal(t, "1765350000123", got.ID)
	assert.Equal(t, "Bakery", got.Title)
	assert.Equal(t, "buns", got.Description)
	assert.Equal(t, harbour, got.Coords)
	assert.True(t, got.CreatedAt.Equal(now))

	assert.Equal(t, []domain.Waypoint{got}, s.List())
	require.Len(t, r.saved, 1, "the full set is written once per mutation")
	assert.Equal(t, []domain.Waypoint{got}, r.saved[0])
}

func TestWaypointStore_Add_BlankTitleNeverMutates(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		r := &mockWaypointRepo{}
		s := newStore(r, time.UnixMilli(1))

		_, err := s.Add(context.Background(), harbour, title, "desc")

		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Empty(t, s.List())
		assert.Empty(t, r.saved, "nothing may be persisted")
	}
}

func TestWaypointStore_Add_InvalidCoordinate(t *testing.T) {
	s := newStore(&mockWaypointRepo{}, time.UnixMilli(1))

	_, err := s.Add(context.Background(), domain.Coordinate{Lat: 91}, "North", "")

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, s.List())
}

func TestWaypointStore_Add_SameMillisecondGetsUniqueIDs(t *testing.T) {
	s := newStore(&mockWaypointRepo{}, time.UnixMilli(1000))

	a, err := s.Add(context.Background(), harbour, "A", "")
	require.NoError(t, err)
	b, err := s.Add(context.Background(), harbour, "B", "")
	require.NoError(t, err)

	assert.Equal(t, "1000", a.ID)
	assert.Equal(t, "1001", b.ID)
}

func TestWaypointStore_Add_IDsStayAheadOfLoadedSet(t *testing.T) {
	s := newStore(&mockWaypointRepo{
		load: func(context.Context) ([]domain.Waypoint, error) {
			return []domain.Waypoint{{ID: "5000", Coords: harbour, Title: "Old", CreatedAt: time.UnixMilli(5000)}}, nil
		},
	}, time.UnixMilli(4000)) // clock went backwards since the last session
	s.Load(context.Background())

	got, err := s.Add(context.Background(), harbour, "New", "")

	require.NoError(t, err)
	assert.Equal(t, "5001", got.ID)
}

func TestWaypointStore_Add_SaveFailureKeepsMemoryAndFlushes(t *testing.T) {
	fail := true
	r := &mockWaypointRepo{
		save: func(context.Context, []domain.Waypoint) error {
			if fail {
				return errors.New("disk full")
			}
			return nil
		},
	}
	s := newStore(r, time.UnixMilli(1))

	w, err := s.Add(context.Background(), harbour, "Kept", "")

	require.NoError(t, err, "storage failures are absorbed by the store")
	assert.Equal(t, []domain.Waypoint{w}, s.List())

	fail = false
	require.NoError(t, s.Flush(context.Background()))
	assert.Len(t, r.saved, 2, "flush rewrites the dirty set")

	require.NoError(t, s.Flush(context.Background()))
	assert.Len(t, r.saved, 2, "clean store does not write again")
}

// ---- Remove ----------------------------------------------------------------

func TestWaypointStore_Remove(t *testing.T) {
	r := &mockWaypointRepo{}
	s := service.NewWaypointStore(r, nil)
	a, err := s.Add(context.Background(), harbour, "A", "")
	require.NoError(t, err)
	b, err := s.Add(context.Background(), harbour, "B", "")
	require.NoError(t, err)

	assert.True(t, s.Remove(context.Background(), a.ID))

	assert.Equal(t, []domain.Waypoint{b}, s.List())
	assert.Equal(t, []domain.Waypoint{b}, r.saved[len(r.saved)-1])
}

func TestWaypointStore_Remove_UnknownIsNoop(t *testing.T) {
	r := &mockWaypointRepo{}
	s := newStore(r, time.UnixMilli(1))
	_, err := s.Add(context.Background(), harbour, "A", "")
	require.NoError(t, err)
	writes := len(r.saved)

	assert.NotPanics(t, func() {
		assert.False(t, s.Remove(context.Background(), "stale-id"))
	})
	assert.Len(t, s.List(), 1)
	assert.Len(t, r.saved, writes, "no write for a no-op")
}

func TestWaypointStore_Get(t *testing.T) {
	s := newStore(&mockWaypointRepo{}, time.UnixMilli(7))
	w, err := s.Add(context.Background(), harbour, "A", "")
	require.NoError(t, err)

	got, err := s.Get(w.ID)
	require.NoError(t, err)
	assert.Equal(t, w, got)

	_, err = s.Get("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWaypointStore_OnChange(t *testing.T) {
	s := newStore(&mockWaypointRepo{}, time.UnixMilli(7))
	calls := 0
	s.OnChange(func() {
		calls++
		_ = s.List() // listeners may read the store
	})

	w, err := s.Add(context.Background(), harbour, "A", "")
	require.NoError(t, err)
	s.Remove(context.Background(), "missing")
	s.Remove(context.Background(), w.ID)

	assert.Equal(t, 2, calls)
}

// ---- round-trip through the real codec ---------------------------------------

// memRecords is an in-memory repo.RecordRepo.
type memRecords map[string][]byte

func (m memRecords) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}
func (m memRecords) Put(_ context.Context, key string, value []byte) error {
	m[key] = append([]byte(nil), value...)
	return nil
}

func TestWaypointStore_SurvivesRestart(t *testing.T) {
	records := memRecords{}
	first := service.NewWaypointStore(repo.NewWaypointRepo(records, ""), nil)
	first.Load(context.Background())
	_, err := first.Add(context.Background(), harbour, "Bakery", "buns")
	require.NoError(t, err)
	_, err = first.Add(context.Background(), domain.Coordinate{Lat: 62.48, Lng: 6.16}, "View", "")
	require.NoError(t, err)

	second := service.NewWaypointStore(repo.NewWaypointRepo(records, ""), nil)
	second.Load(context.Background())

	assert.Equal(t, first.List(), second.List())
}
