package itinerary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/daytrip/internal/domain"
	"github.com/pkordes/daytrip/internal/itinerary"
)

func newDefaultStore(t *testing.T) *itinerary.Store {
	t.Helper()
	plan, err := itinerary.DefaultPlan()
	require.NoError(t, err)
	s, err := itinerary.NewStore(plan)
	require.NoError(t, err)
	return s
}

func TestStore_ToggleCompletion_FlipsOnlyTarget(t *testing.T) {
	s := newDefaultStore(t)
	before := s.List()

	for _, target := range before {
		changed := s.ToggleCompletion(target.ID)
		require.True(t, changed)

		after := s.List()
		for i, a := range after {
			if a.ID == target.ID {
				assert.Equal(t, !before[i].Completed, a.Completed, "activity %s should flip", a.ID)
			} else {
				assert.Equal(t, before[i].Completed, a.Completed, "activity %s should be untouched", a.ID)
			}
		}

		s.ToggleCompletion(target.ID)
		assert.Equal(t, before, s.List(), "toggling twice restores the original state")
	}
}

func TestStore_ToggleCompletion_UnknownIDIsNoop(t *testing.T) {
	s := newDefaultStore(t)
	before := s.List()

	called := false
	s.OnChange(func() { called = true })

	assert.False(t, s.ToggleCompletion("does-not-exist"))
	assert.Equal(t, before, s.List())
	assert.False(t, called, "listeners must not fire on a no-op")
}

func TestStore_OnChange_FiresAfterToggle(t *testing.T) {
	s := newDefaultStore(t)

	var seen bool
	s.OnChange(func() {
		a, err := s.Get("4")
		require.NoError(t, err)
		seen = a.Completed
	})

	s.ToggleCompletion("4")
	assert.True(t, seen, "listener should observe the new state")
}

func TestStore_Get_NotFound(t *testing.T) {
	s := newDefaultStore(t)

	_, err := s.Get("99")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_List_ReturnsCopies(t *testing.T) {
	s := newDefaultStore(t)

	acts := s.List()
	acts[0].Completed = true
	for i := range acts {
		if acts[i].EndCoords != nil {
			acts[i].EndCoords.Lat = 0
		}
	}

	fresh := s.List()
	assert.False(t, fresh[0].Completed)
	a, err := s.Get("4")
	require.NoError(t, err)
	assert.InDelta(t, 62.489265, a.EndCoords.Lat, 1e-9)
}

func TestNewStore_DuplicateID(t *testing.T) {
	plan := []domain.Activity{{ID: "1", Title: "a"}, {ID: "1", Title: "b"}}

	_, err := itinerary.NewStore(plan)

	assert.ErrorIs(t, err, domain.ErrValidation)
}
