package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/daytrip/internal/domain"
	"github.com/pkordes/daytrip/internal/service"
)

// staticWaypoints and staticActivities are fixed-list test doubles.
type staticWaypoints []domain.Waypoint

func (s staticWaypoints) List() []domain.Waypoint { return s }

type staticActivities []domain.Activity

func (s staticActivities) List() []domain.Activity { return s }

func TestExportService_Export_NearestActivity(t *testing.T) {
	pier := domain.Activity{ID: "1", Title: "Pier", Coords: domain.Coordinate{Lat: 62.469187, Lng: 6.156024}}
	lighthouse := domain.Activity{ID: "5", Title: "Lighthouse", Coords: domain.Coordinate{Lat: 62.489265, Lng: 5.965505}}
	created := time.UnixMilli(1765350000000)
	ws := staticWaypoints{
		{ID: "a", Title: "Cafe by the pier", Description: "coffee", Coords: domain.Coordinate{Lat: 62.4695, Lng: 6.1565}, CreatedAt: created},
		{ID: "b", Title: "Beach", Coords: domain.Coordinate{Lat: 62.488, Lng: 5.97}, CreatedAt: created},
	}

	rows, err := service.NewExportService(ws, staticActivities{pier, lighthouse}).Export(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].WaypointID)
	assert.Equal(t, "coffee", rows[0].Description)
	assert.Equal(t, "1", rows[0].NearestActivityID)
	assert.Less(t, rows[0].NearestActivityM, 100.0)
	assert.Equal(t, "5", rows[1].NearestActivityID)
	assert.Equal(t, "Lighthouse", rows[1].NearestActivityTitle)
}

func TestExportService_Export_Empty(t *testing.T) {
	rows, err := service.NewExportService(staticWaypoints{}, staticActivities{}).Export(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestExportService_Export_NoActivities(t *testing.T) {
	ws := staticWaypoints{{ID: "a", Title: "A", Coords: harbour}}

	rows, err := service.NewExportService(ws, staticActivities{}).Export(context.Background())

	require.NoError(t, err)
	assert.Empty(t, rows[0].NearestActivityID)
	assert.Zero(t, rows[0].NearestActivityM)
}
