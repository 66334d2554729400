package mapview_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/daytrip/internal/domain"
	"github.com/pkordes/daytrip/internal/mapview"
)

var (
	korsegata  = domain.Coordinate{Lat: 62.471565, Lng: 6.155352}
	lighthouse = domain.Coordinate{Lat: 62.489265, Lng: 5.965505}
)

func busActivity() domain.Activity {
	end := lighthouse
	return domain.Activity{
		ID:              "4",
		Title:           "Bus to the lighthouse",
		StartTime:       domain.MustParseTimeOfDay("08:00"),
		EndTime:         domain.MustParseTimeOfDay("09:00"),
		LocationName:    "Korsegata stop",
		Coords:          korsegata,
		EndLocationName: "Godøya island",
		EndCoords:       &end,
		Category:        domain.CategoryTransport,
	}
}

func TestBuildLayers_RouteActivity(t *testing.T) {
	layers := mapview.BuildLayers([]domain.Activity{busActivity()}, nil, nil, nil)

	require.Len(t, layers, 3)

	start := layers[0]
	assert.Equal(t, mapview.KindMarker, start.Kind)
	assert.Equal(t, mapview.RoleItinerary, start.Role)
	assert.Equal(t, []domain.Coordinate{korsegata}, start.Points)
	assert.Equal(t, mapview.StyleItinerary, start.Style)
	assert.Equal(t, "Bus to the lighthouse", start.Popup.Title)
	assert.Equal(t, "Korsegata stop", start.Popup.Body)

	end := layers[1]
	assert.Equal(t, mapview.RoleRouteEnd, end.Role)
	assert.Equal(t, []domain.Coordinate{lighthouse}, end.Points)
	assert.Equal(t, mapview.StyleRouteEnd, end.Style)
	assert.Equal(t, "End: Bus to the lighthouse", end.Popup.Title)

	line := layers[2]
	assert.Equal(t, mapview.KindPolyline, line.Kind)
	assert.Equal(t, []domain.Coordinate{korsegata, lighthouse}, line.Points)
	assert.NotEmpty(t, line.Style.DashArray, "route lines are dashed")
	assert.Nil(t, line.Popup)
}

func TestBuildLayers_PointActivity(t *testing.T) {
	a := busActivity()
	a.EndCoords = nil

	layers := mapview.BuildLayers([]domain.Activity{a}, nil, nil, nil)

	require.Len(t, layers, 1)
	assert.Equal(t, mapview.RoleItinerary, layers[0].Role)
}

func TestBuildLayers_OrderAndSelf(t *testing.T) {
	self := domain.Coordinate{Lat: 62.47, Lng: 6.15}
	ws := []domain.Waypoint{{ID: "w1", Title: "Cafe", Description: "good coffee", Coords: korsegata}}

	layers := mapview.BuildLayers([]domain.Activity{busActivity()}, &self, ws, nil)

	require.Len(t, layers, 5)
	roles := make([]mapview.Role, len(layers))
	for i, l := range layers {
		roles[i] = l.Role
	}
	assert.Equal(t, []mapview.Role{
		mapview.RoleItinerary, mapview.RoleRouteEnd, mapview.RoleRoute,
		mapview.RoleWaypoint, mapview.RoleSelf,
	}, roles)

	wp := layers[3]
	assert.Equal(t, mapview.StyleWaypoint, wp.Style)
	assert.Equal(t, "Cafe", wp.Popup.Title)
	assert.Equal(t, "good coffee", wp.Popup.Body)
	assert.Equal(t, "w1", wp.Popup.DeleteWaypointID, "waypoints carry the delete affordance")

	me := layers[4]
	assert.Equal(t, mapview.KindCircle, me.Kind)
	assert.Equal(t, mapview.StyleSelf, me.Style)
	assert.Equal(t, []domain.Coordinate{self}, me.Points)
}

func TestBuildLayers_SkipsMalformedWaypoints(t *testing.T) {
	ws := []domain.Waypoint{
		{ID: "ok", Title: "Fine", Coords: korsegata},
		{ID: "blank", Title: "  ", Coords: korsegata},
		{ID: "", Title: "No id", Coords: korsegata},
		{ID: "far", Title: "Off the globe", Coords: domain.Coordinate{Lat: 123}},
		{ID: "ok2", Title: "Also fine", Coords: lighthouse},
	}

	layers := mapview.BuildLayers(nil, nil, ws, nil)

	require.Len(t, layers, 2)
	assert.Equal(t, "ok", layers[0].WaypointID)
	assert.Equal(t, "ok2", layers[1].WaypointID)
}

func TestBuildLayers_Deterministic(t *testing.T) {
	self := domain.Coordinate{Lat: 62.47, Lng: 6.15}
	acts := []domain.Activity{busActivity()}
	ws := []domain.Waypoint{{ID: "w1", Title: "Cafe", Coords: korsegata}}

	assert.Equal(t,
		mapview.BuildLayers(acts, &self, ws, nil),
		mapview.BuildLayers(acts, &self, ws, nil),
	)
}
