// Package mapview keeps the rendered map in sync with the itinerary, the
// traveler's position and the user's waypoints, and runs the modal
// create/delete flows for waypoints. Tile imagery is someone else's job:
// this package only decides which overlays exist and where the view points.
package mapview

import (
	"log/slog"

	"github.com/pkordes/daytrip/internal/domain"
)

// Kind is the geometric primitive a layer is drawn with.
type Kind string

const (
	KindMarker   Kind = "marker"
	KindCircle   Kind = "circle"
	KindPolyline Kind = "polyline"
)

// Role says why a layer exists.
type Role string

const (
	RoleItinerary Role = "itinerary"
	RoleRouteEnd  Role = "route-end"
	RoleRoute     Role = "route"
	RoleWaypoint  Role = "waypoint"
	RoleSelf      Role = "self"
)

// Style is the visual description handed to the rendering surface.
type Style struct {
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	FillColor   string  `json:"fill_color,omitempty"`
	Weight      int     `json:"weight,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
	FillOpacity float64 `json:"fill_opacity,omitempty"`
	DashArray   string  `json:"dash_array,omitempty"`
	Radius      int     `json:"radius,omitempty"`
}

var (
	StyleItinerary = Style{Name: "itinerary", Color: "#2A5B87"}
	StyleRouteEnd  = Style{Name: "route-end", Color: "#3A7D44"}
	StyleRouteLine = Style{Name: "route-line", Color: "#2A5B87", Weight: 4, Opacity: 0.6, DashArray: "10, 10"}
	StyleWaypoint  = Style{Name: "user", Color: "#D97706"}
	StyleSelf      = Style{Name: "self", Color: "#fff", FillColor: "#3b82f6", Weight: 3, FillOpacity: 1, Radius: 8}
)

// Popup is the content bound to a marker.
// DeleteWaypointID is set when the popup offers the delete affordance.
type Popup struct {
	Title            string `json:"title"`
	Body             string `json:"body,omitempty"`
	DeleteWaypointID string `json:"delete_waypoint_id,omitempty"`
}

// Layer is one overlay primitive. Markers and circles have one point,
// polylines two or more.
type Layer struct {
	Kind       Kind                `json:"kind"`
	Role       Role                `json:"role"`
	Points     []domain.Coordinate `json:"points"`
	Style      Style               `json:"style"`
	Popup      *Popup              `json:"popup,omitempty"`
	ActivityID string              `json:"activity_id,omitempty"`
	WaypointID string              `json:"waypoint_id,omitempty"`
}

// BuildLayers computes the desired overlay set from a snapshot of the three
// inputs. It is a pure function apart from logging skipped waypoints:
// equal inputs always produce equal output, in this order:
// for each activity its marker, then (for routes) the end marker and the
// dashed line; then one marker per valid waypoint; then the self marker.
func BuildLayers(acts []domain.Activity, self *domain.Coordinate, waypoints []domain.Waypoint, log *slog.Logger) []Layer {
	if log == nil {
		log = slog.Default()
	}
	layers := make([]Layer, 0, 3*len(acts)+len(waypoints)+1)

	for _, a := range acts {
		layers = append(layers, Layer{
			Kind:       KindMarker,
			Role:       RoleItinerary,
			Points:     []domain.Coordinate{a.Coords},
			Style:      StyleItinerary,
			Popup:      &Popup{Title: a.Title, Body: a.LocationName},
			ActivityID: a.ID,
		})
		if !a.IsRoute() {
			continue
		}
		end := *a.EndCoords
		layers = append(layers,
			Layer{
				Kind:       KindMarker,
				Role:       RoleRouteEnd,
				Points:     []domain.Coordinate{end},
				Style:      StyleRouteEnd,
				Popup:      &Popup{Title: "End: " + a.Title, Body: a.EndLocationName},
				ActivityID: a.ID,
			},
			Layer{
				Kind:       KindPolyline,
				Role:       RoleRoute,
				Points:     []domain.Coordinate{a.Coords, end},
				Style:      StyleRouteLine,
				ActivityID: a.ID,
			},
		)
	}

	for _, w := range waypoints {
		if err := w.Validate(); err != nil {
			log.Warn("skipping malformed waypoint", "waypoint_id", w.ID, "error", err)
			continue
		}
		layers = append(layers, Layer{
			Kind:       KindMarker,
			Role:       RoleWaypoint,
			Points:     []domain.Coordinate{w.Coords},
			Style:      StyleWaypoint,
			Popup:      &Popup{Title: w.Title, Body: w.Description, DeleteWaypointID: w.ID},
			WaypointID: w.ID,
		})
	}

	if self != nil {
		layers = append(layers, Layer{
			Kind:   KindCircle,
			Role:   RoleSelf,
			Points: []domain.Coordinate{*self},
			Style:  StyleSelf,
		})
	}
	return layers
}
