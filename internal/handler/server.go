// Package handler implements the daytrip HTTP API: the intents a map client
// sends (toggle, locate, click, confirm, delete) and the read models it polls.
// All handlers are methods on Server. Each dependency is a small interface
// declared here, next to the code that consumes it, so tests can swap in
// hand-written fakes.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/daytrip/internal/domain"
	"github.com/pkordes/daytrip/internal/mapview"
)

// ActivityServicer is the itinerary.
type ActivityServicer interface {
	List() []domain.Activity
	Get(id string) (domain.Activity, error)
	ToggleCompletion(id string) bool
}

// CountdownSource yields the latest countdown evaluation.
type CountdownSource interface {
	Current() domain.Countdown
}

// LocationReader reports the last known fix.
type LocationReader interface {
	Latest() (domain.Coordinate, bool)
}

// FixSink accepts fixes and failures reported by the device.
type FixSink interface {
	Push(c domain.Coordinate)
	Fail(err error)
}

// MapEngine runs the map's focus and waypoint flows.
type MapEngine interface {
	Focus(c domain.Coordinate) error
	Overlay() mapview.Overlay
	Click(c domain.Coordinate) error
	ConfirmDraft(ctx context.Context, title, description string) (domain.Waypoint, error)
	CancelDraft() error
	RequestDelete(id string) error
	ConfirmDelete(ctx context.Context) error
	DeclineDelete() error
}

// SceneReader is the rendered map.
type SceneReader interface {
	Snapshot() mapview.SceneSnapshot
	SelectBaseLayer(name string) error
}

// WaypointLister returns the canonical waypoint set.
type WaypointLister interface {
	List() []domain.Waypoint
}

// ExportServicer builds the flat waypoint export.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Services groups the Server's dependencies. A nil field disables the
// routes that need it.
type Services struct {
	Activities    ActivityServicer
	Countdown     CountdownSource
	Location      LocationReader
	Fixes         FixSink
	Engine        MapEngine
	Scene         SceneReader
	Waypoints     WaypointLister
	Export        ExportServicer
	ShipDeparture domain.TimeOfDay
}

// Server serves every API endpoint.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	svc Services
}

// NewServer constructs the Server with all its dependencies.
func NewServer(svc Services) *Server {
	return &Server{svc: svc}
}

// Routes returns the chi router for the whole API. Routes whose dependency
// is nil are not registered.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	if s.svc.Activities != nil {
		r.Route("/activities", func(r chi.Router) {
			r.Get("/", s.ListActivities)
			r.Get("/{id}", s.GetActivity)
			r.Post("/{id}/toggle", s.ToggleActivity)
			if s.svc.Engine != nil {
				r.Post("/{id}/locate", s.LocateActivity)
			}
		})
	}

	if s.svc.Countdown != nil {
		r.Get("/countdown", s.GetCountdown)
	}

	if s.svc.Location != nil {
		r.Get("/location", s.GetLocation)
	}
	if s.svc.Fixes != nil {
		r.Post("/location", s.PushLocation)
		r.Post("/location/errors", s.ReportLocationError)
	}

	if s.svc.Engine != nil && s.svc.Scene != nil {
		r.Route("/map", func(r chi.Router) {
			r.Get("/", s.GetMap)
			r.Put("/base-layer", s.SelectBaseLayer)
			r.Post("/focus", s.FocusMap)
			r.Post("/clicks", s.ClickMap)
			r.Post("/draft", s.ConfirmDraft)
			r.Delete("/draft", s.CancelDraft)
			r.Post("/pending-delete", s.ConfirmDelete)
			r.Delete("/pending-delete", s.DeclineDelete)
		})
		r.Post("/waypoints/{id}/delete", s.RequestDelete)
	}

	if s.svc.Waypoints != nil {
		r.Get("/waypoints", s.ListWaypoints)
	}
	if s.svc.Export != nil {
		r.Get("/waypoints/export", s.GetExport)
	}

	return r
}

// NewHealthHandler returns a router that serves only GET /healthz.
func NewHealthHandler() http.Handler {
	return NewServer(Services{}).Routes()
}
