package handler

import (
	"math"
	"net/http"

	"github.com/pkordes/daytrip/internal/domain"
	"github.com/pkordes/daytrip/internal/mapview"
)

// ActivityResponse is an activity as the timeline shows it. DistanceM is the
// great-circle distance from the last known fix and is omitted while the
// location is unknown.
type ActivityResponse struct {
	domain.Activity
	Critical  bool     `json:"critical"`
	DistanceM *float64 `json:"distance_m,omitempty"`
}

// LocateResponse tells the client to switch to the map tab; View is where
// the map is now looking.
type LocateResponse struct {
	Tab        string       `json:"tab"`
	ActivityID string       `json:"activity_id"`
	View       mapview.View `json:"view"`
}

// ListActivities handles GET /activities.
func (s *Server) ListActivities(w http.ResponseWriter, _ *http.Request) {
	acts := s.svc.Activities.List()
	self, known := s.latest()

	out := make([]ActivityResponse, len(acts))
	for i, a := range acts {
		out[i] = activityToResponse(a, self, known)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetActivity handles GET /activities/{id}: the detail view of one stop.
func (s *Server) GetActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := s.svc.Activities.Get(id)
	if err != nil {
		writeError(w, r, err, "activity not found")
		return
	}
	self, known := s.latest()
	writeJSON(w, http.StatusOK, activityToResponse(a, self, known))
}

// ToggleActivity handles POST /activities/{id}/toggle.
func (s *Server) ToggleActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !s.svc.Activities.ToggleCompletion(id) {
		writeJSON(w, http.StatusNotFound, notFoundBody("activity not found"))
		return
	}
	a, err := s.svc.Activities.Get(id)
	if err != nil {
		writeError(w, r, err, "activity not found")
		return
	}
	self, known := s.latest()
	writeJSON(w, http.StatusOK, activityToResponse(a, self, known))
}

// LocateActivity handles POST /activities/{id}/locate: the map tab takes
// over and the view flies to the stop.
func (s *Server) LocateActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := s.svc.Activities.Get(id)
	if err != nil {
		writeError(w, r, err, "activity not found")
		return
	}
	if err := s.svc.Engine.Focus(a.Coords); err != nil {
		writeError(w, r, err, "")
		return
	}
	resp := LocateResponse{Tab: "map", ActivityID: a.ID}
	if s.svc.Scene != nil {
		resp.View = s.svc.Scene.Snapshot().View
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) latest() (domain.Coordinate, bool) {
	if s.svc.Location == nil {
		return domain.Coordinate{}, false
	}
	return s.svc.Location.Latest()
}

func activityToResponse(a domain.Activity, self domain.Coordinate, known bool) ActivityResponse {
	resp := ActivityResponse{Activity: a, Critical: a.IsCritical()}
	if known {
		d := math.Round(self.DistanceTo(a.Coords))
		resp.DistanceM = &d
	}
	return resp
}
