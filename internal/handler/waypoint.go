package handler

import "net/http"

// ListWaypoints handles GET /waypoints: the canonical set in insertion order.
func (s *Server) ListWaypoints(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Waypoints.List())
}
