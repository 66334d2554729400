package handler

import (
	"context"
	"net/http"

	"github.com/pkordes/daytrip/internal/mapview"
)

// MapResponse is everything a client needs to draw the map.
type MapResponse struct {
	mapview.SceneSnapshot
	Overlay mapview.Overlay `json:"overlay"`
}

// BaseLayerRequest is the body of PUT /map/base-layer.
type BaseLayerRequest struct {
	Name string `json:"name"`
}

// DraftRequest is the body of POST /map/draft.
type DraftRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GetMap handles GET /map.
func (s *Server) GetMap(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.mapResponse())
}

// SelectBaseLayer handles PUT /map/base-layer.
func (s *Server) SelectBaseLayer(w http.ResponseWriter, r *http.Request) {
	var req BaseLayerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.svc.Scene.SelectBaseLayer(req.Name); err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, s.mapResponse())
}

// FocusMap handles POST /map/focus.
func (s *Server) FocusMap(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCoordinate(w, r)
	if !ok {
		return
	}
	if err := s.svc.Engine.Focus(c); err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Scene.Snapshot().View)
}

// ClickMap handles POST /map/clicks: a click on empty map opens a draft.
func (s *Server) ClickMap(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCoordinate(w, r)
	if !ok {
		return
	}
	if err := s.svc.Engine.Click(c); err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Engine.Overlay())
}

// ConfirmDraft handles POST /map/draft: commits the open draft.
func (s *Server) ConfirmDraft(w http.ResponseWriter, r *http.Request) {
	var req DraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	// The save outlives a client that hangs up mid-request.
	wp, err := s.svc.Engine.ConfirmDraft(context.WithoutCancel(r.Context()), req.Title, req.Description)
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, wp)
}

// CancelDraft handles DELETE /map/draft.
func (s *Server) CancelDraft(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Engine.CancelDraft(); err != nil {
		writeError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RequestDelete handles POST /waypoints/{id}/delete: the popup's delete
// affordance. An id that no longer exists leaves the overlay idle.
func (s *Server) RequestDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Engine.RequestDelete(id); err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Engine.Overlay())
}

// ConfirmDelete handles POST /map/pending-delete.
func (s *Server) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Engine.ConfirmDelete(context.WithoutCancel(r.Context())); err != nil {
		writeError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeclineDelete handles DELETE /map/pending-delete.
func (s *Server) DeclineDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Engine.DeclineDelete(); err != nil {
		writeError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) mapResponse() MapResponse {
	return MapResponse{SceneSnapshot: s.svc.Scene.Snapshot(), Overlay: s.svc.Engine.Overlay()}
}
