package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkordes/daytrip/internal/domain"
	"github.com/pkordes/daytrip/internal/location"
)

// CoordinateRequest is the body of every endpoint that takes a point.
type CoordinateRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// LocationErrorRequest is a failed fix reported by the device.
// Code "permission_denied" marks a refused permission; anything else is
// treated as a transient failure.
type LocationErrorRequest struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GetLocation handles GET /location. It returns 404 until the first fix.
func (s *Server) GetLocation(w http.ResponseWriter, _ *http.Request) {
	c, ok := s.svc.Location.Latest()
	if !ok {
		writeJSON(w, http.StatusNotFound, notFoundBody("location not known yet"))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// PushLocation handles POST /location: the device delivers a fix.
func (s *Server) PushLocation(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCoordinate(w, r)
	if !ok {
		return
	}
	s.svc.Fixes.Push(c)
	w.WriteHeader(http.StatusAccepted)
}

// ReportLocationError handles POST /location/errors. The last good fix is kept.
func (s *Server) ReportLocationError(w http.ResponseWriter, r *http.Request) {
	var req LocationErrorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var err error
	switch {
	case req.Code == "permission_denied":
		err = location.ErrPermissionDenied
		if req.Message != "" {
			err = fmt.Errorf("%w: %s", location.ErrPermissionDenied, req.Message)
		}
	case strings.TrimSpace(req.Message) != "":
		err = errors.New(req.Message)
	default:
		err = errors.New("position unavailable")
	}
	s.svc.Fixes.Fail(err)
	w.WriteHeader(http.StatusAccepted)
}

// decodeCoordinate reads and validates a CoordinateRequest body.
func decodeCoordinate(w http.ResponseWriter, r *http.Request) (domain.Coordinate, bool) {
	var req CoordinateRequest
	if !decodeJSON(w, r, &req) {
		return domain.Coordinate{}, false
	}
	if req.Lat == nil || req.Lng == nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("lat and lng are required"))
		return domain.Coordinate{}, false
	}
	c := domain.Coordinate{Lat: *req.Lat, Lng: *req.Lng}
	if err := c.Validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
		return domain.Coordinate{}, false
	}
	return c, true
}
