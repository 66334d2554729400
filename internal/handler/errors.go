package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkordes/daytrip/internal/domain"
)

// ErrorDetail is the machine code and human message of a failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the human-readable message (e.g. "activity not found")
// because the handler is the layer that knows what was being looked up.
func notFoundBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "not_found", Message: message}}
}

// validationBody returns an ErrorResponse for a domain validation failure.
func validationBody(err error) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: unwrapMessage(err, domain.ErrValidation)}}
}

// requestBody returns an ErrorResponse for a bad request rejected before
// reaching the domain (e.g. missing or malformed body).
func requestBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: message}}
}

// conflictBody returns an ErrorResponse for a map flow that cannot run in
// the overlay's current state.
func conflictBody(code string, err error, sentinel error) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: sentinel.Error() + tail(unwrapMessage(err, sentinel))}}
}

// unwrapMessage extracts the human-readable part after a wrapped sentinel.
// e.g. "service.WaypointStore.Add: validation error: title is required" → "title is required"
// When nothing follows the sentinel the empty string is returned.
func unwrapMessage(err error, sentinel error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	marker := sentinel.Error()
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return msg
	}
	return strings.TrimPrefix(msg[i+len(marker):], ": ")
}

func tail(s string) string {
	if s == "" {
		return ""
	}
	return ": " + s
}

// writeError maps err onto a status code and error body. Errors that match
// no domain sentinel are logged and reported as 500 without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody(notFound))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	case errors.Is(err, domain.ErrBusy):
		writeJSON(w, http.StatusConflict, conflictBody("overlay_busy", err, domain.ErrBusy))
	case errors.Is(err, domain.ErrNoPending):
		writeJSON(w, http.StatusConflict, conflictBody("nothing_pending", err, domain.ErrNoPending))
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{Code: "internal_error", Message: "internal server error"}})
	}
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the status line is already sent; nothing useful to do on failure.
	json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a JSON request body into dst, rejecting unknown fields
// and trailing data. A body over the size limit reports 413.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err == nil && dec.More() {
		err = errors.New("unexpected data after JSON body")
	}
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: ErrorDetail{Code: "body_too_large", Message: err.Error()}})
		return false
	}
	writeJSON(w, http.StatusUnprocessableEntity, requestBody("invalid request body: "+err.Error()))
	return false
}
