package domain

import "errors"

// ErrNotFound is returned when the requested activity or waypoint does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails a business rule
// (e.g. empty waypoint title, coordinate out of range).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrBusy is returned when the map overlay already holds an unresolved
// edit or confirmation. The overlay is modal: only one flow at a time.
// Handlers should map this to HTTP 409 Conflict.
var ErrBusy = errors.New("overlay busy")

// ErrNoPending is returned when a confirm or cancel arrives while the overlay
// holds no matching flow (e.g. confirming a draft that was already cancelled).
var ErrNoPending = errors.New("nothing pending")
