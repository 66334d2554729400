package domain

import (
	"fmt"
	"strings"
	"time"
)

// Waypoint is a user-created point of interest on the map.
// ID is derived from the creation time in Unix milliseconds.
type Waypoint struct {
	ID          string     `json:"id"`
	Coords      Coordinate `json:"coords"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Validate enforces the rules every stored or new waypoint must satisfy:
// a non-empty ID, a non-blank title and an in-range coordinate.
func (w Waypoint) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}
	if strings.TrimSpace(w.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	return w.Coords.Validate()
}
