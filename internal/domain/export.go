package domain

import "time"

// ExportRow is a single row of the waypoint export: one row per waypoint,
// with the closest itinerary stop attached so the list makes sense offline.
// NearestActivityID is empty when the itinerary is empty.
type ExportRow struct {
	WaypointID  string
	Title       string
	Description string
	Lat         float64
	Lng         float64
	CreatedAt   time.Time

	NearestActivityID    string
	NearestActivityTitle string
	NearestActivityM     float64 // great-circle distance in meters
}
