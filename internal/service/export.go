package service

import (
	"context"

	"github.com/pkordes/daytrip/internal/domain"
)

// WaypointLister is the read side of WaypointStore used by the export.
type WaypointLister interface {
	List() []domain.Waypoint
}

// ActivityLister is the read side of itinerary.Store used by the export.
type ActivityLister interface {
	List() []domain.Activity
}

// ExportService assembles a flat export of every waypoint.
type ExportService struct {
	waypoints  WaypointLister
	activities ActivityLister
}

// NewExportService constructs an ExportService over the given stores.
func NewExportService(waypoints WaypointLister, activities ActivityLister) *ExportService {
	return &ExportService{waypoints: waypoints, activities: activities}
}

// Export returns one ExportRow per waypoint in insertion order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ExportService) Export(_ context.Context) ([]domain.ExportRow, error) {
	acts := s.activities.List()
	ws := s.waypoints.List()

	rows := make([]domain.ExportRow, 0, len(ws))
	for _, w := range ws {
		row := domain.ExportRow{
			WaypointID:  w.ID,
			Title:       w.Title,
			Description: w.Description,
			Lat:         w.Coords.Lat,
			Lng:         w.Coords.Lng,
			CreatedAt:   w.CreatedAt,
		}
		for i, a := range acts {
			d := w.Coords.DistanceTo(a.Coords)
			if i == 0 || d < row.NearestActivityM {
				row.NearestActivityID = a.ID
				row.NearestActivityTitle = a.Title
				row.NearestActivityM = d
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
