package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/pkordes/daytrip/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"waypoint_id", "title", "description", "lat", "lng", "created_at",
	"nearest_activity_id", "nearest_activity_title", "nearest_activity_m",
}

// ExportRow is the JSON shape of one exported waypoint.
// The nearest-activity fields are omitted when the itinerary is empty.
type ExportRow struct {
	WaypointID           string    `json:"waypoint_id"`
	Title                string    `json:"title"`
	Description          *string   `json:"description,omitempty"`
	Lat                  float64   `json:"lat"`
	Lng                  float64   `json:"lng"`
	CreatedAt            time.Time `json:"created_at"`
	NearestActivityID    *string   `json:"nearest_activity_id,omitempty"`
	NearestActivityTitle *string   `json:"nearest_activity_title,omitempty"`
	NearestActivityM     *float64  `json:"nearest_activity_m,omitempty"`
}

// GetExport handles GET /waypoints/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format, ok := queryString(w, r, "format")
	if !ok {
		return
	}
	wantCSV := false
	if format != nil {
		switch *format {
		case "csv":
			wantCSV = true
		case "json":
		default:
			writeJSON(w, http.StatusUnprocessableEntity, requestBody("format must be csv or json"))
			return
		}
	}

	rows, err := s.svc.Export.Export(r.Context())
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	if wantCSV {
		writeCSV(w, rows)
		return
	}
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, domainRowToResponse(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes domain rows as CSV with a header row.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(domainRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="waypoints.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	buf.WriteTo(w)
}

// domainRowToResponse maps a domain.ExportRow to its JSON shape.
// Empty strings become nil pointers (omitempty in JSON).
func domainRowToResponse(r domain.ExportRow) ExportRow {
	row := ExportRow{
		WaypointID: r.WaypointID,
		Title:      r.Title,
		Lat:        r.Lat,
		Lng:        r.Lng,
		CreatedAt:  r.CreatedAt.UTC(),
	}
	if r.Description != "" {
		row.Description = &r.Description
	}
	if r.NearestActivityID != "" {
		row.NearestActivityID = &r.NearestActivityID
		row.NearestActivityTitle = &r.NearestActivityTitle
		m := r.NearestActivityM
		row.NearestActivityM = &m
	}
	return row
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Coordinates keep full precision; the distance is rounded to whole meters.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	dist := ""
	if r.NearestActivityID != "" {
		dist = strconv.FormatFloat(r.NearestActivityM, 'f', 0, 64)
	}
	return []string{
		r.WaypointID,
		r.Title,
		r.Description,
		strconv.FormatFloat(r.Lat, 'f', -1, 64),
		strconv.FormatFloat(r.Lng, 'f', -1, 64),
		r.CreatedAt.UTC().Format(time.RFC3339),
		r.NearestActivityID,
		r.NearestActivityTitle,
		dist,
	}
}
