package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pkordes/daytrip/internal/domain"
)

// DefaultWaypointKey is the namespace key the waypoint set is stored under.
const DefaultWaypointKey = "customMarkers"

// ErrMalformedRecord is returned by WaypointRepo.Load when stored data could
// not be decoded. Load still returns every waypoint it could recover.
var ErrMalformedRecord = errors.New("malformed stored record")

// WaypointRepo round-trips the full waypoint set. There is no incremental
// write: every Save replaces the whole stored sequence.
type WaypointRepo interface {
	// Load returns the stored waypoints in insertion order. A missing record
	// yields an empty set and no error. Undecodable entries are skipped and
	// reported through an error wrapping ErrMalformedRecord alongside the
	// waypoints that did decode.
	Load(ctx context.Context) ([]domain.Waypoint, error)

	// Save replaces the stored set with ws.
	Save(ctx context.Context, ws []domain.Waypoint) error
}

// waypointRecord is the persisted shape of a single waypoint.
// Timestamp is Unix milliseconds; the field names are the durable format.
type waypointRecord struct {
	ID          string  `json:"id"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Timestamp   int64   `json:"timestamp"`
}

// recordWaypointRepo stores the waypoint set as a JSON array in a RecordRepo.
type recordWaypointRepo struct {
	records RecordRepo
	key     string
}

// NewWaypointRepo constructs a WaypointRepo storing under key in records.
// An empty key selects DefaultWaypointKey.
func NewWaypointRepo(records RecordRepo, key string) WaypointRepo {
	if key == "" {
		key = DefaultWaypointKey
	}
	return &recordWaypointRepo{records: records, key: key}
}

func (r *recordWaypointRepo) Load(ctx context.Context) ([]domain.Waypoint, error) {
	raw, err := r.records.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.Waypoint{}, nil
		}
		return nil, fmt.Errorf("repo.WaypointRepo.Load: %w", err)
	}
	ws, err := DecodeWaypoints(raw)
	if err != nil {
		return ws, fmt.Errorf("repo.WaypointRepo.Load: %w", err)
	}
	return ws, nil
}

func (r *recordWaypointRepo) Save(ctx context.Context, ws []domain.Waypoint) error {
	raw, err := EncodeWaypoints(ws)
	if err != nil {
		return fmt.Errorf("repo.WaypointRepo.Save: %w", err)
	}
	if err := r.records.Put(ctx, r.key, raw); err != nil {
		return fmt.Errorf("repo.WaypointRepo.Save: %w", err)
	}
	return nil
}

// EncodeWaypoints serializes ws in order as the durable JSON array.
func EncodeWaypoints(ws []domain.Waypoint) ([]byte, error) {
	recs := make([]waypointRecord, len(ws))
	for i, w := range ws {
		recs[i] = waypointRecord{
			ID:        w.ID,
			Lat:       w.Coords.Lat,
			Lng:       w.Coords.Lng,
			Title:     w.Title,
			Timestamp: w.CreatedAt.UnixMilli(),
		}
		if w.Description != "" {
			d := w.Description
			recs[i].Description = &d
		}
	}
	return json.Marshal(recs)
}

// DecodeWaypoints parses the durable JSON array. Blank input and JSON null
// decode to an empty set. Each entry is decoded and validated on its own;
// bad entries are skipped and joined into an error wrapping ErrMalformedRecord.
func DecodeWaypoints(raw []byte) ([]domain.Waypoint, error) {
	out := []domain.Waypoint{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return out, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return out, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	var errs []error
	for i, entry := range entries {
		w, err := decodeWaypoint(entry)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: entry %d: %v", ErrMalformedRecord, i, err))
			continue
		}
		out = append(out, w)
	}
	return out, errors.Join(errs...)
}

func decodeWaypoint(entry json.RawMessage) (domain.Waypoint, error) {
	var rec waypointRecord
	if err := json.Unmarshal(entry, &rec); err != nil {
		return domain.Waypoint{}, err
	}
	w := domain.Waypoint{
		ID:        rec.ID,
		Coords:    domain.Coordinate{Lat: rec.Lat, Lng: rec.Lng},
		Title:     rec.Title,
		CreatedAt: time.UnixMilli(rec.Timestamp),
	}
	if rec.Description != nil {
		w.Description = *rec.Description
	}
	if err := w.Validate(); err != nil {
		return domain.Waypoint{}, err
	}
	return w, nil
}
