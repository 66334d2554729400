package domain

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// earthRadiusMeters is the mean Earth radius used for great-circle distances.
const earthRadiusMeters = 6371000

// Coordinate is an immutable (latitude, longitude) pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" yaml:"lng" validate:"gte=-180,lte=180"`
}

// Validate reports whether c is a finite point on the globe.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return fmt.Errorf("%w: coordinate must be finite", ErrValidation)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrValidation, c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrValidation, c.Lng)
	}
	return nil
}

// DistanceTo returns the great-circle distance between c and o in meters.
func (c Coordinate) DistanceTo(o Coordinate) float64 {
	p1 := s2.LatLngFromDegrees(c.Lat, c.Lng)
	p2 := s2.LatLngFromDegrees(o.Lat, o.Lng)
	return p1.Distance(p2).Radians() * earthRadiusMeters
}
