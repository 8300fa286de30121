package spatial

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"github.com/jengzang/iceberg-dashboard/internal/models"
)

// ErrInvalidBounds is returned for viewports that cannot be queried.
var ErrInvalidBounds = errors.New("invalid bounds")

// Rect converts bounds to an s2 rectangle. A MinLon greater than MaxLon
// describes a viewport crossing the antimeridian.
func Rect(b models.Bounds) s2.Rect {
	lat := r1.Interval{
		Lo: (s1.Angle(b.MinLat) * s1.Degree).Radians(),
		Hi: (s1.Angle(b.MaxLat) * s1.Degree).Radians(),
	}
	lng := s1.IntervalFromEndpoints(
		(s1.Angle(b.MinLon) * s1.Degree).Radians(),
		(s1.Angle(b.MaxLon) * s1.Degree).Radians(),
	)
	return s2.Rect{Lat: lat, Lng: lng}
}

// ValidateBounds checks that latitudes are ordered and every edge is on the globe.
func ValidateBounds(b models.Bounds) error {
	switch {
	case b.MinLat < -90 || b.MaxLat > 90:
		return fmt.Errorf("%w: latitude outside [-90, 90]", ErrInvalidBounds)
	case b.MinLat > b.MaxLat:
		return fmt.Errorf("%w: minLat %.4f > maxLat %.4f", ErrInvalidBounds, b.MinLat, b.MaxLat)
	case b.MinLon < -180 || b.MinLon > 180 || b.MaxLon < -180 || b.MaxLon > 180:
		return fmt.Errorf("%w: longitude outside [-180, 180]", ErrInvalidBounds)
	}
	return nil
}

// ClampBounds pulls a map viewport back onto the globe. Leaflet reports
// longitudes beyond ±180 after panning across the antimeridian several times.
func ClampBounds(b models.Bounds) models.Bounds {
	b.MinLat = clamp(b.MinLat, -90, 90)
	b.MaxLat = clamp(b.MaxLat, -90, 90)
	if b.MaxLon-b.MinLon >= 360 {
		b.MinLon, b.MaxLon = -180, 180
		return b
	}
	b.MinLon = wrapLongitude(b.MinLon)
	b.MaxLon = wrapLongitude(b.MaxLon)
	return b
}

// Center returns the center of the bounds.
func Center(b models.Bounds) Point {
	c := Rect(b).Center()
	return Point{Lat: c.Lat.Degrees(), Lon: c.Lng.Degrees()}
}

// Contains reports whether the point lies inside the bounds.
func Contains(b models.Bounds, lat, lon float64) bool {
	return Rect(b).ContainsLatLng(s2.LatLngFromDegrees(lat, lon))
}

func wrapLongitude(lon float64) float64 {
	if lon >= -180 && lon <= 180 {
		return lon
	}
	return (s1.Angle(lon) * s1.Degree).Normalized().Degrees()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
