package spatial

import (
	"github.com/golang/geo/s2"

	"github.com/jengzang/iceberg-dashboard/internal/models"
)

// EarthRadiusKm is the mean Earth radius used for every distance in this package.
const EarthRadiusKm = 6371.0

// Point is a position in degrees.
type Point struct {
	Lat float64
	Lon float64
}

func (p Point) latLng() s2.LatLng {
	return s2.LatLngFromDegrees(p.Lat, p.Lon)
}

// DistanceKm is the great-circle distance from p to q.
func (p Point) DistanceKm(q Point) float64 {
	return p.latLng().Distance(q.latLng()).Radians() * EarthRadiusKm
}

// TrajectoryPoints drops the observation metadata, keeping order. Predicted
// positions are included.
func TrajectoryPoints(traj []models.TrajectoryPoint) []Point {
	points := make([]Point, len(traj))
	for i, p := range traj {
		points[i] = Point{Lat: p.Latitude, Lon: p.Longitude}
	}
	return points
}

// PathKm is the distance travelled along the trajectory.
func PathKm(points []Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += points[i-1].DistanceKm(points[i])
	}
	return total
}

// DisplacementKm is how far the last point lies from the first.
func DisplacementKm(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}
	return points[0].DistanceKm(points[len(points)-1])
}

// Extent is the smallest lat/lon rectangle covering the points. For a track
// that crosses the antimeridian MinLon is greater than MaxLon, matching Rect.
func Extent(points []Point) (models.Bounds, bool) {
	if len(points) == 0 {
		return models.Bounds{}, false
	}
	r := s2.EmptyRect()
	for _, p := range points {
		r = r.AddPoint(p.latLng())
	}
	return models.Bounds{
		MinLat: r.Lo().Lat.Degrees(),
		MaxLat: r.Hi().Lat.Degrees(),
		MinLon: r.Lo().Lng.Degrees(),
		MaxLon: r.Hi().Lng.Degrees(),
	}, true
}
