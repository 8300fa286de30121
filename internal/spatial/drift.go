package spatial

import "math"

// Bearing is the initial great-circle heading from a to b in degrees [0, 360).
func Bearing(a, b Point) float64 {
	lat1, lat2 := a.Lat*math.Pi/180, b.Lat*math.Pi/180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return normalizeDegrees(math.Atan2(y, x) * 180 / math.Pi)
}

// Drift summarizes the direction an iceberg has been moving.
type Drift struct {
	// Bearing is the length-weighted circular mean of leg headings, in degrees.
	Bearing float64 `json:"bearing"`
	// Steadiness is the mean resultant length in [0, 1]; 1 means every leg
	// pointed the same way.
	Steadiness float64 `json:"steadiness"`
	Legs       int     `json:"legs"`
}

// MeanDrift averages leg headings along points, weighting each leg by its
// length. Zero-length legs are ignored; ok is false when no leg remains.
func MeanDrift(points []Point) (d Drift, ok bool) {
	var sumSin, sumCos, sumW float64
	for i := 1; i < len(points); i++ {
		w := points[i-1].DistanceKm(points[i])
		if w == 0 {
			continue
		}
		rad := Bearing(points[i-1], points[i]) * math.Pi / 180
		sumSin += w * math.Sin(rad)
		sumCos += w * math.Cos(rad)
		sumW += w
		d.Legs++
	}
	if d.Legs == 0 {
		return Drift{}, false
	}

	d.Bearing = normalizeDegrees(math.Atan2(sumSin, sumCos) * 180 / math.Pi)
	d.Steadiness = math.Sqrt(sumSin*sumSin+sumCos*sumCos) / sumW
	return d, true
}

// CompassPoint names the 8-wind direction nearest to bearing.
func CompassPoint(bearing float64) string {
	names := [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	return names[int(math.Round(normalizeDegrees(bearing)/45))%8]
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
