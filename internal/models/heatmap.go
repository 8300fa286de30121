package models

import (
	"fmt"

	"github.com/goccy/go-json"
)

// HeatmapPoint represents a single point in the heatmap.
// On the wire it is a [lat, lon, intensity] triple.
type HeatmapPoint struct {
	Latitude  float64
	Longitude float64
	Intensity float64
}

// MarshalJSON encodes the point as [lat, lon, intensity].
func (p HeatmapPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{p.Latitude, p.Longitude, p.Intensity})
}

// UnmarshalJSON accepts [lat, lon] or [lat, lon, intensity]; a missing intensity is 1.
func (p *HeatmapPoint) UnmarshalJSON(data []byte) error {
	var raw []float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("heatmap point: %w", err)
	}
	switch len(raw) {
	case 2:
		*p = HeatmapPoint{Latitude: raw[0], Longitude: raw[1], Intensity: 1}
	case 3:
		*p = HeatmapPoint{Latitude: raw[0], Longitude: raw[1], Intensity: raw[2]}
	default:
		return fmt.Errorf("heatmap point: want 2 or 3 values, got %d", len(raw))
	}
	return nil
}
