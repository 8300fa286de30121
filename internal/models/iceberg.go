package models

import "time"

// IcebergSummary is one row of the home listing
type IcebergSummary struct {
	ID                    string `json:"iceberg_id"`
	LatestObservationTime string `json:"recent_observation"`
	DMSLatitude           string `json:"dms_latitude"`
	DMSLongitude          string `json:"dms_longitude"`
}

// ObservedAt parses LatestObservationTime. Several upstream formats are accepted.
func (s IcebergSummary) ObservedAt() (time.Time, bool) {
	return ParseObservationTime(s.LatestObservationTime)
}

// TrajectoryPoint is a single observed (or predicted) position
type TrajectoryPoint struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	ObservedAt   string  `json:"record_time"` // ISO-8601
	IsPrediction bool    `json:"is_prediction"`
}

// IcebergDetail is an iceberg with its trajectory, ordered by ObservedAt ascending
type IcebergDetail struct {
	ID              string            `json:"id"`
	Area            float64           `json:"area"` // km²
	SurroundingMask *string           `json:"mask,omitempty"`
	Trajectory      []TrajectoryPoint `json:"trajectory"`
}

// Current returns the most recent trajectory point.
func (d *IcebergDetail) Current() (TrajectoryPoint, bool) {
	if d == nil || len(d.Trajectory) == 0 {
		return TrajectoryPoint{}, false
	}
	return d.Trajectory[len(d.Trajectory)-1], true
}

var observationLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/06",
}

// ParseObservationTime parses the timestamp formats the iceberg API emits.
func ParseObservationTime(s string) (time.Time, bool) {
	for _, layout := range observationLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
