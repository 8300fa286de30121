package models

// SizeBin is one histogram bucket of iceberg areas
type SizeBin struct {
	Name  string `json:"name"`  // bin label, e.g. "10.00-20.00 km²"
	Value int    `json:"value"` // iceberg count
}

// ActiveCount is the number of distinct icebergs observed in a month
type ActiveCount struct {
	Time  string `json:"time"` // YYYY-MM
	Value int    `json:"value"`
}

// CorrelationPoint pairs an iceberg's area with its latest rotational velocity
type CorrelationPoint struct {
	ID                 string   `json:"id"`
	Area               float64  `json:"area"`
	RotationalVelocity *float64 `json:"rotationalVelocity"`
}

// Location event types
const (
	LocationBirth = "birth"
	LocationDeath = "death"
)

// BirthDeathLocation is the first or last known position of an iceberg
type BirthDeathLocation struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"` // birth, death
	Longitude  float64 `json:"longitude"`
	Latitude   float64 `json:"latitude"`
	Name       string  `json:"name,omitempty"`
	RecordTime *string `json:"record_time"`
}

// TimeSeriesPoint is one observation in an iceberg's time series
type TimeSeriesPoint struct {
	RecordTime         *string  `json:"record_time"`
	RotationalVelocity *float64 `json:"rotational_velocity"`
	Area               *float64 `json:"area"`
}

// TimeSeriesDetails describes the iceberg a time series belongs to
type TimeSeriesDetails struct {
	ID          string   `json:"id"`
	Mask        *string  `json:"mask"`
	InitialArea *float64 `json:"initial_area"`
}

// IcebergTimeSeries is the payload of /stats/iceberg/{id}/timeseries
type IcebergTimeSeries struct {
	Details    TimeSeriesDetails `json:"details"`
	TimeSeries []TimeSeriesPoint `json:"time_series"`
}

// StatisticKind names one of the dashboard statistics
type StatisticKind string

const (
	StatSizeDistribution StatisticKind = "size_distribution"
	StatActiveCount      StatisticKind = "active_count_over_time"
	StatCorrelation      StatisticKind = "correlation_data"
	StatBirthDeath       StatisticKind = "birth_death_locations"
)

// AllStatistics lists the dashboard statistics in display order.
var AllStatistics = []StatisticKind{
	StatSizeDistribution,
	StatActiveCount,
	StatCorrelation,
	StatBirthDeath,
}
