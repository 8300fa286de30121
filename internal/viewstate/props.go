package viewstate

import (
	"fmt"
	"strings"

	"github.com/jengzang/iceberg-dashboard/internal/models"
	"github.com/jengzang/iceberg-dashboard/internal/spatial"
)

// Mode is the active variant of the map view.
type Mode string

const (
	ModeSearch      Mode = "search"
	ModeSingleFocus Mode = "single_focus"
	ModeHeatmap     Mode = "heatmap"
)

// Valid reports whether m names a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeSearch, ModeSingleFocus, ModeHeatmap:
		return true
	}
	return false
}

// LatLng is a map position.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Map defaults
var DefaultCenter = LatLng{Lat: -65, Lng: -50}

const (
	DefaultZoom         = 4
	FocusedZoom         = 7
	EmptyTrajectoryZoom = 5
)

// Viewport is what the map last reported: its visible bounds and zoom.
type Viewport struct {
	Bounds models.Bounds `json:"bounds"`
	Zoom   int           `json:"zoom"`
}

// Marker is the current-position marker of an entity.
type Marker struct {
	Position LatLng `json:"position"`
	Time     string `json:"time"`
	Popup    string `json:"popup"`
}

// Entity is one iceberg drawn on the map: its trajectory line and current marker.
// An iceberg without trajectory points has no positions and no marker.
type Entity struct {
	ID           string       `json:"id"`
	Area         float64      `json:"area"`
	Positions    [][2]float64 `json:"positions"`
	Current      *Marker      `json:"current,omitempty"`
	Observations int          `json:"observations"`
	PathKm       float64      `json:"path_km"`
}

// HeatmapStyle configures the Leaflet heat layer and its legend.
type HeatmapStyle struct {
	Radius   int               `json:"radius"`
	Blur     int               `json:"blur"`
	MaxZoom  int               `json:"maxZoom"`
	Max      float64           `json:"max"`
	Gradient map[string]string `json:"gradient"`
}

func defaultHeatmapStyle() *HeatmapStyle {
	return &HeatmapStyle{
		Radius:  25,
		Blur:    5,
		MaxZoom: 18,
		Max:     1.0,
		Gradient: map[string]string{
			"0.6": "rgba(255, 81, 89, 0.85)",
			"0.8": "rgba(255, 0, 0, 0.9)",
			"1.0": "rgba(200, 0, 0, 1.0)",
		},
	}
}

// Snapshot is a copy of the view, shaped as props for the map renderer.
type Snapshot struct {
	Mode         Mode                  `json:"mode"`
	Center       LatLng                `json:"center"`
	Zoom         int                   `json:"zoom"`
	FocusedID    string                `json:"focused_id,omitempty"`
	Entities     []Entity              `json:"entities"`
	Heatmap      []models.HeatmapPoint `json:"heatmap"`
	HeatmapStyle *HeatmapStyle         `json:"heatmap_style,omitempty"`
	HeatmapArea  *models.Bounds        `json:"heatmap_bounds,omitempty"`
	Error        string                `json:"error,omitempty"`
	Loading      bool                  `json:"loading"`
	MapReady     bool                  `json:"map_ready"`
	Viewport     *Viewport             `json:"viewport,omitempty"`
	Generation   uint64                `json:"generation"`
}

func newEntity(d models.IcebergDetail) Entity {
	e := Entity{
		ID:           d.ID,
		Area:         d.Area,
		Positions:    make([][2]float64, len(d.Trajectory)),
		Observations: len(d.Trajectory),
	}
	for i, p := range d.Trajectory {
		e.Positions[i] = [2]float64{p.Latitude, p.Longitude}
	}
	e.PathKm = spatial.PathKm(spatial.TrajectoryPoints(d.Trajectory))

	if cur, ok := d.Current(); ok {
		e.Current = &Marker{
			Position: LatLng{Lat: cur.Latitude, Lng: cur.Longitude},
			Time:     cur.ObservedAt,
			Popup:    popupText(d, cur),
		}
	}
	return e
}

func popupText(d models.IcebergDetail, cur models.TrajectoryPoint) string {
	lines := []string{
		"Iceberg ID: " + d.ID,
		fmt.Sprintf("Area: %.2f km²", d.Area),
		fmt.Sprintf("Latest Latitude: %.2f", cur.Latitude),
		fmt.Sprintf("Latest Longitude: %.2f", cur.Longitude),
	}
	if t, ok := models.ParseObservationTime(cur.ObservedAt); ok {
		lines = append(lines, "Time: "+t.UTC().Format("2006-01-02 15:04:05 MST"))
	} else if cur.ObservedAt != "" {
		lines = append(lines, "Time: "+cur.ObservedAt)
	}
	if cur.IsPrediction {
		lines = append(lines, "(predicted position)")
	}
	return strings.Join(lines, "\n")
}
