package charts

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"

	"github.com/jengzang/iceberg-dashboard/internal/models"
	"github.com/jengzang/iceberg-dashboard/internal/stats"
)

// Panel ids, stable for the browser
const (
	PanelSizeDistribution = "size_distribution"
	PanelActiveCount      = "active_count"
	PanelCorrelation      = "correlation"
	PanelBirthDeath       = "birth_death"
	PanelLatitudeTrend    = "latitude_trend"
	PanelLongitudeTrend   = "longitude_trend"
	PanelTimeSeries       = "timeseries"
)

var panelTitles = map[string]string{
	PanelSizeDistribution: "Iceberg Size Distribution",
	PanelActiveCount:      "Monthly Active Icebergs",
	PanelCorrelation:      "Iceberg Area vs. Rotational Velocity",
	PanelBirthDeath:       "Iceberg Birth and Melt Hotspots",
	PanelLatitudeTrend:    "Average Latitude of Iceberg Origins & Endpoints",
	PanelLongitudeTrend:   "Average Longitude of Iceberg Origins & Endpoints",
	PanelTimeSeries:       "Area and Rotational Velocity Over Time",
}

// NewPanel wraps a built option.
func NewPanel(id string, opt *Option, empty bool) Panel {
	return Panel{ID: id, Title: panelTitles[id], Option: opt, Empty: empty}
}

// ErrorPanel is shown in place of a chart whose data could not be loaded.
func ErrorPanel(id, msg string) Panel {
	return Panel{ID: id, Title: panelTitles[id], Error: msg}
}

// SizeDistribution is a bar chart of iceberg counts per area bin.
func SizeDistribution(bins []models.SizeBin) *Option {
	labels := make([]string, len(bins))
	values := make([]int, len(bins))
	for i, b := range bins {
		labels[i] = b.Name
		values[i] = b.Value
	}

	label, line, split := axisStyle()
	rotated := *label
	rotated.Rotate = 30

	return &Option{
		BackgroundColor: backgroundColor,
		Title:           bottomTitle(panelTitles[PanelSizeDistribution]),
		Tooltip:         &Tooltip{Trigger: "axis", AxisPointer: &AxisPointer{Type: "shadow"}},
		Grid:            defaultGrid(),
		XAxis: []Axis{{
			Type:      "category",
			Data:      labels,
			AxisLabel: &rotated,
			AxisLine:  line,
		}},
		YAxis: []Axis{{
			Type:          "value",
			Name:          "Number of Icebergs",
			NameLocation:  "middle",
			NameGap:       30,
			NameRotate:    90,
			NameTextStyle: &TextStyle{Color: textColor},
			AxisLabel:     label,
			AxisLine:      line,
			SplitLine:     split,
		}},
		Series: []Series{{
			Name: "Iceberg Count",
			Type: "bar",
			Data: values,
			ItemStyle: &ItemStyle{
				BorderRadius: []int{5, 5, 0, 0},
				Color: verticalGradient(
					ColorStop{Offset: 0, Color: "#83bff6"},
					ColorStop{Offset: 0.5, Color: "#188df0"},
					ColorStop{Offset: 1, Color: "#188df0"},
				),
			},
			Emphasis: &Emphasis{ItemStyle: &ItemStyle{Color: verticalGradient(
				ColorStop{Offset: 0, Color: "#2378f7"},
				ColorStop{Offset: 0.7, Color: "#2378f7"},
				ColorStop{Offset: 1, Color: "#83bff6"},
			)}},
		}},
		Toolbox:  toolbox("line", "bar"),
		DataZoom: zoomSlider("15%"),
	}
}

// ActiveCount is a line chart of active icebergs per month, oldest month first.
func ActiveCount(counts []models.ActiveCount) *Option {
	sorted := make([]models.ActiveCount, len(counts))
	copy(sorted, counts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	months := make([]string, len(sorted))
	values := make([]int, len(sorted))
	for i, c := range sorted {
		months[i] = c.Time
		values[i] = c.Value
	}

	label, line, split := axisStyle()
	return &Option{
		BackgroundColor: backgroundColor,
		Title:           bottomTitle(panelTitles[PanelActiveCount]),
		Tooltip:         &Tooltip{Trigger: "axis", Formatter: "Date: {b}<br />Active Icebergs: {c}"},
		Grid:            defaultGrid(),
		XAxis: []Axis{{
			Type:        "category",
			BoundaryGap: boolPtr(false),
			Data:        months,
			AxisLabel:   label,
			AxisLine:    line,
		}},
		YAxis: []Axis{{
			Type:          "value",
			Name:          "Number of Active Icebergs",
			NameLocation:  "middle",
			NameGap:       30,
			NameRotate:    90,
			NameTextStyle: &TextStyle{Color: textColor},
			AxisLabel:     label,
			AxisLine:      line,
			SplitLine:     split,
		}},
		Series: []Series{{
			Name:       "Active Icebergs",
			Type:       "line",
			Data:       values,
			Smooth:     0.3,
			Symbol:     "circle",
			SymbolSize: 8,
			ItemStyle:  &ItemStyle{Color: "#5470c6"},
			LineStyle:  &LineStyle{Width: 3},
			AreaStyle: &AreaStyle{Color: verticalGradient(
				ColorStop{Offset: 0, Color: "rgba(84, 112, 198, 0.5)"},
				ColorStop{Offset: 1, Color: "rgba(84, 112, 198, 0)"},
			)},
			Emphasis: &Emphasis{Focus: "series", ItemStyle: &ItemStyle{BorderWidth: 2, BorderColor: "#fff"}},
		}},
		Toolbox:  toolbox("line", "bar", "stack"),
		DataZoom: zoomSlider("15%"),
	}
}

// Correlation scatters area against rotational velocity. Icebergs without a
// velocity are plotted with a null y and left out of the least-squares trend line.
func Correlation(points []models.CorrelationPoint) *Option {
	data := make([]DataPoint, len(points))
	var xs, ys []float64
	for i, p := range points {
		var rv any
		if p.RotationalVelocity != nil {
			rv = *p.RotationalVelocity
			xs = append(xs, p.Area)
			ys = append(ys, *p.RotationalVelocity)
		}
		data[i] = DataPoint{Name: p.ID, Value: []any{p.Area, rv}}
	}

	title := bottomTitle(panelTitles[PanelCorrelation])
	series := []Series{{
		Name:       "Icebergs",
		Type:       "scatter",
		SymbolSize: 10,
		Data:       data,
		ItemStyle:  &ItemStyle{Color: "#fc8251"},
	}}
	legend := []string{"Icebergs"}

	if trend, ok := stats.Fit(xs, ys); ok {
		lo, hi := slices.Min(xs), slices.Max(xs)
		series = append(series, Series{
			Name:       "Trend",
			Type:       "line",
			ShowSymbol: boolPtr(false),
			Data:       [][2]float64{{lo, round(trend.At(lo), 4)}, {hi, round(trend.At(hi), 4)}},
			LineStyle:  &LineStyle{Color: "#5470c6", Width: 2, Type: "dashed", Opacity: 0.8},
			Emphasis:   &Emphasis{Disabled: true},
		})
		legend = append(legend, "Trend")
		title.Subtext = fmt.Sprintf("Pearson r = %.2f (n = %d)", trend.R, trend.N)
	}

	label, line, split := axisStyle()
	return &Option{
		BackgroundColor: backgroundColor,
		Title:           title,
		Tooltip: &Tooltip{
			Trigger:   "item",
			Formatter: "ID: {b}<br/>Area (km²), Rot. Vel. (deg/day): {c}",
		},
		Legend: &Legend{Data: legend, Top: "top", TextStyle: &TextStyle{Color: textColor}},
		Grid:   defaultGrid(),
		XAxis: []Axis{{
			Type:          "value",
			Name:          "Area (km²)",
			NameLocation:  "middle",
			NameGap:       30,
			NameTextStyle: &TextStyle{Color: textColor},
			Scale:         true,
			AxisLabel:     label,
			AxisLine:      line,
			SplitLine:     split,
		}},
		YAxis: []Axis{{
			Type:          "value",
			Name:          "Rotational Velocity (deg/day)",
			NameLocation:  "middle",
			NameGap:       40,
			NameRotate:    90,
			NameTextStyle: &TextStyle{Color: textColor},
			Scale:         true,
			AxisLabel:     label,
			AxisLine:      line,
			SplitLine:     split,
		}},
		Series: series,
		Toolbox: &Toolbox{
			Feature:   map[string]any{"saveAsImage": map[string]any{}, "dataZoom": map[string]any{}},
			Right:     20,
			IconStyle: &ItemStyle{BorderColor: textColor},
		},
		DataZoom: []DataZoom{{Type: "inside"}, {Type: "slider", Show: true, Bottom: "10%"}},
	}
}

// BirthDeath places first and last sightings on a world map centered on the Southern Ocean.
func BirthDeath(locations []models.BirthDeathLocation) *Option {
	births := []DataPoint{}
	deaths := []DataPoint{}
	for _, l := range locations {
		name := l.Name
		if name == "" {
			name = l.ID
		}
		p := DataPoint{Name: name, Value: [3]float64{l.Longitude, l.Latitude, 1}}
		if l.RecordTime != nil {
			p.RecordTime = *l.RecordTime
		}
		switch l.Type {
		case models.LocationBirth:
			births = append(births, p)
		case models.LocationDeath:
			deaths = append(deaths, p)
		}
	}

	return &Option{
		BackgroundColor: backgroundColor,
		Title:           &Title{Text: panelTitles[PanelBirthDeath], Left: "center", TextStyle: &TextStyle{Color: textColor}},
		Tooltip:         &Tooltip{Trigger: "item", Formatter: "{a}<br/>{b}<br/>Lon, Lat: {c}"},
		Geo: &Geo{
			Map:       "world",
			Roam:      true,
			Center:    [2]float64{-45, -60},
			Zoom:      2.5,
			ItemStyle: &ItemStyle{AreaColor: "#e0e0e0", BorderColor: "#ccc"},
			Emphasis:  &Emphasis{ItemStyle: &ItemStyle{AreaColor: "#d4d4d4"}},
		},
		Legend: &Legend{
			Data:      []string{"Birth Locations", "Melt Locations"},
			Orient:    "vertical",
			Left:      "left",
			Top:       "bottom",
			TextStyle: &TextStyle{Color: textColor},
		},
		Series: []Series{
			{
				Name:             "Birth Locations",
				Type:             "scatter",
				CoordinateSystem: "geo",
				Data:             births,
				SymbolSize:       10,
				ItemStyle:        &ItemStyle{Color: "#4ade80"},
			},
			{
				Name:             "Melt Locations",
				Type:             "scatter",
				CoordinateSystem: "geo",
				Data:             deaths,
				SymbolSize:       10,
				ItemStyle:        &ItemStyle{Color: "#f87171"},
			},
		},
		Toolbox: &Toolbox{
			Feature:   map[string]any{"saveAsImage": map[string]any{}, "restore": map[string]any{}},
			Right:     20,
			Bottom:    0,
			IconStyle: &ItemStyle{BorderColor: textColor},
		},
	}
}

// Coordinate selects which coordinate LocationTrend averages.
type Coordinate int

const (
	Latitude Coordinate = iota
	Longitude
)

// LocationTrend averages birth and last-seen positions per year and overlays a
// dashed least-squares trend for each.
func LocationTrend(locations []models.BirthDeathLocation, coord Coordinate) *Option {
	type acc struct{ sum, n float64 }
	byYear := map[string]map[string]*acc{models.LocationBirth: {}, models.LocationDeath: {}}
	yearSet := map[string]struct{}{}

	for _, l := range locations {
		if l.RecordTime == nil {
			continue
		}
		t, ok := models.ParseObservationTime(*l.RecordTime)
		if !ok {
			continue
		}
		group, ok := byYear[l.Type]
		if !ok {
			continue
		}
		year := strconv.Itoa(t.Year())
		yearSet[year] = struct{}{}
		v := l.Latitude
		if coord == Longitude {
			v = l.Longitude
		}
		a := group[year]
		if a == nil {
			a = &acc{}
			group[year] = a
		}
		a.sum += v
		a.n++
	}

	years := make([]string, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Strings(years)

	id, unit, axisName := PanelLatitudeTrend, "Latitude", "Latitude (°)"
	if coord == Longitude {
		id, unit, axisName = PanelLongitudeTrend, "Longitude", "Longitude (°)"
	}

	series := func(kind, name, color string) []Series {
		values := make([]any, len(years))
		var xs, ys []float64
		for i, y := range years {
			a := byYear[kind][y]
			if a == nil {
				continue
			}
			mean := round(a.sum/a.n, 4)
			values[i] = mean
			xs = append(xs, float64(i))
			ys = append(ys, mean)
		}
		out := []Series{{
			Name:         name + " " + unit,
			Type:         "line",
			Smooth:       true,
			ShowSymbol:   boolPtr(true),
			SymbolSize:   6,
			ConnectNulls: true,
			Data:         values,
			ItemStyle:    &ItemStyle{Color: color},
		}}
		trendValues := make([]any, len(years))
		if trend, ok := stats.Fit(xs, ys); ok {
			for i := range years {
				trendValues[i] = round(trend.At(float64(i)), 4)
			}
		}
		out = append(out, Series{
			Name:       name + " Trend",
			Type:       "line",
			ShowSymbol: boolPtr(false),
			Data:       trendValues,
			LineStyle:  &LineStyle{Color: color, Width: 2, Type: "dashed", Opacity: 0.8},
			Emphasis:   &Emphasis{Disabled: true},
		})
		return out
	}

	all := append(series(models.LocationBirth, "Birth", "#4ade80"),
		series(models.LocationDeath, "Last Seen", "#f87171")...)
	legend := make([]string, len(all))
	for i, s := range all {
		legend[i] = s.Name
	}

	label, line, split := axisStyle()
	return &Option{
		BackgroundColor: backgroundColor,
		Title:           &Title{Text: panelTitles[id], Left: "center", TextStyle: &TextStyle{Color: textColor}},
		Tooltip:         &Tooltip{Trigger: "axis"},
		Legend:          &Legend{Data: legend, Bottom: "2%", TextStyle: &TextStyle{Color: textColor}},
		Grid:            &Grid{Left: "3%", Right: "4%", Bottom: "20%", ContainLabel: true},
		XAxis: []Axis{{
			Type:        "category",
			BoundaryGap: boolPtr(false),
			Data:        years,
			AxisLabel:   label,
			AxisLine:    line,
		}},
		YAxis: []Axis{{
			Type:      "value",
			Name:      axisName,
			Scale:     true,
			AxisLabel: label,
			AxisLine:  line,
			SplitLine: split,
		}},
		Series:   all,
		DataZoom: []DataZoom{{Type: "inside"}, {Type: "slider", Show: true, Bottom: "10%"}},
		Toolbox: &Toolbox{
			Feature:   map[string]any{"saveAsImage": map[string]any{}, "restore": map[string]any{}},
			Right:     20,
			IconStyle: &ItemStyle{BorderColor: textColor},
		},
	}
}

// IcebergTimeSeries plots area (left axis) and rotational velocity (right axis)
// over the observation times of one iceberg.
func IcebergTimeSeries(ts models.IcebergTimeSeries) *Option {
	times := make([]string, len(ts.TimeSeries))
	areas := make([]any, len(ts.TimeSeries))
	velocities := make([]any, len(ts.TimeSeries))
	for i, p := range ts.TimeSeries {
		if p.RecordTime != nil {
			times[i] = *p.RecordTime
		}
		if p.Area != nil {
			areas[i] = *p.Area
		}
		if p.RotationalVelocity != nil {
			velocities[i] = *p.RotationalVelocity
		}
	}

	title := &Title{Text: "Iceberg " + ts.Details.ID, Left: "center", TextStyle: &TextStyle{Color: textColor}}
	if ts.Details.InitialArea != nil {
		title.Subtext = fmt.Sprintf("Initial area %.2f km²", *ts.Details.InitialArea)
	}

	label, line, split := axisStyle()
	return &Option{
		BackgroundColor: backgroundColor,
		Title:           title,
		Tooltip:         &Tooltip{Trigger: "axis", AxisPointer: &AxisPointer{Type: "cross"}},
		Legend:          &Legend{Data: []string{"Area", "Rotational Velocity"}, Bottom: "2%", TextStyle: &TextStyle{Color: textColor}},
		Grid:            defaultGrid(),
		XAxis: []Axis{{
			Type:        "category",
			BoundaryGap: boolPtr(false),
			Data:        times,
			AxisLabel:   label,
			AxisLine:    line,
		}},
		YAxis: []Axis{
			{
				Type:      "value",
				Name:      "Area (km²)",
				Position:  "left",
				Scale:     true,
				AxisLabel: label,
				AxisLine:  line,
				SplitLine: split,
			},
			{
				Type:      "value",
				Name:      "Rot. Vel. (deg/day)",
				Position:  "right",
				Scale:     true,
				AxisLabel: label,
				AxisLine:  line,
				SplitLine: &SplitLine{Show: boolPtr(false)},
			},
		},
		Series: []Series{
			{
				Name:         "Area",
				Type:         "line",
				Data:         areas,
				Smooth:       true,
				ConnectNulls: true,
				ItemStyle:    &ItemStyle{Color: "#5470c6"},
				AreaStyle: &AreaStyle{Color: verticalGradient(
					ColorStop{Offset: 0, Color: "rgba(84, 112, 198, 0.4)"},
					ColorStop{Offset: 1, Color: "rgba(84, 112, 198, 0)"},
				)},
			},
			{
				Name:         "Rotational Velocity",
				Type:         "line",
				YAxisIndex:   1,
				Data:         velocities,
				Smooth:       true,
				ConnectNulls: true,
				ItemStyle:    &ItemStyle{Color: "#fc8251"},
			},
		},
		DataZoom: zoomSlider("12%"),
		Toolbox:  toolbox("line", "bar"),
	}
}

func toolbox(magicTypes ...string) *Toolbox {
	titles := map[string]string{"line": "Line", "bar": "Bar", "stack": "Stack"}
	magicTitles := map[string]string{}
	for _, t := range magicTypes {
		magicTitles[t] = titles[t]
	}
	return &Toolbox{
		Feature: map[string]any{
			"saveAsImage": map[string]any{"title": "Save", "backgroundColor": "#fff"},
			"dataZoom":    map[string]any{"title": map[string]string{"zoom": "Zoom", "back": "Reset Zoom"}},
			"magicType":   map[string]any{"type": magicTypes, "title": magicTitles},
			"restore":     map[string]any{"title": "Restore"},
		},
		IconStyle: &ItemStyle{BorderColor: textColor},
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
