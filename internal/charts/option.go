// Package charts builds ECharts option trees for the dashboard and detail pages.
// The browser hands an Option to echarts.setOption unchanged.
package charts

// Light theme colors
const (
	backgroundColor = "rgba(255,255,255,0.8)"
	textColor       = "#333"
	axisLineColor   = "#666"
	splitLineColor  = "#eee"
)

// Option is the root of an ECharts option.
type Option struct {
	BackgroundColor string     `json:"backgroundColor,omitempty"`
	Title           *Title     `json:"title,omitempty"`
	Tooltip         *Tooltip   `json:"tooltip,omitempty"`
	Legend          *Legend    `json:"legend,omitempty"`
	Grid            *Grid      `json:"grid,omitempty"`
	XAxis           []Axis     `json:"xAxis,omitempty"`
	YAxis           []Axis     `json:"yAxis,omitempty"`
	Geo             *Geo       `json:"geo,omitempty"`
	Series          []Series   `json:"series"`
	DataZoom        []DataZoom `json:"dataZoom,omitempty"`
	Toolbox         *Toolbox   `json:"toolbox,omitempty"`
}

type Title struct {
	Text      string     `json:"text"`
	Subtext   string     `json:"subtext,omitempty"`
	Left      string     `json:"left,omitempty"`
	Bottom    any        `json:"bottom,omitempty"`
	TextStyle *TextStyle `json:"textStyle,omitempty"`
}

type TextStyle struct {
	Color string `json:"color,omitempty"`
}

type Tooltip struct {
	Trigger     string       `json:"trigger"`
	Formatter   string       `json:"formatter,omitempty"`
	AxisPointer *AxisPointer `json:"axisPointer,omitempty"`
}

type AxisPointer struct {
	Type string `json:"type"`
}

type Legend struct {
	Data      []string   `json:"data"`
	Orient    string     `json:"orient,omitempty"`
	Left      string     `json:"left,omitempty"`
	Top       string     `json:"top,omitempty"`
	Bottom    string     `json:"bottom,omitempty"`
	TextStyle *TextStyle `json:"textStyle,omitempty"`
}

type Grid struct {
	Left         string `json:"left,omitempty"`
	Right        string `json:"right,omitempty"`
	Top          string `json:"top,omitempty"`
	Bottom       string `json:"bottom,omitempty"`
	ContainLabel bool   `json:"containLabel"`
}

type Axis struct {
	Type          string     `json:"type"`
	Name          string     `json:"name,omitempty"`
	NameLocation  string     `json:"nameLocation,omitempty"`
	NameGap       int        `json:"nameGap,omitempty"`
	NameRotate    int        `json:"nameRotate,omitempty"`
	NameTextStyle *TextStyle `json:"nameTextStyle,omitempty"`
	Data          []string   `json:"data,omitempty"`
	BoundaryGap   *bool      `json:"boundaryGap,omitempty"`
	Inverse       bool       `json:"inverse,omitempty"`
	Scale         bool       `json:"scale,omitempty"`
	Position      string     `json:"position,omitempty"`
	AxisLabel     *AxisLabel `json:"axisLabel,omitempty"`
	AxisLine      *AxisLine  `json:"axisLine,omitempty"`
	SplitLine     *SplitLine `json:"splitLine,omitempty"`
}

type AxisLabel struct {
	Color     string `json:"color,omitempty"`
	Rotate    int    `json:"rotate,omitempty"`
	Formatter string `json:"formatter,omitempty"`
}

type AxisLine struct {
	LineStyle *LineStyle `json:"lineStyle,omitempty"`
}

type SplitLine struct {
	Show      *bool      `json:"show,omitempty"`
	LineStyle *LineStyle `json:"lineStyle,omitempty"`
}

type LineStyle struct {
	Color   string  `json:"color,omitempty"`
	Width   int     `json:"width,omitempty"`
	Type    string  `json:"type,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
}

// Color is either a plain CSS color string or a *Gradient.
type Color any

// Gradient is an ECharts linear gradient.
type Gradient struct {
	Type       string      `json:"type"`
	X          float64     `json:"x"`
	Y          float64     `json:"y"`
	X2         float64     `json:"x2"`
	Y2         float64     `json:"y2"`
	ColorStops []ColorStop `json:"colorStops"`
}

type ColorStop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

// verticalGradient fades top to bottom through the given stops.
func verticalGradient(stops ...ColorStop) *Gradient {
	return &Gradient{Type: "linear", X: 0, Y: 0, X2: 0, Y2: 1, ColorStops: stops}
}

type ItemStyle struct {
	Color        Color  `json:"color,omitempty"`
	BorderRadius []int  `json:"borderRadius,omitempty"`
	BorderColor  string `json:"borderColor,omitempty"`
	BorderWidth  int    `json:"borderWidth,omitempty"`
	AreaColor    string `json:"areaColor,omitempty"`
}

type AreaStyle struct {
	Color Color `json:"color,omitempty"`
}

type Emphasis struct {
	Focus     string     `json:"focus,omitempty"`
	Disabled  bool       `json:"disabled,omitempty"`
	ItemStyle *ItemStyle `json:"itemStyle,omitempty"`
}

type Series struct {
	Name             string     `json:"name"`
	Type             string     `json:"type"`
	Data             any        `json:"data"`
	CoordinateSystem string     `json:"coordinateSystem,omitempty"`
	YAxisIndex       int        `json:"yAxisIndex,omitempty"`
	Smooth           any        `json:"smooth,omitempty"`
	Symbol           string     `json:"symbol,omitempty"`
	SymbolSize       int        `json:"symbolSize,omitempty"`
	ShowSymbol       *bool      `json:"showSymbol,omitempty"`
	ConnectNulls     bool       `json:"connectNulls,omitempty"`
	ItemStyle        *ItemStyle `json:"itemStyle,omitempty"`
	LineStyle        *LineStyle `json:"lineStyle,omitempty"`
	AreaStyle        *AreaStyle `json:"areaStyle,omitempty"`
	Emphasis         *Emphasis  `json:"emphasis,omitempty"`
}

// DataPoint is a named series item, used where the tooltip needs more than the value.
type DataPoint struct {
	Name       string `json:"name"`
	Value      any    `json:"value"`
	RecordTime string `json:"record_time,omitempty"`
}

type DataZoom struct {
	Type   string `json:"type"`
	Show   bool   `json:"show,omitempty"`
	Start  *int   `json:"start,omitempty"`
	End    *int   `json:"end,omitempty"`
	Bottom string `json:"bottom,omitempty"`
}

type Geo struct {
	Map       string     `json:"map"`
	Roam      bool       `json:"roam"`
	Center    [2]float64 `json:"center"`
	Zoom      float64    `json:"zoom"`
	ItemStyle *ItemStyle `json:"itemStyle,omitempty"`
	Emphasis  *Emphasis  `json:"emphasis,omitempty"`
}

type Toolbox struct {
	Feature   map[string]any `json:"feature"`
	Right     any            `json:"right,omitempty"`
	Bottom    any            `json:"bottom,omitempty"`
	IconStyle *ItemStyle     `json:"iconStyle,omitempty"`
}

// Panel is one chart on a page. Either Option or Error is set.
type Panel struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Option *Option `json:"option,omitempty"`
	Empty  bool    `json:"empty"`
	Error  string  `json:"error,omitempty"`
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

func axisStyle() (*AxisLabel, *AxisLine, *SplitLine) {
	return &AxisLabel{Color: textColor},
		&AxisLine{LineStyle: &LineStyle{Color: axisLineColor}},
		&SplitLine{LineStyle: &LineStyle{Color: splitLineColor}}
}

func bottomTitle(text string) *Title {
	return &Title{Text: text, Left: "center", Bottom: 0, TextStyle: &TextStyle{Color: textColor}}
}

func zoomSlider(bottom string) []DataZoom {
	return []DataZoom{
		{Type: "inside", Start: intPtr(0), End: intPtr(100)},
		{Type: "slider", Show: true, Start: intPtr(0), End: intPtr(100), Bottom: bottom},
	}
}

func defaultGrid() *Grid {
	return &Grid{Left: "8%", Right: "8%", Bottom: "25%", Top: "10%", ContainLabel: true}
}
