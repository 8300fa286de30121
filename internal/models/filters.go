package models

import (
	"net/url"
	"strconv"
)

// SearchCriteria represents filter parameters for the criteria search.
// A nil field is unconstrained.
type SearchCriteria struct {
	MinLon  *float64 `form:"minLon" json:"minLon,omitempty" validate:"omitempty,longitude"`
	MaxLon  *float64 `form:"maxLon" json:"maxLon,omitempty" validate:"omitempty,longitude"`
	MinLat  *float64 `form:"minLat" json:"minLat,omitempty" validate:"omitempty,latitude"`
	MaxLat  *float64 `form:"maxLat" json:"maxLat,omitempty" validate:"omitempty,latitude"`
	MinArea *float64 `form:"minArea" json:"minArea,omitempty" validate:"omitempty,gte=0"`
	MaxArea *float64 `form:"maxArea" json:"maxArea,omitempty" validate:"omitempty,gte=0"`
}

// Query encodes only the constrained fields, so an empty criteria yields no parameters.
func (c SearchCriteria) Query() url.Values {
	q := url.Values{}
	set := func(key string, v *float64) {
		if v != nil {
			q.Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
		}
	}
	set("minLon", c.MinLon)
	set("maxLon", c.MaxLon)
	set("minLat", c.MinLat)
	set("maxLat", c.MaxLat)
	set("minArea", c.MinArea)
	set("maxArea", c.MaxArea)
	return q
}

// IsEmpty reports whether no field is constrained.
func (c SearchCriteria) IsEmpty() bool {
	return len(c.Query()) == 0
}

// Bounds is a rectangular lat/lon viewport used to scope spatial queries
type Bounds struct {
	MinLat float64 `form:"minLat" json:"minLat" validate:"latitude"`
	MaxLat float64 `form:"maxLat" json:"maxLat" validate:"latitude,gtefield=MinLat"`
	MinLon float64 `form:"minLon" json:"minLon" validate:"longitude"`
	MaxLon float64 `form:"maxLon" json:"maxLon" validate:"longitude"`
}

// Query encodes all four edges.
func (b Bounds) Query() url.Values {
	q := url.Values{}
	q.Set("minLat", strconv.FormatFloat(b.MinLat, 'f', -1, 64))
	q.Set("maxLat", strconv.FormatFloat(b.MaxLat, 'f', -1, 64))
	q.Set("minLon", strconv.FormatFloat(b.MinLon, 'f', -1, 64))
	q.Set("maxLon", strconv.FormatFloat(b.MaxLon, 'f', -1, 64))
	return q
}

// Float returns a pointer to v; handy for building SearchCriteria.
func Float(v float64) *float64 {
	return &v
}
