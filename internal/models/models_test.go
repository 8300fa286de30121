package models

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCriteriaQuery(t *testing.T) {
	t.Run("all fields unset omits every parameter", func(t *testing.T) {
		var c SearchCriteria
		assert.Empty(t, c.Query())
		assert.True(t, c.IsEmpty())
	})

	t.Run("only set fields are encoded", func(t *testing.T) {
		c := SearchCriteria{MinArea: Float(10), MaxLat: Float(-60.5)}
		q := c.Query()
		assert.Len(t, q, 2)
		assert.Equal(t, "10", q.Get("minArea"))
		assert.Equal(t, "-60.5", q.Get("maxLat"))
		assert.False(t, c.IsEmpty())
	})

	t.Run("zero is a real constraint", func(t *testing.T) {
		c := SearchCriteria{MinLon: Float(0)}
		assert.Equal(t, "0", c.Query().Get("minLon"))
	})
}

func TestBoundsQuery(t *testing.T) {
	b := Bounds{MinLat: -70, MaxLat: -60, MinLon: -50, MaxLon: -40}
	q := b.Query()
	assert.Equal(t, "-70", q.Get("minLat"))
	assert.Equal(t, "-60", q.Get("maxLat"))
	assert.Equal(t, "-50", q.Get("minLon"))
	assert.Equal(t, "-40", q.Get("maxLon"))
}

func TestHeatmapPointJSON(t *testing.T) {
	out, err := json.Marshal([]HeatmapPoint{{Latitude: -65.5, Longitude: -50, Intensity: 0.8}})
	require.NoError(t, err)
	assert.JSONEq(t, `[[-65.5,-50,0.8]]`, string(out))

	var pts []HeatmapPoint
	require.NoError(t, json.Unmarshal([]byte(`[[-70,-45,0.2],[-71,-44]]`), &pts))
	require.Len(t, pts, 2)
	assert.Equal(t, HeatmapPoint{Latitude: -70, Longitude: -45, Intensity: 0.2}, pts[0])
	assert.Equal(t, 1.0, pts[1].Intensity)

	var bad HeatmapPoint
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &bad))
}

func TestIcebergDetailCurrent(t *testing.T) {
	var nilDetail *IcebergDetail
	_, ok := nilDetail.Current()
	assert.False(t, ok)

	d := &IcebergDetail{ID: "B-22", Trajectory: []TrajectoryPoint{
		{Latitude: -74, Longitude: -110, ObservedAt: "2024-01-01T00:00:00Z"},
		{Latitude: -73.5, Longitude: -109, ObservedAt: "2024-02-01T00:00:00Z"},
	}}
	cur, ok := d.Current()
	require.True(t, ok)
	assert.Equal(t, -73.5, cur.Latitude)
}

func TestSortComments(t *testing.T) {
	comments := []Comment{
		{CommentID: 1, SuggestionTime: "2024-01-02"},
		{CommentID: 2, SuggestionTime: "garbage"},
		{CommentID: 3, SuggestionTime: "2024-03-01T10:00:00"},
		{CommentID: 4, SuggestionTime: "2023-12-31"},
	}

	SortCommentsNewestFirst(comments)
	assert.Equal(t, []int64{3, 1, 4, 2}, ids(comments))

	SortCommentsOldestFirst(comments)
	assert.Equal(t, []int64{4, 1, 3, 2}, ids(comments))
}

func ids(cs []Comment) []int64 {
	out := make([]int64, len(cs))
	for i, c := range cs {
		out[i] = c.CommentID
	}
	return out
}
