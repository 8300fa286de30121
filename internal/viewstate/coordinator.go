// Package viewstate coordinates what the map shows: a criteria search result,
// a single focused trajectory, or a heatmap of the current viewport.
//
// Exactly one mode is active and entering a mode discards the payload of the
// others. Every transition bumps a generation counter; a fetch started under an
// older generation has its result dropped instead of overwriting newer state.
package viewstate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jengzang/iceberg-dashboard/internal/icebergapi"
	"github.com/jengzang/iceberg-dashboard/internal/logging"
	"github.com/jengzang/iceberg-dashboard/internal/metrics"
	"github.com/jengzang/iceberg-dashboard/internal/models"
	"github.com/jengzang/iceberg-dashboard/internal/spatial"
)

// ErrMapNotReady is returned when a heatmap is requested before the map reported its viewport.
var ErrMapNotReady = errors.New("map not ready")

// Fetcher is the part of the iceberg API the coordinator needs.
type Fetcher interface {
	SearchByCriteria(ctx context.Context, criteria models.SearchCriteria) ([]models.IcebergDetail, error)
	GetByID(ctx context.Context, id string) (*models.IcebergDetail, error)
	GetByBounds(ctx context.Context, bounds models.Bounds) ([]models.HeatmapPoint, error)
}

var _ Fetcher = (icebergapi.API)(nil)

// Coordinator owns one map view. It is safe for concurrent use; fetches run
// outside the lock.
type Coordinator struct {
	api Fetcher

	mu         sync.Mutex
	generation uint64
	mode       Mode
	// lastBrowse is the mode a failed focus falls back to.
	lastBrowse Mode

	focusedID    string
	pendingFocus string
	focus        *models.IcebergDetail
	results      []models.IcebergDetail
	heatmap      []models.HeatmapPoint
	heatmapArea  *models.Bounds

	center    LatLng
	zoom      int
	pageError string
	loading   bool

	ready    bool
	viewport *Viewport

	notifications []models.Notification
}

// New creates a coordinator in search mode at the default view.
func New(api Fetcher) *Coordinator {
	return &Coordinator{
		api:        api,
		mode:       ModeSearch,
		lastBrowse: ModeSearch,
		center:     DefaultCenter,
		zoom:       DefaultZoom,
	}
}

// FocusOnIceberg shows a single fetched iceberg.
func (c *Coordinator) FocusOnIceberg(detail models.IcebergDetail) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bumpLocked(false)
	c.applyFocusLocked(detail)
	return c.snapshotLocked()
}

// FocusByID fetches an iceberg and focuses on it. Focusing on the iceberg whose
// fetch is already in flight does nothing. Focusing on the iceberg already shown
// fetches nothing but drops any other focus still in flight.
func (c *Coordinator) FocusByID(ctx context.Context, id string) Snapshot {
	c.mu.Lock()
	if c.loading && c.pendingFocus == id {
		s := c.snapshotLocked()
		c.mu.Unlock()
		return s
	}
	if c.mode == ModeSingleFocus && c.focusedID == id {
		if c.loading {
			c.bumpLocked(false)
		}
		s := c.snapshotLocked()
		c.mu.Unlock()
		return s
	}
	gen := c.bumpLocked(true)
	c.pendingFocus = id
	c.pageError = ""
	c.mu.Unlock()

	detail, err := c.api.GetByID(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.staleLocked(ctx, gen, "focus") {
		return c.snapshotLocked()
	}
	c.loading = false
	c.pendingFocus = ""

	if err != nil {
		msg := icebergapi.Message(err)
		logging.Ctx(ctx).Warn().Err(err).Str("iceberg_id", id).Msg("focus fetch failed")
		c.notifyLocked(models.ErrorNotification("Error Loading Iceberg", msg))
		c.switchLocked(c.lastBrowse)
		c.pageError = msg
		return c.snapshotLocked()
	}
	if detail == nil {
		detail = &models.IcebergDetail{ID: id}
	}
	c.applyFocusLocked(*detail)
	return c.snapshotLocked()
}

// SwitchToSearchMode leaves focus or heatmap mode for criteria search.
func (c *Coordinator) SwitchToSearchMode() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.switchLocked(ModeSearch)
	return c.snapshotLocked()
}

// SwitchToHeatmapMode leaves focus or search mode for the heatmap.
func (c *Coordinator) SwitchToHeatmapMode() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.switchLocked(ModeHeatmap)
	return c.snapshotLocked()
}

// RunCriteriaSearch switches to search mode and replaces the displayed icebergs
// with the search result.
func (c *Coordinator) RunCriteriaSearch(ctx context.Context, criteria models.SearchCriteria) Snapshot {
	c.mu.Lock()
	c.switchLocked(ModeSearch)
	gen := c.bumpLocked(true)
	c.mu.Unlock()

	results, err := c.api.SearchByCriteria(ctx, criteria)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.staleLocked(ctx, gen, "search") {
		return c.snapshotLocked()
	}
	c.loading = false
	c.center, c.zoom = DefaultCenter, DefaultZoom

	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("criteria search failed")
		c.results = nil
		c.notifyLocked(models.ErrorNotification("Search Failed", icebergapi.Message(err)))
		return c.snapshotLocked()
	}

	c.results = results
	if len(results) == 0 {
		c.notifyLocked(models.InfoNotification("No Icebergs Found", "Try different search criteria."))
	}
	return c.snapshotLocked()
}

// MapReady records that the map exists and what it currently shows.
func (c *Coordinator) MapReady(vp Viewport) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ready = true
	c.viewport = &vp
	return c.snapshotLocked()
}

// ViewChanged records the latest pan/zoom. It never issues a fetch.
func (c *Coordinator) ViewChanged(vp Viewport) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.viewport = &vp
	return c.snapshotLocked()
}

// GenerateHeatmapForViewport queries iceberg locations inside bounds, or inside the
// last reported viewport when bounds is nil. A focused trajectory is dropped before
// the query is issued.
func (c *Coordinator) GenerateHeatmapForViewport(ctx context.Context, bounds *models.Bounds) (Snapshot, error) {
	c.mu.Lock()
	if !c.ready || c.viewport == nil {
		c.mu.Unlock()
		return Snapshot{}, ErrMapNotReady
	}
	area := c.viewport.Bounds
	if bounds != nil {
		area = *bounds
	}
	area = spatial.ClampBounds(area)
	if err := spatial.ValidateBounds(area); err != nil {
		c.mu.Unlock()
		return Snapshot{}, err
	}

	c.switchLocked(ModeHeatmap)
	gen := c.bumpLocked(true)
	c.heatmapArea = &area
	center := spatial.Center(area)
	c.center = LatLng{Lat: center.Lat, Lng: center.Lon}
	if c.viewport.Zoom > 0 {
		c.zoom = c.viewport.Zoom
	}
	c.mu.Unlock()

	points, err := c.api.GetByBounds(ctx, area)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.staleLocked(ctx, gen, "heatmap") {
		return c.snapshotLocked(), nil
	}
	c.loading = false

	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("heatmap fetch failed")
		c.heatmap = []models.HeatmapPoint{}
		c.notifyLocked(models.ErrorNotification("Heatmap Failed", icebergapi.Message(err)))
		return c.snapshotLocked(), nil
	}

	// The upstream may pad its bounding query; keep only points inside the area.
	inside := make([]models.HeatmapPoint, 0, len(points))
	for _, p := range points {
		if spatial.Contains(area, p.Latitude, p.Longitude) {
			inside = append(inside, p)
		}
	}
	points = inside
	c.heatmap = points
	if len(points) == 0 {
		c.notifyLocked(models.InfoNotification("No Icebergs In View",
			"No iceberg locations were found in the current map area."))
	}
	return c.snapshotLocked(), nil
}

// Clear resets the view to search mode at the default center with nothing displayed.
func (c *Coordinator) Clear() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bumpLocked(false)
	metrics.RecordTransition(string(c.mode), string(ModeSearch))
	c.mode = ModeSearch
	c.lastBrowse = ModeSearch
	c.clearPayloadLocked()
	c.center, c.zoom = DefaultCenter, DefaultZoom
	c.pageError = ""
	return c.snapshotLocked()
}

// Snapshot returns a copy of the current view.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// DrainNotifications returns the pending notifications and forgets them.
func (c *Coordinator) DrainNotifications() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.notifications
	c.notifications = nil
	return out
}

// bumpLocked starts a new generation. Results of fetches from older generations
// are discarded.
func (c *Coordinator) bumpLocked(fetching bool) uint64 {
	c.generation++
	c.loading = fetching
	c.pendingFocus = ""
	return c.generation
}

func (c *Coordinator) staleLocked(ctx context.Context, gen uint64, op string) bool {
	if gen == c.generation {
		return false
	}
	metrics.RecordStaleResult(op)
	logging.Ctx(ctx).Debug().
		Str("operation", op).
		Uint64("generation", gen).
		Uint64("current", c.generation).
		Msg("discarding stale result")
	return true
}

// switchLocked enters a browse mode. Entering the active mode keeps its payload
// but still resets the view and drops a pending focus; entering another mode
// starts a new generation.
func (c *Coordinator) switchLocked(to Mode) {
	switch {
	case c.mode != to:
		c.bumpLocked(false)
		metrics.RecordTransition(string(c.mode), string(to))
		c.clearPayloadLocked()
		c.mode = to
	case c.pendingFocus != "":
		c.bumpLocked(false)
	}
	if to != ModeSingleFocus {
		c.lastBrowse = to
	}
	c.focusedID = ""
	c.focus = nil
	c.center, c.zoom = DefaultCenter, DefaultZoom
	c.pageError = ""
}

func (c *Coordinator) applyFocusLocked(detail models.IcebergDetail) {
	if c.mode != ModeSingleFocus {
		metrics.RecordTransition(string(c.mode), string(ModeSingleFocus))
	}
	c.clearPayloadLocked()
	c.mode = ModeSingleFocus
	c.focusedID = detail.ID
	c.focus = &detail
	c.pageError = ""

	if cur, ok := detail.Current(); ok {
		c.center = LatLng{Lat: cur.Latitude, Lng: cur.Longitude}
		c.zoom = FocusedZoom
		return
	}
	c.center = DefaultCenter
	c.zoom = EmptyTrajectoryZoom
	c.notifyLocked(models.InfoNotification("No Trajectory Data",
		fmt.Sprintf("Iceberg %s has no trajectory points to display.", detail.ID)))
}

func (c *Coordinator) clearPayloadLocked() {
	c.focusedID = ""
	c.focus = nil
	c.results = nil
	c.heatmap = nil
	c.heatmapArea = nil
}

func (c *Coordinator) notifyLocked(n models.Notification) {
	metrics.RecordNotification(n.Level)
	c.notifications = append(c.notifications, n)
}

func (c *Coordinator) snapshotLocked() Snapshot {
	s := Snapshot{
		Mode:       c.mode,
		Center:     c.center,
		Zoom:       c.zoom,
		FocusedID:  c.focusedID,
		Entities:   []Entity{},
		Heatmap:    []models.HeatmapPoint{},
		Error:      c.pageError,
		Loading:    c.loading,
		MapReady:   c.ready,
		Generation: c.generation,
	}
	if c.viewport != nil {
		vp := *c.viewport
		s.Viewport = &vp
	}

	switch c.mode {
	case ModeSingleFocus:
		if c.focus != nil {
			s.Entities = []Entity{newEntity(*c.focus)}
		}
	case ModeSearch:
		for _, d := range c.results {
			s.Entities = append(s.Entities, newEntity(d))
		}
	case ModeHeatmap:
		s.Heatmap = append(s.Heatmap, c.heatmap...)
		if c.heatmapArea != nil {
			area := *c.heatmapArea
			s.HeatmapArea = &area
		}
		if len(c.heatmap) > 0 {
			s.HeatmapStyle = defaultHeatmapStyle()
		}
	}
	return s
}
