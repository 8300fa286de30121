package service

import (
	"context"
	"fmt"

	"github.com/jengzang/iceberg-dashboard/internal/logging"
	"github.com/jengzang/iceberg-dashboard/internal/models"
	"github.com/jengzang/iceberg-dashboard/internal/navigation"
	"github.com/jengzang/iceberg-dashboard/internal/session"
	"github.com/jengzang/iceberg-dashboard/internal/validation"
	"github.com/jengzang/iceberg-dashboard/internal/viewstate"
)

// ViewSaver persists a session's view. *session.Manager implements it.
type ViewSaver interface {
	SaveView(ctx context.Context, s *session.Session) error
}

// MapView is a snapshot plus the notifications raised while producing it
type MapView struct {
	viewstate.Snapshot
	Notifications []models.Notification `json:"notifications,omitempty"`
}

// ViewportReport is what the browser map sends on ready and after pan/zoom
type ViewportReport struct {
	Bounds models.Bounds `json:"bounds" validate:"required"`
	Zoom   int           `json:"zoom" validate:"gte=0,lte=22"`
	// Ready is set on the map's first report.
	Ready bool `json:"ready"`
}

// MapService drives a session's coordinator and persists the resulting view
type MapService struct {
	saver ViewSaver
}

// NewMapService creates a map service
func NewMapService(saver ViewSaver) *MapService {
	return &MapService{saver: saver}
}

// View returns the current view without changing it.
func (m *MapService) View(sess *session.Session) MapView {
	return m.view(sess, sess.Coordinator.Snapshot())
}

// Focus opens the map on one iceberg.
func (m *MapService) Focus(ctx context.Context, sess *session.Session, p navigation.Params) (MapView, error) {
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return MapView{}, err
	}
	if !p.HasIceberg() {
		return MapView{}, fmt.Errorf("%w: iceberg id is required", navigation.ErrInvalidParams)
	}
	snap := sess.Coordinator.FocusByID(ctx, p.IcebergID)
	m.save(ctx, sess)
	return m.view(sess, snap), nil
}

// Search runs a criteria search.
func (m *MapService) Search(ctx context.Context, sess *session.Session, criteria models.SearchCriteria) (MapView, error) {
	if err := validation.ValidateStruct(&criteria); err != nil {
		return MapView{}, err
	}
	snap := sess.Coordinator.RunCriteriaSearch(ctx, criteria)
	m.save(ctx, sess)
	return m.view(sess, snap), nil
}

// SetMode switches to search or heatmap mode. Single focus is entered through Focus.
func (m *MapService) SetMode(ctx context.Context, sess *session.Session, mode viewstate.Mode) (MapView, error) {
	var snap viewstate.Snapshot
	switch mode {
	case viewstate.ModeSearch:
		snap = sess.Coordinator.SwitchToSearchMode()
	case viewstate.ModeHeatmap:
		snap = sess.Coordinator.SwitchToHeatmapMode()
	default:
		return MapView{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	m.save(ctx, sess)
	return m.view(sess, snap), nil
}

// ReportViewport records what the map shows. It never fetches.
func (m *MapService) ReportViewport(sess *session.Session, r ViewportReport) (MapView, error) {
	if err := validation.ValidateStruct(&r); err != nil {
		return MapView{}, err
	}
	vp := viewstate.Viewport{Bounds: r.Bounds, Zoom: r.Zoom}
	var snap viewstate.Snapshot
	if r.Ready || !sess.Coordinator.Snapshot().MapReady {
		snap = sess.Coordinator.MapReady(vp)
	} else {
		snap = sess.Coordinator.ViewChanged(vp)
	}
	return m.view(sess, snap), nil
}

// Heatmap generates a heatmap for bounds, or for the last reported viewport when nil.
func (m *MapService) Heatmap(ctx context.Context, sess *session.Session, bounds *models.Bounds) (MapView, error) {
	if bounds != nil {
		if err := validation.ValidateStruct(bounds); err != nil {
			return MapView{}, err
		}
	}
	snap, err := sess.Coordinator.GenerateHeatmapForViewport(ctx, bounds)
	if err != nil {
		return MapView{}, err
	}
	m.save(ctx, sess)
	return m.view(sess, snap), nil
}

// Clear resets the map.
func (m *MapService) Clear(ctx context.Context, sess *session.Session) MapView {
	snap := sess.Coordinator.Clear()
	m.save(ctx, sess)
	return m.view(sess, snap)
}

func (m *MapService) save(ctx context.Context, sess *session.Session) {
	if err := m.saver.SaveView(ctx, sess); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("failed to persist map view")
	}
}

func (m *MapService) view(sess *session.Session, snap viewstate.Snapshot) MapView {
	return MapView{Snapshot: snap, Notifications: sess.Coordinator.DrainNotifications()}
}
