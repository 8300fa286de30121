package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jengzang/iceberg-dashboard/internal/charts"
	"github.com/jengzang/iceberg-dashboard/internal/icebergapi"
	"github.com/jengzang/iceberg-dashboard/internal/logging"
	"github.com/jengzang/iceberg-dashboard/internal/models"
	"github.com/jengzang/iceberg-dashboard/internal/session"
	"github.com/jengzang/iceberg-dashboard/internal/spatial"
	"github.com/jengzang/iceberg-dashboard/internal/stats"
)

// MaxDetailComments caps the comments shown on the detail page.
const MaxDetailComments = 5

// DetailAPI is the part of the iceberg API the detail page needs.
type DetailAPI interface {
	GetByID(ctx context.Context, id string) (*models.IcebergDetail, error)
	Comments(ctx context.Context, icebergID string) ([]models.Comment, error)
	IcebergTimeSeries(ctx context.Context, id string) (*models.IcebergTimeSeries, error)
}

// Position is a trajectory point rendered for display
type Position struct {
	models.TrajectoryPoint
	DMSLatitude  string `json:"dms_latitude"`
	DMSLongitude string `json:"dms_longitude"`
}

// Detail is the iceberg detail page payload
type Detail struct {
	Iceberg         models.IcebergDetail  `json:"iceberg"`
	Current         *Position             `json:"current,omitempty"`
	Observations    int                   `json:"observations"`
	Predictions     int                   `json:"predictions"`
	PathKm          float64               `json:"path_km"`
	DisplacementKm  float64               `json:"displacement_km"`
	Extent          *models.Bounds        `json:"extent,omitempty"`
	Drift           *spatial.Drift        `json:"drift,omitempty"`
	DriftDirection  string                `json:"drift_direction,omitempty"`
	AreaSummary     *stats.Summary        `json:"area_summary,omitempty"`
	Comments        []models.Comment      `json:"comments"`
	CanDelete       bool                  `json:"can_delete"`
	TimeSeriesChart charts.Panel          `json:"timeseries_chart"`
	Notifications   []models.Notification `json:"notifications,omitempty"`
}

// DetailService assembles the detail page
type DetailService struct {
	api DetailAPI
}

// NewDetailService creates a detail service
func NewDetailService(api DetailAPI) *DetailService {
	return &DetailService{api: api}
}

// Load fetches the iceberg, its comments and its time series concurrently. Only
// a failure to load the iceberg itself is returned as an error; the other two
// degrade to notifications.
func (s *DetailService) Load(ctx context.Context, sess *session.Session, id string) (*Detail, error) {
	ctx = icebergapi.WithAccessToken(ctx, sess.UpstreamToken)

	var (
		detail      *models.IcebergDetail
		comments    []models.Comment
		commentsErr error
		series      *models.IcebergTimeSeries
		seriesErr   error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = s.api.GetByID(gctx, id)
		return err
	})
	g.Go(func() error {
		comments, commentsErr = s.api.Comments(gctx, id)
		return nil
	})
	g.Go(func() error {
		series, seriesErr = s.api.IcebergTimeSeries(gctx, id)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load iceberg %s: %w", id, err)
	}
	if detail == nil {
		return nil, fmt.Errorf("failed to load iceberg %s: empty response", id)
	}

	out := &Detail{
		Iceberg:   *detail,
		CanDelete: sess.User.IsSuperuser,
		Comments:  []models.Comment{},
	}
	s.describeTrajectory(out)

	if commentsErr != nil {
		logging.Ctx(ctx).Warn().Err(commentsErr).Str("iceberg", id).Msg("comments unavailable")
		out.Notifications = append(out.Notifications,
			models.WarningNotification("Comments Unavailable", icebergapi.Message(commentsErr)))
	} else {
		models.SortCommentsNewestFirst(comments)
		if len(comments) > MaxDetailComments {
			comments = comments[:MaxDetailComments]
		}
		out.Comments = comments
	}

	if series == nil && seriesErr == nil {
		series = &models.IcebergTimeSeries{}
	}
	if seriesErr != nil {
		logging.Ctx(ctx).Warn().Err(seriesErr).Str("iceberg", id).Msg("time series unavailable")
		msg := icebergapi.Message(seriesErr)
		out.TimeSeriesChart = charts.ErrorPanel(charts.PanelTimeSeries, msg)
		out.Notifications = append(out.Notifications,
			models.WarningNotification("Time Series Unavailable", msg))
	} else {
		out.TimeSeriesChart = charts.NewPanel(charts.PanelTimeSeries,
			charts.IcebergTimeSeries(*series), len(series.TimeSeries) == 0)
		out.AreaSummary = areaSummary(series)
	}

	return out, nil
}

func (s *DetailService) describeTrajectory(d *Detail) {
	traj := d.Iceberg.Trajectory
	for _, p := range traj {
		if p.IsPrediction {
			d.Predictions++
		} else {
			d.Observations++
		}
	}

	if cur, ok := d.Iceberg.Current(); ok {
		d.Current = &Position{
			TrajectoryPoint: cur,
			DMSLatitude:     spatial.FormatDMS(cur.Latitude, true),
			DMSLongitude:    spatial.FormatDMS(cur.Longitude, false),
		}
	}

	pts := spatial.TrajectoryPoints(traj)
	d.PathKm = spatial.PathKm(pts)
	d.DisplacementKm = spatial.DisplacementKm(pts)
	if b, ok := spatial.Extent(pts); ok {
		d.Extent = &b
	}
	if drift, ok := spatial.MeanDrift(pts); ok {
		d.Drift = &drift
		d.DriftDirection = spatial.CompassPoint(drift.Bearing)
	}
}

func areaSummary(ts *models.IcebergTimeSeries) *stats.Summary {
	var areas []float64
	for _, p := range ts.TimeSeries {
		if p.Area != nil {
			areas = append(areas, *p.Area)
		}
	}
	if len(areas) == 0 {
		return nil
	}
	sum := stats.Summarize(areas)
	return &sum
}
