package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jengzang/iceberg-dashboard/internal/charts"
	"github.com/jengzang/iceberg-dashboard/internal/icebergapi"
	"github.com/jengzang/iceberg-dashboard/internal/logging"
	"github.com/jengzang/iceberg-dashboard/internal/metrics"
	"github.com/jengzang/iceberg-dashboard/internal/models"
	"github.com/jengzang/iceberg-dashboard/internal/stats"
)

// StatsAPI is the part of the iceberg API the dashboard needs.
type StatsAPI interface {
	SizeDistribution(ctx context.Context) ([]models.SizeBin, error)
	ActiveCountOverTime(ctx context.Context) ([]models.ActiveCount, error)
	CorrelationData(ctx context.Context) ([]models.CorrelationPoint, error)
	BirthDeathLocations(ctx context.Context) ([]models.BirthDeathLocation, error)
}

// Dashboard is the statistics page payload. Panels are in display order.
type Dashboard struct {
	Panels      []charts.Panel `json:"panels"`
	Totals      DashboardTotal `json:"totals"`
	GeneratedAt string         `json:"generated_at"`
}

// DashboardTotal holds headline figures derived from the loaded statistics
type DashboardTotal struct {
	Icebergs    int            `json:"icebergs"`
	PeakActive  int            `json:"peak_active"`
	PeakMonth   string         `json:"peak_month,omitempty"`
	Area        *stats.Summary `json:"area,omitempty"`
	Births      int            `json:"births"`
	Melts       int            `json:"melts"`
	Correlation *float64       `json:"correlation,omitempty"`
}

// DashboardService loads every dashboard statistic
type DashboardService struct {
	api StatsAPI
	now func() time.Time
}

// NewDashboardService creates a dashboard service
func NewDashboardService(api StatsAPI) *DashboardService {
	return &DashboardService{api: api, now: time.Now}
}

// Load fetches all statistics concurrently. A failed statistic turns its
// panels into error panels; Load itself never fails.
func (s *DashboardService) Load(ctx context.Context) *Dashboard {
	var (
		sizes       []models.SizeBin
		sizesErr    error
		active      []models.ActiveCount
		activeErr   error
		corr        []models.CorrelationPoint
		corrErr     error
		locations   []models.BirthDeathLocation
		locationErr error
	)

	// Each panel keeps its own error so one failed source degrades only its
	// panel; the callbacks return nil and Wait never fails.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sizes, sizesErr = s.api.SizeDistribution(gctx)
		return nil
	})
	g.Go(func() error {
		active, activeErr = s.api.ActiveCountOverTime(gctx)
		return nil
	})
	g.Go(func() error {
		corr, corrErr = s.api.CorrelationData(gctx)
		return nil
	})
	g.Go(func() error {
		locations, locationErr = s.api.BirthDeathLocations(gctx)
		return nil
	})
	_ = g.Wait()

	d := &Dashboard{GeneratedAt: s.now().UTC().Format(time.RFC3339)}

	d.Panels = append(d.Panels,
		panelOrError(ctx, charts.PanelSizeDistribution, sizesErr, func() charts.Panel {
			return charts.NewPanel(charts.PanelSizeDistribution, charts.SizeDistribution(sizes), len(sizes) == 0)
		}),
		panelOrError(ctx, charts.PanelActiveCount, activeErr, func() charts.Panel {
			return charts.NewPanel(charts.PanelActiveCount, charts.ActiveCount(active), len(active) == 0)
		}),
		panelOrError(ctx, charts.PanelCorrelation, corrErr, func() charts.Panel {
			return charts.NewPanel(charts.PanelCorrelation, charts.Correlation(corr), len(corr) == 0)
		}),
		panelOrError(ctx, charts.PanelBirthDeath, locationErr, func() charts.Panel {
			return charts.NewPanel(charts.PanelBirthDeath, charts.BirthDeath(locations), len(locations) == 0)
		}),
		panelOrError(ctx, charts.PanelLatitudeTrend, locationErr, func() charts.Panel {
			return charts.NewPanel(charts.PanelLatitudeTrend, charts.LocationTrend(locations, charts.Latitude), len(locations) == 0)
		}),
		panelOrError(ctx, charts.PanelLongitudeTrend, locationErr, func() charts.Panel {
			return charts.NewPanel(charts.PanelLongitudeTrend, charts.LocationTrend(locations, charts.Longitude), len(locations) == 0)
		}),
	)

	d.Totals = totals(sizes, active, corr, locations)
	return d
}

func panelOrError(ctx context.Context, id string, err error, build func() charts.Panel) charts.Panel {
	if err == nil {
		return build()
	}
	metrics.RecordChartFailure(id)
	logging.Ctx(ctx).Warn().Err(err).Str("chart", id).Msg("dashboard statistic unavailable")
	return charts.ErrorPanel(id, icebergapi.Message(err))
}

func totals(sizes []models.SizeBin, active []models.ActiveCount, corr []models.CorrelationPoint, locations []models.BirthDeathLocation) DashboardTotal {
	var t DashboardTotal
	for _, b := range sizes {
		t.Icebergs += b.Value
	}
	for _, a := range active {
		if a.Value > t.PeakActive {
			t.PeakActive = a.Value
			t.PeakMonth = a.Time
		}
	}

	areas := make([]float64, 0, len(corr))
	var xs, ys []float64
	for _, p := range corr {
		areas = append(areas, p.Area)
		if p.RotationalVelocity != nil {
			xs = append(xs, p.Area)
			ys = append(ys, *p.RotationalVelocity)
		}
	}
	if len(areas) > 0 {
		sum := stats.Summarize(areas)
		t.Area = &sum
	}
	if trend, ok := stats.Fit(xs, ys); ok {
		r := trend.R
		t.Correlation = &r
	}

	for _, l := range locations {
		switch l.Type {
		case models.LocationBirth:
			t.Births++
		case models.LocationDeath:
			t.Melts++
		}
	}
	return t
}
