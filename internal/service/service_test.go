package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/iceberg-dashboard/internal/auth"
	"github.com/jengzang/iceberg-dashboard/internal/charts"
	"github.com/jengzang/iceberg-dashboard/internal/database"
	"github.com/jengzang/iceberg-dashboard/internal/icebergapi"
	"github.com/jengzang/iceberg-dashboard/internal/models"
	"github.com/jengzang/iceberg-dashboard/internal/navigation"
	"github.com/jengzang/iceberg-dashboard/internal/repository"
	"github.com/jengzang/iceberg-dashboard/internal/session"
	"github.com/jengzang/iceberg-dashboard/internal/validation"
	"github.com/jengzang/iceberg-dashboard/internal/viewstate"
)

var recentSince = time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)

func summary(id, observed string) models.IcebergSummary {
	return models.IcebergSummary{ID: id, LatestObservationTime: observed, DMSLatitude: "75 45'S", DMSLongitude: "45 15'W"}
}

func TestListingDefaultViewKeepsRecentRows(t *testing.T) {
	api := &fakeAPI{latest: []models.IcebergSummary{
		summary("A23A", "2025-01-10"),
		summary("a68a", "2024-11-01"),
		summary("B22", "2024-12-01"),
		summary("C21B", "garbage"),
	}}
	svc := NewListingService(api, recentSince, 10)

	got, err := svc.Load(context.Background(), ListingQuery{})
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "A23A", got.Rows[0].ID)
	assert.Equal(t, "B22", got.Rows[1].ID)
	require.NotNil(t, got.Rows[0].Latitude)
	assert.InDelta(t, -75.75, *got.Rows[0].Latitude, 1e-9)
	assert.InDelta(t, -45.25, *got.Rows[0].Longitude, 1e-9)
}

func TestListingSearchIsCaseInsensitiveNewestFirst(t *testing.T) {
	api := &fakeAPI{latest: []models.IcebergSummary{
		summary("a68a", "2024-11-01"),
		summary("A23A", "2025-01-10"),
		summary("B22", "2025-02-01"),
	}}
	svc := NewListingService(api, recentSince, 10)

	got, err := svc.Load(context.Background(), ListingQuery{Search: " A "})
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "A23A", got.Rows[0].ID)
	assert.Equal(t, "a68a", got.Rows[1].ID)
	assert.Equal(t, "A", got.Search)
}

func TestListingSearchTruncates(t *testing.T) {
	var rows []models.IcebergSummary
	for i := 1; i <= 15; i++ {
		rows = append(rows, summary(fmt.Sprintf("X%d", i), fmt.Sprintf("2025-01-%02d", i)))
	}
	svc := NewListingService(&fakeAPI{latest: rows}, recentSince, 10)

	got, err := svc.Load(context.Background(), ListingQuery{Search: "x"})
	require.NoError(t, err)
	assert.Len(t, got.Rows, 10)
	assert.Equal(t, 15, got.Total)
	assert.Equal(t, "X15", got.Rows[0].ID)
}

func TestListingUpstreamFailure(t *testing.T) {
	svc := NewListingService(&fakeAPI{latestErr: errors.New("down")}, recentSince, 10)
	_, err := svc.Load(context.Background(), ListingQuery{})
	assert.Error(t, err)
}

func detailAPI() *fakeAPI {
	area := 12.5
	rv := 0.3
	rec := "2025-01-01"
	api := &fakeAPI{
		details: map[string]models.IcebergDetail{
			"A23A": {ID: "A23A", Area: 3800, Trajectory: []models.TrajectoryPoint{
				{Latitude: -70, Longitude: -50, ObservedAt: "2024-12-01"},
				{Latitude: -71, Longitude: -50, ObservedAt: "2024-12-15"},
				{Latitude: -72, Longitude: -50, ObservedAt: "2025-01-01", IsPrediction: true},
			}},
		},
		series: &models.IcebergTimeSeries{
			Details:    models.TimeSeriesDetails{ID: "A23A"},
			TimeSeries: []models.TimeSeriesPoint{{RecordTime: &rec, Area: &area, RotationalVelocity: &rv}},
		},
	}
	for i := 1; i <= 7; i++ {
		api.comments = append(api.comments, models.Comment{
			CommentID:      int64(i),
			UserName:       "bob",
			SuggestionText: "note",
			SuggestionTime: fmt.Sprintf("2025-01-%02d", i),
		})
	}
	return api
}

func TestDetailLoad(t *testing.T) {
	api := detailAPI()
	svc := NewDetailService(api)

	got, err := svc.Load(context.Background(), testSession(api, true), "A23A")
	require.NoError(t, err)

	assert.Equal(t, 2, got.Observations)
	assert.Equal(t, 1, got.Predictions)
	assert.InDelta(t, 2*111.195, got.PathKm, 0.5)
	require.NotNil(t, got.Current)
	assert.Equal(t, "72 0'S", got.Current.DMSLatitude)
	require.NotNil(t, got.Drift)
	assert.Equal(t, "S", got.DriftDirection)
	assert.True(t, got.CanDelete)

	require.Len(t, got.Comments, MaxDetailComments)
	assert.Equal(t, int64(7), got.Comments[0].CommentID)

	assert.Equal(t, charts.PanelTimeSeries, got.TimeSeriesChart.ID)
	assert.Empty(t, got.TimeSeriesChart.Error)
	require.NotNil(t, got.AreaSummary)
	assert.Equal(t, 1, got.AreaSummary.Count)
	assert.Empty(t, got.Notifications)
}

func TestDetailPartialFailure(t *testing.T) {
	api := detailAPI()
	api.commErr = &icebergapi.APIError{Status: 500, Message: "db down"}
	api.seriesErr = errors.New("timeout")
	svc := NewDetailService(api)

	got, err := svc.Load(context.Background(), testSession(api, false), "A23A")
	require.NoError(t, err)
	assert.False(t, got.CanDelete)
	assert.Empty(t, got.Comments)
	assert.Equal(t, "timeout", got.TimeSeriesChart.Error)
	require.Len(t, got.Notifications, 2)
	assert.Equal(t, "db down", got.Notifications[0].Description)
}

func TestDetailNotFound(t *testing.T) {
	api := detailAPI()
	_, err := NewDetailService(api).Load(context.Background(), testSession(api, false), "NOPE")
	require.Error(t, err)
	assert.True(t, icebergapi.IsNotFound(err))
}

func TestDashboardLoad(t *testing.T) {
	rv := 0.5
	rv2 := 1.0
	birth := "2010-03-01"
	api := &fakeAPI{
		sizes:  []models.SizeBin{{Name: "0-10", Value: 4}, {Name: "10-20", Value: 6}},
		active: []models.ActiveCount{{Time: "2020-01", Value: 3}, {Time: "2020-02", Value: 9}},
		corr: []models.CorrelationPoint{
			{ID: "a", Area: 10, RotationalVelocity: &rv},
			{ID: "b", Area: 20, RotationalVelocity: &rv2},
			{ID: "c", Area: 30},
		},
		locations: []models.BirthDeathLocation{
			{ID: "a", Type: models.LocationBirth, Latitude: -70, Longitude: -50, RecordTime: &birth},
			{ID: "a", Type: models.LocationDeath, Latitude: -60, Longitude: -40, RecordTime: &birth},
		},
	}
	d := NewDashboardService(api).Load(context.Background())

	require.Len(t, d.Panels, 6)
	ids := make([]string, len(d.Panels))
	for i, p := range d.Panels {
		ids[i] = p.ID
		assert.Empty(t, p.Error, p.ID)
	}
	assert.Equal(t, []string{
		charts.PanelSizeDistribution, charts.PanelActiveCount, charts.PanelCorrelation,
		charts.PanelBirthDeath, charts.PanelLatitudeTrend, charts.PanelLongitudeTrend,
	}, ids)

	assert.Equal(t, 10, d.Totals.Icebergs)
	assert.Equal(t, 9, d.Totals.PeakActive)
	assert.Equal(t, "2020-02", d.Totals.PeakMonth)
	assert.Equal(t, 1, d.Totals.Births)
	assert.Equal(t, 1, d.Totals.Melts)
	require.NotNil(t, d.Totals.Correlation)
	assert.InDelta(t, 1, *d.Totals.Correlation, 1e-9)
	require.NotNil(t, d.Totals.Area)
	assert.Equal(t, 3, d.Totals.Area.Count)
}

func TestDashboardFailingStatisticKeepsOthers(t *testing.T) {
	api := &fakeAPI{
		sizes:    []models.SizeBin{{Name: "0-10", Value: 4}},
		corrErr:  &icebergapi.APIError{Status: 500, Message: "correlation broke"},
		locErr:   errors.New("unreachable"),
		sizesErr: nil,
	}
	d := NewDashboardService(api).Load(context.Background())
	require.Len(t, d.Panels, 6)

	byID := map[string]charts.Panel{}
	for _, p := range d.Panels {
		byID[p.ID] = p
	}
	assert.Empty(t, byID[charts.PanelSizeDistribution].Error)
	assert.NotNil(t, byID[charts.PanelSizeDistribution].Option)
	assert.True(t, byID[charts.PanelActiveCount].Empty)
	assert.Equal(t, "correlation broke", byID[charts.PanelCorrelation].Error)
	assert.Equal(t, "unreachable", byID[charts.PanelBirthDeath].Error)
	assert.Equal(t, "unreachable", byID[charts.PanelLatitudeTrend].Error)
	assert.Nil(t, byID[charts.PanelCorrelation].Option)
}

func TestCommentSubmitStampsUserAndTime(t *testing.T) {
	api := &fakeAPI{}
	svc := NewCommentService(api)
	svc.now = func() time.Time { return time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC) }

	c, err := svc.Submit(context.Background(), testSession(api, false), "A23A", CommentInput{Suggestion: "  drifting north  "})
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.CommentID)
	assert.Equal(t, "alice", c.UserName)
	assert.Equal(t, "drifting north", c.SuggestionText)
	assert.Equal(t, "2025-02-03T04:05:06", c.SuggestionTime)

	require.Len(t, api.submitted, 1)
	assert.Equal(t, "A23A", api.submitted[0].IcebergID)
}

func TestCommentSubmitRejectsEmpty(t *testing.T) {
	api := &fakeAPI{}
	_, err := NewCommentService(api).Submit(context.Background(), testSession(api, false), "A23A", CommentInput{Suggestion: "   "})
	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)
	assert.Empty(t, api.submitted)
}

func TestCommentDelete(t *testing.T) {
	api := &fakeAPI{}
	svc := NewCommentService(api)

	err := svc.Delete(context.Background(), testSession(api, false), 3)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.Delete(context.Background(), testSession(api, true), 3))
	assert.Equal(t, []int64{3}, api.deleted)

	api.deleteErr = &icebergapi.APIError{Status: 404, Message: "Comment not Found"}
	err = svc.Delete(context.Background(), testSession(api, true), 9)
	assert.ErrorIs(t, err, ErrCommentNotFound)
	assert.Equal(t, "Comment not Found", icebergapi.Message(err))
}

func TestCommentListOrder(t *testing.T) {
	api := detailAPI()
	svc := NewCommentService(api)

	newest, err := svc.List(context.Background(), testSession(api, false), "A23A", false)
	require.NoError(t, err)
	assert.Equal(t, int64(7), newest[0].CommentID)

	oldest, err := svc.List(context.Background(), testSession(api, false), "A23A", true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), oldest[0].CommentID)
	assert.Len(t, oldest, 7)
}

func newSessionManager(t *testing.T, api viewstate.Fetcher) *session.Manager {
	t.Helper()
	conn, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "s.db")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	tokens, err := auth.NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)
	return session.NewManager(repository.NewSessionRepository(conn), tokens, api)
}

func TestAuthLoginOpensSession(t *testing.T) {
	api := &fakeAPI{loginRes: &models.LoginResult{AccessToken: "up", IsSuperuser: true}}
	sessions := newSessionManager(t, api)
	svc := NewAuthService(api, sessions)

	res, err := svc.Login(context.Background(), models.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, res.User.IsSuperuser)
	assert.True(t, res.User.SignedIn)

	sess, err := sessions.Lookup(context.Background(), res.Token)
	require.NoError(t, err)
	assert.Equal(t, "up", sess.UpstreamToken)

	require.NoError(t, svc.Logout(context.Background(), sess))
	_, err = sessions.Lookup(context.Background(), res.Token)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestAuthRefreshKeepsSession(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{loginRes: &models.LoginResult{AccessToken: "up"}}
	sessions := newSessionManager(t, api)
	svc := NewAuthService(api, sessions)

	res, err := svc.Login(ctx, models.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	sess, err := sessions.Lookup(ctx, res.Token)
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, sess)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token)
	assert.Equal(t, "alice", refreshed.User.Username)
	assert.False(t, refreshed.ExpiresAt.Before(res.ExpiresAt))

	again, err := sessions.Lookup(ctx, refreshed.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, again.ID)
	assert.Equal(t, "up", again.UpstreamToken)
}

func TestAuthLoginBadCredentials(t *testing.T) {
	api := &fakeAPI{loginErr: &icebergapi.APIError{Status: 401, Message: "Bad Credentials"}}
	svc := NewAuthService(api, newSessionManager(t, api))

	_, err := svc.Login(context.Background(), models.Credentials{Username: "alice", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, 401, icebergapi.StatusCode(err))
	assert.Equal(t, "Bad Credentials", icebergapi.Message(err))

	_, err = svc.Login(context.Background(), models.Credentials{})
	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)
}

func TestAuthSignup(t *testing.T) {
	api := &fakeAPI{signupMsg: "User created successfully"}
	svc := NewAuthService(api, newSessionManager(t, api))

	msg, err := svc.Signup(context.Background(), models.Registration{Username: "bob", Password: "secret", Email: "b@x.io"})
	require.NoError(t, err)
	assert.Equal(t, "User created successfully", msg)

	api.signupErr = &icebergapi.APIError{Status: 409, Message: "User already exists"}
	_, err = svc.Signup(context.Background(), models.Registration{Username: "bob", Password: "secret", Email: "b@x.io"})
	assert.Equal(t, 409, icebergapi.StatusCode(err))
}

type recordingSaver struct{ saved int }

func (r *recordingSaver) SaveView(context.Context, *session.Session) error {
	r.saved++
	return nil
}

func TestMapServiceFlow(t *testing.T) {
	ctx := context.Background()
	api := detailAPI()
	api.heatmap = []models.HeatmapPoint{{Latitude: -70, Longitude: -50, Intensity: 1}}
	saver := &recordingSaver{}
	svc := NewMapService(saver)
	sess := testSession(api, false)

	view, err := svc.Focus(ctx, sess, navigation.Params{IcebergID: " A23A "})
	require.NoError(t, err)
	assert.Equal(t, viewstate.ModeSingleFocus, view.Mode)
	assert.Equal(t, "A23A", view.FocusedID)
	assert.Equal(t, 1, saver.saved)

	_, err = svc.Focus(ctx, sess, navigation.Params{})
	assert.ErrorIs(t, err, navigation.ErrInvalidParams)
	_, err = svc.Focus(ctx, sess, navigation.Params{IcebergID: "../x"})
	assert.ErrorIs(t, err, navigation.ErrInvalidParams)

	_, err = svc.Heatmap(ctx, sess, nil)
	assert.ErrorIs(t, err, viewstate.ErrMapNotReady)

	_, err = svc.ReportViewport(sess, ViewportReport{
		Bounds: models.Bounds{MinLat: -75, MaxLat: -65, MinLon: -60, MaxLon: -40},
		Zoom:   5,
		Ready:  true,
	})
	require.NoError(t, err)

	view, err = svc.Heatmap(ctx, sess, nil)
	require.NoError(t, err)
	assert.Equal(t, viewstate.ModeHeatmap, view.Mode)
	assert.Empty(t, view.FocusedID)
	assert.Len(t, view.Heatmap, 1)

	_, err = svc.SetMode(ctx, sess, viewstate.ModeSingleFocus)
	assert.ErrorIs(t, err, ErrInvalidMode)

	view, err = svc.SetMode(ctx, sess, viewstate.ModeSearch)
	require.NoError(t, err)
	assert.Equal(t, viewstate.ModeSearch, view.Mode)

	view, err = svc.Search(ctx, sess, models.SearchCriteria{MinArea: models.Float(100)})
	require.NoError(t, err)
	require.Len(t, view.Notifications, 1)
	assert.Equal(t, "No Icebergs Found", view.Notifications[0].Title)

	_, err = svc.Search(ctx, sess, models.SearchCriteria{MinLat: models.Float(-120)})
	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)

	view = svc.Clear(ctx, sess)
	assert.Equal(t, viewstate.DefaultCenter, view.Center)
}

func TestMapServiceFocusMissingRaisesNotification(t *testing.T) {
	api := detailAPI()
	svc := NewMapService(&recordingSaver{})
	sess := testSession(api, false)

	view, err := svc.Focus(context.Background(), sess, navigation.Params{IcebergID: "B-22"})
	require.NoError(t, err)
	assert.Equal(t, viewstate.ModeSearch, view.Mode)
	assert.Equal(t, "Iceberg not found", view.Error)
	require.Len(t, view.Notifications, 1)
	assert.Equal(t, models.LevelError, view.Notifications[0].Level)
}
