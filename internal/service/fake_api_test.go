package service

import (
	"context"
	"sync"

	"github.com/jengzang/iceberg-dashboard/internal/icebergapi"
	"github.com/jengzang/iceberg-dashboard/internal/models"
	"github.com/jengzang/iceberg-dashboard/internal/session"
	"github.com/jengzang/iceberg-dashboard/internal/viewstate"
)

// fakeAPI serves canned responses; a non-nil error field fails that call.
type fakeAPI struct {
	mu sync.Mutex

	latest    []models.IcebergSummary
	latestErr error

	details   map[string]models.IcebergDetail
	search    []models.IcebergDetail
	heatmap   []models.HeatmapPoint
	comments  []models.Comment
	commErr   error
	series    *models.IcebergTimeSeries
	seriesErr error

	sizes     []models.SizeBin
	sizesErr  error
	active    []models.ActiveCount
	corr      []models.CorrelationPoint
	corrErr   error
	locations []models.BirthDeathLocation
	locErr    error

	submitted []models.NewComment
	deleteErr error
	deleted   []int64

	loginRes  *models.LoginResult
	loginErr  error
	signupMsg string
	signupErr error
}

func (f *fakeAPI) SearchByCriteria(context.Context, models.SearchCriteria) ([]models.IcebergDetail, error) {
	return f.search, nil
}

func (f *fakeAPI) GetByID(_ context.Context, id string) (*models.IcebergDetail, error) {
	d, ok := f.details[id]
	if !ok {
		return nil, &icebergapi.APIError{Status: 404, Message: "Iceberg not found"}
	}
	return &d, nil
}

func (f *fakeAPI) GetByBounds(context.Context, models.Bounds) ([]models.HeatmapPoint, error) {
	return f.heatmap, nil
}

func (f *fakeAPI) SizeDistribution(context.Context) ([]models.SizeBin, error) {
	return f.sizes, f.sizesErr
}

func (f *fakeAPI) ActiveCountOverTime(context.Context) ([]models.ActiveCount, error) {
	return f.active, nil
}

func (f *fakeAPI) CorrelationData(context.Context) ([]models.CorrelationPoint, error) {
	return f.corr, f.corrErr
}

func (f *fakeAPI) BirthDeathLocations(context.Context) ([]models.BirthDeathLocation, error) {
	return f.locations, f.locErr
}

func (f *fakeAPI) IcebergTimeSeries(context.Context, string) (*models.IcebergTimeSeries, error) {
	return f.series, f.seriesErr
}

func (f *fakeAPI) ListLatest(context.Context) ([]models.IcebergSummary, error) {
	return f.latest, f.latestErr
}

func (f *fakeAPI) Comments(context.Context, string) ([]models.Comment, error) {
	out := append([]models.Comment(nil), f.comments...)
	return out, f.commErr
}

func (f *fakeAPI) SubmitComment(_ context.Context, c models.NewComment) (*models.CommentCreated, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, c)
	return &models.CommentCreated{Message: "Comment added successfully", CommentID: int64(len(f.submitted))}, nil
}

func (f *fakeAPI) DeleteComment(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) Login(context.Context, models.Credentials) (*models.LoginResult, error) {
	return f.loginRes, f.loginErr
}

func (f *fakeAPI) Signup(context.Context, models.Registration) (string, error) {
	return f.signupMsg, f.signupErr
}

var _ icebergapi.API = (*fakeAPI)(nil)

func testSession(api viewstate.Fetcher, superuser bool) *session.Session {
	return &session.Session{
		ID:            "sess-1",
		User:          models.User{Username: "alice", IsSuperuser: superuser, SignedIn: true},
		UpstreamToken: "upstream-token",
		Coordinator:   viewstate.New(api),
	}
}
