// Package icebergapi is the typed client for the external iceberg REST API.
//
// Every request is single-shot: nothing is retried or cached. A circuit breaker
// fails fast while the upstream is unreachable or answering 5xx.
package icebergapi

import (
	"context"

	"github.com/jengzang/iceberg-dashboard/internal/models"
)

// Upstream endpoints. The templated forms double as metric labels.
const (
	pathSearch       = "/iceberg_api/search_icebergs"
	pathIceberg      = "/iceberg_api/iceberg/{id}"
	pathInBounds     = "/iceberg_api/iceberg/locations_in_bounds"
	pathSizeDist     = "/stats/size_distribution"
	pathActiveCount  = "/stats/active_count_over_time"
	pathCorrelation  = "/stats/correlation_data"
	pathBirthDeath   = "/stats/birth_death_locations"
	pathTimeSeries   = "/stats/iceberg/{id}/timeseries"
	pathLatest       = "/iceberg_info/new_data"
	pathComments     = "/iceberg/comments/{id}"
	pathCommentsPost = "/iceberg/comments/"
	pathLogin        = "/auth/login"
	pathSignup       = "/auth/signup"
)

// API is everything the dashboard asks of the iceberg backend.
type API interface {
	SearchByCriteria(ctx context.Context, criteria models.SearchCriteria) ([]models.IcebergDetail, error)
	GetByID(ctx context.Context, id string) (*models.IcebergDetail, error)
	GetByBounds(ctx context.Context, bounds models.Bounds) ([]models.HeatmapPoint, error)

	SizeDistribution(ctx context.Context) ([]models.SizeBin, error)
	ActiveCountOverTime(ctx context.Context) ([]models.ActiveCount, error)
	CorrelationData(ctx context.Context) ([]models.CorrelationPoint, error)
	BirthDeathLocations(ctx context.Context) ([]models.BirthDeathLocation, error)
	IcebergTimeSeries(ctx context.Context, id string) (*models.IcebergTimeSeries, error)

	ListLatest(ctx context.Context) ([]models.IcebergSummary, error)

	Comments(ctx context.Context, icebergID string) ([]models.Comment, error)
	SubmitComment(ctx context.Context, c models.NewComment) (*models.CommentCreated, error)
	DeleteComment(ctx context.Context, commentID int64) error

	Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error)
	Signup(ctx context.Context, reg models.Registration) (string, error)
}

type tokenKey struct{}

// WithAccessToken attaches the upstream bearer token to outgoing requests made with ctx.
func WithAccessToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func accessToken(ctx context.Context) string {
	if v, ok := ctx.Value(tokenKey{}).(string); ok {
		return v
	}
	return ""
}
