package icebergapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/jengzang/iceberg-dashboard/internal/logging"
	"github.com/jengzang/iceberg-dashboard/internal/metrics"
	"github.com/jengzang/iceberg-dashboard/internal/models"
)

// maxBodySize bounds how much of a reply is read; heatmaps of the whole ocean are large.
const maxBodySize = 32 << 20

// Config configures a Client.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	BreakerTimeout time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the iceberg API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
}

var _ API = (*Client)(nil)

// New creates a Client.
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		cb:      newBreaker(cfg.BreakerTimeout),
	}
}

// BreakerState reports the circuit breaker state for health checks.
func (c *Client) BreakerState() string {
	return c.cb.State().String()
}

type request struct {
	method   string
	endpoint string // templated path, used as metric label
	path     string
	query    url.Values
	body     any
}

func get(endpoint, path string, query url.Values) request {
	return request{method: http.MethodGet, endpoint: endpoint, path: path, query: query}
}

// do sends r through the circuit breaker and returns the body of a 2xx reply.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, r)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
			logging.Ctx(ctx).Warn().Err(err).Str("endpoint", r.endpoint).Msg("iceberg api request rejected")
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	return body, nil
}

func (c *Client) roundTrip(ctx context.Context, r request) ([]byte, error) {
	var payload io.Reader = http.NoBody
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", r.endpoint, err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, payload)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := accessToken(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if len(r.query) > 0 {
		req.URL.RawQuery = r.query.Encode()
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(r.endpoint, 0, time.Since(start))
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, r.method, r.endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	latency := time.Since(start)
	metrics.RecordUpstreamRequest(r.endpoint, resp.StatusCode, latency)
	logging.Ctx(ctx).Debug().
		Str("method", r.method).
		Str("endpoint", r.endpoint).
		Int("status", resp.StatusCode).
		Dur("latency", latency).
		Msg("iceberg api request")
	if err != nil {
		return nil, fmt.Errorf("%w: read %s reply: %w", ErrTransport, r.endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, data)
	}
	return data, nil
}

// fetch performs r and decodes the reply into T.
func fetch[T any](ctx context.Context, c *Client, r request) (T, error) {
	var out T
	data, err := c.do(ctx, r)
	if err != nil {
		return out, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("%w: decode %s: %w", ErrTransport, r.endpoint, err)
	}
	return out, nil
}

// fetchList is fetch for array replies; a null or empty body yields an empty slice.
func fetchList[T any](ctx context.Context, c *Client, r request) ([]T, error) {
	out, err := fetch[[]T](ctx, c, r)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (c *Client) SearchByCriteria(ctx context.Context, criteria models.SearchCriteria) ([]models.IcebergDetail, error) {
	return fetchList[models.IcebergDetail](ctx, c, get(pathSearch, pathSearch, criteria.Query()))
}

func (c *Client) GetByID(ctx context.Context, id string) (*models.IcebergDetail, error) {
	path := "/iceberg_api/iceberg/" + url.PathEscape(id)
	d, err := fetch[*models.IcebergDetail](ctx, c, get(pathIceberg, path, nil))
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, &APIError{Status: http.StatusNotFound, Message: "Iceberg not found"}
	}
	return d, nil
}

func (c *Client) GetByBounds(ctx context.Context, bounds models.Bounds) ([]models.HeatmapPoint, error) {
	return fetchList[models.HeatmapPoint](ctx, c, get(pathInBounds, pathInBounds, bounds.Query()))
}

func (c *Client) SizeDistribution(ctx context.Context) ([]models.SizeBin, error) {
	return fetchList[models.SizeBin](ctx, c, get(pathSizeDist, pathSizeDist, nil))
}

func (c *Client) ActiveCountOverTime(ctx context.Context) ([]models.ActiveCount, error) {
	return fetchList[models.ActiveCount](ctx, c, get(pathActiveCount, pathActiveCount, nil))
}

func (c *Client) CorrelationData(ctx context.Context) ([]models.CorrelationPoint, error) {
	return fetchList[models.CorrelationPoint](ctx, c, get(pathCorrelation, pathCorrelation, nil))
}

func (c *Client) BirthDeathLocations(ctx context.Context) ([]models.BirthDeathLocation, error) {
	return fetchList[models.BirthDeathLocation](ctx, c, get(pathBirthDeath, pathBirthDeath, nil))
}

func (c *Client) IcebergTimeSeries(ctx context.Context, id string) (*models.IcebergTimeSeries, error) {
	path := "/stats/iceberg/" + url.PathEscape(id) + "/timeseries"
	ts, err := fetch[*models.IcebergTimeSeries](ctx, c, get(pathTimeSeries, path, nil))
	if err != nil {
		return nil, err
	}
	if ts == nil {
		ts = &models.IcebergTimeSeries{Details: models.TimeSeriesDetails{ID: id}}
	}
	return ts, nil
}

func (c *Client) ListLatest(ctx context.Context) ([]models.IcebergSummary, error) {
	return fetchList[models.IcebergSummary](ctx, c, get(pathLatest, pathLatest, nil))
}

func (c *Client) Comments(ctx context.Context, icebergID string) ([]models.Comment, error) {
	path := "/iceberg/comments/" + url.PathEscape(icebergID)
	return fetchList[models.Comment](ctx, c, get(pathComments, path, nil))
}

func (c *Client) SubmitComment(ctx context.Context, nc models.NewComment) (*models.CommentCreated, error) {
	return fetch[*models.CommentCreated](ctx, c, request{
		method:   http.MethodPost,
		endpoint: pathCommentsPost,
		path:     pathCommentsPost,
		body:     nc,
	})
}

func (c *Client) DeleteComment(ctx context.Context, commentID int64) error {
	_, err := c.do(ctx, request{
		method:   http.MethodDelete,
		endpoint: pathComments,
		path:     "/iceberg/comments/" + strconv.FormatInt(commentID, 10),
	})
	return err
}

func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	return fetch[*models.LoginResult](ctx, c, request{
		method:   http.MethodPost,
		endpoint: pathLogin,
		path:     pathLogin,
		body:     creds,
	})
}

// Signup registers a user and returns the backend's confirmation message.
func (c *Client) Signup(ctx context.Context, reg models.Registration) (string, error) {
	data, err := c.do(ctx, request{
		method:   http.MethodPost,
		endpoint: pathSignup,
		path:     pathSignup,
		body:     reg,
	})
	if err != nil {
		return "", err
	}
	if msg := extractMessage(data); msg != "" {
		return msg, nil
	}
	return "User created successfully", nil
}
