package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jengzang/iceberg-dashboard/internal/logging"
	"github.com/jengzang/iceberg-dashboard/internal/models"
	"github.com/jengzang/iceberg-dashboard/internal/spatial"
)

// ListingAPI is the part of the iceberg API the home listing needs.
type ListingAPI interface {
	ListLatest(ctx context.Context) ([]models.IcebergSummary, error)
}

// ListingQuery is the home listing request
type ListingQuery struct {
	Search string `form:"q" json:"q" validate:"max=64"`
}

// ListingRow is one listed iceberg with its position in decimal degrees
type ListingRow struct {
	models.IcebergSummary
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Listing is the home page payload
type Listing struct {
	Rows []ListingRow `json:"rows"`
	// Total counts matches before truncation.
	Total  int    `json:"total"`
	Search string `json:"search,omitempty"`
}

// ListingService builds the home listing
type ListingService struct {
	api         ListingAPI
	recentSince time.Time
	maxResults  int
}

// NewListingService creates a listing service. Rows observed before recentSince
// are hidden from the default view; searches return at most maxResults rows.
func NewListingService(api ListingAPI, recentSince time.Time, maxResults int) *ListingService {
	return &ListingService{api: api, recentSince: recentSince, maxResults: maxResults}
}

// Load fetches the latest observations. Without a search term it keeps the
// recently observed rows in upstream order; with one it matches ids
// case-insensitively and returns the newest matches first.
func (s *ListingService) Load(ctx context.Context, q ListingQuery) (*Listing, error) {
	all, err := s.api.ListLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest observations: %w", err)
	}

	term := strings.ToLower(strings.TrimSpace(q.Search))
	var picked []models.IcebergSummary
	if term == "" {
		for _, row := range all {
			if t, ok := row.ObservedAt(); ok && !t.Before(s.recentSince) {
				picked = append(picked, row)
			}
		}
	} else {
		for _, row := range all {
			if strings.Contains(strings.ToLower(row.ID), term) {
				picked = append(picked, row)
			}
		}
		sortNewestFirst(picked)
	}

	out := &Listing{Total: len(picked), Search: strings.TrimSpace(q.Search), Rows: make([]ListingRow, 0, len(picked))}
	if term != "" && len(picked) > s.maxResults {
		picked = picked[:s.maxResults]
	}
	for _, row := range picked {
		out.Rows = append(out.Rows, toListingRow(ctx, row))
	}
	return out, nil
}

func sortNewestFirst(rows []models.IcebergSummary) {
	sort.SliceStable(rows, func(i, j int) bool {
		ti, okI := rows[i].ObservedAt()
		tj, okJ := rows[j].ObservedAt()
		switch {
		case okI && okJ:
			return ti.After(tj)
		case okI:
			return true
		default:
			return false
		}
	})
}

func toListingRow(ctx context.Context, s models.IcebergSummary) ListingRow {
	row := ListingRow{IcebergSummary: s}
	if lat, err := spatial.ParseDMS(s.DMSLatitude); err == nil {
		row.Latitude = &lat
	} else {
		logging.Ctx(ctx).Debug().Err(err).Str("iceberg", s.ID).Msg("unparseable latitude")
	}
	if lon, err := spatial.ParseDMS(s.DMSLongitude); err == nil {
		row.Longitude = &lon
	} else {
		logging.Ctx(ctx).Debug().Err(err).Str("iceberg", s.ID).Msg("unparseable longitude")
	}
	return row
}
