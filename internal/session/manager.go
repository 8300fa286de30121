// Package session ties a signed-in user to their own map coordinator.
//
// Session rows live in sqlite so a gateway restart keeps users signed in.
// Coordinators live only in memory; after a restart the first lookup rebuilds
// one and restores the persisted mode and focused iceberg.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/iceberg-dashboard/internal/auth"
	"github.com/jengzang/iceberg-dashboard/internal/logging"
	"github.com/jengzang/iceberg-dashboard/internal/metrics"
	"github.com/jengzang/iceberg-dashboard/internal/models"
	"github.com/jengzang/iceberg-dashboard/internal/viewstate"
)

var (
	// ErrNotFound means the token is valid but its session was removed.
	ErrNotFound = errors.New("session not found")
	// ErrExpired means the session outlived its ttl.
	ErrExpired = errors.New("session expired")
)

// Store persists session rows. *repository.SessionRepository implements it.
type Store interface {
	Create(ctx context.Context, s models.SessionRecord) error
	GetByID(ctx context.Context, id string) (*models.SessionRecord, error)
	UpdateView(ctx context.Context, id, mode, focusedID string, now int64) error
	Touch(ctx context.Context, id string, now, expiresAt int64) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now int64) ([]string, error)
	CountActive(ctx context.Context, now int64) (int64, error)
}

// Session is the explicit per-request user context handed to services.
type Session struct {
	ID            string
	User          models.User
	UpstreamToken string
	ExpiresAt     time.Time
	Coordinator   *viewstate.Coordinator
}

// Manager creates, resolves and expires sessions.
type Manager struct {
	store  Store
	tokens *auth.JWTManager
	api    viewstate.Fetcher
	now    func() time.Time

	mu     sync.Mutex
	coords map[string]*viewstate.Coordinator
}

// NewManager wires a manager. api backs every coordinator it creates.
func NewManager(store Store, tokens *auth.JWTManager, api viewstate.Fetcher) *Manager {
	return &Manager{
		store:  store,
		tokens: tokens,
		api:    api,
		now:    time.Now,
		coords: make(map[string]*viewstate.Coordinator),
	}
}

// Create starts a session for a freshly authenticated user and returns its token.
func (m *Manager) Create(ctx context.Context, user models.User, upstreamToken string) (*Session, string, error) {
	id := uuid.NewString()
	token, expires, err := m.tokens.GenerateToken(id, user.Username, user.IsSuperuser)
	if err != nil {
		return nil, "", err
	}

	now := m.now().Unix()
	rec := models.SessionRecord{
		ID:            id,
		Username:      user.Username,
		IsSuperuser:   user.IsSuperuser,
		UpstreamToken: upstreamToken,
		Mode:          string(viewstate.ModeSearch),
		CreatedAt:     now,
		UpdatedAt:     now,
		ExpiresAt:     expires.Unix(),
	}
	if err := m.store.Create(ctx, rec); err != nil {
		return nil, "", err
	}

	coord := viewstate.New(m.api)
	m.mu.Lock()
	m.coords[id] = coord
	metrics.SessionsActive.Set(float64(len(m.coords)))
	m.mu.Unlock()

	logging.Ctx(ctx).Info().Str("session_id", id).Str("user", user.Username).Msg("session created")
	return m.toSession(rec, coord), token, nil
}

// Lookup resolves a bearer token to its session.
func (m *Manager) Lookup(ctx context.Context, token string) (*Session, error) {
	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		metrics.RecordSessionLookup("invalid")
		return nil, err
	}

	rec, err := m.store.GetByID(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		metrics.RecordSessionLookup("missing")
		m.dropCoordinator(claims.SessionID)
		return nil, ErrNotFound
	}
	if m.now().Unix() >= rec.ExpiresAt {
		metrics.RecordSessionLookup("expired")
		m.dropCoordinator(rec.ID)
		if err := m.store.Delete(ctx, rec.ID); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("session_id", rec.ID).Msg("failed to delete expired session")
		}
		return nil, ErrExpired
	}

	m.mu.Lock()
	coord, ok := m.coords[rec.ID]
	if !ok {
		coord = viewstate.New(m.api)
		m.coords[rec.ID] = coord
		metrics.SessionsActive.Set(float64(len(m.coords)))
	}
	m.mu.Unlock()

	if ok {
		metrics.RecordSessionLookup("hit")
	} else {
		metrics.RecordSessionLookup("restored")
		m.restore(ctx, rec, coord)
	}
	return m.toSession(*rec, coord), nil
}

// restore replays the persisted view onto a fresh coordinator.
func (m *Manager) restore(ctx context.Context, rec *models.SessionRecord, coord *viewstate.Coordinator) {
	switch viewstate.Mode(rec.Mode) {
	case viewstate.ModeHeatmap:
		coord.SwitchToHeatmapMode()
	case viewstate.ModeSingleFocus:
		if rec.FocusedID != "" {
			coord.FocusByID(ctx, rec.FocusedID)
		}
	}
	logging.Ctx(ctx).Debug().
		Str("session_id", rec.ID).
		Str("mode", rec.Mode).
		Str("focused_id", rec.FocusedID).
		Msg("coordinator restored")
}

// SaveView persists the session's current mode and focused iceberg.
func (m *Manager) SaveView(ctx context.Context, s *Session) error {
	snap := s.Coordinator.Snapshot()
	if err := m.store.UpdateView(ctx, s.ID, string(snap.Mode), snap.FocusedID, m.now().Unix()); err != nil {
		return fmt.Errorf("save view for session %s: %w", s.ID, err)
	}
	return nil
}

// Refresh issues a new token for s and extends its expiry.
func (m *Manager) Refresh(ctx context.Context, s *Session) (string, error) {
	token, expires, err := m.tokens.GenerateToken(s.ID, s.User.Username, s.User.IsSuperuser)
	if err != nil {
		return "", err
	}
	if err := m.store.Touch(ctx, s.ID, m.now().Unix(), expires.Unix()); err != nil {
		return "", err
	}
	s.ExpiresAt = expires
	return token, nil
}

// Delete ends a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.dropCoordinator(id)
	return m.store.Delete(ctx, id)
}

// Sweep removes expired sessions and their coordinators.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	ids, err := m.store.DeleteExpired(ctx, m.now().Unix())
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		m.dropCoordinator(id)
	}
	if len(ids) > 0 {
		logging.Ctx(ctx).Info().Int("count", len(ids)).Msg("expired sessions removed")
	}
	return len(ids), nil
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	log := logging.With().Str("component", "session_sweeper").Logger()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.Sweep(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("session sweep failed")
			}
		}
	}
}

// Active returns the number of sessions that have a live coordinator.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.coords)
}

func (m *Manager) dropCoordinator(id string) {
	m.mu.Lock()
	delete(m.coords, id)
	metrics.SessionsActive.Set(float64(len(m.coords)))
	m.mu.Unlock()
}

func (m *Manager) toSession(rec models.SessionRecord, coord *viewstate.Coordinator) *Session {
	return &Session{
		ID: rec.ID,
		User: models.User{
			Username:    rec.Username,
			IsSuperuser: rec.IsSuperuser,
			SignedIn:    true,
		},
		UpstreamToken: rec.UpstreamToken,
		ExpiresAt:     time.Unix(rec.ExpiresAt, 0),
		Coordinator:   coord,
	}
}
