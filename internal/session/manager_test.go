package session

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/iceberg-dashboard/internal/auth"
	"github.com/jengzang/iceberg-dashboard/internal/database"
	"github.com/jengzang/iceberg-dashboard/internal/logging"
	"github.com/jengzang/iceberg-dashboard/internal/models"
	"github.com/jengzang/iceberg-dashboard/internal/repository"
	"github.com/jengzang/iceberg-dashboard/internal/viewstate"
)

type fakeFetcher struct {
	byID atomic.Int32
}

func (f *fakeFetcher) SearchByCriteria(context.Context, models.SearchCriteria) ([]models.IcebergDetail, error) {
	return nil, nil
}

func (f *fakeFetcher) GetByID(_ context.Context, id string) (*models.IcebergDetail, error) {
	f.byID.Add(1)
	return &models.IcebergDetail{
		ID:         id,
		Area:       10,
		Trajectory: []models.TrajectoryPoint{{Latitude: -70, Longitude: -50, ObservedAt: "2024-12-01"}},
	}, nil
}

func (f *fakeFetcher) GetByBounds(context.Context, models.Bounds) ([]models.HeatmapPoint, error) {
	return nil, nil
}

type fixture struct {
	conn    *sql.DB
	store   *repository.SessionRepository
	tokens  *auth.JWTManager
	fetcher *fakeFetcher
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "sessions.db")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	tokens, err := auth.NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)

	return fixture{
		conn:    conn,
		store:   repository.NewSessionRepository(conn),
		tokens:  tokens,
		fetcher: &fakeFetcher{},
	}
}

func (f fixture) manager() *Manager {
	return NewManager(f.store, f.tokens, f.fetcher)
}

func TestCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.manager()

	s, token, err := m.Create(ctx, models.User{Username: "alice", IsSuperuser: true}, "upstream-tok")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, s.User.SignedIn)
	assert.Equal(t, 1, m.Active())

	got, err := m.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, "upstream-tok", got.UpstreamToken)
	assert.Same(t, s.Coordinator, got.Coordinator)
}

func TestLookupRejectsBadToken(t *testing.T) {
	f := newFixture(t)
	_, err := f.manager().Lookup(context.Background(), "garbage")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLookupAfterDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.manager()

	s, token, err := m.Create(ctx, models.User{Username: "alice"}, "")
	require.NoError(t, err)
	require.NoError(t, m.Delete(ctx, s.ID))

	_, err = m.Lookup(ctx, token)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, m.Active())
}

func TestLookupExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.manager()

	s, token, err := m.Create(ctx, models.User{Username: "alice"}, "")
	require.NoError(t, err)

	m.now = func() time.Time { return s.ExpiresAt.Add(time.Second) }
	_, err = m.Lookup(ctx, token)
	assert.ErrorIs(t, err, ErrExpired)

	rec, err := f.store.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRestoreFocusAfterRestart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.manager()

	s, token, err := m.Create(ctx, models.User{Username: "alice"}, "")
	require.NoError(t, err)
	s.Coordinator.FocusByID(ctx, "A23A")
	require.NoError(t, m.SaveView(ctx, s))
	require.Equal(t, int32(1), f.fetcher.byID.Load())

	// a new manager over the same store has no coordinators in memory
	restarted := f.manager()
	got, err := restarted.Lookup(ctx, token)
	require.NoError(t, err)

	snap := got.Coordinator.Snapshot()
	assert.Equal(t, viewstate.ModeSingleFocus, snap.Mode)
	assert.Equal(t, "A23A", snap.FocusedID)
	assert.Equal(t, int32(2), f.fetcher.byID.Load())

	// second lookup reuses the coordinator without refetching
	_, err = restarted.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int32(2), f.fetcher.byID.Load())
}

func TestRestoreHeatmapMode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.manager()

	s, token, err := m.Create(ctx, models.User{Username: "alice"}, "")
	require.NoError(t, err)
	s.Coordinator.SwitchToHeatmapMode()
	require.NoError(t, m.SaveView(ctx, s))

	got, err := f.manager().Lookup(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, viewstate.ModeHeatmap, got.Coordinator.Snapshot().Mode)
}

func TestRefreshAndSweep(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.manager()

	a, _, err := m.Create(ctx, models.User{Username: "alice"}, "")
	require.NoError(t, err)
	b, _, err := m.Create(ctx, models.User{Username: "bob"}, "")
	require.NoError(t, err)

	token, err := m.Refresh(ctx, b)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	require.NoError(t, f.store.Touch(ctx, a.ID, 0, 1))

	n, err := m.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, m.Active())

	_, err = m.Lookup(ctx, token)
	assert.NoError(t, err)
}

func TestRunSweeperStops(t *testing.T) {
	f := newFixture(t)
	m := f.manager()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.RunSweeper(ctx, 10*time.Millisecond)
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestRunSweeperLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	prev := logging.Logger()
	logging.SetLogger(logging.NewTestLogger(&buf))
	defer logging.SetLogger(prev)

	f := newFixture(t)
	m := f.manager()
	require.NoError(t, f.conn.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.RunSweeper(ctx, 5*time.Millisecond)
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()
	<-done

	out := buf.String()
	assert.Contains(t, out, `"component":"session_sweeper"`)
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, "session sweep failed")
}
