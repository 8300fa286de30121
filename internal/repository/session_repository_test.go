package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/iceberg-dashboard/internal/database"
	"github.com/jengzang/iceberg-dashboard/internal/models"
)

func newRepo(t *testing.T) *SessionRepository {
	t.Helper()
	conn, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "s.db")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewSessionRepository(conn)
}

func record(id string, expires int64) models.SessionRecord {
	return models.SessionRecord{
		ID:            id,
		Username:      "alice",
		IsSuperuser:   true,
		UpstreamToken: "tok",
		Mode:          "search",
		CreatedAt:     100,
		UpdatedAt:     100,
		ExpiresAt:     expires,
	}
}

func TestSessionRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	require.NoError(t, r.Create(ctx, record("s1", 1000)))

	got, err := r.GetByID(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, record("s1", 1000), *got)

	require.NoError(t, r.UpdateView(ctx, "s1", "single_focus", "A23A", 200))
	got, err = r.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "single_focus", got.Mode)
	assert.Equal(t, "A23A", got.FocusedID)
	assert.Equal(t, int64(200), got.UpdatedAt)

	require.NoError(t, r.Touch(ctx, "s1", 300, 5000))
	got, err = r.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), got.ExpiresAt)

	require.NoError(t, r.Delete(ctx, "s1"))
	got, err = r.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionRepositoryUpdateMissing(t *testing.T) {
	r := newRepo(t)
	err := r.UpdateView(context.Background(), "nope", "search", "", 1)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSessionRepositoryExpiry(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	require.NoError(t, r.Create(ctx, record("old", 100)))
	require.NoError(t, r.Create(ctx, record("new", 900)))

	n, err := r.CountActive(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	ids, err := r.DeleteExpired(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, ids)

	got, err := r.GetByID(ctx, "new")
	require.NoError(t, err)
	assert.NotNil(t, got)
}
