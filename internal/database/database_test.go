package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) Config {
	t.Helper()
	return Config{Path: filepath.Join(t.TempDir(), "nested", "sessions.db")}
}

func TestOpenAppliesMigrations(t *testing.T) {
	cfg := openTemp(t)
	conn, err := Open(cfg)
	require.NoError(t, err)
	defer conn.Close()

	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&n))
	assert.Equal(t, 2, n)

	_, err = conn.Exec(`INSERT INTO sessions (id, username, created_at, updated_at, expires_at) VALUES ('a', 'u', 1, 1, 2)`)
	require.NoError(t, err)
}

func TestOpenIsIdempotent(t *testing.T) {
	cfg := openTemp(t)
	conn, err := Open(cfg)
	require.NoError(t, err)
	conn.Close()

	conn, err = Open(cfg)
	require.NoError(t, err)
	defer conn.Close()

	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&n))
	assert.Equal(t, 2, n)
}

func TestLoadMigrationsOrdered(t *testing.T) {
	conn, err := Open(openTemp(t))
	require.NoError(t, err)
	defer conn.Close()

	migrations, err := NewMigrationManager(conn).LoadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "001_create_sessions", migrations[0].Name)
	assert.Equal(t, 2, migrations[1].Version)
}

func TestTransactionRollsBack(t *testing.T) {
	conn, err := Open(openTemp(t))
	require.NoError(t, err)
	defer conn.Close()

	boom := errors.New("boom")
	err = Transaction(context.Background(), conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO sessions (id, username, created_at, updated_at, expires_at) VALUES ('x', 'u', 1, 1, 2)`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&n))
	assert.Zero(t, n)
}
