package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jengzang/iceberg-dashboard/internal/database"
	"github.com/jengzang/iceberg-dashboard/internal/models"
)

// SessionRepository handles database operations for dashboard sessions
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, username, is_superuser, upstream_token, mode, focused_id,
	created_at, updated_at, expires_at`

// Create inserts a new session
func (r *SessionRepository) Create(ctx context.Context, s models.SessionRecord) error {
	query := `INSERT INTO sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Username, s.IsSuperuser, s.UpstreamToken, s.Mode, s.FocusedID,
		s.CreatedAt, s.UpdatedAt, s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetByID retrieves a session; a missing row returns nil, nil
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*models.SessionRecord, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`

	var s models.SessionRecord
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Username, &s.IsSuperuser, &s.UpstreamToken, &s.Mode, &s.FocusedID,
		&s.CreatedAt, &s.UpdatedAt, &s.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// UpdateView stores the view mode and focused iceberg of a session
func (r *SessionRepository) UpdateView(ctx context.Context, id, mode, focusedID string, now int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET mode = ?, focused_id = ?, updated_at = ? WHERE id = ?`,
		mode, focusedID, now, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update session view: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Touch extends a session's expiry
func (r *SessionRepository) Touch(ctx context.Context, id string, now, expiresAt int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET updated_at = ?, expires_at = ? WHERE id = ?`,
		now, expiresAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions that expired at or before now and returns their ids
func (r *SessionRepository) DeleteExpired(ctx context.Context, now int64) ([]string, error) {
	var ids []string
	err := database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT id FROM sessions WHERE expires_at <= ?`, now)
		if err != nil {
			return fmt.Errorf("failed to query expired sessions: %w", err)
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan session id: %w", err)
			}
			ids = append(ids, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now); err != nil {
			return fmt.Errorf("failed to delete expired sessions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CountActive returns the number of sessions not yet expired
func (r *SessionRepository) CountActive(ctx context.Context, now int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE expires_at > ?`, now).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}
