package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/jengzang/iceberg-dashboard/internal/logging"
)

var (
	db      *sql.DB
	initErr error
	once    sync.Once
)

// Config holds database configuration
type Config struct {
	Path string
}

// Open opens the sqlite session store at cfg.Path, creating its directory
// if needed, and migrates it to the latest schema.
func Open(cfg Config) (*sql.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dsn(cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(4)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := NewMigrationManager(conn).RunMigrations(); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// dsn applies the pragmas to every pooled connection, not just the first.
func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "foreign_keys(1)")
	return "file:" + path + "?" + q.Encode()
}

// Init opens the process-wide session database once. Later calls return the
// first call's error.
func Init(cfg Config) error {
	once.Do(func() {
		db, initErr = Open(cfg)
		if initErr == nil {
			logging.Info().Str("path", cfg.Path).Msg("session store ready")
		}
	})
	return initErr
}

// GetDB returns the connection opened by Init and exits if Init never succeeded.
func GetDB() *sql.DB {
	if db == nil {
		logging.Fatal().Msg("session store used before database.Init")
	}
	return db
}

// Close closes the process-wide connection, if any.
func Close() error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// Transaction runs fn in a transaction on conn, committing only when fn
// returns nil. A panic in fn rolls back before propagating.
func Transaction(ctx context.Context, conn *sql.DB, fn func(*sql.Tx) error) (err error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
		}
	}()
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
