package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver for database/sql

	"github.com/pkordes/daytrip/internal/domain"
)

// OpenSQLite opens (creating if needed) the on-device database at path.
// WAL mode lets the HTTP handlers read while a save is in flight.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: %w", err)
	}
	// A single writer connection keeps SQLite from returning SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("repo.OpenSQLite: enable WAL: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("repo.OpenSQLite: ping: %w", err)
	}
	return db, nil
}

// sqliteRecordRepo is the SQLite implementation of RecordRepo.
type sqliteRecordRepo struct {
	db *sql.DB
}

// NewSQLiteRecordRepo constructs a RecordRepo backed by a database opened with OpenSQLite.
func NewSQLiteRecordRepo(db *sql.DB) RecordRepo {
	return &sqliteRecordRepo{db: db}
}

func (r *sqliteRecordRepo) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT value FROM records WHERE key = ?`

	var value string
	err := r.db.QueryRowContext(ctx, q, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("repo.RecordRepo.Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.RecordRepo.Get: %w", err)
	}
	return []byte(value), nil
}

func (r *sqliteRecordRepo) Put(ctx context.Context, key string, value []byte) error {
	const q = `
		INSERT INTO records (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE
		SET value      = excluded.value,
		    updated_at = excluded.updated_at`

	if _, err := r.db.ExecContext(ctx, q, key, string(value)); err != nil {
		return fmt.Errorf("repo.RecordRepo.Put: %w", err)
	}
	return nil
}
