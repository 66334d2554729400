// Package repo contains all durable storage for the trip companion.
// Records are opaque values stored under a fixed namespace key; the waypoint
// codec on top of them lives in waypoint.go. No business logic lives here.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/daytrip/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RecordRepo stores one opaque value per key.
type RecordRepo interface {
	// Get returns the value stored under key.
	// Returns domain.ErrNotFound if nothing has been stored yet.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value under key in a single statement, so readers
	// observe either the previous value or the new one, never a mix.
	Put(ctx context.Context, key string, value []byte) error
}

// pgRecordRepo is the Postgres implementation of RecordRepo.
type pgRecordRepo struct {
	db db
}

// NewPGRecordRepo constructs a RecordRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPGRecordRepo(db db) RecordRepo {
	return &pgRecordRepo{db: db}
}

func (r *pgRecordRepo) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT value FROM records WHERE key = @key`

	var value string
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("repo.RecordRepo.Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.RecordRepo.Get: %w", err)
	}
	return []byte(value), nil
}

func (r *pgRecordRepo) Put(ctx context.Context, key string, value []byte) error {
	const q = `
		INSERT INTO records (key, value, updated_at)
		VALUES (@key, @value, now())
		ON CONFLICT (key) DO UPDATE
		SET value      = EXCLUDED.value,
		    updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"key": key, "value": string(value)})
	if err != nil {
		return fmt.Errorf("repo.RecordRepo.Put: %w", err)
	}
	return nil
}
