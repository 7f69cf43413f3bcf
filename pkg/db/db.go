// Package db records jobs submitted from the dashboard in Postgres.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	Pool *pgxpool.Pool
}

// New connects to databaseURL and verifies the connection.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (db *DB) Close() {
	db.Pool.Close()
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS job_history (
	id           UUID PRIMARY KEY,
	job_id       TEXT NOT NULL UNIQUE,
	schema_name  TEXT NOT NULL,
	urls         TEXT[] NOT NULL DEFAULT '{}',
	llm_model    TEXT NOT NULL DEFAULT '',
	state        TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT '',
	report_name  TEXT NOT NULL DEFAULT '',
	error        TEXT NOT NULL DEFAULT '',
	submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS job_history_submitted_at_idx ON job_history (submitted_at DESC);
`

// EnsureSchema creates the history table if it does not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create job_history table: %w", err)
	}
	return nil
}
