package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createActivityTable = `
CREATE TABLE IF NOT EXISTS activity_log (
	id         BIGSERIAL PRIMARY KEY,
	actor      TEXT        NOT NULL,
	activity   TEXT        NOT NULL,
	success    BOOLEAN     NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

// PostgresRecorder mirrors activity entries into the activity_log table.
type PostgresRecorder struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresRecorder connects to databaseURL and makes sure the table exists.
func NewPostgresRecorder(ctx context.Context, databaseURL string, logger *slog.Logger) (*PostgresRecorder, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, createActivityTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create activity_log: %w", err)
	}

	return &PostgresRecorder{pool: pool, logger: logger}, nil
}

// Record inserts e. A failed insert is logged and otherwise ignored.
func (p *PostgresRecorder) Record(ctx context.Context, e ActivityEntry) {
	_, err := p.pool.Exec(ctx,
		"INSERT INTO activity_log (actor, activity, success, created_at) VALUES ($1, $2, $3, $4)",
		e.Actor, e.Activity, e.Success, e.At)
	if err != nil {
		p.logger.WarnContext(ctx, "activity insert failed", "err", err, "activity", e.Activity)
	}
}

// Close releases the connection pool.
func (p *PostgresRecorder) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}
