// Package postgres implements a Postgres events sink using pgx v5. Chunks
// are loaded with the native COPY protocol, which is the fastest bulk path
// and transactional per call.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventclean/internal/event"
)

// Config holds Postgres sink configuration.
type Config struct {
	DSN   string // pgxpool connection string
	Table string // target table, optionally schema-qualified; default "cleaned_events"
}

// columns is the target column order, matching event.Event.Values().
var columns = []string{
	"event_id", "player_id", "event_timestamp", "event_type",
	"event_details", "device_type", "location",
}

// Repository is a Postgres-backed events sink.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewRepository connects a pool and verifies it with a ping.
func NewRepository(ctx context.Context, cfg Config) (*Repository, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	if cfg.Table == "" {
		cfg.Table = "cleaned_events"
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Repository{pool: pool, cfg: cfg}, nil
}

// EnsureTable creates the events table if missing. The primary key is a
// backstop; the dedup stage already guarantees unique event ids.
func (r *Repository) EnsureTable(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	event_id text PRIMARY KEY,
	player_id text NOT NULL,
	event_timestamp timestamp NOT NULL,
	event_type text NOT NULL,
	event_details text,
	device_type text NOT NULL,
	location text NOT NULL
)`, r.tableFQN())
	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: create table: %w", err)
	}
	return nil
}

// CopyFrom bulk-loads one chunk via the COPY protocol.
func (r *Repository) CopyFrom(ctx context.Context, events []event.Event) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}
	rows := make([][]any, len(events))
	for i, e := range events {
		rows[i] = e.Values()
	}
	n, err := r.pool.CopyFrom(ctx, r.tableIdent(), columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("postgres: copy: %w", err)
	}
	return n, nil
}

// Close releases the pool.
func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

// tableIdent splits an optionally schema-qualified table name for CopyFrom.
func (r *Repository) tableIdent() pgx.Identifier {
	parts := strings.Split(r.cfg.Table, ".")
	return pgx.Identifier(parts)
}

// tableFQN quotes the table name for DDL.
func (r *Repository) tableFQN() string {
	return r.tableIdent().Sanitize()
}
