// Package sqlite implements a SQLite-backed events sink using database/sql.
// Batched INSERTs run inside a transaction per chunk; SQLite has no bulk-load
// API like Postgres COPY, but transactions keep performance acceptable for
// the volumes the dashboards consume.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"eventclean/internal/event"
)

// Config holds SQLite sink configuration.
type Config struct {
	// DSN is passed to database/sql, e.g. "events.db" or
	// "file:events.db?cache=shared".
	DSN string
	// Table is the target table name. Empty means "cleaned_events", the
	// name the dashboards look for.
	Table string
}

// Repository is a SQLite-backed events sink.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens the SQLite database and pings it to fail fast on bad
// DSNs.
func NewRepository(ctx context.Context, cfg Config) (*Repository, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	if cfg.Table == "" {
		cfg.Table = "cleaned_events"
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, nil
}

// EnsureTable creates the events table if missing. event_id is the primary
// key; the dedup stage guarantees uniqueness, the constraint is a backstop.
func (r *Repository) EnsureTable(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	event_id TEXT PRIMARY KEY,
	player_id TEXT NOT NULL,
	event_timestamp TEXT NOT NULL,
	event_type TEXT NOT NULL,
	event_details TEXT,
	device_type TEXT NOT NULL,
	location TEXT NOT NULL
)`, r.cfg.Table)
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("sqlite: create table: %w", err)
	}
	return nil
}

// CopyFrom inserts one chunk inside a single transaction using a prepared
// statement. Returns the number of rows inserted.
func (r *Repository) CopyFrom(ctx context.Context, events []event.Event) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	defer tx.Rollback()

	// OR REPLACE keeps re-loading the same export idempotent.
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT OR REPLACE INTO %s (event_id, player_id, event_timestamp, event_type, event_details, device_type, location) VALUES (?, ?, ?, ?, ?, ?, ?)",
		r.cfg.Table,
	))
	if err != nil {
		return 0, fmt.Errorf("sqlite: prepare: %w", err)
	}
	defer stmt.Close()

	var n int64
	for _, e := range events {
		if _, err := stmt.ExecContext(ctx, e.Values()...); err != nil {
			return 0, fmt.Errorf("sqlite: insert event %s: %w", e.EventID, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return n, nil
}

// Close releases the database handle.
func (r *Repository) Close() error { return r.db.Close() }
