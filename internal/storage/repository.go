// Package storage abstracts the optional database sinks for cleaned events.
//
// The cleaner's primary output is the CSV file; loading the same cleaned
// rows into SQLite or Postgres feeds the analytics dashboards directly.
// Backend-specific code lives in subpackages; the pipeline depends only on
// the Repository interface here.
package storage

import (
	"context"
	"fmt"

	"eventclean/internal/event"
	"eventclean/internal/storage/postgres"
	"eventclean/internal/storage/sqlite"
)

// Repository is the minimal sink contract: create the events table once,
// bulk-load chunks, close. Each CopyFrom call is durable on return.
type Repository interface {
	EnsureTable(ctx context.Context) error
	CopyFrom(ctx context.Context, events []event.Event) (int64, error)
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Kind  string // "sqlite" or "postgres"
	DSN   string
	Table string
}

// New constructs the configured repository.
func New(ctx context.Context, cfg Config) (Repository, error) {
	switch cfg.Kind {
	case "sqlite":
		return sqlite.NewRepository(ctx, sqlite.Config{DSN: cfg.DSN, Table: cfg.Table})
	case "postgres":
		return postgres.NewRepository(ctx, postgres.Config{DSN: cfg.DSN, Table: cfg.Table})
	default:
		return nil, fmt.Errorf("unsupported storage kind %q", cfg.Kind)
	}
}

// Sink adapts a Repository to the pipeline's chunk writer contract.
type Sink struct {
	ctx  context.Context
	repo Repository
}

// NewSink binds repo to ctx for per-chunk loads.
func NewSink(ctx context.Context, repo Repository) *Sink {
	return &Sink{ctx: ctx, repo: repo}
}

// WriteChunk loads one cleaned chunk. Durable on return: each chunk is its
// own transaction, so completed chunks survive a later failure.
func (s *Sink) WriteChunk(events []event.Event) error {
	if len(events) == 0 {
		return nil
	}
	n, err := s.repo.CopyFrom(s.ctx, events)
	if err != nil {
		return err
	}
	if n != int64(len(events)) {
		return fmt.Errorf("short load: %d of %d rows", n, len(events))
	}
	return nil
}
