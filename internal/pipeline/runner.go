// Package pipeline drives the chunked cleaning run: read a bounded chunk,
// clean it, write the survivors, fold the stats, report progress, repeat.
//
// The driver is a small explicit state machine rather than nested branching,
// which keeps the failure path (partial output up to the last fully processed
// chunk) and the cancellation contract visible and testable. Dedup state and
// run stats are owned by the driver and threaded through sequential chunk
// invocations; nothing mutates them concurrently.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"eventclean/internal/clean"
	"eventclean/internal/csvio"
	"eventclean/internal/event"
	"eventclean/internal/metrics"
)

// State is the driver's position in the run.
type State int

const (
	StateReading State = iota
	StateProcessing
	StateWriting
	StateReporting
	StateDone
	StateFailed
)

// ChunkReader pulls up to n records from the input. A short or empty chunk
// signals end-of-input. csvio.Reader satisfies this.
type ChunkReader interface {
	ReadChunk(n int) ([]event.Event, error)
}

// ChunkWriter appends one cleaned chunk to the output and makes it durable
// before returning. csvio.Writer and the storage sinks satisfy this.
type ChunkWriter interface {
	WriteChunk(events []event.Event) error
}

// RunError reports the point of failure of a run: the chunk being read or
// written and, for structural read errors, the offending data row.
type RunError struct {
	Chunk int // 1-based chunk index
	Row   int // 1-based data row offset; 0 when not row-specific
	Err   error
}

func (e *RunError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("chunk %d, row %d: %v", e.Chunk, e.Row, e.Err)
	}
	return fmt.Sprintf("chunk %d: %v", e.Chunk, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// Runner executes cleaning runs. The zero value is not usable; ChunkSize must
// be positive.
type Runner struct {
	// ChunkSize is the bounded row count read per chunk.
	ChunkSize int

	// Overlap enables the two-stage variant: a producer reads chunk i+1
	// while the consumer processes chunk i, connected by a single-slot
	// handoff so at most two chunks are in flight. Output and stats are
	// identical to the sequential mode.
	Overlap bool

	// Progress, when set, receives a read-only stats snapshot after each
	// chunk completes. It must not retain or mutate pipeline state.
	Progress func(clean.RunStats)
}

// Run cleans src into dst and returns the final stats. The returned error is
// nil on Done; a *RunError on Failed; or the context error when the run was
// cancelled at a chunk boundary. In every case output written for completed
// chunks is already flushed.
func (r *Runner) Run(ctx context.Context, src ChunkReader, dst ChunkWriter) (clean.RunStats, error) {
	if r.ChunkSize <= 0 {
		return clean.RunStats{}, fmt.Errorf("chunk size must be positive, got %d", r.ChunkSize)
	}

	agg := clean.NewAggregator()
	proc := clean.NewChunkProcessor(clean.NewDedupTracker())

	var runErr error
	if r.Overlap {
		runErr = r.runOverlapped(ctx, src, dst, proc, agg)
	} else {
		runErr = r.runSequential(ctx, src, dst, proc, agg)
	}

	stats := agg.Finalize()
	metrics.RecordRun(runErr, stats.Elapsed)
	return stats, runErr
}

// runSequential is the baseline mode: chunk i is fully read, processed,
// written, and counted before chunk i+1 begins.
func (r *Runner) runSequential(
	ctx context.Context,
	src ChunkReader,
	dst ChunkWriter,
	proc *clean.ChunkProcessor,
	agg *clean.Aggregator,
) error {
	var (
		state   = StateReading
		chunkIx int
		chunk   []event.Event
		cleaned []event.Event
		cstats  clean.ChunkStats
		started time.Time
	)

	for {
		switch state {
		case StateReading:
			// Cancellation is cooperative and only honored here: a chunk is
			// an atomic unit of progress.
			if err := ctx.Err(); err != nil {
				return err
			}
			chunkIx++
			started = time.Now()

			var err error
			chunk, err = src.ReadChunk(r.ChunkSize)
			if err != nil {
				return wrapReadErr(chunkIx, err)
			}
			if len(chunk) == 0 {
				state = StateDone
				continue
			}
			state = StateProcessing

		case StateProcessing:
			cleaned, cstats = proc.Process(chunk)
			state = StateWriting

		case StateWriting:
			if err := dst.WriteChunk(cleaned); err != nil {
				return &RunError{Chunk: chunkIx, Err: err}
			}
			state = StateReporting

		case StateReporting:
			agg.Fold(cstats)
			report(cstats, time.Since(started))
			if r.Progress != nil {
				r.Progress(agg.Snapshot())
			}
			// A short chunk means the input is exhausted; skip the extra
			// end-of-input read.
			if len(chunk) < r.ChunkSize {
				state = StateDone
				continue
			}
			state = StateReading

		case StateDone:
			return nil
		}
	}
}

// chunkMsg is the producer→consumer handoff unit of the overlapped mode.
type chunkMsg struct {
	ix     int
	events []event.Event
	err    error
	last   bool
}

// runOverlapped reads chunk i+1 while chunk i is processed. The handoff
// channel has capacity one, so the producer blocks until the consumer has
// taken the previous chunk and memory stays bounded to two chunks in flight.
// The dedup tracker and stats are only touched on the consumer side.
func (r *Runner) runOverlapped(
	ctx context.Context,
	src ChunkReader,
	dst ChunkWriter,
	proc *clean.ChunkProcessor,
	agg *clean.Aggregator,
) error {
	g, ctx := errgroup.WithContext(ctx)
	handoff := make(chan chunkMsg, 1)

	g.Go(func() error {
		defer close(handoff)
		for ix := 1; ; ix++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			chunk, err := src.ReadChunk(r.ChunkSize)
			msg := chunkMsg{ix: ix, events: chunk, err: err, last: err == nil && len(chunk) < r.ChunkSize}
			select {
			case handoff <- msg:
			case <-ctx.Done():
				return ctx.Err()
			}
			if err != nil || msg.last {
				return nil
			}
		}
	})

	g.Go(func() error {
		for msg := range handoff {
			started := time.Now()
			if msg.err != nil {
				return wrapReadErr(msg.ix, msg.err)
			}
			if len(msg.events) == 0 {
				return nil
			}
			cleaned, cstats := proc.Process(msg.events)
			if err := dst.WriteChunk(cleaned); err != nil {
				return &RunError{Chunk: msg.ix, Err: err}
			}
			agg.Fold(cstats)
			report(cstats, time.Since(started))
			if r.Progress != nil {
				r.Progress(agg.Snapshot())
			}
		}
		return nil
	})

	return g.Wait()
}

// wrapReadErr classifies a reader failure, preserving the row offset of
// structural CSV errors.
func wrapReadErr(chunkIx int, err error) *RunError {
	var re *csvio.RowError
	if errors.As(err, &re) {
		return &RunError{Chunk: chunkIx, Row: re.Row, Err: re.Err}
	}
	return &RunError{Chunk: chunkIx, Err: err}
}

// report forwards one chunk's counters to the metrics backend.
func report(c clean.ChunkStats, d time.Duration) {
	metrics.RecordChunk(d)
	metrics.RecordRows("read", int64(c.RowsRead))
	metrics.RecordRows("written", int64(c.RowsWritten))
	metrics.RecordRows("full_duplicate", int64(c.FullDuplicates))
	metrics.RecordRows("eventid_duplicate", int64(c.EventIDDups))
	metrics.RecordRows("null_field", int64(c.NullFields))
	metrics.RecordRows("bad_timestamp", int64(c.BadTimestamps))
	metrics.RecordRows("invalid_category", int64(c.InvalidCategory))
}
