package clean

import "time"

// ChunkStats holds the per-chunk counters produced by the processor.
type ChunkStats struct {
	RowsRead        int
	RowsWritten     int
	FullDuplicates  int
	EventIDDups     int
	NullFields      int
	BadTimestamps   int
	InvalidCategory int
}

// Dropped is the total number of rows this chunk rejected for any reason.
func (c ChunkStats) Dropped() int {
	return c.FullDuplicates + c.EventIDDups + c.NullFields + c.BadTimestamps + c.InvalidCategory
}

// RunStats accumulates chunk counters into run-level totals. It is owned by
// the driver, mutated only through the aggregator, and read only at progress
// ticks or after the run finishes.
type RunStats struct {
	RowsRead        int64
	RowsWritten     int64
	FullDuplicates  int64
	EventIDDups     int64
	NullFields      int64
	BadTimestamps   int64
	InvalidCategory int64
	Chunks          int64

	Elapsed time.Duration
}

// Dropped is the total number of dropped rows across all reasons.
func (s RunStats) Dropped() int64 {
	return s.FullDuplicates + s.EventIDDups + s.NullFields + s.BadTimestamps + s.InvalidCategory
}

// Throughput returns rows read per second, or 0 before any time has passed.
func (s RunStats) Throughput() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.RowsRead) / s.Elapsed.Seconds()
}

// Aggregator folds ChunkStats into RunStats. Purely additive; no rejection
// paths of its own.
type Aggregator struct {
	stats RunStats
	start time.Time
}

// NewAggregator starts the run clock.
func NewAggregator() *Aggregator {
	return &Aggregator{start: time.Now()}
}

// Fold adds one chunk's counters to the run totals.
func (a *Aggregator) Fold(c ChunkStats) {
	a.stats.RowsRead += int64(c.RowsRead)
	a.stats.RowsWritten += int64(c.RowsWritten)
	a.stats.FullDuplicates += int64(c.FullDuplicates)
	a.stats.EventIDDups += int64(c.EventIDDups)
	a.stats.NullFields += int64(c.NullFields)
	a.stats.BadTimestamps += int64(c.BadTimestamps)
	a.stats.InvalidCategory += int64(c.InvalidCategory)
	a.stats.Chunks++
}

// Snapshot returns the totals so far with elapsed time filled in. Used by the
// progress display; it never mutates pipeline state.
func (a *Aggregator) Snapshot() RunStats {
	s := a.stats
	s.Elapsed = time.Since(a.start)
	return s
}

// Finalize stamps the elapsed time and returns the totals. Called once, after
// the run reaches Done or Failed.
func (a *Aggregator) Finalize() RunStats {
	a.stats.Elapsed = time.Since(a.start)
	return a.stats
}
