// Package metrics is a small, backend-agnostic facade for operational
// counters emitted by the cleaning pipeline.
//
// A global, pluggable backend defaults to a no-op implementation, so metric
// calls are always safe even when no real backend is configured. Concrete
// systems (Prometheus Pushgateway) live in subpackages and adapt this
// interface, keeping the pipeline itself free of metrics dependencies.
//
// Metrics are informational only: they never feed back into pipeline state
// and are excluded from the determinism contract.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a duration-style observation in seconds.
	ObserveDuration(name string, seconds float64, labels Labels)
	// Flush pushes metrics if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)      {}
func (nopBackend) ObserveDuration(string, float64, Labels) {}
func (nopBackend) Flush() error                            { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error { return backend.Flush() }

// RecordRows increments the row counter for a drop reason or outcome kind,
// e.g. "read", "written", "full_duplicate", "null_field".
func RecordRows(kind string, n int64) {
	if n == 0 {
		return
	}
	backend.IncCounter("eventclean_rows_total", float64(n), Labels{"kind": kind})
}

// RecordChunk records one completed chunk and its processing latency.
func RecordChunk(d time.Duration) {
	backend.IncCounter("eventclean_chunks_total", 1, nil)
	backend.ObserveDuration("eventclean_chunk_duration_seconds", d.Seconds(), nil)
}

// RecordRun records the overall run outcome and duration.
func RecordRun(err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"status": status}
	backend.IncCounter("eventclean_runs_total", 1, lbls)
	backend.ObserveDuration("eventclean_run_duration_seconds", d.Seconds(), lbls)
}
