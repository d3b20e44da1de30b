// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// It adapts the generic metrics.Backend interface to Prometheus using
// client_golang collectors and pushes the collected registry to a
// Pushgateway instead of exposing a scrape endpoint — a short-lived cleaning
// run is gone before any scraper would come around. All Prometheus-specific
// dependencies stay inside this package so the pipeline core remains
// decoupled from the metrics system.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"eventclean/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	rowCounter    *prometheus.CounterVec // eventclean_rows_total
	chunkCounter  prometheus.Counter     // eventclean_chunks_total
	chunkDuration prometheus.Summary     // eventclean_chunk_duration_seconds
	runCounter    *prometheus.CounterVec // eventclean_runs_total
	runDuration   *prometheus.SummaryVec // eventclean_run_duration_seconds
}

// NewBackend constructs a Pushgateway backend. jobName is the Pushgateway
// "job" grouping; gatewayURL the base URL of the Pushgateway server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "eventclean"
	}

	reg := prometheus.NewRegistry()

	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventclean_rows_total",
			Help: "Row-level counts per kind (read, written, and drop reasons).",
		},
		[]string{"kind"},
	)
	chunkCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "eventclean_chunks_total",
			Help: "Total number of chunks processed by this run.",
		},
	)
	chunkDuration := prometheus.NewSummary(
		prometheus.SummaryOpts{
			Name:       "eventclean_chunk_duration_seconds",
			Help:       "Per-chunk processing latency in seconds.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
	)
	runCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventclean_runs_total",
			Help: "Cleaning runs partitioned by final status.",
		},
		[]string{"status"},
	)
	runDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "eventclean_run_duration_seconds",
			Help: "End-to-end run duration in seconds, partitioned by status.",
		},
		[]string{"status"},
	)

	for _, c := range []prometheus.Collector{
		rowCounter, chunkCounter, chunkDuration, runCounter, runDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register collector: %w", err)
		}
	}

	return &Backend{
		gatewayURL:    gatewayURL,
		jobName:       jobName,
		reg:           reg,
		rowCounter:    rowCounter,
		chunkCounter:  chunkCounter,
		chunkDuration: chunkDuration,
		runCounter:    runCounter,
		runDuration:   runDuration,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "eventclean_rows_total":
		b.rowCounter.WithLabelValues(labels["kind"]).Add(delta)
	case "eventclean_chunks_total":
		b.chunkCounter.Add(delta)
	case "eventclean_runs_total":
		b.runCounter.WithLabelValues(labels["status"]).Add(delta)
	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveDuration(name string, seconds float64, labels metrics.Labels) {
	switch name {
	case "eventclean_chunk_duration_seconds":
		b.chunkDuration.Observe(seconds)
	case "eventclean_run_duration_seconds":
		b.runDuration.WithLabelValues(labels["status"]).Observe(seconds)
	}
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
