// Package config defines the JSON-serializable job model for the cleaner.
//
// A job file describes one cleaning run: where the raw export lives, where
// the cleaned CSV goes, the chunk size bounding peak memory, and the
// optional database sink and metrics backend. Decoding is performed by the
// standard library; the model is intentionally small and explicit so job
// files can be checked into configs/ and passed around without glue code.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DefaultChunkSize bounds rows per chunk when the job does not say.
const DefaultChunkSize = 50000

// Job is the top-level object decoded from a job file.
type Job struct {
	// Name labels the run in logs and metrics.
	Name string `json:"name"`

	// Source is the raw telemetry export to clean.
	Source File `json:"source"`

	// Output is the cleaned CSV destination.
	Output File `json:"output"`

	// Runtime bounds memory and selects the execution mode.
	Runtime Runtime `json:"runtime"`

	// Storage optionally loads cleaned events into a database sink as
	// well. Kind "" or "none" disables it.
	Storage Storage `json:"storage"`

	// Metrics optionally selects an operational metrics backend.
	Metrics Metrics `json:"metrics"`
}

// File holds a local filesystem path.
type File struct {
	Path string `json:"path"`
}

// Runtime controls chunking and the read/process overlap.
type Runtime struct {
	// ChunkSize is the bounded row count per chunk. 0 means
	// DefaultChunkSize.
	ChunkSize int `json:"chunk_size"`

	// Overlap enables reading the next chunk while the current one is
	// processed. Output and stats are identical either way.
	Overlap bool `json:"overlap"`
}

// Storage configures the optional database sink.
type Storage struct {
	Kind  string `json:"kind"` // "", "none", "sqlite", "postgres"
	DSN   string `json:"dsn"`
	Table string `json:"table"`
}

// Enabled reports whether a database sink is configured.
func (s Storage) Enabled() bool {
	return s.Kind != "" && s.Kind != "none"
}

// Metrics configures the optional metrics backend.
type Metrics struct {
	Backend        string `json:"backend"` // "", "none", "pushgateway", "datadog"
	PushgatewayURL string `json:"pushgateway_url"`
	DatadogAddr    string `json:"datadog_addr"` // DogStatsD address, e.g. "127.0.0.1:8125"
}

// Load decodes a job file from disk and applies defaults.
func Load(path string) (Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return Job{}, fmt.Errorf("open job file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode decodes a job from r and applies defaults. Unknown fields are
// rejected so typos in job files surface immediately.
func Decode(r io.Reader) (Job, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var j Job
	if err := dec.Decode(&j); err != nil {
		return Job{}, fmt.Errorf("decode job: %w", err)
	}
	if j.Runtime.ChunkSize == 0 {
		j.Runtime.ChunkSize = DefaultChunkSize
	}
	return j, nil
}
