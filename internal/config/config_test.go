package config

import (
	"strings"
	"testing"
)

func TestDecodeAppliesDefaults(t *testing.T) {
	j, err := Decode(strings.NewReader(`{
		"name": "nightly",
		"source": {"path": "raw.csv"},
		"output": {"path": "clean.csv"}
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if j.Runtime.ChunkSize != DefaultChunkSize {
		t.Fatalf("ChunkSize = %d, want %d", j.Runtime.ChunkSize, DefaultChunkSize)
	}
	if j.Storage.Enabled() {
		t.Fatal("storage should be disabled by default")
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"sourc": {"path": "raw.csv"}}`))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestDecodeFullJob(t *testing.T) {
	j, err := Decode(strings.NewReader(`{
		"name": "nightly",
		"source": {"path": "raw.csv"},
		"output": {"path": "clean.csv"},
		"runtime": {"chunk_size": 10000, "overlap": true},
		"storage": {"kind": "sqlite", "dsn": "events.db", "table": "cleaned_events"},
		"metrics": {"backend": "pushgateway", "pushgateway_url": "http://gw:9091"}
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if j.Runtime.ChunkSize != 10000 || !j.Runtime.Overlap {
		t.Fatalf("runtime = %+v", j.Runtime)
	}
	if !j.Storage.Enabled() || j.Storage.Kind != "sqlite" {
		t.Fatalf("storage = %+v", j.Storage)
	}
}
