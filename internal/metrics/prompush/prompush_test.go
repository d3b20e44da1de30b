package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"eventclean/internal/metrics"
)

func TestNewBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		jobName     string
		gatewayURL  string
		wantErr     bool
		wantJobName string
	}{
		{
			name:       "missing gateway URL returns error",
			jobName:    "clean-job",
			gatewayURL: "",
			wantErr:    true,
		},
		{
			name:        "empty job name uses default",
			jobName:     "",
			gatewayURL:  "http://pushgateway:9091",
			wantJobName: "eventclean",
		},
		{
			name:        "explicit job name is preserved",
			jobName:     "my-custom-job",
			gatewayURL:  "http://pushgateway:9091",
			wantJobName: "my-custom-job",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := NewBackend(tt.jobName, tt.gatewayURL)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewBackend error = nil, want non-nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend error = %v", err)
			}
			if b.jobName != tt.wantJobName {
				t.Fatalf("jobName = %q, want %q", b.jobName, tt.wantJobName)
			}
			if b.gatewayURL != tt.gatewayURL {
				t.Fatalf("gatewayURL = %q, want %q", b.gatewayURL, tt.gatewayURL)
			}
		})
	}
}

func TestIncCounterRouting(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("job", "http://pushgateway:9091")
	if err != nil {
		t.Fatal(err)
	}

	b.IncCounter("eventclean_rows_total", 3, metrics.Labels{"kind": "read"})
	b.IncCounter("eventclean_chunks_total", 1, nil)
	b.IncCounter("eventclean_runs_total", 1, metrics.Labels{"status": "success"})
	b.IncCounter("unknown_metric", 99, nil) // must be ignored, not panic

	if got := testutil.ToFloat64(b.rowCounter.WithLabelValues("read")); got != 3 {
		t.Fatalf("rows_total{kind=read} = %v, want 3", got)
	}
	if got := testutil.ToFloat64(b.chunkCounter); got != 1 {
		t.Fatalf("chunks_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(b.runCounter.WithLabelValues("success")); got != 1 {
		t.Fatalf("runs_total{status=success} = %v, want 1", got)
	}
}

func TestFlushPushesToGateway(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewBackend("cleanjob", srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	b.IncCounter("eventclean_rows_total", 1, metrics.Labels{"kind": "written"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if gotPath != "/metrics/job/cleanjob" {
		t.Fatalf("push path = %q", gotPath)
	}
}
