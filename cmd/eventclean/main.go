// Command eventclean cleans a game telemetry CSV export: it drops duplicate
// and invalid rows, normalizes timestamps and text, and writes the surviving
// rows in arrival order, processing the file in bounded chunks so memory
// stays flat regardless of input size.
//
// Configuration comes from an optional JSON job file plus flag overrides;
// flags win. On success the process exits 0. A structural failure mid-run
// exits 2 with the chunk index and row offset of the failure; output up to
// the last fully processed chunk is already on disk. Setup errors (bad
// config, unreadable paths) exit 1 before any chunk is processed.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"eventclean/internal/clean"
	"eventclean/internal/config"
	"eventclean/internal/csvio"
	"eventclean/internal/metrics"
	"eventclean/internal/metrics/datadog"
	"eventclean/internal/metrics/prompush"
	"eventclean/internal/pipeline"
	"eventclean/internal/storage"
)

const (
	exitFailed = 2
)

func main() {
	var (
		cfgPath   string
		inPath    string
		outPath   string
		chunkSize int
		overlap   bool
		yes       bool
		validate  bool

		storeKind  string
		storeDSN   string
		storeTable string

		metricsBackend string
		pushgatewayURL string
	)

	flag.StringVar(&cfgPath, "config", "", "job config JSON path (optional)")
	flag.StringVar(&inPath, "in", "", "input CSV path (overrides config)")
	flag.StringVar(&outPath, "out", "", "output CSV path (overrides config)")
	flag.IntVar(&chunkSize, "chunk", 0, "rows per chunk (overrides config)")
	flag.BoolVar(&overlap, "overlap", false, "read the next chunk while processing the current one")
	flag.BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.StringVar(&storeKind, "store", "", "also load cleaned events into a database: sqlite or postgres")
	flag.StringVar(&storeDSN, "dsn", "", "database DSN for -store")
	flag.StringVar(&storeTable, "table", "", "database table for -store (default cleaned_events)")
	flag.StringVar(&metricsBackend, "metrics-backend", "", "metrics backend (pushgateway, datadog or none)")
	flag.StringVar(&pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.Parse()

	job, err := loadJob(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	applyOverrides(&job, inPath, outPath, chunkSize, overlap,
		storeKind, storeDSN, storeTable, metricsBackend, pushgatewayURL)

	issues := config.ValidateJob(job)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasError(issues) {
		fatalf("configuration is invalid")
	}
	if validate {
		log.Printf("configuration is valid")
		return
	}

	if !yes && !confirm(job) {
		log.Printf("aborted")
		return
	}

	initMetrics(job)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, runErr := run(ctx, job)
	fmt.Println(pipeline.Summary(stats))

	// Flush before any exit call below; os.Exit skips deferred calls.
	if err := metrics.Flush(); err != nil {
		log.Printf("metrics: flush error: %v", err)
	}

	if runErr != nil {
		log.Printf("run failed: %v", runErr)
		os.Exit(exitFailed)
	}
}

// run wires the reader, the sinks, and the driver, and executes the job.
func run(ctx context.Context, job config.Job) (clean.RunStats, error) {
	src, err := csvio.OpenSource(ctx, job.Source.Path)
	if err != nil {
		fatalf("%v", err)
	}
	defer src.Close()

	reader, err := csvio.NewReader(bufio.NewReaderSize(src, 1<<20))
	if err != nil {
		fatalf("%v", err)
	}

	out, err := os.Create(job.Output.Path)
	if err != nil {
		fatalf("create output: %v", err)
	}
	defer out.Close()

	csvw := csvio.NewWriter(out)
	sinks := []pipeline.ChunkWriter{csvw}

	if job.Storage.Enabled() {
		repo, err := storage.New(ctx, storage.Config{
			Kind:  job.Storage.Kind,
			DSN:   job.Storage.DSN,
			Table: job.Storage.Table,
		})
		if err != nil {
			fatalf("storage: %v", err)
		}
		defer repo.Close()
		if err := repo.EnsureTable(ctx); err != nil {
			fatalf("storage: %v", err)
		}
		sinks = append(sinks, storage.NewSink(ctx, repo))
	}

	runner := &pipeline.Runner{
		ChunkSize: job.Runtime.ChunkSize,
		Overlap:   job.Runtime.Overlap,
		Progress: func(s clean.RunStats) {
			log.Printf("%s", pipeline.ProgressLine(s))
		},
	}
	stats, runErr := runner.Run(ctx, reader, pipeline.MultiWriter(sinks...))

	// Close writes the header even when zero rows survived, so the output is
	// always a valid export.
	if err := csvw.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("flush output: %w", err)
	}
	if err := out.Sync(); err != nil && runErr == nil {
		runErr = fmt.Errorf("sync output: %w", err)
	}
	return stats, runErr
}

// loadJob reads the job file when given, otherwise starts from an empty job
// that the flag overrides must complete.
func loadJob(path string) (config.Job, error) {
	if path == "" {
		return config.Job{Runtime: config.Runtime{ChunkSize: config.DefaultChunkSize}}, nil
	}
	return config.Load(path)
}

func applyOverrides(job *config.Job, in, out string, chunk int, overlap bool,
	storeKind, storeDSN, storeTable, metricsBackend, pushgatewayURL string) {
	if in != "" {
		job.Source.Path = in
	}
	if out != "" {
		job.Output.Path = out
	}
	if chunk > 0 {
		job.Runtime.ChunkSize = chunk
	}
	if overlap {
		job.Runtime.Overlap = true
	}
	if storeKind != "" {
		job.Storage.Kind = storeKind
	}
	if storeDSN != "" {
		job.Storage.DSN = storeDSN
	}
	if storeTable != "" {
		job.Storage.Table = storeTable
	}
	if metricsBackend != "" {
		job.Metrics.Backend = metricsBackend
	}
	if pushgatewayURL != "" {
		job.Metrics.PushgatewayURL = pushgatewayURL
	}
}

// confirm prints the run plan and asks for a y/N answer on stdin.
func confirm(job config.Job) bool {
	fmt.Printf("clean %s -> %s (chunk size %d)", job.Source.Path, job.Output.Path, job.Runtime.ChunkSize)
	if job.Storage.Enabled() {
		fmt.Printf(", load into %s", job.Storage.Kind)
	}
	fmt.Print("\nproceed? [y/N]: ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// initMetrics installs the configured metrics backend; flag → env → default,
// nop when disabled.
func initMetrics(job config.Job) {
	backend := job.Metrics.Backend
	if backend == "" {
		backend = os.Getenv("METRICS_BACKEND")
	}
	switch backend {
	case "pushgateway":
		gwURL := job.Metrics.PushgatewayURL
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		jobName := job.Name
		if jobName == "" {
			jobName = "eventclean"
		}
		b, err := prompush.NewBackend(jobName, gwURL)
		if err != nil {
			log.Printf("metrics: init pushgateway backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=pushgateway url=%s job=%s", gwURL, jobName)
		metrics.SetBackend(b)
	case "datadog":
		addr := job.Metrics.DatadogAddr
		if addr == "" {
			addr = os.Getenv("DOGSTATSD_ADDR")
		}
		if addr == "" {
			addr = "127.0.0.1:8125"
		}
		b, err := datadog.NewBackend(datadog.Config{
			Addr:      addr,
			Namespace: "eventclean.",
		})
		if err != nil {
			log.Printf("metrics: init datadog backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=datadog addr=%s", addr)
		metrics.SetBackend(b)
	case "", "none":
		// nop backend remains
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backend)
	}
}

func fatalf(format string, args ...any) {
	log.Printf(format, args...)
	os.Exit(1)
}
