package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates an issue that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates an issue surfaced to users without
	// necessarily blocking execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into
// the job (e.g. "runtime.chunk_size").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error where convenient.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidateJob performs static validation of a Job. It never mutates the job;
// callers decide whether warnings are fatal.
func ValidateJob(j Job) []Issue {
	var issues []Issue

	if strings.TrimSpace(j.Name) == "" {
		issues = append(issues, Issue{SeverityWarning, "name", "job name is empty; logs and metrics will use a default"})
	}
	if strings.TrimSpace(j.Source.Path) == "" {
		issues = append(issues, Issue{SeverityError, "source.path", "input path is required"})
	}
	if strings.TrimSpace(j.Output.Path) == "" {
		issues = append(issues, Issue{SeverityError, "output.path", "output path is required"})
	}
	if j.Source.Path != "" && j.Source.Path == j.Output.Path {
		issues = append(issues, Issue{SeverityError, "output.path", "output path must differ from source path"})
	}
	if j.Runtime.ChunkSize < 0 {
		issues = append(issues, Issue{SeverityError, "runtime.chunk_size", "chunk size must not be negative"})
	}
	if j.Runtime.ChunkSize > 0 && j.Runtime.ChunkSize < 1000 {
		issues = append(issues, Issue{SeverityWarning, "runtime.chunk_size", "very small chunk sizes hurt throughput"})
	}

	switch j.Storage.Kind {
	case "", "none":
	case "sqlite", "postgres":
		if strings.TrimSpace(j.Storage.DSN) == "" {
			issues = append(issues, Issue{SeverityError, "storage.dsn", "DSN is required when a storage kind is set"})
		}
	default:
		issues = append(issues, Issue{SeverityError, "storage.kind", fmt.Sprintf("unsupported kind %q", j.Storage.Kind)})
	}

	switch j.Metrics.Backend {
	case "", "none":
	case "pushgateway":
		if strings.TrimSpace(j.Metrics.PushgatewayURL) == "" {
			issues = append(issues, Issue{SeverityWarning, "metrics.pushgateway_url", "no Pushgateway URL; falling back to http://localhost:9091"})
		}
	case "datadog":
		if strings.TrimSpace(j.Metrics.DatadogAddr) == "" {
			issues = append(issues, Issue{SeverityWarning, "metrics.datadog_addr", "no DogStatsD address; falling back to 127.0.0.1:8125"})
		}
	default:
		issues = append(issues, Issue{SeverityWarning, "metrics.backend", fmt.Sprintf("unknown backend %q; metrics disabled", j.Metrics.Backend)})
	}

	return issues
}

// HasError reports whether any issue is severity error.
func HasError(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}
