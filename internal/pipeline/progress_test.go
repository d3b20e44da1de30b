package pipeline

import (
	"strings"
	"testing"
	"time"

	"eventclean/internal/clean"
)

func TestProgressLine(t *testing.T) {
	s := clean.RunStats{
		Chunks: 3, RowsRead: 1500000, RowsWritten: 1200000,
		Elapsed: 2 * time.Second,
	}
	line := ProgressLine(s)
	for _, want := range []string{"chunk 3", "1,500,000 rows in", "1,200,000 kept", "750,000 rows/s"} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
}

func TestSummaryBreakdown(t *testing.T) {
	s := clean.RunStats{
		RowsRead: 10, RowsWritten: 6, FullDuplicates: 1, EventIDDups: 1,
		NullFields: 1, BadTimestamps: 1, Elapsed: time.Second,
	}
	sum := Summary(s)
	for _, want := range []string{"rows read:", "full duplicates:", "eventid duplicates:", "bad timestamps:"} {
		if !strings.Contains(sum, want) {
			t.Fatalf("summary missing %q:\n%s", want, sum)
		}
	}
}
