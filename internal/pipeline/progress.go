package pipeline

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"eventclean/internal/clean"
)

// ProgressLine renders the one-line per-chunk progress display: rows
// processed so far, elapsed time, and derived throughput. Purely a read-only
// projection of the stats snapshot.
func ProgressLine(s clean.RunStats) string {
	return fmt.Sprintf("chunk %d: %s rows in, %s kept, %.1fs elapsed, %s rows/s",
		s.Chunks,
		humanize.Comma(s.RowsRead),
		humanize.Comma(s.RowsWritten),
		s.Elapsed.Seconds(),
		humanize.Comma(int64(s.Throughput())),
	)
}

// Summary renders the end-of-run stats block printed after Done or Failed.
func Summary(s clean.RunStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "rows read:          %s\n", humanize.Comma(s.RowsRead))
	fmt.Fprintf(&b, "rows written:       %s\n", humanize.Comma(s.RowsWritten))
	fmt.Fprintf(&b, "full duplicates:    %s\n", humanize.Comma(s.FullDuplicates))
	fmt.Fprintf(&b, "eventid duplicates: %s\n", humanize.Comma(s.EventIDDups))
	fmt.Fprintf(&b, "null fields:        %s\n", humanize.Comma(s.NullFields))
	fmt.Fprintf(&b, "bad timestamps:     %s\n", humanize.Comma(s.BadTimestamps))
	fmt.Fprintf(&b, "invalid categories: %s\n", humanize.Comma(s.InvalidCategory))
	fmt.Fprintf(&b, "elapsed:            %.1fs (%s rows/s)",
		s.Elapsed.Seconds(), humanize.Comma(int64(s.Throughput())))
	return b.String()
}
