package csvio

import (
	"encoding/csv"
	"fmt"
	"io"

	"eventclean/internal/event"
)

// Writer appends cleaned events to a CSV sink in the documented column
// order. The header row is written once, before the first chunk.
type Writer struct {
	cw          *csv.Writer
	wroteHeader bool
}

// NewWriter wraps w. Nothing is written until the first WriteChunk call.
func NewWriter(w io.Writer) *Writer {
	return &Writer{cw: csv.NewWriter(w)}
}

// WriteChunk appends a cleaned chunk and flushes, so output up to and
// including this chunk is durable even if a later chunk fails.
func (w *Writer) WriteChunk(events []event.Event) error {
	if !w.wroteHeader {
		if err := w.cw.Write(event.Columns); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		w.wroteHeader = true
	}
	for _, e := range events {
		if err := w.cw.Write(e.Row()); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.cw.Flush()
	return w.cw.Error()
}

// Close flushes buffered rows. An empty input still produces a header so the
// output file is a valid, openable export.
func (w *Writer) Close() error {
	if !w.wroteHeader {
		if err := w.cw.Write(event.Columns); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		w.wroteHeader = true
	}
	w.cw.Flush()
	return w.cw.Error()
}
