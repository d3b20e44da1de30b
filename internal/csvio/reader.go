// Package csvio provides streaming, chunk-oriented CSV reading and writing
// for telemetry event files. It never buffers a whole file: the reader hands
// out bounded chunks and the writer flushes after every chunk so output up to
// the last completed chunk is always durable.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"eventclean/internal/event"
)

// RowError is a structural read failure: the underlying reader could not
// parse a line into the expected column shape. It is fatal for the run,
// unlike the cleaner's semantic rejections.
type RowError struct {
	Row int // 1-based data row offset (header excluded)
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Reader streams events from a delimited file in bounded chunks.
type Reader struct {
	cr     *csv.Reader
	colIdx []int
	row    int // data rows consumed so far
	width  int // raw width expected after the header row
}

// NewReader wraps r and consumes its header row. The header is resolved
// against the canonical column set (with alias folding), so both documented
// CamelCase exports and legacy snake_case exports are accepted.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // width enforced per row for precise offsets
	cr.ReuseRecord = true

	raw, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	colIdx, err := resolveHeader(raw)
	if err != nil {
		return nil, err
	}
	return &Reader{cr: cr, colIdx: colIdx, width: len(raw)}, nil
}

// ReadChunk returns up to n events. A short (or empty) chunk signals that the
// input is exhausted. A *RowError is returned when a row cannot be parsed or
// has the wrong width; rows before it in the same chunk are returned along
// with the error so the caller can still account for them.
func (r *Reader) ReadChunk(n int) ([]event.Event, error) {
	chunk := make([]event.Event, 0, n)
	for len(chunk) < n {
		row, err := r.cr.Read()
		if errors.Is(err, io.EOF) {
			return chunk, nil
		}
		r.row++
		if err != nil {
			return chunk, &RowError{Row: r.row, Err: err}
		}
		if len(row) != r.width {
			return chunk, &RowError{
				Row: r.row,
				Err: fmt.Errorf("incorrect number of fields: expected %d, got %d", r.width, len(row)),
			}
		}

		// ReuseRecord invalidates field strings on the next Read; clone the
		// columns that outlive this iteration.
		var fields [7]string
		for i, src := range r.colIdx {
			if src >= 0 && src < len(row) {
				fields[i] = strings.Clone(row[src])
			}
		}
		chunk = append(chunk, event.FromRow(fields[:]))
	}
	return chunk, nil
}

// Offset reports how many data rows have been consumed.
func (r *Reader) Offset() int { return r.row }
