// Package event defines the telemetry event record model shared by the
// cleaning pipeline, the CSV I/O layer, and the storage sinks.
//
// An Event is one row of the game telemetry export. All fields are plain
// text except EventTimestamp, which carries the canonical `2006-01-02
// 15:04:05` textual form after validation. Identity comes in two flavors:
//
//   - full identity: the content hash over every field (see Hash)
//   - logical identity: EventID alone
//
// Both are used by the deduplication stage.
package event

import "github.com/zeebo/xxh3"

// TimestampLayout is the canonical textual form of EventTimestamp, both on
// input and on output. Parsed timestamps are re-serialized with this layout
// so accidental variants (single-digit hours etc.) collapse to one form.
const TimestampLayout = "2006-01-02 15:04:05"

// Columns is the documented column order of the telemetry export. Input and
// output files use exactly this order.
var Columns = []string{
	"EventID",
	"PlayerID",
	"EventTimestamp",
	"EventType",
	"EventDetails",
	"DeviceType",
	"Location",
}

// Event is a single telemetry record. EventDetails is the only optional
// field; it may contain the delimiter and is quoted by the CSV layer.
type Event struct {
	EventID        string
	PlayerID       string
	EventTimestamp string
	EventType      string
	EventDetails   string
	DeviceType     string
	Location       string
}

// FromRow builds an Event from a CSV row in documented column order.
// The row must have exactly len(Columns) fields; the reader enforces that.
func FromRow(row []string) Event {
	return Event{
		EventID:        row[0],
		PlayerID:       row[1],
		EventTimestamp: row[2],
		EventType:      row[3],
		EventDetails:   row[4],
		DeviceType:     row[5],
		Location:       row[6],
	}
}

// Row returns the event as a CSV row in documented column order.
func (e Event) Row() []string {
	return []string{
		e.EventID,
		e.PlayerID,
		e.EventTimestamp,
		e.EventType,
		e.EventDetails,
		e.DeviceType,
		e.Location,
	}
}

// Values returns the event as a positional []any aligned with Columns, for
// the storage sinks' CopyFrom path.
func (e Event) Values() []any {
	return []any{
		e.EventID,
		e.PlayerID,
		e.EventTimestamp,
		e.EventType,
		e.EventDetails,
		e.DeviceType,
		e.Location,
	}
}

// sep joins fields inside the hash input. 0x1F (unit separator) cannot occur
// in practice, so distinct field splits never collide.
const sep = '\x1f'

// Hash returns the full-content identity of the event: xxh3 over all fields
// joined by the unit separator. Two events hash equal iff every field is
// byte-identical.
func (e Event) Hash() uint64 {
	b := make([]byte, 0, len(e.EventID)+len(e.PlayerID)+len(e.EventTimestamp)+
		len(e.EventType)+len(e.EventDetails)+len(e.DeviceType)+len(e.Location)+6)
	b = append(b, e.EventID...)
	b = append(b, sep)
	b = append(b, e.PlayerID...)
	b = append(b, sep)
	b = append(b, e.EventTimestamp...)
	b = append(b, sep)
	b = append(b, e.EventType...)
	b = append(b, sep)
	b = append(b, e.EventDetails...)
	b = append(b, sep)
	b = append(b, e.DeviceType...)
	b = append(b, sep)
	b = append(b, e.Location...)
	return xxh3.Hash(b)
}
