package clean

import "eventclean/internal/event"

// ChunkProcessor runs the validator and the dedup tracker over one bounded
// batch of records. The validator is stateless; the tracker carries the
// run-scoped seen-sets, so a single processor must be used for the whole run
// and chunks must be fed in input order.
type ChunkProcessor struct {
	validator Validator
	tracker   *DedupTracker
}

// NewChunkProcessor wires a processor around the given tracker.
func NewChunkProcessor(t *DedupTracker) *ChunkProcessor {
	return &ChunkProcessor{tracker: t}
}

// Process cleans one chunk. Records are evaluated in original order; the
// returned slice preserves the relative order of survivors (stable filter).
// Rejected records never reach the tracker, so an invalid row cannot shadow
// a later valid row with the same EventID.
func (p *ChunkProcessor) Process(chunk []event.Event) ([]event.Event, ChunkStats) {
	out := make([]event.Event, 0, len(chunk))
	var st ChunkStats
	st.RowsRead = len(chunk)

	for _, e := range chunk {
		n, reason, ok := p.validator.Validate(e)
		if !ok {
			switch reason {
			case ReasonNullField:
				st.NullFields++
			case ReasonBadTimestamp:
				st.BadTimestamps++
			case ReasonInvalidCategory:
				st.InvalidCategory++
			}
			continue
		}

		switch p.tracker.Check(n) {
		case Keep:
			out = append(out, n)
			st.RowsWritten++
		case DropFullDuplicate:
			st.FullDuplicates++
		case DropEventIDDuplicate:
			st.EventIDDups++
		}
	}
	return out, st
}
