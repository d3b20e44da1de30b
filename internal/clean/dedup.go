package clean

import "eventclean/internal/event"

// DedupOutcome is the verdict of the tracker for one record.
type DedupOutcome int

const (
	Keep DedupOutcome = iota
	DropFullDuplicate
	DropEventIDDuplicate
)

// DedupTracker holds the run-scoped seen-sets used to drop duplicates across
// chunk boundaries. It lives for the whole run: a duplicate in chunk 5 of a
// row first kept in chunk 1 is still caught.
//
// Both sets grow with the number of *kept* records, so memory is bounded by
// output cardinality rather than input size. That is the documented scaling
// limit of the chunked design.
//
// The tracker is exclusively owned by the pipeline driver and is not safe for
// concurrent use.
type DedupTracker struct {
	seenFullHashes map[uint64]struct{}
	seenEventIDs   map[string]struct{}
}

// NewDedupTracker returns an empty tracker.
func NewDedupTracker() *DedupTracker {
	return &DedupTracker{
		seenFullHashes: make(map[uint64]struct{}),
		seenEventIDs:   make(map[string]struct{}),
	}
}

// Check decides keep/drop for a validated record.
//
// The full-content check runs first: an exact re-transmitted row is the
// stronger, cheaper-to-explain signal and is reported as such even when the
// EventID also repeats. An EventID match with differing content is a logical
// collision and is reported separately.
//
// The seen-sets are mutated only on Keep; a dropped record was never "seen"
// as valid output and must not pollute them.
func (t *DedupTracker) Check(e event.Event) DedupOutcome {
	h := e.Hash()
	if _, dup := t.seenFullHashes[h]; dup {
		return DropFullDuplicate
	}
	if _, dup := t.seenEventIDs[e.EventID]; dup {
		return DropEventIDDuplicate
	}
	t.seenFullHashes[h] = struct{}{}
	t.seenEventIDs[e.EventID] = struct{}{}
	return Keep
}

// Tracked reports how many distinct records have been kept so far.
func (t *DedupTracker) Tracked() int { return len(t.seenEventIDs) }
