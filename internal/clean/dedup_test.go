package clean

import (
	"testing"
)

func TestDedupKeepThenDrops(t *testing.T) {
	tr := NewDedupTracker()
	a := valid()

	if got := tr.Check(a); got != Keep {
		t.Fatalf("first occurrence: got %v, want Keep", got)
	}
	if got := tr.Check(a); got != DropFullDuplicate {
		t.Fatalf("identical row: got %v, want DropFullDuplicate", got)
	}

	b := a
	b.EventType = "Logout"
	b.EventTimestamp = "2023-01-02 07:00:00"
	if got := tr.Check(b); got != DropEventIDDuplicate {
		t.Fatalf("same id, new content: got %v, want DropEventIDDuplicate", got)
	}
}

// Full-duplicate takes precedence over EventID-duplicate: an exact retransmit
// is reported as such even though the id repeats too.
func TestDedupFullBeatsEventID(t *testing.T) {
	tr := NewDedupTracker()
	a := valid()
	tr.Check(a)
	if got := tr.Check(a); got != DropFullDuplicate {
		t.Fatalf("got %v, want DropFullDuplicate", got)
	}
}

// A dropped record must not pollute the seen-sets: checking a duplicate twice
// keeps reporting the same outcome, and Tracked() counts only kept records.
func TestDedupDropDoesNotInsert(t *testing.T) {
	tr := NewDedupTracker()
	a := valid()
	tr.Check(a)

	b := a
	b.Location = "Japan"
	if got := tr.Check(b); got != DropEventIDDuplicate {
		t.Fatalf("got %v, want DropEventIDDuplicate", got)
	}
	// b's content hash was not inserted, so a byte-identical b still reports
	// an EventID duplicate, not a full duplicate.
	if got := tr.Check(b); got != DropEventIDDuplicate {
		t.Fatalf("second check: got %v, want DropEventIDDuplicate", got)
	}
	if tr.Tracked() != 1 {
		t.Fatalf("Tracked() = %d, want 1", tr.Tracked())
	}
}

func TestDedupDistinctIDs(t *testing.T) {
	tr := NewDedupTracker()
	for i, id := range []string{"E1", "E2", "E3"} {
		e := valid()
		e.EventID = id
		if got := tr.Check(e); got != Keep {
			t.Fatalf("record %d: got %v, want Keep", i, got)
		}
	}
	if tr.Tracked() != 3 {
		t.Fatalf("Tracked() = %d, want 3", tr.Tracked())
	}
}
