package clean

import (
	"reflect"
	"testing"

	"eventclean/internal/event"
)

func row(id, ts, typ string) event.Event {
	return event.Event{
		EventID: id, PlayerID: "P1", EventTimestamp: ts,
		EventType: typ, DeviceType: "PC", Location: "China",
	}
}

// Identical row retransmitted, then same id with new content.
func TestProcessScenarioDuplicates(t *testing.T) {
	in := []event.Event{
		row("E1", "2023-01-02 06:17:11", "Login"),
		row("E1", "2023-01-02 06:17:11", "Login"),
		row("E1", "2023-01-02 07:00:00", "Logout"),
	}
	p := NewChunkProcessor(NewDedupTracker())
	out, st := p.Process(in)

	want := []event.Event{row("E1", "2023-01-02 06:17:11", "Login")}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("out = %+v, want %+v", out, want)
	}
	if st.RowsRead != 3 || st.RowsWritten != 1 || st.FullDuplicates != 1 || st.EventIDDups != 1 {
		t.Fatalf("stats = %+v", st)
	}
}

// A rejected row never reaches the tracker: a later valid row with the same
// EventID must still be kept.
func TestProcessRejectedRowDoesNotShadow(t *testing.T) {
	bad := row("E9", "2023-01-02 06:17:11", "Login")
	bad.PlayerID = ""
	in := []event.Event{bad, row("E9", "2023-01-02 06:17:11", "Login")}

	p := NewChunkProcessor(NewDedupTracker())
	out, st := p.Process(in)
	if len(out) != 1 || out[0].EventID != "E9" {
		t.Fatalf("out = %+v", out)
	}
	if st.NullFields != 1 || st.RowsWritten != 1 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestProcessPreservesOrder(t *testing.T) {
	in := []event.Event{
		row("E1", "2023-01-02 06:00:00", "Login"),
		row("E2", "2023-01-02 06:01:00", "LevelComplete"),
		row("E2", "2023-01-02 06:01:00", "LevelComplete"), // full dup
		row("E3", "2023-01-02 06:02:00", "Logout"),
	}
	p := NewChunkProcessor(NewDedupTracker())
	out, _ := p.Process(in)

	ids := make([]string, len(out))
	for i, e := range out {
		ids[i] = e.EventID
	}
	if !reflect.DeepEqual(ids, []string{"E1", "E2", "E3"}) {
		t.Fatalf("ids = %v", ids)
	}
}

// Dedup state survives across Process calls on the same processor.
func TestProcessDedupAcrossChunks(t *testing.T) {
	p := NewChunkProcessor(NewDedupTracker())

	out1, _ := p.Process([]event.Event{row("E1", "2023-01-02 06:00:00", "Login")})
	if len(out1) != 1 {
		t.Fatalf("chunk 1 out = %+v", out1)
	}
	out2, st2 := p.Process([]event.Event{row("E1", "2023-01-02 06:00:00", "Login")})
	if len(out2) != 0 || st2.FullDuplicates != 1 {
		t.Fatalf("chunk 2 out=%+v stats=%+v", out2, st2)
	}
}

// Conservation per chunk: read = written + dropped.
func TestProcessConservation(t *testing.T) {
	bad := row("E5", "not a time", "Login")
	in := []event.Event{
		row("E1", "2023-01-02 06:00:00", "Login"),
		row("E1", "2023-01-02 06:00:00", "Login"),
		bad,
		row("E6", "2023-01-02 06:00:00", "login"),
	}
	p := NewChunkProcessor(NewDedupTracker())
	_, st := p.Process(in)
	if st.RowsRead != st.RowsWritten+st.Dropped() {
		t.Fatalf("conservation violated: %+v", st)
	}
}
