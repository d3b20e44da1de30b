package event

import (
	"reflect"
	"testing"
)

func TestRowRoundTrip(t *testing.T) {
	row := []string{"E1", "P100001", "2023-01-02 06:17:11", "Login", "", "PC", "China"}
	e := FromRow(row)
	if got := e.Row(); !reflect.DeepEqual(got, row) {
		t.Fatalf("Row() = %v, want %v", got, row)
	}
	if len(e.Values()) != len(Columns) {
		t.Fatalf("Values() has %d entries, want %d", len(e.Values()), len(Columns))
	}
}

func TestHashDistinguishesFieldSplits(t *testing.T) {
	// Same concatenated bytes, different field boundaries.
	a := Event{EventID: "E1x", PlayerID: "P1"}
	b := Event{EventID: "E1", PlayerID: "xP1"}
	if a.Hash() == b.Hash() {
		t.Fatal("hash collided across different field splits")
	}
}

func TestHashStable(t *testing.T) {
	e := Event{
		EventID: "E42", PlayerID: "P7", EventTimestamp: "2023-03-01 10:00:00",
		EventType: "Login", DeviceType: "iOS", Location: "Japan",
	}
	if e.Hash() != e.Hash() {
		t.Fatal("hash not deterministic")
	}
	changed := e
	changed.EventDetails = "Amount:$0.99"
	if e.Hash() == changed.Hash() {
		t.Fatal("hash ignored EventDetails")
	}
}
