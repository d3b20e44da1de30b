package sqlite

import (
	"context"
	"testing"

	"eventclean/internal/event"
)

func testEvents() []event.Event {
	return []event.Event{
		{EventID: "E1", PlayerID: "P1", EventTimestamp: "2023-01-02 06:17:11",
			EventType: "Login", DeviceType: "PC", Location: "China"},
		{EventID: "E2", PlayerID: "P1", EventTimestamp: "2023-01-02 06:20:00",
			EventType: "InAppPurchase", EventDetails: "Amount:$4.99", DeviceType: "PC", Location: "China"},
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, err := NewRepository(ctx, Config{DSN: "file:events_test?mode=memory&cache=shared"})
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()

	if err := repo.EnsureTable(ctx); err != nil {
		t.Fatal(err)
	}
	// EnsureTable is idempotent.
	if err := repo.EnsureTable(ctx); err != nil {
		t.Fatal(err)
	}

	n, err := repo.CopyFrom(ctx, testEvents())
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("inserted %d rows, want 2", n)
	}

	var count int
	if err := repo.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cleaned_events").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("table has %d rows, want 2", count)
	}

	var details string
	err = repo.db.QueryRowContext(ctx,
		"SELECT event_details FROM cleaned_events WHERE event_id = 'E2'").Scan(&details)
	if err != nil {
		t.Fatal(err)
	}
	if details != "Amount:$4.99" {
		t.Fatalf("event_details = %q", details)
	}
}

func TestRepositoryEmptyChunk(t *testing.T) {
	ctx := context.Background()
	repo, err := NewRepository(ctx, Config{DSN: "file:events_empty?mode=memory&cache=shared"})
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()
	if err := repo.EnsureTable(ctx); err != nil {
		t.Fatal(err)
	}
	n, err := repo.CopyFrom(ctx, nil)
	if err != nil || n != 0 {
		t.Fatalf("CopyFrom(nil) = %d, %v", n, err)
	}
}

func TestRepositoryRejectsEmptyDSN(t *testing.T) {
	if _, err := NewRepository(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}
