package history

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func TestAppendAndRecent(t *testing.T) {
	store, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := store.Append(Record{
			ID:        fmt.Sprintf("session-%d", i),
			Kind:      "scan",
			Base:      "/projects",
			Roots:     2,
			Conflicts: i,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	// Newest first.
	if records[0].ID != "session-2" {
		t.Errorf("expected session-2 first, got %s", records[0].ID)
	}
	if records[0].Conflicts != 2 {
		t.Errorf("expected 2 conflicts, got %d", records[0].Conflicts)
	}
}

func TestRecentRespectsLimit(t *testing.T) {
	store, err := NewStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	for i := 0; i < 5; i++ {
		if err := store.Append(Record{ID: fmt.Sprintf("s%d", i), Kind: "scan", Base: "/p"}); err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.Recent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}
}

func TestIncompleteFlagRoundTrip(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if err := store.Append(Record{ID: "s1", Kind: "resolve", Base: "/p", Resolved: 3, Failed: 1, Incomplete: true}); err != nil {
		t.Fatal(err)
	}

	records, err := store.Recent(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if !rec.Incomplete || rec.Resolved != 3 || rec.Failed != 1 {
		t.Errorf("round trip mismatch: %+v", rec)
	}
}
