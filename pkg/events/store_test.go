package events

import (
	"context"
	"testing"
	"time"
)

func evt(id, dataset, src, dst string, kind EventType, ts time.Time) Event {
	return Event{ID: id, Dataset: dataset, Source: src, Target: dst, Type: kind, Timestamp: ts}
}

func TestEventType_Matches(t *testing.T) {
	tests := []struct {
		filter EventType
		event  EventType
		want   bool
	}{
		{TypeAll, TypeCall, true},
		{TypeAll, TypeSMS, true},
		{TypeCall, TypeCall, true},
		{TypeCall, TypeSMS, false},
		{TypeSMS, TypeCall, false},
	}
	for _, tt := range tests {
		if got := tt.filter.Matches(tt.event); got != tt.want {
			t.Errorf("%s.Matches(%s) = %v, want %v", tt.filter, tt.event, got, tt.want)
		}
	}
}

func TestEventType_Valid(t *testing.T) {
	for _, valid := range []EventType{TypeAll, TypeCall, TypeSMS} {
		if !valid.Valid() {
			t.Errorf("%s should be valid", valid)
		}
	}
	if EventType("fax").Valid() {
		t.Error("Unknown type should be invalid")
	}
}

func TestMemoryStore_FilterByDatasetAndType(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(
		evt("1", "case1", "a", "b", TypeCall, base),
		evt("2", "case1", "a", "b", TypeSMS, base.Add(time.Hour)),
		evt("3", "case2", "c", "d", TypeCall, base.Add(2*time.Hour)),
	)

	got, err := store.Events(context.Background(), Filter{Dataset: "case1", Type: TypeCall})
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("Expected only event 1, got %+v", got)
	}
}

func TestMemoryStore_TimeWindow(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(
		evt("early", "case1", "a", "b", TypeCall, base),
		evt("mid", "case1", "a", "b", TypeCall, base.Add(time.Hour)),
		evt("late", "case1", "a", "b", TypeCall, base.Add(2*time.Hour)),
	)

	from := base.Add(30 * time.Minute)
	to := base.Add(90 * time.Minute)
	got, err := store.Events(context.Background(), Filter{Dataset: "case1", From: &from, To: &to})
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "mid" {
		t.Errorf("Expected only the mid event, got %+v", got)
	}
}

func TestMemoryStore_SortedByTimestamp(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(
		evt("c", "case1", "a", "b", TypeCall, base.Add(2*time.Hour)),
		evt("a", "case1", "a", "b", TypeCall, base),
		evt("b", "case1", "a", "b", TypeCall, base.Add(time.Hour)),
	)

	got, _ := store.Events(context.Background(), Filter{})
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.Before(got[i-1].Timestamp) {
			t.Fatal("Events not sorted by timestamp")
		}
	}
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Events(ctx, Filter{}); err == nil {
		t.Error("Expected context error")
	}
}

func TestMemoryStore_Datasets(t *testing.T) {
	base := time.Now()
	store := NewMemoryStore(
		evt("1", "case1", "a", "b", TypeCall, base),
		evt("2", "case2", "a", "b", TypeCall, base),
		evt("3", "case1", "a", "b", TypeCall, base),
	)

	got, err := store.Datasets(context.Background())
	if err != nil {
		t.Fatalf("Datasets failed: %v", err)
	}
	if len(got) != 2 || got[0] != "case1" || got[1] != "case2" {
		t.Errorf("Expected [case1 case2], got %v", got)
	}
}

func TestNewDemoStore(t *testing.T) {
	store := NewDemoStore()

	ds, err := store.Datasets(context.Background())
	if err != nil {
		t.Fatalf("Datasets failed: %v", err)
	}
	if len(ds) != 1 || ds[0] != "demo" {
		t.Errorf("Expected single demo dataset, got %v", ds)
	}

	evts, err := store.Events(context.Background(), Filter{Dataset: "demo"})
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(evts) < 50 {
		t.Errorf("Demo dataset suspiciously small: %d events", len(evts))
	}

	// Deterministic across constructions
	again, _ := NewDemoStore().Events(context.Background(), Filter{Dataset: "demo"})
	if len(again) != len(evts) {
		t.Errorf("Demo dataset not deterministic: %d vs %d", len(evts), len(again))
	}
}
