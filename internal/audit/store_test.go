package audit

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_RecordAndList(t *testing.T) {
	store := newTestStore(t)

	now := time.Now().UTC()
	store.Record(Event{
		CreatedAt: now.Add(-time.Minute),
		Kind:      KindMutation,
		Tool:      "application",
		Action:    "deploy",
		ProjectID: "proj-1",
		Outcome:   OutcomeSuccess,
	})
	store.Record(Event{
		CreatedAt: now,
		Kind:      KindDenial,
		Tool:      "project",
		Action:    "remove",
		ProjectID: "proj-2",
		Outcome:   OutcomeDenied,
		Reason:    "lock violation",
	})

	events, err := store.List(Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("List() count = %v, want 2", len(events))
	}

	// Newest first
	if events[0].Kind != KindDenial {
		t.Errorf("events[0].Kind = %v, want %v", events[0].Kind, KindDenial)
	}
	if events[0].Reason != "lock violation" {
		t.Errorf("events[0].Reason = %v, want lock violation", events[0].Reason)
	}
	if events[1].Tool != "application" {
		t.Errorf("events[1].Tool = %v, want application", events[1].Tool)
	}
}

func TestStore_RecordGeneratesID(t *testing.T) {
	store := newTestStore(t)

	store.Record(Event{Kind: KindStartup, Outcome: OutcomeSuccess})

	events, err := store.List(Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("List() count = %v, want 1", len(events))
	}
	if events[0].ID == "" {
		t.Error("event ID should be generated when empty")
	}
	if events[0].CreatedAt.IsZero() {
		t.Error("event CreatedAt should be stamped when zero")
	}
}

func TestStore_ListByKind(t *testing.T) {
	store := newTestStore(t)

	store.RecordDenial("project", "get", "proj-x", "lock violation", "not accessible")
	store.RecordMutation("application", "deploy", "proj-1", nil)
	store.RecordDenial("environment", "remove", "proj-y", "environment validation failed", "foreign")

	denials, err := store.List(Filter{Kind: KindDenial})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(denials) != 2 {
		t.Errorf("List(denial) count = %v, want 2", len(denials))
	}
	for _, event := range denials {
		if event.Outcome != OutcomeDenied {
			t.Errorf("denial outcome = %v, want %v", event.Outcome, OutcomeDenied)
		}
	}
}

func TestStore_ListLimit(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		store.RecordMutation("project", "create", "proj-1", nil)
	}

	events, err := store.List(Filter{Limit: 3})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(events) != 3 {
		t.Errorf("List(limit=3) count = %v, want 3", len(events))
	}
}

func TestStore_RecordMutation_Failure(t *testing.T) {
	store := newTestStore(t)

	store.RecordMutation("postgres", "deploy", "proj-1", errDeployFailed)

	events, err := store.List(Filter{Kind: KindMutation})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("List() count = %v, want 1", len(events))
	}
	if events[0].Outcome != OutcomeFailure {
		t.Errorf("Outcome = %v, want %v", events[0].Outcome, OutcomeFailure)
	}
	if events[0].Detail != "deploy failed" {
		t.Errorf("Detail = %v, want deploy failed", events[0].Detail)
	}
}

func TestStore_Sweep(t *testing.T) {
	store := newTestStore(t)

	now := time.Now().UTC()
	store.Record(Event{
		CreatedAt: now.Add(-48 * time.Hour),
		Kind:      KindMutation,
		Outcome:   OutcomeSuccess,
	})
	store.Record(Event{
		CreatedAt: now,
		Kind:      KindMutation,
		Outcome:   OutcomeSuccess,
	})

	deleted, err := store.Sweep(24 * time.Hour)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("Sweep() deleted = %v, want 1", deleted)
	}

	events, err := store.List(Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(events) != 1 {
		t.Errorf("List() after sweep count = %v, want 1", len(events))
	}
}

func TestStore_NilStore(t *testing.T) {
	var store *Store

	// All operations no-op on a nil store
	store.Record(Event{Kind: KindDenial})
	store.RecordDenial("project", "get", "p", "lock violation", "")
	store.RecordMutation("project", "create", "p", nil)
	store.RecordStartup("p", nil)

	events, err := store.List(Filter{})
	if err != nil {
		t.Errorf("List() on nil store error = %v", err)
	}
	if events != nil {
		t.Errorf("List() on nil store = %v, want nil", events)
	}

	deleted, err := store.Sweep(time.Hour)
	if err != nil {
		t.Errorf("Sweep() on nil store error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("Sweep() on nil store deleted = %v, want 0", deleted)
	}

	if err := store.Close(); err != nil {
		t.Errorf("Close() on nil store error = %v", err)
	}
}

func TestStore_NewStore_InvalidPath(t *testing.T) {
	_, err := NewStore("/dev/null/invalid/audit.db")
	if err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestNewSweeper_InvalidSchedule(t *testing.T) {
	store := newTestStore(t)

	_, err := NewSweeper(store, "not a cron expr", 30)
	if err == nil {
		t.Error("expected error for invalid schedule")
	}
}

func TestNewSweeper_Disabled(t *testing.T) {
	sweeper, err := NewSweeper(nil, "0 3 * * *", 30)
	if err != nil {
		t.Fatalf("NewSweeper() error = %v", err)
	}

	// Disabled sweeper starts and stops without running anything
	sweeper.Start()
	sweeper.Stop()

	sweeper, err = NewSweeper(newTestStore(t), "0 3 * * *", 0)
	if err != nil {
		t.Fatalf("NewSweeper() error = %v", err)
	}
	sweeper.Start()
	sweeper.Stop()
}

func TestNewSweeper_StartStop(t *testing.T) {
	store := newTestStore(t)

	sweeper, err := NewSweeper(store, "0 3 * * *", 30)
	if err != nil {
		t.Fatalf("NewSweeper() error = %v", err)
	}

	sweeper.Start()
	sweeper.Stop()
}

var errDeployFailed = errTest("deploy failed")

type errTest string

func (e errTest) Error() string { return string(e) }
