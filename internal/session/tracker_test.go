package session

import (
	"context"
	"testing"
	"time"
)

func TestMemoryTrackerTouchAndGet(t *testing.T) {
	ctx := context.Background()
	tracker := NewMemoryTracker(time.Minute)

	if err := tracker.Touch(ctx, "s1", "u1", "budget"); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}
	if err := tracker.Touch(ctx, "s1", "u1", "passive_power"); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	act, err := tracker.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if act == nil {
		t.Fatal("expected activity, got nil")
	}
	if act.Predictions != 2 {
		t.Errorf("expected 2 predictions, got %d", act.Predictions)
	}
	if act.LastGame != "passive_power" {
		t.Errorf("expected last game passive_power, got %s", act.LastGame)
	}
}

func TestMemoryTrackerUnknownSession(t *testing.T) {
	tracker := NewMemoryTracker(time.Minute)

	act, err := tracker.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if act != nil {
		t.Errorf("expected nil activity, got %+v", act)
	}
}

func TestMemoryTrackerExpiry(t *testing.T) {
	ctx := context.Background()
	tracker := NewMemoryTracker(time.Second)

	if err := tracker.Touch(ctx, "s1", "u1", "budget"); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	// Age the entry past the TTL.
	tracker.mu.Lock()
	tracker.sessions["s1"].UpdatedAt -= 5
	tracker.mu.Unlock()

	act, err := tracker.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if act != nil {
		t.Errorf("expected expired session to be gone, got %+v", act)
	}
}
