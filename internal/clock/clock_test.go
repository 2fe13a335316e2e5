package clock

import (
	"testing"
	"time"
)

func TestRealClockReturnsUTC(t *testing.T) {
	t.Parallel()

	now := RealClock{}.Now()
	if now.Location() != time.UTC {
		t.Fatalf("expected UTC time, got %v", now.Location())
	}
}

func TestManualClockAdvance(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	manual := NewManual(start)
	if !manual.Now().Equal(start) {
		t.Fatalf("expected initial time %v, got %v", start, manual.Now())
	}

	moved := manual.Advance(90 * time.Second)
	if !moved.Equal(start.Add(90 * time.Second)) {
		t.Fatalf("unexpected advanced time %v", moved)
	}
	if !manual.Now().Equal(moved) {
		t.Fatalf("Now must observe advanced time")
	}
}
