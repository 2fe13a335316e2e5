package domain

import (
	"testing"
	"time"
)

func TestSeverityRank(t *testing.T) {
	t.Parallel()

	ordered := []Severity{SeverityInfo, SeverityWarning, SeverityError, SeverityCritical, SeverityFatal}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Fatalf("expected %s < %s", ordered[i-1], ordered[i])
		}
	}
	if Severity("LOUD").Rank() != -1 {
		t.Fatalf("unknown severity must rank -1")
	}
	if Severity("LOUD").Known() {
		t.Fatalf("unknown severity must not be known")
	}
}

func TestStatusTerminal(t *testing.T) {
	t.Parallel()

	terminal := map[Status]bool{
		StatusOpen:         false,
		StatusAcknowledged: false,
		StatusInProgress:   false,
		StatusResolved:     true,
		StatusClosed:       true,
		StatusSuppressed:   false,
	}
	for status, want := range terminal {
		if status.Terminal() != want {
			t.Fatalf("Terminal(%s): expected %v", status, want)
		}
	}
}

func TestAlertCloneDetachesState(t *testing.T) {
	t.Parallel()

	at := time.Now().UTC()
	original := Alert{
		ID:             "a1",
		Details:        map[string]string{"region": "eu"},
		Metrics:        map[string]float64{"cpu": 93.5},
		AcknowledgedAt: &at,
	}
	clone := original.Clone()

	clone.Details["region"] = "us"
	clone.Metrics["cpu"] = 10
	*clone.AcknowledgedAt = at.Add(time.Hour)

	if original.Details["region"] != "eu" {
		t.Fatalf("details map must be detached")
	}
	if original.Metrics["cpu"] != 93.5 {
		t.Fatalf("metrics map must be detached")
	}
	if !original.AcknowledgedAt.Equal(at) {
		t.Fatalf("timestamp pointer must be detached")
	}
}

func TestAlertCloneKeepsNilOptionals(t *testing.T) {
	t.Parallel()

	clone := Alert{ID: "a1"}.Clone()
	if clone.Details != nil || clone.Metrics != nil {
		t.Fatalf("empty maps must stay nil")
	}
	if clone.AssignedAt != nil || clone.ResolvedAt != nil || clone.SuppressedUntil != nil {
		t.Fatalf("nil timestamps must stay nil")
	}
}
