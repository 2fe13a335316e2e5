package engine

import "testing"

func TestBuildFingerprintDeterministic(t *testing.T) {
	t.Parallel()

	a := BuildFingerprint("t1", "cpu", "host1", "HighCPU", "cpu>90%")
	b := BuildFingerprint("t1", "cpu", "host1", "HighCPU", "cpu>90%")
	if a != b {
		t.Fatalf("identical tuples must hash identically: %s vs %s", a, b)
	}
	if len(a) != 40 {
		t.Fatalf("expected 40 hex chars, got %d", len(a))
	}
}

func TestBuildFingerprintFieldSensitivity(t *testing.T) {
	t.Parallel()

	base := BuildFingerprint("t1", "cpu", "host1", "HighCPU", "cpu>90%")
	variants := []string{
		BuildFingerprint("t2", "cpu", "host1", "HighCPU", "cpu>90%"),
		BuildFingerprint("t1", "mem", "host1", "HighCPU", "cpu>90%"),
		BuildFingerprint("t1", "cpu", "host2", "HighCPU", "cpu>90%"),
		BuildFingerprint("t1", "cpu", "host1", "HighMem", "cpu>90%"),
		BuildFingerprint("t1", "cpu", "host1", "HighCPU", "cpu>95%"),
	}
	for i, variant := range variants {
		if variant == base {
			t.Fatalf("variant %d must produce a distinct fingerprint", i)
		}
	}

	// Field boundaries are part of the digest input, so shifting content
	// across a boundary changes the hash.
	shifted := BuildFingerprint("t1", "cpuh", "ost1", "HighCPU", "cpu>90%")
	if shifted == base {
		t.Fatalf("boundary shift must change the fingerprint")
	}
}

func TestNewAlertIDOrderedAndUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	previous := ""
	for i := 0; i < 100; i++ {
		id := NewAlertID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
		if previous != "" && id < previous {
			t.Fatalf("ids must be creation-ordered: %s < %s", id, previous)
		}
		previous = id
	}
}
