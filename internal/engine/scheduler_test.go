package engine

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"alertcycle/internal/clock"
)

type fireRecorder struct {
	mu    sync.Mutex
	fired []string
}

func (r *fireRecorder) fire(alertID string) {
	r.mu.Lock()
	r.fired = append(r.fired, alertID)
	r.mu.Unlock()
}

func (r *fireRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.fired...)
}

func waitFor(t *testing.T, timeout time.Duration, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !condition() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %v", timeout)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSchedulerFiresDueEntries(t *testing.T) {
	t.Parallel()

	recorder := &fireRecorder{}
	s := newScheduler(clock.RealClock{}, recorder.fire)
	defer s.Stop()

	now := time.Now().UTC()
	s.Arm("b", now.Add(120*time.Millisecond))
	s.Arm("a", now.Add(40*time.Millisecond))

	waitFor(t, 2*time.Second, func() bool { return len(recorder.snapshot()) == 2 })
	fired := recorder.snapshot()
	if fired[0] != "a" || fired[1] != "b" {
		t.Fatalf("expected deadline order a,b got %+v", fired)
	}
}

func TestSchedulerCancelSuppressesFire(t *testing.T) {
	t.Parallel()

	recorder := &fireRecorder{}
	s := newScheduler(clock.RealClock{}, recorder.fire)
	defer s.Stop()

	s.Arm("a", time.Now().UTC().Add(50*time.Millisecond))
	s.Cancel("a")

	time.Sleep(200 * time.Millisecond)
	if fired := recorder.snapshot(); len(fired) != 0 {
		t.Fatalf("cancelled entry must not fire, got %+v", fired)
	}
}

func TestSchedulerCancelReleasesBookkeepingAfterDrain(t *testing.T) {
	t.Parallel()

	recorder := &fireRecorder{}
	s := newScheduler(clock.RealClock{}, recorder.fire)
	defer s.Stop()

	const armed = 200
	deadline := time.Now().UTC().Add(40 * time.Millisecond)
	for i := 0; i < armed; i++ {
		id := fmt.Sprintf("alert-%03d", i)
		s.Arm(id, deadline)
		s.Cancel(id)
	}

	waitFor(t, 2*time.Second, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return len(s.queue) == 0
	})

	s.mu.Lock()
	generations, pending := len(s.generations), len(s.pending)
	s.mu.Unlock()
	if generations != 0 || pending != 0 {
		t.Fatalf("cancelled entries must not leak bookkeeping, got %d generations and %d pending", generations, pending)
	}
	if fired := recorder.snapshot(); len(fired) != 0 {
		t.Fatalf("cancelled entries must not fire, got %+v", fired)
	}
}

func TestSchedulerRearmSupersedesEarlierDeadline(t *testing.T) {
	t.Parallel()

	recorder := &fireRecorder{}
	s := newScheduler(clock.RealClock{}, recorder.fire)
	defer s.Stop()

	now := time.Now().UTC()
	s.Arm("a", now.Add(50*time.Millisecond))
	s.Arm("a", now.Add(250*time.Millisecond))

	time.Sleep(150 * time.Millisecond)
	if fired := recorder.snapshot(); len(fired) != 0 {
		t.Fatalf("superseded deadline must not fire, got %+v", fired)
	}

	waitFor(t, 2*time.Second, func() bool { return len(recorder.snapshot()) == 1 })
	if fired := recorder.snapshot(); fired[0] != "a" {
		t.Fatalf("unexpected fire %+v", fired)
	}
}

func TestSchedulerStopDropsPendingWithoutFiring(t *testing.T) {
	t.Parallel()

	recorder := &fireRecorder{}
	s := newScheduler(clock.RealClock{}, recorder.fire)

	s.Arm("a", time.Now().UTC().Add(50*time.Millisecond))
	s.Stop()
	s.Stop()

	time.Sleep(200 * time.Millisecond)
	if fired := recorder.snapshot(); len(fired) != 0 {
		t.Fatalf("stop must drop pending deadlines, got %+v", fired)
	}

	// Arming after stop is a no-op.
	s.Arm("b", time.Now().UTC().Add(10*time.Millisecond))
	time.Sleep(100 * time.Millisecond)
	if fired := recorder.snapshot(); len(fired) != 0 {
		t.Fatalf("arm after stop must not fire, got %+v", fired)
	}
}
