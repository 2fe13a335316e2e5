package engine

import (
	"container/heap"
	"sync"
	"time"

	"alertcycle/internal/clock"
)

// fireFunc is invoked by the scheduler worker once a deadline elapses.
// The alert id is passed through as armed; the callee re-validates state
// under its own lock, so a stale fire degrades to a no-op.
type fireFunc func(alertID string)

type timerEntry struct {
	fireAt     time.Time
	alertID    string
	generation uint64
	index      int
}

type timerQueue []*timerEntry

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].fireAt.Equal(q[j].fireAt) {
		return q[i].alertID < q[j].alertID
	}
	return q[i].fireAt.Before(q[j].fireAt)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(value any) {
	entry := value.(*timerEntry)
	entry.index = len(*q)
	*q = append(*q, entry)
}

func (q *timerQueue) Pop() any {
	old := *q
	last := len(old) - 1
	entry := old[last]
	old[last] = nil
	*q = old[:last]
	entry.index = -1
	return entry
}

// scheduler runs one worker goroutine over a deadline min-heap. Each armed
// alert carries a generation token; re-arming or cancelling bumps the token
// so entries still sitting in the heap expire silently instead of firing.
type scheduler struct {
	mu          sync.Mutex
	queue       timerQueue
	generations map[string]uint64
	pending     map[string]int
	clock       clock.Clock
	fire        fireFunc
	wake        chan struct{}
	done        chan struct{}
	stopOnce    sync.Once
	stopped     bool
}

// newScheduler starts the worker goroutine.
// Params: time source and fire callback.
// Returns: running scheduler; callers must Stop it to release the worker.
func newScheduler(clk clock.Clock, fire fireFunc) *scheduler {
	s := &scheduler{
		generations: make(map[string]uint64),
		pending:     make(map[string]int),
		clock:       clk,
		fire:        fire,
		wake:        make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
	go s.run()
	return s
}

// Arm schedules (or reschedules) a deadline for one alert.
// Params: alert id and absolute fire time.
// Returns: none; an earlier pending deadline for the same id is superseded.
func (s *scheduler) Arm(alertID string, fireAt time.Time) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.generations[alertID]++
	s.pending[alertID]++
	heap.Push(&s.queue, &timerEntry{
		fireAt:     fireAt,
		alertID:    alertID,
		generation: s.generations[alertID],
	})
	s.mu.Unlock()
	s.notify()
}

// Cancel invalidates any pending deadline for one alert.
// Params: alert id.
// Returns: none; heap entries are left to expire as stale and the per-id
// bookkeeping is released once the last of them drains.
func (s *scheduler) Cancel(alertID string) {
	s.mu.Lock()
	if _, ok := s.generations[alertID]; ok {
		s.generations[alertID]++
	}
	s.mu.Unlock()
}

// Stop shuts the worker down without firing pending deadlines. Safe to call
// more than once.
// Params: none.
// Returns: none; blocks until the worker exits.
func (s *scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		s.queue = nil
		s.generations = make(map[string]uint64)
		s.pending = make(map[string]int)
		s.mu.Unlock()
		close(s.done)
	})
}

func (s *scheduler) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *scheduler) run() {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()
	for {
		s.mu.Lock()
		var wait time.Duration = time.Hour
		if len(s.queue) > 0 {
			wait = s.queue[0].fireAt.Sub(s.clock.Now())
		}
		s.mu.Unlock()

		if wait <= 0 {
			s.fireDue()
			continue
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-s.done:
			return
		case <-s.wake:
		case <-timer.C:
		}
	}
}

// fireDue pops every elapsed entry and invokes the callback for the ones
// whose generation is still current. The callback runs outside the
// scheduler lock so it may take the controller lock freely.
func (s *scheduler) fireDue() {
	for {
		s.mu.Lock()
		if s.stopped || len(s.queue) == 0 || s.queue[0].fireAt.After(s.clock.Now()) {
			s.mu.Unlock()
			return
		}
		entry := heap.Pop(&s.queue).(*timerEntry)
		current := s.generations[entry.alertID] == entry.generation
		s.pending[entry.alertID]--
		if s.pending[entry.alertID] <= 0 {
			delete(s.pending, entry.alertID)
			delete(s.generations, entry.alertID)
		}
		s.mu.Unlock()

		if current {
			s.fire(entry.alertID)
		}
	}
}
