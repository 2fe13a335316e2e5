package clock

import (
	"sync"
	"time"
)

// Clock provides current time abstraction for deterministic tests.
// Params: none.
// Returns: current wall-clock time.
type Clock interface {
	Now() time.Time
}

// RealClock reads current UTC time from system clock.
// Params: none.
// Returns: current UTC timestamp.
type RealClock struct{}

// Now returns current UTC time.
// Params: none.
// Returns: current UTC timestamp.
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// Manual is a settable clock for deterministic window tests.
// Params: guarded current timestamp.
// Returns: clock whose time only moves when advanced.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual creates manual clock pinned at the given instant.
// Params: initial timestamp.
// Returns: initialized manual clock.
func NewManual(now time.Time) *Manual {
	return &Manual{now: now.UTC()}
}

// Now returns current manual timestamp.
// Params: none.
// Returns: last set/advanced instant.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves manual clock forward.
// Params: non-negative step duration.
// Returns: new current instant.
func (m *Manual) Advance(step time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(step)
	return m.now
}
