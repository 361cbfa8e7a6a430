package utils

import (
	"sync"
	"time"
)

// Clock is the time source used for entry timestamps and age checks.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the monotonic wall clock of the process.
type SystemClock struct{}

// Now returns time.Now, which carries a monotonic reading.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewManualClock creates a ManualClock frozen at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current frozen time.
func (clock *ManualClock) Now() time.Time {
	clock.mu.RLock()
	defer clock.mu.RUnlock()
	return clock.now
}

// Advance moves the clock forward by d.
func (clock *ManualClock) Advance(d time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(d)
}

// Set moves the clock to t.
func (clock *ManualClock) Set(t time.Time) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = t
}
