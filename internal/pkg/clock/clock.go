// Package clock is the single source of "now" for deadlines, sweeps and
// status sync, so tests can pin and move time.
package clock

import (
	"sync"
	"time"
)

// Precision matches timestamptz so a value read back from Postgres equals
// the one that was written.
const Precision = time.Microsecond

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewRealClock returns wall-clock time in UTC at storage precision.
func NewRealClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC().Truncate(Precision)
}

// MockClock is a settable clock safe for concurrent use.
type MockClock struct {
	mu  sync.RWMutex
	now time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

func (c *MockClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Add moves the clock forward by d (backward when d is negative).
func (c *MockClock) Add(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
