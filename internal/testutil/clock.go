package testutil

import (
	"sync"
	"time"
)

// TestClock is a Clock whose current time is set by the test
type TestClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewTestClock creates a clock frozen at the given instant
func NewTestClock(now time.Time) *TestClock {
	return &TestClock{now: now}
}

func (c *TestClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// SetTime moves the clock to the given instant
func (c *TestClock) SetTime(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Advance moves the clock forward by d
func (c *TestClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
