// Package ids generates record identifiers and timestamps.
package ids

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// New returns a fresh random (v4) UUID string.
func New() string {
	return uuid.New().String()
}

// Now returns the current UTC time truncated to milliseconds, the
// resolution timestamps are compared at once persisted.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Clock supplies timestamps to services that record them.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return Now() }

// FixedClock returns a settable time. Each call to Now advances it by Step,
// which makes successive timestamps strictly increasing when Step > 0.
type FixedClock struct {
	mu   sync.Mutex
	t    time.Time
	Step time.Duration
}

// NewFixedClock starts a FixedClock at t.
func NewFixedClock(t time.Time, step time.Duration) *FixedClock {
	return &FixedClock{t: t.UTC(), Step: step}
}

// Now implements Clock.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(c.Step)
	return now
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t.UTC()
}
