package testutil

import (
	"sync/atomic"
	"time"
)

// StepClock stands in for time.Now in recorder and harness tests. The n-th
// call to Now returns start + n*step, so timestamps in reports and golden
// snapshots do not depend on the wall clock. Safe for concurrent use.
type StepClock struct {
	start time.Time
	step  time.Duration
	calls atomic.Int64
}

// NewStepClock returns a clock whose first reading is start.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{start: start, step: step}
}

// Now returns the next reading.
func (c *StepClock) Now() time.Time {
	n := c.calls.Add(1) - 1
	return c.start.Add(time.Duration(n) * c.step)
}

// Calls reports how many readings were taken.
func (c *StepClock) Calls() int64 {
	return c.calls.Load()
}

// Rewind makes the next reading start again.
func (c *StepClock) Rewind() {
	c.calls.Store(0)
}
