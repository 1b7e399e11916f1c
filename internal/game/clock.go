package game

import "time"

// Clock is simulated time advanced by the fixed tick, so jump deadlines
// depend on the number of ticks rather than on wall time.
type Clock struct {
	now time.Time
}

// NewClock starts a clock at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current simulated time.
func (c *Clock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward by dt seconds.
func (c *Clock) Advance(dt float32) {
	c.now = c.now.Add(time.Duration(float64(dt) * float64(time.Second)))
}
