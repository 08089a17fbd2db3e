package session

import "time"

// Clock measures active time across pauses. It is a value: copying a
// Clock snapshots it. The zero value has not been started.
type Clock struct {
	segmentStart     time.Time
	accumulatedPause time.Duration
	pausedAt         time.Time
	paused           bool
}

// StartClock returns a running clock whose segment begins at now.
func StartClock(now time.Time) Clock {
	return Clock{segmentStart: now}
}

// Started reports whether the clock has a segment start.
func (c Clock) Started() bool {
	return !c.segmentStart.IsZero()
}

// Paused reports whether the clock is frozen.
func (c Clock) Paused() bool {
	return c.paused
}

// AccumulatedPause is the total paused time of completed pauses.
func (c Clock) AccumulatedPause() time.Duration {
	return c.accumulatedPause
}

// Pause freezes the clock at now. Pausing a paused clock is a no-op.
func (c *Clock) Pause(now time.Time) {
	if c.paused || !c.Started() {
		return
	}
	c.paused = true
	c.pausedAt = now
}

// Resume unfreezes the clock, adding the paused interval to the
// accumulated pause. Resuming a running clock is a no-op.
func (c *Clock) Resume(now time.Time) {
	if !c.paused {
		return
	}
	if d := now.Sub(c.pausedAt); d > 0 {
		c.accumulatedPause += d
	}
	c.paused = false
	c.pausedAt = time.Time{}
}

// Elapsed returns wall time since the segment start minus paused time.
// While paused the value does not advance.
func (c Clock) Elapsed(now time.Time) time.Duration {
	if !c.Started() {
		return 0
	}
	end := now
	if c.paused {
		end = c.pausedAt
	}
	d := end.Sub(c.segmentStart) - c.accumulatedPause
	if d < 0 {
		return 0
	}
	return d
}
