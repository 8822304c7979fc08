// Package timer implements the quiz countdown as a pure state machine.
// The TUI drives Tick once per second; nothing here touches the clock, so
// tests can exhaust a timer without waiting.
package timer

// Countdown tracks remaining seconds for a timed quiz attempt.
// Remaining never increases while active and never goes below zero.
type Countdown struct {
	remaining int
	active    bool
	fired     bool
}

// Start resets the countdown to durationSeconds and activates it.
// A non-positive duration leaves the timer inactive.
func (c *Countdown) Start(durationSeconds int) {
	c.fired = false
	if durationSeconds <= 0 {
		c.remaining = 0
		c.active = false
		return
	}
	c.remaining = durationSeconds
	c.active = true
}

// Tick decrements the remaining time by one second. It returns true exactly
// once per activation: on the tick that reaches zero. After firing, the
// countdown deactivates itself.
func (c *Countdown) Tick() (expired bool) {
	if !c.active {
		return false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining == 0 {
		c.active = false
		if !c.fired {
			c.fired = true
			return true
		}
	}
	return false
}

// Stop deactivates the countdown without resetting the remaining time.
// Used while a submission is in flight so a second expiry cannot fire.
func (c *Countdown) Stop() {
	c.active = false
}

// Remaining returns the seconds left on the clock.
func (c *Countdown) Remaining() int { return c.remaining }

// Active reports whether the countdown is running.
func (c *Countdown) Active() bool { return c.active }
