package timer

import "testing"

func TestCountdown_ExpiresExactlyOnce(t *testing.T) {
	var c Countdown
	c.Start(60)

	fired := 0
	for i := 0; i < 120; i++ {
		if c.Tick() {
			fired++
		}
	}

	if fired != 1 {
		t.Errorf("expiry fired %d times, want 1", fired)
	}
	if c.Active() {
		t.Error("expected countdown inactive after expiry")
	}
	if c.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", c.Remaining())
	}
}

func TestCountdown_MonotoneNonIncreasing(t *testing.T) {
	var c Countdown
	c.Start(5)

	prev := c.Remaining()
	for i := 0; i < 10; i++ {
		c.Tick()
		if c.Remaining() > prev {
			t.Fatalf("remaining increased from %d to %d", prev, c.Remaining())
		}
		if c.Remaining() < 0 {
			t.Fatalf("remaining went negative: %d", c.Remaining())
		}
		prev = c.Remaining()
	}
}

func TestCountdown_StopPreservesRemaining(t *testing.T) {
	var c Countdown
	c.Start(30)
	c.Tick()
	c.Tick()
	c.Stop()

	if c.Active() {
		t.Error("expected inactive after Stop")
	}
	if c.Remaining() != 28 {
		t.Errorf("Remaining = %d, want 28", c.Remaining())
	}

	// Ticks while stopped are no-ops and never fire expiry.
	if c.Tick() {
		t.Error("tick fired expiry while stopped")
	}
	if c.Remaining() != 28 {
		t.Errorf("Remaining changed while stopped: %d", c.Remaining())
	}
}

func TestCountdown_RestartRearmsExpiry(t *testing.T) {
	var c Countdown
	c.Start(1)
	if !c.Tick() {
		t.Fatal("expected expiry on first activation")
	}

	c.Start(1)
	if !c.Tick() {
		t.Error("expected expiry to fire again after restart")
	}
}

func TestCountdown_ZeroDurationNeverActivates(t *testing.T) {
	var c Countdown
	c.Start(0)
	if c.Active() {
		t.Error("expected inactive for zero duration")
	}
	if c.Tick() {
		t.Error("tick fired expiry for zero-duration start")
	}
}
