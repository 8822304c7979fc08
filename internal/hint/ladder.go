// Package hint meters hint disclosure for the current question. Revealed
// hints form a strictly growing sequence for one question's lifetime; the
// remaining budget is always the server's number, never decremented locally,
// so per-difficulty hint policies keep working without client changes.
package hint

import "github.com/brightsum/brightsum/internal/api"

// Ladder is the hint state for the question currently on screen.
type Ladder struct {
	revealed  []string
	remaining int
	known     bool // remaining has been reported at least once
	loading   bool
	err       error
}

// CanRequest reports whether a hint request is allowed: not while one is in
// flight, and not once the server has reported zero remaining. Before the
// first response the budget is unknown and a request is allowed.
func (l *Ladder) CanRequest() bool {
	if l.loading {
		return false
	}
	if l.known && l.remaining == 0 {
		return false
	}
	return true
}

// Begin marks a request in flight. It returns false (and does nothing) when
// requesting is disabled, so callers can gate the network call on it.
func (l *Ladder) Begin() bool {
	if !l.CanRequest() {
		return false
	}
	l.loading = true
	l.err = nil
	return true
}

// Apply appends exactly one hint and adopts the server's remaining count.
func (l *Ladder) Apply(resp *api.HintResponse) {
	l.loading = false
	l.err = nil
	l.revealed = append(l.revealed, resp.HintText)
	l.remaining = resp.HintsRemaining
	l.known = true
}

// Fail records the error without touching the revealed sequence or the
// remaining count; the next Begin is allowed again.
func (l *Ladder) Fail(err error) {
	l.loading = false
	l.err = err
}

// Reset clears everything. Called on every question transition.
func (l *Ladder) Reset() {
	*l = Ladder{}
}

// Revealed returns the hints disclosed so far, oldest first.
func (l *Ladder) Revealed() []string {
	out := make([]string, len(l.revealed))
	copy(out, l.revealed)
	return out
}

// Remaining returns the server-reported remaining count and whether any
// response has established it yet.
func (l *Ladder) Remaining() (int, bool) {
	return l.remaining, l.known
}

// Loading reports whether a hint request is in flight.
func (l *Ladder) Loading() bool { return l.loading }

// Err returns the last request error, if any.
func (l *Ladder) Err() error { return l.err }
