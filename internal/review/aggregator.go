// Package review holds the mistake-review state: the faceted summary and the
// per-attempt mistake details expandable beneath the recent-session lists.
// Details are fetched once per attempt and cached; subsequent toggles only
// flip visibility.
package review

import (
	"errors"

	"github.com/brightsum/brightsum/internal/api"
)

// Failure classifies a summary load failure.
type Failure int

const (
	FailureNone Failure = iota

	// FailureUnauthenticated means the credential is missing or was
	// rejected. Never rendered inline; the caller redirects to login.
	FailureUnauthenticated

	// FailureLoad means the summary fetch failed; retryable via BeginLoad.
	FailureLoad
)

type detailKey struct {
	kind api.SessionKind
	id   int64
}

// Detail is the cached mistake detail for one attempt.
type Detail struct {
	Data    *api.MistakeDetail
	Visible bool
	Loading bool
	Err     error
}

// Aggregator owns the review screen's data. Summary loads and detail
// fetches are guarded by separate counters: epoch advances on every summary
// reload, gen only on Shutdown. A filter change mid-fetch must not orphan a
// detail row in its loading state.
type Aggregator struct {
	epoch   int
	gen     int
	filters api.ReviewFilters

	summary *api.ReviewSummary
	loading bool
	err     error
	failure Failure

	details map[detailKey]*Detail
}

// New returns an empty aggregator.
func New() *Aggregator {
	return &Aggregator{details: make(map[detailKey]*Detail)}
}

// BeginLoad starts a summary fetch under the given facets. Every load
// replaces the previous summary wholesale; the detail cache survives because
// attempt identifiers are stable across filter changes.
func (a *Aggregator) BeginLoad(filters api.ReviewFilters) int {
	a.epoch++
	a.filters = filters
	a.loading = true
	a.err = nil
	a.failure = FailureNone
	return a.epoch
}

// ApplySummary installs a fetched summary. Stale responses are ignored.
func (a *Aggregator) ApplySummary(epoch int, summary *api.ReviewSummary) {
	if epoch != a.epoch || !a.loading {
		return
	}
	a.summary = summary
	a.loading = false
}

// FailSummary records a summary fetch failure. The previous summary, if any,
// stays on screen.
func (a *Aggregator) FailSummary(epoch int, err error) {
	if epoch != a.epoch || !a.loading {
		return
	}
	a.loading = false
	a.err = err
	if errors.Is(err, api.ErrUnauthenticated) {
		a.failure = FailureUnauthenticated
	} else {
		a.failure = FailureLoad
	}
}

// ToggleDetail expands or collapses one attempt's mistake detail. The first
// expansion of an attempt needs a fetch and returns true; once cached,
// toggling only flips visibility and returns false. A toggle while that
// attempt's fetch is in flight is ignored.
func (a *Aggregator) ToggleDetail(kind api.SessionKind, id int64) (int, bool) {
	key := detailKey{kind: kind, id: id}
	d, ok := a.details[key]
	if !ok {
		d = &Detail{}
		a.details[key] = d
	}

	if d.Loading {
		return 0, false
	}
	if d.Data != nil {
		d.Visible = !d.Visible
		return 0, false
	}

	d.Loading = true
	d.Err = nil
	return a.gen, true
}

// ApplyDetail caches a fetched mistake detail and makes it visible.
func (a *Aggregator) ApplyDetail(gen int, kind api.SessionKind, id int64, detail *api.MistakeDetail) {
	d := a.details[detailKey{kind: kind, id: id}]
	if gen != a.gen || d == nil || !d.Loading {
		return
	}
	d.Loading = false
	d.Data = detail
	d.Visible = true
}

// FailDetail records a detail fetch failure. Nothing is cached, so the next
// toggle retries the fetch.
func (a *Aggregator) FailDetail(gen int, kind api.SessionKind, id int64, err error) {
	d := a.details[detailKey{kind: kind, id: id}]
	if gen != a.gen || d == nil || !d.Loading {
		return
	}
	d.Loading = false
	d.Err = err
}

// Shutdown invalidates both counters so any in-flight continuation becomes
// a no-op.
func (a *Aggregator) Shutdown() {
	a.epoch++
	a.gen++
}

// Summary returns the current summary, or nil before the first load.
func (a *Aggregator) Summary() *api.ReviewSummary { return a.summary }

// Filters returns the facets the last load was issued with.
func (a *Aggregator) Filters() api.ReviewFilters { return a.filters }

// Loading reports whether a summary fetch is in flight.
func (a *Aggregator) Loading() bool { return a.loading }

// Err returns the last summary load error, if any.
func (a *Aggregator) Err() error { return a.err }

// Failure returns the last summary failure kind.
func (a *Aggregator) Failure() Failure { return a.failure }

// Detail returns the detail state for one attempt, or nil if it has never
// been toggled.
func (a *Aggregator) Detail(kind api.SessionKind, id int64) *Detail {
	return a.details[detailKey{kind: kind, id: id}]
}
