// Package practice drives an adaptive practice session: one question on
// screen at a time, graded server-side, with a metered hint ladder. Like the
// quiz controller it is a pure state machine; callers run the network calls
// and feed outcomes back under the epoch they began with.
//
// The one subtlety is feedback isolation: the submit response already carries
// the successor question, but the learner is still looking at the question
// they just answered. The successor is parked in a buffer and the visible
// question does not change until Advance.
package practice

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brightsum/brightsum/internal/api"
	"github.com/brightsum/brightsum/internal/hint"
)

// ErrNoNextQuestion is recorded when the server reports an unfinished
// session without a successor question.
var ErrNoNextQuestion = errors.New("session incomplete but no next question provided")

// Feedback is the graded outcome for the question still on screen.
type Feedback struct {
	IsCorrect     bool
	CorrectAnswer string
}

// Controller owns all state for one practice session.
type Controller struct {
	state   State
	failure Failure
	err     error
	epoch   int

	topic     string
	attemptID int64
	question  api.PracticeQuestion
	shownAt   time.Time

	feedback    *Feedback
	pendingNext *api.PracticeQuestion
	complete    bool

	score     int
	completed int

	hints hint.Ladder

	now func() time.Time
}

// New returns an idle controller using the wall clock for per-question
// timing.
func New() *Controller {
	return &Controller{now: time.Now}
}

// NewWithClock is New with an injectable clock.
func NewWithClock(now func() time.Time) *Controller {
	return &Controller{now: now}
}

// Start begins a new session for topic and returns the epoch the caller must
// attach to the start response.
func (c *Controller) Start(topic string) (int, error) {
	if topic == "" {
		return 0, errors.New("topic is required")
	}
	if c.state == StateStarting || c.state == StateSubmitting {
		return 0, fmt.Errorf("cannot start while %s", c.state)
	}

	c.epoch++
	c.state = StateStarting
	c.failure = FailureNone
	c.err = nil
	c.topic = topic
	c.attemptID = 0
	c.question = api.PracticeQuestion{}
	c.feedback = nil
	c.pendingNext = nil
	c.complete = false
	c.score = 0
	c.completed = 0
	c.hints.Reset()
	return c.epoch, nil
}

// ApplyStart installs the first question. Stale responses are ignored.
func (c *Controller) ApplyStart(epoch int, resp *api.PracticeStartResponse) {
	if epoch != c.epoch || c.state != StateStarting {
		return
	}

	c.attemptID = resp.AttemptID
	c.question = resp.CurrentQuestion
	c.score = resp.Score
	c.completed = resp.QuestionsCompleted
	c.shownAt = c.now()
	c.hints.Reset()
	c.state = StateAwaitingAnswer
}

// FailStart records a start failure.
func (c *Controller) FailStart(epoch int, err error) {
	if epoch != c.epoch || c.state != StateStarting {
		return
	}
	c.state = StateErrored
	c.err = err
	c.failure = classify(err, FailureStart)
}

// BeginSubmit freezes the current question for grading. Answers that are
// empty after trimming are rejected locally and never reach the server; the
// controller state is untouched so the learner can keep typing. Allowed from
// StateAwaitingAnswer and from a failed submission (retry).
func (c *Controller) BeginSubmit(answer string) (int, api.PracticeSubmitRequest, bool) {
	if strings.TrimSpace(answer) == "" {
		return 0, api.PracticeSubmitRequest{}, false
	}
	switch c.state {
	case StateAwaitingAnswer:
	case StateErrored:
		if c.failure != FailureSubmit {
			return 0, api.PracticeSubmitRequest{}, false
		}
	default:
		return 0, api.PracticeSubmitRequest{}, false
	}

	c.state = StateSubmitting
	c.err = nil
	c.failure = FailureNone

	req := api.PracticeSubmitRequest{
		AnswerSubmitted: answer,
		TimeSeconds:     c.now().Sub(c.shownAt).Seconds(),
	}
	return c.epoch, req, true
}

// ApplySubmit installs the graded outcome. The visible question stays put;
// the successor, when present, is parked until Advance. A complete session
// skips the feedback stop and goes straight to StateComplete with the buffer
// cleared. An unfinished session with no successor is a server contract
// violation and moves the controller to StateErrored rather than stalling
// silently.
func (c *Controller) ApplySubmit(epoch int, resp *api.PracticeSubmitResponse) {
	if epoch != c.epoch || c.state != StateSubmitting {
		return
	}

	c.score = resp.Score
	c.completed = resp.QuestionsCompleted

	if resp.SessionComplete {
		c.epoch++
		c.feedback = nil
		c.pendingNext = nil
		c.complete = true
		c.hints.Reset()
		c.state = StateComplete
		return
	}

	if resp.NextQuestion == nil {
		c.state = StateErrored
		c.err = ErrNoNextQuestion
		c.failure = FailureSubmit
		return
	}

	c.feedback = &Feedback{IsCorrect: resp.IsCorrect, CorrectAnswer: resp.CorrectAnswer}
	c.pendingNext = resp.NextQuestion
	c.state = StateShowingFeedback
}

// FailSubmit records a grading failure; the question and hint ladder are
// untouched and the answer may be resubmitted.
func (c *Controller) FailSubmit(epoch int, err error) {
	if epoch != c.epoch || c.state != StateSubmitting {
		return
	}
	c.state = StateErrored
	c.err = err
	c.failure = classify(err, FailureSubmit)
}

// Advance leaves the feedback view: it promotes the buffered successor to
// the visible question, clears the feedback and the hint ladder, and bumps
// the epoch so any hint request still in flight for the old question is
// dropped. Feedback is only shown mid-session, so the buffer always holds a
// successor here.
func (c *Controller) Advance() {
	if c.state != StateShowingFeedback {
		return
	}

	c.epoch++
	c.feedback = nil
	c.hints.Reset()

	c.question = *c.pendingNext
	c.pendingNext = nil
	c.shownAt = c.now()
	c.state = StateAwaitingAnswer
}

// BeginHint marks a hint request in flight for the current question. It
// returns false without side effects when the session is not awaiting an
// answer or the ladder disallows another request.
func (c *Controller) BeginHint() (int, bool) {
	if c.state != StateAwaitingAnswer {
		return 0, false
	}
	if !c.hints.Begin() {
		return 0, false
	}
	return c.epoch, true
}

// ApplyHint appends the revealed hint. Responses for a question the learner
// has already moved past carry a stale epoch and are dropped.
func (c *Controller) ApplyHint(epoch int, resp *api.HintResponse) {
	if epoch != c.epoch {
		return
	}
	c.hints.Apply(resp)
}

// FailHint records a hint failure; the ladder stays retryable.
func (c *Controller) FailHint(epoch int, err error) {
	if epoch != c.epoch {
		return
	}
	c.hints.Fail(err)
}

// Reset returns the controller to idle so a fresh session can begin.
func (c *Controller) Reset() {
	now := c.now
	*c = Controller{now: now, epoch: c.epoch + 1}
}

// Shutdown invalidates the current epoch so any in-flight continuation
// becomes a no-op.
func (c *Controller) Shutdown() {
	c.epoch++
}

func classify(err error, fallback Failure) Failure {
	if errors.Is(err, api.ErrUnauthenticated) {
		return FailureUnauthenticated
	}
	return fallback
}

// State returns the current lifecycle phase.
func (c *Controller) State() State { return c.state }

// Failure returns the current failure kind.
func (c *Controller) Failure() Failure { return c.failure }

// Err returns the error behind StateErrored, if any.
func (c *Controller) Err() error { return c.err }

// Topic returns the topic the session was started for.
func (c *Controller) Topic() string { return c.topic }

// AttemptID returns the server's attempt handle.
func (c *Controller) AttemptID() int64 { return c.attemptID }

// Question returns the question currently on screen.
func (c *Controller) Question() api.PracticeQuestion { return c.question }

// Feedback returns the graded outcome while StateShowingFeedback, else nil.
func (c *Controller) Feedback() *Feedback { return c.feedback }

// Score returns the server-authoritative session score.
func (c *Controller) Score() int { return c.score }

// Completed returns the server-authoritative answered-question count.
func (c *Controller) Completed() int { return c.completed }

// SessionComplete reports whether the server has ended the session.
func (c *Controller) SessionComplete() bool { return c.complete }

// Hints exposes the hint ladder for the current question.
func (c *Controller) Hints() *hint.Ladder { return &c.hints }
