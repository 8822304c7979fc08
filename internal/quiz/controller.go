// Package quiz drives a timed, fixed-question-set quiz attempt. The
// controller is a synchronous state machine: it never performs I/O itself.
// Callers ask it to begin an operation, run the network call, and feed the
// outcome back tagged with the epoch the operation began under, so responses
// that outlive a restart or unmount become no-ops.
package quiz

import (
	"errors"
	"fmt"

	"github.com/brightsum/brightsum/internal/api"
	"github.com/brightsum/brightsum/internal/timer"
)

// Controller owns all state for one quiz attempt.
type Controller struct {
	state   State
	failure Failure
	err     error
	epoch   int

	topic     string
	attemptID int64
	questions []api.QuizQuestion
	answers   map[int64]string
	index     int
	clock     timer.Countdown

	result *api.QuizSubmitResponse
}

// New returns an idle controller.
func New() *Controller {
	return &Controller{answers: make(map[int64]string)}
}

// Start begins a new attempt for topic. It returns the epoch the caller must
// attach to the start response. Re-entry while a session-mutating call is in
// flight is rejected.
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
	c.questions = nil
	c.answers = make(map[int64]string)
	c.index = 0
	c.result = nil
	c.clock.Stop()
	return c.epoch, nil
}

// ApplyStart installs the server's question set and starts the countdown.
// Stale or out-of-phase responses are ignored.
func (c *Controller) ApplyStart(epoch int, resp *api.QuizStartResponse) {
	if epoch != c.epoch || c.state != StateStarting {
		return
	}

	c.attemptID = resp.AttemptID
	c.questions = resp.Questions
	c.answers = make(map[int64]string, len(resp.Questions))
	for _, q := range resp.Questions {
		c.answers[q.ID] = ""
	}
	c.index = 0
	c.clock.Start(resp.TimeLimitMinutes * 60)
	c.state = StateInProgress
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

// SetAnswer records the answer text for the current question. Pure local
// mutation; empty text is allowed.
func (c *Controller) SetAnswer(text string) {
	if c.state != StateInProgress || len(c.questions) == 0 {
		return
	}
	c.answers[c.questions[c.index].ID] = text
}

// Navigate moves the current question index by delta, clamped to the
// question list. A no-op at either boundary and whenever the attempt is not
// accepting input.
func (c *Controller) Navigate(delta int) {
	if c.state != StateInProgress {
		return
	}
	next := c.index + delta
	if next < 0 || next >= len(c.questions) {
		return
	}
	c.index = next
}

// Tick advances the countdown by one second. A true result means the timer
// expired and the caller must invoke BeginSubmit; the countdown guarantees
// this fires at most once per activation, and BeginSubmit stops the clock,
// so expiry during an in-flight submission cannot occur.
func (c *Controller) Tick() bool {
	if c.state != StateInProgress {
		return false
	}
	return c.clock.Tick()
}

// BeginSubmit freezes the attempt for grading. It stops the countdown,
// serializes every answer in the original question order, and rejects
// re-entry while a submission is already in flight. Allowed from
// StateInProgress and from a failed submission (retry).
func (c *Controller) BeginSubmit() (int, api.QuizSubmitRequest, bool) {
	switch c.state {
	case StateInProgress:
	case StateErrored:
		if c.failure != FailureSubmit {
			return 0, api.QuizSubmitRequest{}, false
		}
	default:
		return 0, api.QuizSubmitRequest{}, false
	}

	c.clock.Stop()
	c.state = StateSubmitting
	c.err = nil
	c.failure = FailureNone

	req := api.QuizSubmitRequest{Answers: make([]api.QuizAnswer, 0, len(c.questions))}
	for _, q := range c.questions {
		req.Answers = append(req.Answers, api.QuizAnswer{
			QuestionID:      q.ID,
			AnswerSubmitted: c.answers[q.ID],
		})
	}
	return c.epoch, req, true
}

// ApplySubmit installs the server-graded outcome.
func (c *Controller) ApplySubmit(epoch int, resp *api.QuizSubmitResponse) {
	if epoch != c.epoch || c.state != StateSubmitting {
		return
	}
	c.result = resp
	c.state = StateCompleted
}

// FailSubmit records a grading failure. All local answers are retained and
// the timer stays stopped; the learner may retry via BeginSubmit.
func (c *Controller) FailSubmit(epoch int, err error) {
	if epoch != c.epoch || c.state != StateSubmitting {
		return
	}
	c.state = StateErrored
	c.err = err
	c.failure = classify(err, FailureSubmit)
}

// Shutdown invalidates the current epoch so any in-flight continuation
// becomes a no-op. Called when the owning screen unmounts.
func (c *Controller) Shutdown() {
	c.epoch++
}

// classify maps an operation error to its failure kind; credential problems
// always take precedence so the caller can redirect.
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

// Topic returns the topic the attempt was started for.
func (c *Controller) Topic() string { return c.topic }

// AttemptID returns the server's attempt handle.
func (c *Controller) AttemptID() int64 { return c.attemptID }

// Questions returns the pre-fetched question set.
func (c *Controller) Questions() []api.QuizQuestion { return c.questions }

// Index returns the current question index.
func (c *Controller) Index() int { return c.index }

// Current returns the question on screen, or nil before the set arrives.
func (c *Controller) Current() *api.QuizQuestion {
	if len(c.questions) == 0 {
		return nil
	}
	return &c.questions[c.index]
}

// Answer returns the stored answer text for the current question.
func (c *Controller) Answer() string {
	q := c.Current()
	if q == nil {
		return ""
	}
	return c.answers[q.ID]
}

// AnswerFor returns the stored answer for a specific question identifier.
func (c *Controller) AnswerFor(id int64) string { return c.answers[id] }

// Remaining returns the countdown's remaining seconds.
func (c *Controller) Remaining() int { return c.clock.Remaining() }

// TimerActive reports whether the countdown is running.
func (c *Controller) TimerActive() bool { return c.clock.Active() }

// Result returns the graded outcome once StateCompleted is reached.
func (c *Controller) Result() *api.QuizSubmitResponse { return c.result }
