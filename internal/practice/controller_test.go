package practice

import (
	"errors"
	"testing"
	"time"

	"github.com/brightsum/brightsum/internal/api"
)

func startedSession(t *testing.T) *Controller {
	t.Helper()
	c := New()
	epoch, err := c.Start("expressions")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.ApplyStart(epoch, &api.PracticeStartResponse{
		AttemptID: 17,
		CurrentQuestion: api.PracticeQuestion{
			QuestionID:      100,
			Stem:            "4x = 12",
			BaseDifficulty:  "easy",
			ShownDifficulty: "easy",
		},
	})
	if c.State() != StateAwaitingAnswer {
		t.Fatalf("state after ApplyStart = %v, want awaiting-answer", c.State())
	}
	return c
}

func submitAndGrade(t *testing.T, c *Controller, answer string, resp *api.PracticeSubmitResponse) {
	t.Helper()
	epoch, _, ok := c.BeginSubmit(answer)
	if !ok {
		t.Fatalf("BeginSubmit(%q) refused in state %v", answer, c.State())
	}
	c.ApplySubmit(epoch, resp)
}

func TestController_FeedbackKeepsCurrentQuestionVisible(t *testing.T) {
	c := startedSession(t)

	submitAndGrade(t, c, "3", &api.PracticeSubmitResponse{
		IsCorrect:          true,
		CorrectAnswer:      "3",
		Score:              1,
		QuestionsCompleted: 1,
		NextQuestion: &api.PracticeQuestion{
			QuestionID: 101,
			Stem:       "7x = 21",
		},
	})

	if c.State() != StateShowingFeedback {
		t.Fatalf("state = %v, want showing-feedback", c.State())
	}
	if got := c.Question().QuestionID; got != 100 {
		t.Errorf("visible question = %d during feedback, want 100 (the answered one)", got)
	}
	if fb := c.Feedback(); fb == nil || !fb.IsCorrect {
		t.Errorf("Feedback = %+v, want correct", fb)
	}

	c.Advance()
	if got := c.Question().QuestionID; got != 101 {
		t.Errorf("visible question after Advance = %d, want 101", got)
	}
	if c.State() != StateAwaitingAnswer {
		t.Errorf("state after Advance = %v, want awaiting-answer", c.State())
	}
	if c.Feedback() != nil {
		t.Error("feedback must be cleared on Advance")
	}
}

func TestController_WhitespaceAnswerRejectedLocally(t *testing.T) {
	c := startedSession(t)

	for _, answer := range []string{"", "   ", "\t\n"} {
		if _, _, ok := c.BeginSubmit(answer); ok {
			t.Errorf("BeginSubmit(%q) succeeded; must be rejected without a network call", answer)
		}
	}
	if c.State() != StateAwaitingAnswer {
		t.Errorf("state = %v after rejected submits, want awaiting-answer", c.State())
	}
}

func TestController_ScoreIsServerAuthoritative(t *testing.T) {
	c := startedSession(t)

	submitAndGrade(t, c, "99", &api.PracticeSubmitResponse{
		IsCorrect:          false,
		CorrectAnswer:      "3",
		Score:              4,
		QuestionsCompleted: 7,
		NextQuestion:       &api.PracticeQuestion{QuestionID: 101, Stem: "x/2 = 5"},
	})

	if c.Score() != 4 || c.Completed() != 7 {
		t.Errorf("Score/Completed = %d/%d, want server values 4/7", c.Score(), c.Completed())
	}
}

func TestController_SessionCompleteImmediately(t *testing.T) {
	c := startedSession(t)

	hintEpoch, ok := c.BeginHint()
	if !ok {
		t.Fatal("BeginHint refused")
	}

	submitAndGrade(t, c, "3", &api.PracticeSubmitResponse{
		IsCorrect:          true,
		CorrectAnswer:      "3",
		Score:              10,
		QuestionsCompleted: 10,
		SessionComplete:    true,
	})

	if c.State() != StateComplete {
		t.Fatalf("state = %v, want complete straight from the final grade", c.State())
	}
	if !c.SessionComplete() {
		t.Error("SessionComplete() = false after the server ended the session")
	}
	if c.Feedback() != nil {
		t.Error("feedback must be cleared when the session completes")
	}
	if c.Score() != 10 || c.Completed() != 10 {
		t.Errorf("Score/Completed = %d/%d, want final server values 10/10", c.Score(), c.Completed())
	}

	// The completion view owns the screen; a late hint response for the
	// final question must not resurface.
	c.ApplyHint(hintEpoch, &api.HintResponse{HintText: "add 1", HintLevel: 1, HintsRemaining: 2})
	if got := c.Hints().Revealed(); len(got) != 0 {
		t.Errorf("stale hint applied after completion: %v", got)
	}
}

func TestController_MissingNextQuestionIsAnError(t *testing.T) {
	c := startedSession(t)

	submitAndGrade(t, c, "3", &api.PracticeSubmitResponse{
		IsCorrect:       true,
		CorrectAnswer:   "3",
		SessionComplete: false,
		NextQuestion:    nil,
	})

	if c.State() != StateErrored || c.Failure() != FailureSubmit {
		t.Fatalf("state = %v failure = %v, want errored/submit", c.State(), c.Failure())
	}
	if !errors.Is(c.Err(), ErrNoNextQuestion) {
		t.Errorf("Err = %v, want ErrNoNextQuestion", c.Err())
	}
}

func TestController_FailedSubmitIsRetryable(t *testing.T) {
	c := startedSession(t)

	epoch, _, ok := c.BeginSubmit("3")
	if !ok {
		t.Fatal("BeginSubmit refused")
	}
	c.FailSubmit(epoch, errors.New("connection reset"))

	if c.State() != StateErrored || c.Failure() != FailureSubmit {
		t.Fatalf("state = %v failure = %v, want errored/submit", c.State(), c.Failure())
	}
	if got := c.Question().QuestionID; got != 100 {
		t.Errorf("question changed on failure: %d", got)
	}
	if _, _, ok := c.BeginSubmit("3"); !ok {
		t.Error("retry after failed submission refused")
	}
}

func TestController_HintFlowAndResetOnAdvance(t *testing.T) {
	c := startedSession(t)

	epoch, ok := c.BeginHint()
	if !ok {
		t.Fatal("BeginHint refused on a fresh question")
	}
	c.ApplyHint(epoch, &api.HintResponse{HintText: "isolate x", HintLevel: 1, HintsRemaining: 2})

	if got := c.Hints().Revealed(); len(got) != 1 || got[0] != "isolate x" {
		t.Fatalf("Revealed = %v, want one hint", got)
	}

	submitAndGrade(t, c, "3", &api.PracticeSubmitResponse{
		IsCorrect:     true,
		CorrectAnswer: "3",
		NextQuestion:  &api.PracticeQuestion{QuestionID: 101, Stem: "x + 9 = 11"},
	})
	c.Advance()

	if got := c.Hints().Revealed(); len(got) != 0 {
		t.Errorf("hints carried across questions: %v", got)
	}
	if !c.Hints().CanRequest() {
		t.Error("new question must allow a fresh hint request")
	}
}

func TestController_StaleHintDroppedAfterAdvance(t *testing.T) {
	c := startedSession(t)

	hintEpoch, ok := c.BeginHint()
	if !ok {
		t.Fatal("BeginHint refused")
	}

	submitAndGrade(t, c, "3", &api.PracticeSubmitResponse{
		IsCorrect:     true,
		CorrectAnswer: "3",
		NextQuestion:  &api.PracticeQuestion{QuestionID: 101, Stem: "x - 1 = 0"},
	})
	c.Advance()

	// The hint response for the previous question arrives late.
	c.ApplyHint(hintEpoch, &api.HintResponse{HintText: "divide by 4", HintLevel: 1, HintsRemaining: 2})
	if got := c.Hints().Revealed(); len(got) != 0 {
		t.Errorf("stale hint applied to the new question: %v", got)
	}
}

func TestController_SubmitTimeMeasuredPerQuestion(t *testing.T) {
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c := NewWithClock(func() time.Time { return clock })

	epoch, _ := c.Start("expressions")
	c.ApplyStart(epoch, &api.PracticeStartResponse{
		AttemptID:       1,
		CurrentQuestion: api.PracticeQuestion{QuestionID: 100, Stem: "4x = 12"},
	})

	clock = clock.Add(42 * time.Second)
	_, req, ok := c.BeginSubmit("3")
	if !ok {
		t.Fatal("BeginSubmit refused")
	}
	if req.TimeSeconds != 42 {
		t.Errorf("TimeSeconds = %v, want 42", req.TimeSeconds)
	}
}

func TestController_ResetReturnsToIdle(t *testing.T) {
	c := startedSession(t)
	submitAndGrade(t, c, "3", &api.PracticeSubmitResponse{
		IsCorrect:       true,
		CorrectAnswer:   "3",
		SessionComplete: true,
	})
	c.Reset()

	if c.State() != StateIdle {
		t.Fatalf("state after Reset = %v, want idle", c.State())
	}
	if _, err := c.Start("integers"); err != nil {
		t.Errorf("Start after Reset: %v", err)
	}
}

func TestController_StaleStartIgnored(t *testing.T) {
	c := New()
	first, _ := c.Start("expressions")
	c.FailStart(first, errors.New("timeout"))

	second, _ := c.Start("expressions")
	c.ApplyStart(first, &api.PracticeStartResponse{AttemptID: 5})
	if c.State() != StateStarting {
		t.Errorf("stale start response mutated state to %v", c.State())
	}

	c.ApplyStart(second, &api.PracticeStartResponse{
		AttemptID:       6,
		CurrentQuestion: api.PracticeQuestion{QuestionID: 1, Stem: "1+1"},
	})
	if c.AttemptID() != 6 {
		t.Errorf("AttemptID = %d, want 6", c.AttemptID())
	}
}

func TestController_UnauthenticatedStartClassified(t *testing.T) {
	c := New()
	epoch, _ := c.Start("expressions")
	c.FailStart(epoch, api.ErrUnauthenticated)

	if c.Failure() != FailureUnauthenticated {
		t.Errorf("Failure = %v, want unauthenticated", c.Failure())
	}
}
