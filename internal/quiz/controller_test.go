package quiz

import (
	"errors"
	"testing"

	"github.com/brightsum/brightsum/internal/api"
)

func startedController(t *testing.T, minutes int, questions ...api.QuizQuestion) *Controller {
	t.Helper()
	c := New()
	epoch, err := c.Start("expressions")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.ApplyStart(epoch, &api.QuizStartResponse{
		AttemptID:        41,
		Questions:        questions,
		TimeLimitMinutes: minutes,
	})
	if c.State() != StateInProgress {
		t.Fatalf("state after ApplyStart = %v, want in-progress", c.State())
	}
	return c
}

func threeQuestions() []api.QuizQuestion {
	return []api.QuizQuestion{
		{ID: 10, Stem: "3x + 2 = 8", BaseDifficulty: "easy"},
		{ID: 11, Stem: "5(x - 1) = 20", BaseDifficulty: "medium"},
		{ID: 12, Stem: "2x^2 = 18", BaseDifficulty: "hard"},
	}
}

func TestController_ExpiryFiresExactlyOnce(t *testing.T) {
	c := startedController(t, 1, threeQuestions()...)

	fired := 0
	for i := 0; i < 120; i++ {
		if c.Tick() {
			fired++
			if _, _, ok := c.BeginSubmit(); !ok {
				t.Fatal("expiry must be able to trigger a submission")
			}
		}
	}
	if fired != 1 {
		t.Errorf("timer expired %d times over 120 ticks, want exactly 1", fired)
	}
	if c.Remaining() != 0 {
		t.Errorf("Remaining = %d after expiry, want 0", c.Remaining())
	}
}

func TestController_AnswersSurviveNavigation(t *testing.T) {
	c := startedController(t, 20, threeQuestions()...)

	c.SetAnswer("2")
	c.Navigate(1)
	c.SetAnswer("5")
	c.Navigate(1)
	c.SetAnswer("3")
	c.Navigate(-2)

	if got := c.Answer(); got != "2" {
		t.Errorf("answer for question 0 = %q, want %q", got, "2")
	}
	if got := c.AnswerFor(11); got != "5" {
		t.Errorf("answer for question 11 = %q, want %q", got, "5")
	}

	_, req, ok := c.BeginSubmit()
	if !ok {
		t.Fatal("BeginSubmit refused")
	}
	want := []api.QuizAnswer{
		{QuestionID: 10, AnswerSubmitted: "2"},
		{QuestionID: 11, AnswerSubmitted: "5"},
		{QuestionID: 12, AnswerSubmitted: "3"},
	}
	if len(req.Answers) != len(want) {
		t.Fatalf("serialized %d answers, want %d", len(req.Answers), len(want))
	}
	for i, a := range req.Answers {
		if a != want[i] {
			t.Errorf("answers[%d] = %+v, want %+v", i, a, want[i])
		}
	}
}

func TestController_UnansweredQuestionsSerializeEmpty(t *testing.T) {
	c := startedController(t, 20, threeQuestions()...)
	c.Navigate(1)
	c.SetAnswer("5")

	_, req, ok := c.BeginSubmit()
	if !ok {
		t.Fatal("BeginSubmit refused")
	}
	if req.Answers[0].AnswerSubmitted != "" || req.Answers[2].AnswerSubmitted != "" {
		t.Errorf("untouched questions must serialize as empty strings, got %+v", req.Answers)
	}
}

func TestController_NavigationClampsAtBoundaries(t *testing.T) {
	c := startedController(t, 20, threeQuestions()...)

	c.Navigate(-1)
	if c.Index() != 0 {
		t.Errorf("Index = %d after back from first question, want 0", c.Index())
	}
	c.Navigate(1)
	c.Navigate(1)
	c.Navigate(1)
	if c.Index() != 2 {
		t.Errorf("Index = %d after forward past last question, want 2", c.Index())
	}
}

func TestController_DoubleSubmitProducesOneRequest(t *testing.T) {
	c := startedController(t, 20, threeQuestions()...)

	_, _, ok := c.BeginSubmit()
	if !ok {
		t.Fatal("first BeginSubmit refused")
	}
	if _, _, ok := c.BeginSubmit(); ok {
		t.Error("second BeginSubmit succeeded while a submission is in flight")
	}
	if c.State() != StateSubmitting {
		t.Errorf("state = %v, want submitting", c.State())
	}
}

func TestController_SubmitStopsTimer(t *testing.T) {
	c := startedController(t, 1, threeQuestions()...)
	c.BeginSubmit()

	if c.TimerActive() {
		t.Error("timer still active after BeginSubmit")
	}
	for i := 0; i < 120; i++ {
		if c.Tick() {
			t.Fatal("timer fired during submission")
		}
	}
}

func TestController_FailedSubmitIsRetryable(t *testing.T) {
	c := startedController(t, 20, threeQuestions()...)
	c.SetAnswer("2")

	epoch, _, _ := c.BeginSubmit()
	c.FailSubmit(epoch, errors.New("gateway timeout"))

	if c.State() != StateErrored || c.Failure() != FailureSubmit {
		t.Fatalf("state = %v failure = %v, want errored/submit", c.State(), c.Failure())
	}

	_, req, ok := c.BeginSubmit()
	if !ok {
		t.Fatal("retry after failed submission refused")
	}
	if req.Answers[0].AnswerSubmitted != "2" {
		t.Errorf("retry lost the answer: %+v", req.Answers[0])
	}
}

func TestController_StaleResponsesIgnored(t *testing.T) {
	c := New()
	firstEpoch, err := c.Start("expressions")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.FailStart(firstEpoch, errors.New("network down"))

	secondEpoch, err := c.Start("expressions")
	if err != nil {
		t.Fatalf("restart: %v", err)
	}

	// The first start's response arrives late.
	c.ApplyStart(firstEpoch, &api.QuizStartResponse{
		AttemptID:        99,
		Questions:        threeQuestions(),
		TimeLimitMinutes: 20,
	})
	if c.State() != StateStarting {
		t.Errorf("stale start response mutated state to %v", c.State())
	}

	c.ApplyStart(secondEpoch, &api.QuizStartResponse{
		AttemptID:        100,
		Questions:        threeQuestions(),
		TimeLimitMinutes: 20,
	})
	if c.AttemptID() != 100 {
		t.Errorf("AttemptID = %d, want 100", c.AttemptID())
	}
}

func TestController_ShutdownDropsInFlightContinuation(t *testing.T) {
	c := startedController(t, 20, threeQuestions()...)
	epoch, _, _ := c.BeginSubmit()
	c.Shutdown()

	c.ApplySubmit(epoch, &api.QuizSubmitResponse{ScorePercent: 100})
	if c.State() == StateCompleted {
		t.Error("continuation applied after shutdown")
	}
}

func TestController_UnauthenticatedFailureClassified(t *testing.T) {
	c := New()
	epoch, _ := c.Start("integers")
	c.FailStart(epoch, api.ErrUnauthenticated)

	if c.Failure() != FailureUnauthenticated {
		t.Errorf("Failure = %v, want unauthenticated", c.Failure())
	}
}

func TestController_StartRejectsEmptyTopic(t *testing.T) {
	c := New()
	if _, err := c.Start(""); err == nil {
		t.Error("Start with empty topic succeeded")
	}
}

func TestController_ApplySubmitCompletes(t *testing.T) {
	c := startedController(t, 20, threeQuestions()...)
	epoch, _, _ := c.BeginSubmit()
	c.ApplySubmit(epoch, &api.QuizSubmitResponse{
		Score:          2,
		TotalQuestions: 3,
		ScorePercent:   66.7,
		Passed:         false,
	})

	if c.State() != StateCompleted {
		t.Fatalf("state = %v, want completed", c.State())
	}
	if c.Result() == nil || c.Result().Score != 2 {
		t.Errorf("Result = %+v, want score 2", c.Result())
	}
}
