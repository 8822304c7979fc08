package review

import (
	"errors"
	"testing"

	"github.com/brightsum/brightsum/internal/api"
)

func TestAggregator_DetailFetchedOncePerAttempt(t *testing.T) {
	a := New()
	epoch := a.BeginLoad(api.ReviewFilters{})
	a.ApplySummary(epoch, &api.ReviewSummary{})

	fetches := 0
	toggle := func() {
		ep, need := a.ToggleDetail(api.KindQuiz, 9)
		if need {
			fetches++
			a.ApplyDetail(ep, api.KindQuiz, 9, &api.MistakeDetail{
				Mistakes: []api.Mistake{{QuestionID: 1, QuestionStem: "2x = 6", CorrectAnswer: "3"}},
			})
		}
	}

	toggle()
	d := a.Detail(api.KindQuiz, 9)
	if d == nil || !d.Visible {
		t.Fatalf("detail after first toggle = %+v, want visible", d)
	}

	toggle()
	if a.Detail(api.KindQuiz, 9).Visible {
		t.Error("detail still visible after second toggle")
	}

	toggle()
	if !a.Detail(api.KindQuiz, 9).Visible {
		t.Error("detail hidden after third toggle")
	}

	if fetches != 1 {
		t.Errorf("detail fetched %d times over three toggles, want 1", fetches)
	}
}

func TestAggregator_ToggleIgnoredWhileFetching(t *testing.T) {
	a := New()

	_, need := a.ToggleDetail(api.KindPractice, 4)
	if !need {
		t.Fatal("first toggle must request a fetch")
	}
	if _, need := a.ToggleDetail(api.KindPractice, 4); need {
		t.Error("second toggle requested a fetch while one is in flight")
	}
	if a.Detail(api.KindPractice, 4).Visible {
		t.Error("detail visible before the fetch resolved")
	}
}

func TestAggregator_DetailKeysAreKindScoped(t *testing.T) {
	a := New()

	ep, _ := a.ToggleDetail(api.KindQuiz, 7)
	a.ApplyDetail(ep, api.KindQuiz, 7, &api.MistakeDetail{})

	if _, need := a.ToggleDetail(api.KindPractice, 7); !need {
		t.Error("practice attempt 7 must not reuse quiz attempt 7's cache")
	}
}

func TestAggregator_FailedDetailRetries(t *testing.T) {
	a := New()

	ep, _ := a.ToggleDetail(api.KindQuiz, 2)
	a.FailDetail(ep, api.KindQuiz, 2, errors.New("timeout"))

	d := a.Detail(api.KindQuiz, 2)
	if d.Err == nil || d.Loading {
		t.Fatalf("detail after failure = %+v, want error recorded and not loading", d)
	}

	if _, need := a.ToggleDetail(api.KindQuiz, 2); !need {
		t.Error("toggle after failure must retry the fetch")
	}
}

func TestAggregator_SummaryReplacedWholesale(t *testing.T) {
	a := New()

	epoch := a.BeginLoad(api.ReviewFilters{Source: "Quizzes"})
	a.ApplySummary(epoch, &api.ReviewSummary{
		Topics: []api.TopicWeakness{{Name: "Expressions", Accuracy: 0.4, Mistakes: 12}},
	})

	epoch = a.BeginLoad(api.ReviewFilters{Source: "Practice"})
	a.ApplySummary(epoch, &api.ReviewSummary{})

	if len(a.Summary().Topics) != 0 {
		t.Errorf("Topics = %v, want the old summary fully replaced", a.Summary().Topics)
	}
	if a.Filters().Source != "Practice" {
		t.Errorf("Filters.Source = %q, want Practice", a.Filters().Source)
	}
}

func TestAggregator_StaleSummaryIgnored(t *testing.T) {
	a := New()

	first := a.BeginLoad(api.ReviewFilters{})
	second := a.BeginLoad(api.ReviewFilters{Topic: "Integers"})

	a.ApplySummary(first, &api.ReviewSummary{
		Overall: api.ReviewOverall{TotalMistakes: 99},
	})
	if a.Summary() != nil {
		t.Error("stale summary applied")
	}

	a.ApplySummary(second, &api.ReviewSummary{
		Overall: api.ReviewOverall{TotalMistakes: 3},
	})
	if a.Summary() == nil || a.Summary().Overall.TotalMistakes != 3 {
		t.Errorf("Summary = %+v, want the second load's data", a.Summary())
	}
}

func TestAggregator_FailedLoadKeepsPreviousSummary(t *testing.T) {
	a := New()

	epoch := a.BeginLoad(api.ReviewFilters{})
	a.ApplySummary(epoch, &api.ReviewSummary{
		Overall: api.ReviewOverall{QuestionsAnswered: 50},
	})

	epoch = a.BeginLoad(api.ReviewFilters{DateRange: "Last 7 days"})
	a.FailSummary(epoch, errors.New("bad gateway"))

	if a.Summary() == nil || a.Summary().Overall.QuestionsAnswered != 50 {
		t.Error("previous summary must survive a failed reload")
	}
	if a.Failure() != FailureLoad {
		t.Errorf("Failure = %v, want load", a.Failure())
	}
}

func TestAggregator_UnauthenticatedLoadClassified(t *testing.T) {
	a := New()
	epoch := a.BeginLoad(api.ReviewFilters{})
	a.FailSummary(epoch, api.ErrUnauthenticated)

	if a.Failure() != FailureUnauthenticated {
		t.Errorf("Failure = %v, want unauthenticated", a.Failure())
	}
}

func TestAggregator_FilterReloadKeepsDetailFetchAlive(t *testing.T) {
	a := New()
	epoch := a.BeginLoad(api.ReviewFilters{})
	a.ApplySummary(epoch, &api.ReviewSummary{})

	gen, need := a.ToggleDetail(api.KindQuiz, 7)
	if !need {
		t.Fatal("first toggle must request a fetch")
	}

	// Facet change mid-fetch reloads the summary but must not strand the
	// detail in its loading state.
	a.BeginLoad(api.ReviewFilters{Difficulty: "hard"})

	a.ApplyDetail(gen, api.KindQuiz, 7, &api.MistakeDetail{
		Mistakes: []api.Mistake{{QuestionID: 3, QuestionStem: "x - 4 = 1", CorrectAnswer: "5"}},
	})

	d := a.Detail(api.KindQuiz, 7)
	if d == nil || d.Loading || d.Data == nil || !d.Visible {
		t.Fatalf("detail after reload = %+v, want loaded and visible", d)
	}
	if _, need := a.ToggleDetail(api.KindQuiz, 7); need {
		t.Error("cached detail refetched after a summary reload")
	}
}

func TestAggregator_ShutdownDropsInFlightDetail(t *testing.T) {
	a := New()
	ep, _ := a.ToggleDetail(api.KindQuiz, 1)
	a.Shutdown()

	a.ApplyDetail(ep, api.KindQuiz, 1, &api.MistakeDetail{})
	if d := a.Detail(api.KindQuiz, 1); d.Data != nil {
		t.Error("detail applied after shutdown")
	}
}
