package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/brightsum/brightsum/internal/api"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAttemptLog_RecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	log := s.Attempts()
	ctx := context.Background()

	first, err := log.Record(ctx, AttemptRecord{
		Kind:            api.KindQuiz,
		ServerAttemptID: 41,
		Topic:           "expressions",
		Score:           8,
		Total:           10,
		ScorePercent:    80,
		Passed:          true,
		DurationSeconds: 540,
		CreatedAt:       time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if first.ID == "" {
		t.Error("Record must assign an ID")
	}

	_, err = log.Record(ctx, AttemptRecord{
		Kind:            api.KindPractice,
		ServerAttemptID: 42,
		Topic:           "integers",
		Score:           5,
		Total:           10,
		CreatedAt:       time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	recent, err := log.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent returned %d records, want 2", len(recent))
	}
	if recent[0].Topic != "integers" {
		t.Errorf("recent[0].Topic = %q, want newest first", recent[0].Topic)
	}
	if recent[1].Kind != api.KindQuiz || !recent[1].Passed {
		t.Errorf("recent[1] = %+v, want the passed quiz", recent[1])
	}
}

func TestAttemptLog_Totals(t *testing.T) {
	s := openTestStore(t)
	log := s.Attempts()
	ctx := context.Background()

	seed := []AttemptRecord{
		{Kind: api.KindQuiz, Topic: "expressions", Score: 8, Total: 10, Passed: true},
		{Kind: api.KindQuiz, Topic: "integers", Score: 4, Total: 10},
		{Kind: api.KindPractice, Topic: "fractions", Score: 6, Total: 8},
	}
	for _, rec := range seed {
		if _, err := log.Record(ctx, rec); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	totals, err := log.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	want := Totals{Attempts: 3, QuizAttempts: 2, QuizzesPassed: 1, TotalQuestions: 28, TotalCorrect: 18}
	if totals != want {
		t.Errorf("Totals = %+v, want %+v", totals, want)
	}
}

func TestRequestRecorder_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	rec := s.Requests()
	ctx := context.Background()

	rec.RecordRequest(ctx, api.RequestRecord{
		Method:    "POST",
		Endpoint:  "/api/quiz/expressions/start",
		Status:    200,
		LatencyMs: 120,
	})
	rec.RecordRequest(ctx, api.RequestRecord{
		Method:    "GET",
		Endpoint:  "/api/review/summary",
		Status:    502,
		LatencyMs: 30,
		Error:     "bad gateway",
	})

	got, err := rec.RecentRequests(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRequests: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("RecentRequests returned %d rows, want 2", len(got))
	}
	if got[0].Status != 502 || got[0].Error != "bad gateway" {
		t.Errorf("got[0] = %+v, want the failed request first", got[0])
	}
}

func TestDefaultDBPath_EnvOverride(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "nested", "custom.db")
	t.Setenv("BRIGHTSUM_DB", custom)

	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if p != custom {
		t.Errorf("DefaultDBPath = %q, want %q", p, custom)
	}
}
