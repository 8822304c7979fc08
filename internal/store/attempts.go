package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brightsum/brightsum/internal/api"
)

// AttemptRecord is one finished quiz or practice attempt as recorded
// locally. ServerAttemptID ties it back to the server's attempt for review
// lookups.
type AttemptRecord struct {
	ID              string
	Kind            api.SessionKind
	ServerAttemptID int64
	Topic           string
	Score           int
	Total           int
	ScorePercent    float64
	Passed          bool
	DurationSeconds float64
	CreatedAt       time.Time
}

// AttemptLog records finished attempts and serves the offline stats view.
type AttemptLog struct {
	db *sql.DB
}

// Record inserts a finished attempt. A zero ID and CreatedAt are filled in.
func (l *AttemptLog) Record(ctx context.Context, rec AttemptRecord) (AttemptRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO attempts
			(id, kind, server_attempt_id, topic, score, total, score_percent, passed, duration_seconds, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Kind), rec.ServerAttemptID, rec.Topic,
		rec.Score, rec.Total, rec.ScorePercent, rec.Passed,
		rec.DurationSeconds, rec.CreatedAt,
	)
	if err != nil {
		return AttemptRecord{}, fmt.Errorf("record attempt: %w", err)
	}
	return rec, nil
}

// Recent returns up to limit attempts, newest first.
func (l *AttemptLog) Recent(ctx context.Context, limit int) ([]AttemptRecord, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, kind, server_attempt_id, topic, score, total, score_percent, passed, duration_seconds, created_at
		 FROM attempts ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptRecord
	for rows.Next() {
		var rec AttemptRecord
		var kind string
		if err := rows.Scan(&rec.ID, &kind, &rec.ServerAttemptID, &rec.Topic,
			&rec.Score, &rec.Total, &rec.ScorePercent, &rec.Passed,
			&rec.DurationSeconds, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		rec.Kind = api.SessionKind(kind)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Totals is the roll-up shown by the stats command.
type Totals struct {
	Attempts       int
	QuizAttempts   int
	QuizzesPassed  int
	TotalQuestions int
	TotalCorrect   int
}

// Totals aggregates the whole local attempt log.
func (l *AttemptLog) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = ? AND passed THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(total), 0),
			COALESCE(SUM(score), 0)
		 FROM attempts`, string(api.KindQuiz), string(api.KindQuiz)).
		Scan(&t.Attempts, &t.QuizAttempts, &t.QuizzesPassed, &t.TotalQuestions, &t.TotalCorrect)
	if err != nil {
		return Totals{}, fmt.Errorf("aggregate attempts: %w", err)
	}
	return t, nil
}
