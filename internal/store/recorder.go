package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/brightsum/brightsum/internal/api"
)

// RequestRecorder persists one row per API request. It implements
// api.Recorder; persistence failures are reported to stderr and never
// propagate, a broken local log must not take the session down with it.
type RequestRecorder struct {
	db *sql.DB
}

// RecordRequest inserts the request outcome.
func (r *RequestRecorder) RecordRequest(ctx context.Context, rec api.RequestRecord) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO request_log (method, endpoint, status, latency_ms, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Method, rec.Endpoint, rec.Status, rec.LatencyMs, rec.Error, time.Now().UTC(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log request %s %s: %v\n", rec.Method, rec.Endpoint, err)
	}
}

// RecentRequests returns up to limit logged requests, newest first.
func (r *RequestRecorder) RecentRequests(ctx context.Context, limit int) ([]api.RequestRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT method, endpoint, status, latency_ms, error
		 FROM request_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var out []api.RequestRecord
	for rows.Next() {
		var rec api.RequestRecord
		if err := rows.Scan(&rec.Method, &rec.Endpoint, &rec.Status, &rec.LatencyMs, &rec.Error); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
