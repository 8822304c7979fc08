// Package api is the HTTP client for the BrightSum tutoring service. It owns
// the wire contracts the session engine depends on: bearer auth, schema
// validation of every response body, and the 401-to-login policy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brightsum/brightsum/internal/auth"
)

// DefaultBaseURL is used when BRIGHTSUM_API_URL is not set.
const DefaultBaseURL = "http://localhost:8000"

// RetryConfig controls backoff for idempotent (GET) requests. Mutating
// requests are never auto-retried; the controllers surface those errors and
// leave retry to the learner.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig retries GETs twice more with short waits.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 300 * time.Millisecond,
		MaxWait:     3 * time.Second,
		Multiplier:  2.0,
	}
}

// RequestRecord is one row of request telemetry.
type RequestRecord struct {
	Method    string
	Endpoint  string
	Status    int
	LatencyMs int64
	Error     string
}

// Recorder persists request telemetry. Implementations must never fail the
// request; errors are theirs to swallow or report.
type Recorder interface {
	RecordRequest(ctx context.Context, rec RequestRecord)
}

// Client talks to the BrightSum API.
type Client struct {
	baseURL  string
	http     *http.Client
	creds    auth.TokenSource
	recorder Recorder
	retry    RetryConfig
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRecorder attaches request telemetry recording.
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithRetry overrides the GET retry policy.
func WithRetry(cfg RetryConfig) Option {
	return func(c *Client) { c.retry = cfg }
}

// New creates a Client for the given base URL and credential source.
func New(baseURL string, creds auth.TokenSource, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		creds:   creds,
		retry:   DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges credentials for a bearer token. The only unauthenticated
// endpoint.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.call(ctx, http.MethodPost, "/api/auth/login",
		LoginRequest{Email: email, Password: password}, loginSchema, &out, false)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the identity behind the current token.
func (c *Client) Me(ctx context.Context) (*Identity, error) {
	var out Identity
	if err := c.call(ctx, http.MethodGet, "/api/auth/me", nil, identitySchema, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// MeWithToken returns the identity behind an explicit token, used right
// after login before the credential is persisted.
func (c *Client) MeWithToken(ctx context.Context, token string) (*Identity, error) {
	sub := *c
	sub.creds = auth.StaticToken(token)
	return sub.Me(ctx)
}

// Topics lists practice topics with per-topic progress.
func (c *Client) Topics(ctx context.Context) ([]TopicSummary, error) {
	var out []TopicSummary
	if err := c.call(ctx, http.MethodGet, "/api/practice/topics", nil, topicsSchema, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// StartPractice opens an adaptive practice attempt for topic.
func (c *Client) StartPractice(ctx context.Context, topic string) (*PracticeStartResponse, error) {
	var out PracticeStartResponse
	path := fmt.Sprintf("/api/practice/%s/attempt", url.PathEscape(topic))
	if err := c.call(ctx, http.MethodPost, path, nil, practiceStartSchema, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitPractice grades one practice answer.
func (c *Client) SubmitPractice(ctx context.Context, attemptID int64, req PracticeSubmitRequest) (*PracticeSubmitResponse, error) {
	var out PracticeSubmitResponse
	path := fmt.Sprintf("/api/practice/%d/submit", attemptID)
	if err := c.call(ctx, http.MethodPost, path, req, practiceSubmitSchema, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestHint discloses the next hint for the current practice question.
func (c *Client) RequestHint(ctx context.Context, attemptID int64) (*HintResponse, error) {
	var out HintResponse
	path := fmt.Sprintf("/api/practice/%d/hint", attemptID)
	if err := c.call(ctx, http.MethodPost, path, nil, hintSchema, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartQuiz opens a timed quiz attempt for topic.
func (c *Client) StartQuiz(ctx context.Context, topic string) (*QuizStartResponse, error) {
	var out QuizStartResponse
	path := fmt.Sprintf("/api/quiz/%s/start", url.PathEscape(topic))
	if err := c.call(ctx, http.MethodPost, path, nil, quizStartSchema, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitQuiz submits the full answer set for grading.
func (c *Client) SubmitQuiz(ctx context.Context, attemptID int64, req QuizSubmitRequest) (*QuizSubmitResponse, error) {
	var out QuizSubmitResponse
	path := fmt.Sprintf("/api/quiz/%d/submit", attemptID)
	if err := c.call(ctx, http.MethodPost, path, req, quizSubmitSchema, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReviewSummary fetches the aggregate mistake-review data for the given
// filter facets.
func (c *Client) ReviewSummary(ctx context.Context, f ReviewFilters) (*ReviewSummary, error) {
	q := url.Values{}
	if f.Topic != "" {
		q.Set("topic", f.Topic)
	}
	if f.Source != "" {
		q.Set("source", f.Source)
	}
	if f.Difficulty != "" {
		q.Set("difficulty", f.Difficulty)
	}
	if f.DateRange != "" {
		q.Set("date_range", f.DateRange)
	}
	path := "/api/review/summary"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	var out ReviewSummary
	if err := c.call(ctx, http.MethodGet, path, nil, reviewSummarySchema, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// AttemptMistakes fetches the per-question mistake detail for one attempt.
func (c *Client) AttemptMistakes(ctx context.Context, kind SessionKind, attemptID int64) (*MistakeDetail, error) {
	var out MistakeDetail
	path := fmt.Sprintf("/api/review/%s_attempts/%d/mistakes", kind, attemptID)
	if err := c.call(ctx, http.MethodGet, path, nil, mistakesSchema, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// call performs one logical request: auth header, optional GET retry,
// status mapping, schema validation, decode.
func (c *Client) call(ctx context.Context, method, path string, body any, schema *Schema, out any, authed bool) error {
	var token string
	if authed {
		t, err := c.creds.Token()
		if err != nil {
			// No credential: fail before touching the network.
			return ErrUnauthenticated
		}
		token = t
	}

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = data
	}

	attempts := 1
	if method == http.MethodGet {
		attempts = c.retry.MaxAttempts
	}

	var lastErr error
	for attempt := range attempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff(attempt - 1)):
			}
		}

		err := c.once(ctx, method, path, token, payload, schema, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(err) {
			return err
		}
	}
	return lastErr
}

func (c *Client) once(ctx context.Context, method, path, token string, payload []byte, schema *Schema, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.record(ctx, RequestRecord{
			Method: method, Endpoint: path,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     err.Error(),
		})
		return &ErrUnavailable{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	rec := RequestRecord{
		Method: method, Endpoint: path,
		Status:    resp.StatusCode,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		rec.Error = err.Error()
		c.record(ctx, rec)
		return &ErrUnavailable{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		rec.Error = "unauthorized"
		c.record(ctx, rec)
		c.creds.Invalidate()
		return ErrUnauthenticated
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := errorDetail(raw)
		rec.Error = detail
		c.record(ctx, rec)
		return &StatusError{Code: resp.StatusCode, Detail: detail}
	}

	c.record(ctx, rec)

	if err := validateBody(path, schema, raw); err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &ErrInvalidResponse{Endpoint: path, Content: raw, Err: err}
		}
	}
	return nil
}

func (c *Client) record(ctx context.Context, rec RequestRecord) {
	if c.recorder != nil {
		c.recorder.RecordRequest(ctx, rec)
	}
}

// backoff computes the wait before retry number attempt, with ±20% jitter.
func (c *Client) backoff(attempt int) time.Duration {
	wait := float64(c.retry.InitialWait) * math.Pow(c.retry.Multiplier, float64(attempt))
	if wait > float64(c.retry.MaxWait) {
		wait = float64(c.retry.MaxWait)
	}
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}

// retryable gates the GET retry loop: transport failures and server-side
// errors retry; auth, client errors, and malformed bodies do not.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrUnauthenticated) {
		return false
	}
	var unavail *ErrUnavailable
	if errors.As(err, &unavail) {
		return true
	}
	var status *StatusError
	if errors.As(err, &status) {
		return status.Code >= 500
	}
	return false
}

// errorDetail extracts the FastAPI-style {"detail": "..."} message, falling
// back to a trimmed body snippet.
func errorDetail(raw []byte) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != "" {
		return body.Detail
	}
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
