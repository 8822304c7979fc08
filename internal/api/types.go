package api

import "time"

// PracticeQuestion is the server's view of the current adaptive question.
// Questions are immutable on the client; they are only ever replaced
// wholesale by server-provided successors.
type PracticeQuestion struct {
	QuestionID      int64  `json:"question_id"`
	Stem            string `json:"stem"`
	BaseDifficulty  string `json:"base_difficulty"`
	ShownDifficulty string `json:"shown_difficulty"`
}

// PracticeStartResponse is returned by POST /api/practice/{topic}/attempt.
type PracticeStartResponse struct {
	AttemptID          int64            `json:"attempt_id"`
	CurrentQuestion    PracticeQuestion `json:"current_question"`
	Score              int              `json:"score"`
	QuestionsCompleted int              `json:"questions_completed"`
}

// PracticeSubmitRequest is the body of POST /api/practice/{id}/submit.
type PracticeSubmitRequest struct {
	AnswerSubmitted string  `json:"answer_submitted"`
	TimeSeconds     float64 `json:"time_seconds"`
}

// PracticeSubmitResponse carries the authoritative post-answer state.
// NextQuestion is nil when the session is complete.
type PracticeSubmitResponse struct {
	IsCorrect          bool              `json:"is_correct"`
	CorrectAnswer      string            `json:"correct_answer"`
	Score              int               `json:"score"`
	QuestionsCompleted int               `json:"questions_completed"`
	SessionComplete    bool              `json:"session_complete"`
	NextQuestion       *PracticeQuestion `json:"next_question,omitempty"`
}

// HintResponse is returned by POST /api/practice/{id}/hint.
type HintResponse struct {
	HintText       string `json:"hint_text"`
	HintLevel      int    `json:"hint_level"`
	HintsRemaining int    `json:"hints_remaining"`
}

// QuizQuestion is one entry of the pre-fetched quiz question set.
type QuizQuestion struct {
	ID             int64  `json:"id"`
	Stem           string `json:"stem"`
	BaseDifficulty string `json:"base_difficulty"`
}

// QuizStartResponse is returned by POST /api/quiz/{topic}/start.
type QuizStartResponse struct {
	AttemptID        int64          `json:"attempt_id"`
	Questions        []QuizQuestion `json:"questions"`
	ExpiresAt        time.Time      `json:"expires_at"`
	TimeLimitMinutes int            `json:"time_limit_minutes"`
}

// QuizAnswer pairs a question with the learner's final text for it.
type QuizAnswer struct {
	QuestionID      int64  `json:"question_id"`
	AnswerSubmitted string `json:"answer_submitted"`
}

// QuizSubmitRequest is the body of POST /api/quiz/{id}/submit.
type QuizSubmitRequest struct {
	Answers []QuizAnswer `json:"answers"`
}

// QuizResult is the graded outcome for one quiz question.
type QuizResult struct {
	QuestionID     int64  `json:"question_id"`
	Stem           string `json:"stem"`
	YourAnswer     string `json:"your_answer"`
	CorrectAnswer  string `json:"correct_answer"`
	IsCorrect      bool   `json:"is_correct"`
	BaseDifficulty string `json:"base_difficulty"`
}

// QuizSubmitResponse carries the full server-graded quiz outcome. The client
// performs no grading of its own.
type QuizSubmitResponse struct {
	Results          []QuizResult `json:"results"`
	Score            int          `json:"score"`
	TotalQuestions   int          `json:"total_questions"`
	ScorePercent     float64      `json:"score_percent"`
	Passed           bool         `json:"passed"`
	TimeTakenSeconds float64      `json:"time_taken_seconds"`
}

// TopicSummary is one entry of GET /api/practice/topics. Mastery, when
// present, is a server-computed 0-1 proficiency preferred over the raw
// completed/total ratio.
type TopicSummary struct {
	ID                 int64    `json:"id"`
	Slug               string   `json:"slug"`
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	EstimatedTimeMin   int      `json:"estimated_time_min,omitempty"`
	TotalQuestions     int      `json:"total_questions"`
	CompletedQuestions int      `json:"completed_questions"`
	Mastery            *float64 `json:"mastery,omitempty"`
}

// ReviewFilters are the all-optional facets of the review summary query.
// Zero values mean "no filter".
type ReviewFilters struct {
	Topic      string
	Source     string // "Practice" or "Quizzes"
	Difficulty string
	DateRange  string // e.g. "Last 7 days"
}

// ReviewOverall is the aggregate block of the review summary.
type ReviewOverall struct {
	Accuracy            float64 `json:"accuracy"`
	TotalMistakes       int     `json:"total_mistakes"`
	QuestionsAnswered   int     `json:"questions_answered"`
	WeekAccuracy        float64 `json:"week_accuracy"`
	AvgDifficulty       string  `json:"avg_difficulty"`
	AvgHintsPerQuestion float64 `json:"avg_hints_per_question"`
	GoalProgress        float64 `json:"goal_progress"`
	ProblemsToday       int     `json:"problems_today"`
	DailyGoal           int     `json:"daily_goal"`
}

// TopicWeakness is a per-topic accuracy/mistake roll-up.
type TopicWeakness struct {
	Name     string  `json:"name"`
	Accuracy float64 `json:"accuracy"`
	Mistakes int     `json:"mistakes"`
}

// RecentQuiz is a recent quiz attempt reference in the review summary.
type RecentQuiz struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Date  string `json:"date"`
	Score string `json:"score"`
}

// RecentPractice is a recent practice attempt reference.
type RecentPractice struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Problems int    `json:"problems"`
	Correct  string `json:"correct"`
}

// RecentSessions groups the recent attempt lists by kind.
type RecentSessions struct {
	Quizzes  []RecentQuiz     `json:"quizzes"`
	Practice []RecentPractice `json:"practice"`
}

// ReviewSummary is the whole GET /api/review/summary payload. Each re-fetch
// replaces the previous summary wholesale.
type ReviewSummary struct {
	Overall        ReviewOverall   `json:"overall"`
	Topics         []TopicWeakness `json:"topics"`
	RecentSessions RecentSessions  `json:"recent_sessions"`
}

// Mistake is one per-question record of an attempt's mistake detail.
// Practice attempts fill Submitted; quiz attempts fill GivenAnswer and
// Position.
type Mistake struct {
	QuestionID    int64    `json:"question_id"`
	QuestionStem  string   `json:"question_stem"`
	CorrectAnswer string   `json:"correct_answer"`
	IsCorrect     *bool    `json:"is_correct,omitempty"`
	Submitted     string   `json:"submitted,omitempty"`
	GivenAnswer   string   `json:"given_answer,omitempty"`
	Position      int      `json:"position,omitempty"`
	InfoScore     *float64 `json:"info_score,omitempty"`
	TimeSeconds   float64  `json:"time_seconds"`
	Hints         int      `json:"hints"`
}

// QuizMeta is the attempt metadata attached to quiz mistake details.
type QuizMeta struct {
	ID           int64    `json:"id"`
	TopicID      int64    `json:"topic_id"`
	TopicName    string   `json:"topic_name"`
	StartedAt    string   `json:"started_at"`
	ScorePercent *float64 `json:"score_percent"`
	Passed       bool     `json:"passed"`
}

// MistakeDetail is the payload of GET /api/review/*_attempts/{id}/mistakes.
type MistakeDetail struct {
	Mistakes []Mistake `json:"mistakes"`
	Quiz     *QuizMeta `json:"quiz,omitempty"`
	Note     string    `json:"note,omitempty"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// Identity is the payload of GET /api/auth/me.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// SessionKind distinguishes practice and quiz attempts in review lookups.
type SessionKind string

const (
	KindPractice SessionKind = "practice"
	KindQuiz     SessionKind = "quiz"
)
