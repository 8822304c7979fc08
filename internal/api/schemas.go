package api

// Schema names a JSON Schema used to validate a response body before it is
// decoded. Definitions stay deliberately loose about extra fields so the
// server can grow the payloads without breaking older clients; they pin the
// fields the session engine actually relies on.
type Schema struct {
	Name       string
	Definition map[string]any
}

var practiceQuestionDef = map[string]any{
	"type":     "object",
	"required": []any{"question_id", "stem"},
	"properties": map[string]any{
		"question_id":      map[string]any{"type": "integer"},
		"stem":             map[string]any{"type": "string"},
		"base_difficulty":  map[string]any{"type": "string"},
		"shown_difficulty": map[string]any{"type": "string"},
	},
}

var practiceStartSchema = &Schema{
	Name: "practice_start",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"attempt_id", "current_question", "score", "questions_completed"},
		"properties": map[string]any{
			"attempt_id":          map[string]any{"type": "integer"},
			"current_question":    practiceQuestionDef,
			"score":               map[string]any{"type": "integer"},
			"questions_completed": map[string]any{"type": "integer"},
		},
	},
}

var practiceSubmitSchema = &Schema{
	Name: "practice_submit",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"is_correct", "correct_answer", "score", "questions_completed", "session_complete"},
		"properties": map[string]any{
			"is_correct":          map[string]any{"type": "boolean"},
			"correct_answer":      map[string]any{"type": "string"},
			"score":               map[string]any{"type": "integer"},
			"questions_completed": map[string]any{"type": "integer"},
			"session_complete":    map[string]any{"type": "boolean"},
			"next_question":       map[string]any{"oneOf": []any{practiceQuestionDef, map[string]any{"type": "null"}}},
		},
	},
}

var hintSchema = &Schema{
	Name: "practice_hint",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"hint_text", "hint_level", "hints_remaining"},
		"properties": map[string]any{
			"hint_text":       map[string]any{"type": "string"},
			"hint_level":      map[string]any{"type": "integer"},
			"hints_remaining": map[string]any{"type": "integer", "minimum": 0},
		},
	},
}

var quizStartSchema = &Schema{
	Name: "quiz_start",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"attempt_id", "questions", "time_limit_minutes"},
		"properties": map[string]any{
			"attempt_id": map[string]any{"type": "integer"},
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []any{"id", "stem"},
					"properties": map[string]any{
						"id":              map[string]any{"type": "integer"},
						"stem":            map[string]any{"type": "string"},
						"base_difficulty": map[string]any{"type": "string"},
					},
				},
			},
			"expires_at":         map[string]any{"type": "string"},
			"time_limit_minutes": map[string]any{"type": "integer", "minimum": 1},
		},
	},
}

var quizSubmitSchema = &Schema{
	Name: "quiz_submit",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"results", "score", "total_questions", "score_percent", "passed"},
		"properties": map[string]any{
			"results": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"question_id", "is_correct"},
				},
			},
			"score":              map[string]any{"type": "integer"},
			"total_questions":    map[string]any{"type": "integer"},
			"score_percent":      map[string]any{"type": "number"},
			"passed":             map[string]any{"type": "boolean"},
			"time_taken_seconds": map[string]any{"type": "number"},
		},
	},
}

var reviewSummarySchema = &Schema{
	Name: "review_summary",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"overall", "topics", "recent_sessions"},
		"properties": map[string]any{
			"overall": map[string]any{"type": "object"},
			"topics":  map[string]any{"type": "array"},
			"recent_sessions": map[string]any{
				"type":     "object",
				"required": []any{"quizzes", "practice"},
			},
		},
	},
}

var mistakesSchema = &Schema{
	Name: "attempt_mistakes",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"mistakes"},
		"properties": map[string]any{
			"mistakes": map[string]any{"type": "array"},
		},
	},
}

var topicsSchema = &Schema{
	Name: "practice_topics",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":     "object",
			"required": []any{"slug", "name"},
		},
	},
}

var loginSchema = &Schema{
	Name: "auth_login",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"access_token"},
		"properties": map[string]any{
			"access_token": map[string]any{"type": "string", "minLength": 1},
		},
	},
}

var identitySchema = &Schema{
	Name: "auth_me",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"email"},
		"properties": map[string]any{
			"email": map[string]any{"type": "string"},
		},
	},
}
