package practice

// State is the practice controller's lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateAwaitingAnswer
	StateSubmitting
	StateShowingFeedback
	StateComplete
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateAwaitingAnswer:
		return "awaiting-answer"
	case StateSubmitting:
		return "submitting"
	case StateShowingFeedback:
		return "showing-feedback"
	case StateComplete:
		return "complete"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Failure classifies why the controller is in StateErrored.
type Failure int

const (
	FailureNone Failure = iota

	// FailureUnauthenticated means the credential is missing or was
	// rejected. Never rendered inline; the caller redirects to login.
	FailureUnauthenticated

	// FailureStart means the session could not begin; retryable via Start.
	FailureStart

	// FailureSubmit means grading an answer failed, or the server reported
	// an unfinished session without a successor question. The answer may be
	// resubmitted.
	FailureSubmit
)
