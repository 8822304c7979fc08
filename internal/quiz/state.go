package quiz

// State is the quiz controller's lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateInProgress
	StateSubmitting
	StateCompleted
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateInProgress:
		return "in-progress"
	case StateSubmitting:
		return "submitting"
	case StateCompleted:
		return "completed"
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

	// FailureStart means the attempt could not begin; retryable via Start.
	FailureStart

	// FailureSubmit means grading failed; answers are retained and Submit
	// may be re-invoked.
	FailureSubmit
)
