package quiz

import (
	"time"

	"github.com/brightsum/brightsum/internal/api"
)

// startedMsg carries the start response under the epoch it was issued for.
type startedMsg struct {
	Epoch int
	Resp  *api.QuizStartResponse
	Err   error
}

// submittedMsg carries the graded outcome under the epoch it was issued for.
type submittedMsg struct {
	Epoch int
	Resp  *api.QuizSubmitResponse
	Err   error
}

// timerTickMsg is sent every second to advance the countdown.
type timerTickMsg time.Time

// attemptLoggedMsg confirms the local attempt log write finished.
type attemptLoggedMsg struct {
	Err error
}
