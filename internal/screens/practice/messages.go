package practice

import "github.com/brightsum/brightsum/internal/api"

// startedMsg carries the start response under the epoch it was issued for.
type startedMsg struct {
	Epoch int
	Resp  *api.PracticeStartResponse
	Err   error
}

// gradedMsg carries one answer's grading outcome.
type gradedMsg struct {
	Epoch int
	Resp  *api.PracticeSubmitResponse
	Err   error
}

// hintMsg carries a hint response for the question it was requested on.
type hintMsg struct {
	Epoch int
	Resp  *api.HintResponse
	Err   error
}

// attemptLoggedMsg confirms the local attempt log write finished.
type attemptLoggedMsg struct {
	Err error
}
