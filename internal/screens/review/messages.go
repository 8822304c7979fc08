package review

import "github.com/brightsum/brightsum/internal/api"

// summaryMsg carries a summary fetch outcome under its epoch.
type summaryMsg struct {
	Epoch int
	Resp  *api.ReviewSummary
	Err   error
}

// detailMsg carries one attempt's mistake detail under its epoch.
type detailMsg struct {
	Epoch int
	Kind  api.SessionKind
	ID    int64
	Resp  *api.MistakeDetail
	Err   error
}
