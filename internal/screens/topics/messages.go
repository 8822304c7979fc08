package topics

import "github.com/brightsum/brightsum/internal/api"

// topicsLoadedMsg is sent when the topic list fetch finishes.
type topicsLoadedMsg struct {
	Topics []api.TopicSummary
	Err    error
}
