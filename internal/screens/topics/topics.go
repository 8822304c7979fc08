// Package topics lists the available topics and launches a practice or quiz
// session for the selected one.
package topics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/brightsum/brightsum/internal/api"
	"github.com/brightsum/brightsum/internal/router"
	"github.com/brightsum/brightsum/internal/screen"
	"github.com/brightsum/brightsum/internal/screens/login"
	practicescreen "github.com/brightsum/brightsum/internal/screens/practice"
	quizscreen "github.com/brightsum/brightsum/internal/screens/quiz"
	"github.com/brightsum/brightsum/internal/ui/components"
	"github.com/brightsum/brightsum/internal/ui/layout"
	"github.com/brightsum/brightsum/internal/ui/theme"
)

// Mode selects what a topic launches.
type Mode int

const (
	ModePractice Mode = iota
	ModeQuiz
)

func (m Mode) String() string {
	if m == ModeQuiz {
		return "Quiz"
	}
	return "Practice"
}

// TopicsScreen fetches and lists topics.
type TopicsScreen struct {
	deps screen.Deps
	mode Mode

	menu    components.Menu
	topics  []api.TopicSummary
	loading bool
	errMsg  string
}

var _ screen.Screen = (*TopicsScreen)(nil)
var _ screen.KeyHintProvider = (*TopicsScreen)(nil)

// New creates a TopicsScreen for the given mode.
func New(deps screen.Deps, mode Mode) *TopicsScreen {
	return &TopicsScreen{deps: deps, mode: mode, loading: true}
}

func (t *TopicsScreen) Init() tea.Cmd {
	return t.loadTopics()
}

func (t *TopicsScreen) Title() string {
	return "Choose a Topic · " + t.mode.String()
}

func (t *TopicsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start"},
		{Key: "r", Description: "Reload"},
		{Key: "Esc", Description: "Back"},
	}
}

func (t *TopicsScreen) loadTopics() tea.Cmd {
	client := t.deps.API
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		topics, err := client.Topics(ctx)
		return topicsLoadedMsg{Topics: topics, Err: err}
	}
}

func (t *TopicsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case topicsLoadedMsg:
		return t.handleLoaded(msg)

	case tea.KeyMsg:
		if msg.String() == "r" && !t.loading {
			t.loading = true
			t.errMsg = ""
			return t, t.loadTopics()
		}
	}

	var cmd tea.Cmd
	t.menu, cmd = t.menu.Update(msg)
	return t, cmd
}

func (t *TopicsScreen) handleLoaded(msg topicsLoadedMsg) (screen.Screen, tea.Cmd) {
	t.loading = false
	if msg.Err != nil {
		if errors.Is(msg.Err, api.ErrUnauthenticated) {
			deps, mode := t.deps, t.mode
			return t, func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: login.New(deps, func() screen.Screen {
					return New(deps, mode)
				})}
			}
		}
		t.errMsg = msg.Err.Error()
		return t, nil
	}

	t.topics = msg.Topics
	items := make([]components.MenuItem, 0, len(msg.Topics))
	for _, topic := range msg.Topics {
		topic := topic
		items = append(items, components.MenuItem{
			Label:  strings.ToUpper(topic.Name),
			Detail: topicDetail(topic),
			Action: func() tea.Cmd {
				deps, mode := t.deps, t.mode
				return func() tea.Msg {
					if mode == ModeQuiz {
						return router.PushScreenMsg{Screen: quizscreen.New(deps, topic.Slug, topic.Name)}
					}
					return router.PushScreenMsg{Screen: practicescreen.New(deps, topic.Slug, topic.Name)}
				}
			},
		})
	}
	t.menu = components.NewMenu(items)
	return t, nil
}

// topicDetail renders the one-line progress summary under a topic name.
// Server-computed mastery wins over the raw completion ratio.
func topicDetail(topic api.TopicSummary) string {
	progress := ""
	if topic.Mastery != nil {
		progress = fmt.Sprintf("%d%% mastery", int(*topic.Mastery*100+0.5))
	} else if topic.TotalQuestions > 0 {
		progress = fmt.Sprintf("%d/%d done", topic.CompletedQuestions, topic.TotalQuestions)
	}

	parts := make([]string, 0, 3)
	if topic.Description != "" {
		parts = append(parts, topic.Description)
	}
	if topic.EstimatedTimeMin > 0 {
		parts = append(parts, fmt.Sprintf("~%d min", topic.EstimatedTimeMin))
	}
	if progress != "" {
		parts = append(parts, progress)
	}
	return strings.Join(parts, " · ")
}

func (t *TopicsScreen) View(width, height int) string {
	var content string
	switch {
	case t.loading:
		content = theme.Hint.Render("Loading topics...")
	case t.errMsg != "":
		content = theme.Incorrect.Render("Could not load topics") + "\n" +
			theme.Body.Render(t.errMsg) + "\n\n" +
			theme.Hint.Render("Press r to retry")
	case len(t.topics) == 0:
		content = theme.Hint.Render("No topics available yet.")
	default:
		content = t.menu.View()
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
