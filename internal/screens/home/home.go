// Package home is the top-level menu.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/brightsum/brightsum/internal/api"
	"github.com/brightsum/brightsum/internal/router"
	"github.com/brightsum/brightsum/internal/screen"
	"github.com/brightsum/brightsum/internal/screens/review"
	"github.com/brightsum/brightsum/internal/screens/topics"
	"github.com/brightsum/brightsum/internal/store"
	"github.com/brightsum/brightsum/internal/ui/components"
	"github.com/brightsum/brightsum/internal/ui/theme"
)

// recentLoadedMsg delivers the local attempt history for the activity panel.
type recentLoadedMsg struct {
	Recent []store.AttemptRecord
	Err    error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps    screen.Deps
	menu    components.Menu
	account string
	recent  []store.AttemptRecord
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps screen.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}

	if creds, err := deps.Creds.Load(); err == nil {
		h.account = creds.Email
	}

	items := []components.MenuItem{
		{Label: "PRACTICE", Detail: "Adaptive problems with hints", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: topics.New(deps, topics.ModePractice)}
			}
		}},
		{Label: "TAKE A QUIZ", Detail: "Timed, graded at the end", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: topics.New(deps, topics.ModeQuiz)}
			}
		}},
		{Label: "REVIEW MISTAKES", Detail: "See where points were lost", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: review.New(deps)}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadRecentCmd()
}

// loadRecentCmd reads the latest locally recorded attempts for the activity
// panel. Absence of history is not an error.
func (h *HomeScreen) loadRecentCmd() tea.Cmd {
	if h.deps.Store == nil {
		return nil
	}
	log := h.deps.Store.Attempts()
	return func() tea.Msg {
		recent, err := log.Recent(context.Background(), 3)
		return recentLoadedMsg{Recent: recent, Err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if loaded, ok := msg.(recentLoadedMsg); ok {
		if loaded.Err == nil {
			h.recent = loaded.Recent
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	title := theme.Title.Render("BrightSum")
	subtitle := theme.Subtitle.Render("Sharpen your math, one problem at a time")

	parts := []string{title, subtitle, "", h.menu.View()}
	if panel := h.renderRecent(); panel != "" {
		parts = append(parts, "", panel)
	}
	content := strings.Join(parts, "\n")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (h *HomeScreen) renderRecent() string {
	if len(h.recent) == 0 {
		return ""
	}
	rows := []string{theme.Subtitle.Render("Recent activity")}
	for _, rec := range h.recent {
		line := fmt.Sprintf("%s  %s  %d/%d", rec.CreatedAt.Format("Jan 2"), rec.Topic, rec.Score, rec.Total)
		if rec.Kind == api.KindQuiz {
			if rec.Passed {
				line += "  passed"
			} else {
				line += "  not passed"
			}
		}
		rows = append(rows, theme.Hint.Render(line))
	}
	return strings.Join(rows, "\n")
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// Account returns the signed-in email for the header, empty when logged out.
func (h *HomeScreen) Account() string {
	return h.account
}
