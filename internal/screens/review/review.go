// Package review is the mistake-review screen: overall stats, per-topic
// weaknesses, and recent sessions whose mistakes expand in place.
package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/brightsum/brightsum/internal/api"
	reviewagg "github.com/brightsum/brightsum/internal/review"
	"github.com/brightsum/brightsum/internal/router"
	"github.com/brightsum/brightsum/internal/screen"
	"github.com/brightsum/brightsum/internal/screens/login"
	"github.com/brightsum/brightsum/internal/ui/layout"
	"github.com/brightsum/brightsum/internal/ui/theme"
)

var (
	sourceCycle    = []string{"", "Practice", "Quizzes"}
	dateRangeCycle = []string{"", "Last 7 days", "Last 30 days"}
	difficultyFlow = []string{"", "easy", "medium", "hard"}
)

// row is one selectable recent-session line.
type row struct {
	kind  api.SessionKind
	id    int64
	label string
}

// ReviewScreen binds the review aggregator to the terminal.
type ReviewScreen struct {
	deps screen.Deps

	agg    *reviewagg.Aggregator
	rows   []row
	cursor int

	sourceIdx     int
	dateRangeIdx  int
	difficultyIdx int
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)
var _ screen.Shutdowner = (*ReviewScreen)(nil)

// New creates a ReviewScreen.
func New(deps screen.Deps) *ReviewScreen {
	return &ReviewScreen{deps: deps, agg: reviewagg.New()}
}

func (r *ReviewScreen) Init() tea.Cmd {
	return r.load()
}

func (r *ReviewScreen) Shutdown() {
	r.agg.Shutdown()
}

func (r *ReviewScreen) Title() string {
	return "Review Mistakes"
}

func (r *ReviewScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Session"},
		{Key: "Enter", Description: "Toggle mistakes"},
		{Key: "s/d/f", Description: "Filters"},
		{Key: "Esc", Description: "Back"},
	}
}

func (r *ReviewScreen) filters() api.ReviewFilters {
	return api.ReviewFilters{
		Source:     sourceCycle[r.sourceIdx],
		DateRange:  dateRangeCycle[r.dateRangeIdx],
		Difficulty: difficultyFlow[r.difficultyIdx],
	}
}

func (r *ReviewScreen) load() tea.Cmd {
	epoch := r.agg.BeginLoad(r.filters())
	client := r.deps.API
	filters := r.filters()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		resp, err := client.ReviewSummary(ctx, filters)
		return summaryMsg{Epoch: epoch, Resp: resp, Err: err}
	}
}

func (r *ReviewScreen) fetchDetail(epoch int, kind api.SessionKind, id int64) tea.Cmd {
	client := r.deps.API
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		resp, err := client.AttemptMistakes(ctx, kind, id)
		return detailMsg{Epoch: epoch, Kind: kind, ID: id, Resp: resp, Err: err}
	}
}

func (r *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryMsg:
		return r.handleSummary(msg)

	case detailMsg:
		if msg.Err != nil {
			r.agg.FailDetail(msg.Epoch, msg.Kind, msg.ID, msg.Err)
		} else {
			r.agg.ApplyDetail(msg.Epoch, msg.Kind, msg.ID, msg.Resp)
		}
		return r, nil

	case tea.KeyMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r *ReviewScreen) handleSummary(msg summaryMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		r.agg.FailSummary(msg.Epoch, msg.Err)
		if r.agg.Failure() == reviewagg.FailureUnauthenticated {
			deps := r.deps
			return r, func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: login.New(deps, func() screen.Screen {
					return New(deps)
				})}
			}
		}
		return r, nil
	}

	r.agg.ApplySummary(msg.Epoch, msg.Resp)
	r.rebuildRows()
	return r, nil
}

func (r *ReviewScreen) rebuildRows() {
	summary := r.agg.Summary()
	r.rows = r.rows[:0]
	if summary == nil {
		return
	}
	for _, quiz := range summary.RecentSessions.Quizzes {
		r.rows = append(r.rows, row{
			kind:  api.KindQuiz,
			id:    quiz.ID,
			label: fmt.Sprintf("Quiz · %s · %s · %s", quiz.Name, quiz.Date, quiz.Score),
		})
	}
	for _, practice := range summary.RecentSessions.Practice {
		r.rows = append(r.rows, row{
			kind:  api.KindPractice,
			id:    practice.ID,
			label: fmt.Sprintf("Practice · %s · %d problems · %s correct", practice.Name, practice.Problems, practice.Correct),
		})
	}
	if r.cursor >= len(r.rows) {
		r.cursor = 0
	}
}

func (r *ReviewScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if r.cursor > 0 {
			r.cursor--
		}
	case "down", "j":
		if r.cursor < len(r.rows)-1 {
			r.cursor++
		}
	case "enter":
		if r.cursor < len(r.rows) {
			selected := r.rows[r.cursor]
			epoch, need := r.agg.ToggleDetail(selected.kind, selected.id)
			if need {
				return r, r.fetchDetail(epoch, selected.kind, selected.id)
			}
		}
	case "s":
		r.sourceIdx = (r.sourceIdx + 1) % len(sourceCycle)
		return r, r.load()
	case "d":
		r.dateRangeIdx = (r.dateRangeIdx + 1) % len(dateRangeCycle)
		return r, r.load()
	case "f":
		r.difficultyIdx = (r.difficultyIdx + 1) % len(difficultyFlow)
		return r, r.load()
	case "r":
		return r, r.load()
	}
	return r, nil
}

func (r *ReviewScreen) View(width, height int) string {
	summary := r.agg.Summary()

	var content string
	switch {
	case r.agg.Loading() && summary == nil:
		content = theme.Hint.Render("Loading your review...")
	case r.agg.Err() != nil && summary == nil:
		content = theme.Incorrect.Render("Could not load the review") + "\n" +
			theme.Body.Render(r.agg.Err().Error()) + "\n\n" +
			theme.Hint.Render("Press r to retry")
	case summary == nil:
		content = theme.Hint.Render("Nothing to review yet.")
	default:
		content = r.renderSummary(summary, width)
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Top).
		Render(content)
}

func (r *ReviewScreen) renderSummary(summary *api.ReviewSummary, width int) string {
	cw := min(width-4, 84)
	var sections []string

	sections = append(sections, r.renderFilters())
	sections = append(sections, renderOverall(summary.Overall, cw))

	if len(summary.Topics) > 0 {
		var rows []string
		rows = append(rows, theme.Subtitle.Render("Weak spots"))
		for _, topic := range summary.Topics {
			rows = append(rows, theme.Body.Render(
				fmt.Sprintf("%-24s %3.0f%% accuracy   %d mistakes", topic.Name, topic.Accuracy*100, topic.Mistakes)))
		}
		sections = append(sections, theme.Card.Width(cw).Render(strings.Join(rows, "\n")))
	}

	sections = append(sections, r.renderSessions(cw))

	if r.agg.Loading() {
		sections = append(sections, theme.Hint.Render("Refreshing..."))
	}

	return strings.Join(sections, "\n")
}

func (r *ReviewScreen) renderFilters() string {
	show := func(label, value string) string {
		if value == "" {
			value = "All"
		}
		return theme.Hint.Render(label+": ") + theme.Body.Render(value)
	}
	f := r.filters()
	return "  " + show("source", f.Source) + "   " + show("range", f.DateRange) + "   " + show("difficulty", f.Difficulty)
}

func renderOverall(o api.ReviewOverall, cw int) string {
	rows := []string{
		theme.Subtitle.Render("Overall"),
		theme.Body.Render(fmt.Sprintf(
			"Accuracy %3.0f%%   This week %3.0f%%   %d answered   %d mistakes",
			o.Accuracy*100, o.WeekAccuracy*100, o.QuestionsAnswered, o.TotalMistakes)),
		theme.Body.Render(fmt.Sprintf(
			"Avg difficulty %s   %.1f hints/question   Today %d/%d problems",
			o.AvgDifficulty, o.AvgHintsPerQuestion, o.ProblemsToday, o.DailyGoal)),
	}
	return theme.Card.Width(cw).Render(strings.Join(rows, "\n"))
}

func (r *ReviewScreen) renderSessions(cw int) string {
	rows := []string{theme.Subtitle.Render("Recent sessions")}
	if len(r.rows) == 0 {
		rows = append(rows, theme.Hint.Render("No recent sessions."))
	}

	for i, session := range r.rows {
		style := theme.Unselected
		prefix := "  "
		if i == r.cursor {
			style = theme.Selected
			prefix = "▸ "
		}
		rows = append(rows, style.Render(prefix+session.label))

		detail := r.agg.Detail(session.kind, session.id)
		if detail == nil {
			continue
		}
		switch {
		case detail.Loading:
			rows = append(rows, theme.Hint.Render("    loading mistakes..."))
		case detail.Err != nil:
			rows = append(rows, theme.Incorrect.Render("    failed: "+detail.Err.Error()+" (Enter to retry)"))
		case detail.Visible && detail.Data != nil:
			rows = append(rows, renderMistakes(detail.Data)...)
		}
	}

	return theme.Card.Width(cw).Render(strings.Join(rows, "\n"))
}

func renderMistakes(detail *api.MistakeDetail) []string {
	var rows []string
	if detail.Note != "" {
		rows = append(rows, theme.Hint.Render("    "+detail.Note))
	}
	if len(detail.Mistakes) == 0 {
		rows = append(rows, theme.Correct.Render("    No mistakes in this session."))
		return rows
	}
	for _, mistake := range detail.Mistakes {
		given := mistake.Submitted
		if given == "" {
			given = mistake.GivenAnswer
		}
		if strings.TrimSpace(given) == "" {
			given = "(blank)"
		}
		rows = append(rows, theme.Body.Render("    "+mistake.QuestionStem))
		line := fmt.Sprintf("      you: %s   correct: %s", given, mistake.CorrectAnswer)
		if mistake.Hints > 0 {
			line += fmt.Sprintf("   %d hint(s)", mistake.Hints)
		}
		rows = append(rows, theme.Hint.Render(line))
	}
	return rows
}
