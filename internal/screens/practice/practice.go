// Package practice is the adaptive practice screen: one question at a time,
// instant feedback, and the hint ladder.
package practice

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/brightsum/brightsum/internal/api"
	practicectl "github.com/brightsum/brightsum/internal/practice"
	"github.com/brightsum/brightsum/internal/router"
	"github.com/brightsum/brightsum/internal/screen"
	"github.com/brightsum/brightsum/internal/screens/login"
	"github.com/brightsum/brightsum/internal/store"
	"github.com/brightsum/brightsum/internal/ui/components"
	"github.com/brightsum/brightsum/internal/ui/layout"
	"github.com/brightsum/brightsum/internal/ui/theme"
)

// PracticeScreen binds the practice controller to the terminal.
type PracticeScreen struct {
	deps      screen.Deps
	topicSlug string
	topicName string

	ctrl      *practicectl.Controller
	input     components.TextInput
	startedAt time.Time
	logged    bool
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.Shutdowner = (*PracticeScreen)(nil)

// New creates a PracticeScreen for one topic.
func New(deps screen.Deps, topicSlug, topicName string) *PracticeScreen {
	return &PracticeScreen{
		deps:      deps,
		topicSlug: topicSlug,
		topicName: topicName,
		ctrl:      practicectl.New(),
		input:     components.NewTextInput("Your answer...", 64),
	}
}

func (p *PracticeScreen) Init() tea.Cmd {
	epoch, err := p.ctrl.Start(p.topicSlug)
	if err != nil {
		return nil
	}
	p.startedAt = time.Now()
	return tea.Batch(p.startCmd(epoch), p.input.Init())
}

func (p *PracticeScreen) Shutdown() {
	p.ctrl.Shutdown()
}

func (p *PracticeScreen) Title() string {
	return p.topicName + " Practice"
}

func (p *PracticeScreen) KeyHints() []layout.KeyHint {
	switch p.ctrl.State() {
	case practicectl.StateAwaitingAnswer:
		hints := []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
		}
		if p.ctrl.Hints().CanRequest() {
			hints = append(hints, layout.KeyHint{Key: "Ctrl+H", Description: "Hint"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "End session"})
	case practicectl.StateShowingFeedback:
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
		}
	case practicectl.StateComplete:
		return []layout.KeyHint{
			{Key: "Enter", Description: "New session"},
			{Key: "Esc", Description: "Back"},
		}
	case practicectl.StateErrored:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return nil
}

func (p *PracticeScreen) startCmd(epoch int) tea.Cmd {
	client := p.deps.API
	slug := p.topicSlug
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		resp, err := client.StartPractice(ctx, slug)
		return startedMsg{Epoch: epoch, Resp: resp, Err: err}
	}
}

func (p *PracticeScreen) submitCmd(epoch int, req api.PracticeSubmitRequest) tea.Cmd {
	client := p.deps.API
	id := p.ctrl.AttemptID()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		resp, err := client.SubmitPractice(ctx, id, req)
		return gradedMsg{Epoch: epoch, Resp: resp, Err: err}
	}
}

func (p *PracticeScreen) hintCmd(epoch int) tea.Cmd {
	client := p.deps.API
	id := p.ctrl.AttemptID()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		resp, err := client.RequestHint(ctx, id)
		return hintMsg{Epoch: epoch, Resp: resp, Err: err}
	}
}

// logAttemptCmd appends the finished session to the local attempt log.
func (p *PracticeScreen) logAttemptCmd() tea.Cmd {
	if p.deps.Store == nil || p.logged {
		return nil
	}
	p.logged = true
	log := p.deps.Store.Attempts()
	rec := store.AttemptRecord{
		Kind:            api.KindPractice,
		ServerAttemptID: p.ctrl.AttemptID(),
		Topic:           p.topicSlug,
		Score:           p.ctrl.Score(),
		Total:           p.ctrl.Completed(),
		DurationSeconds: time.Since(p.startedAt).Seconds(),
	}
	if rec.Total > 0 {
		rec.ScorePercent = float64(rec.Score) / float64(rec.Total) * 100
	}
	return func() tea.Msg {
		_, err := log.Record(context.Background(), rec)
		return attemptLoggedMsg{Err: err}
	}
}

func (p *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		return p.handleStarted(msg)

	case gradedMsg:
		return p.handleGraded(msg)

	case hintMsg:
		return p.handleHint(msg)

	case attemptLoggedMsg:
		if msg.Err != nil {
			fmt.Fprintf(os.Stderr, "warning: attempt log write failed: %v\n", msg.Err)
		}
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	return p.forwardToInput(msg)
}

func (p *PracticeScreen) handleStarted(msg startedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		p.ctrl.FailStart(msg.Epoch, msg.Err)
		if p.ctrl.Failure() == practicectl.FailureUnauthenticated {
			return p, p.redirectToLogin()
		}
		return p, nil
	}
	p.ctrl.ApplyStart(msg.Epoch, msg.Resp)
	p.input.SetValue("")
	return p, nil
}

func (p *PracticeScreen) handleGraded(msg gradedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		p.ctrl.FailSubmit(msg.Epoch, msg.Err)
		if p.ctrl.Failure() == practicectl.FailureUnauthenticated {
			return p, p.redirectToLogin()
		}
		return p, nil
	}
	p.ctrl.ApplySubmit(msg.Epoch, msg.Resp)
	if p.ctrl.State() == practicectl.StateComplete {
		return p, p.logAttemptCmd()
	}
	return p, nil
}

func (p *PracticeScreen) handleHint(msg hintMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		p.ctrl.FailHint(msg.Epoch, msg.Err)
		return p, nil
	}
	p.ctrl.ApplyHint(msg.Epoch, msg.Resp)
	return p, nil
}

func (p *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch p.ctrl.State() {
	case practicectl.StateAwaitingAnswer:
		switch msg.String() {
		case "enter":
			epoch, req, ok := p.ctrl.BeginSubmit(p.input.Value())
			if !ok {
				return p, nil
			}
			return p, p.submitCmd(epoch, req)
		case "ctrl+h":
			epoch, ok := p.ctrl.BeginHint()
			if !ok {
				return p, nil
			}
			return p, p.hintCmd(epoch)
		}

	case practicectl.StateShowingFeedback:
		// Any key advances.
		p.ctrl.Advance()
		p.input.SetValue("")
		p.input.ClearResult()
		return p, nil

	case practicectl.StateComplete:
		if msg.String() == "enter" {
			p.ctrl.Reset()
			p.logged = false
			epoch, err := p.ctrl.Start(p.topicSlug)
			if err != nil {
				return p, nil
			}
			p.startedAt = time.Now()
			p.input.SetValue("")
			return p, p.startCmd(epoch)
		}
		return p, nil

	case practicectl.StateErrored:
		if msg.String() == "enter" {
			if p.ctrl.Failure() == practicectl.FailureSubmit {
				epoch, req, ok := p.ctrl.BeginSubmit(p.input.Value())
				if !ok {
					return p, nil
				}
				return p, p.submitCmd(epoch, req)
			}
			if epoch, err := p.ctrl.Start(p.topicSlug); err == nil {
				p.startedAt = time.Now()
				return p, p.startCmd(epoch)
			}
		}
		return p, nil
	}

	return p.forwardToInput(msg)
}

func (p *PracticeScreen) forwardToInput(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if p.ctrl.State() != practicectl.StateAwaitingAnswer {
		return p, nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *PracticeScreen) redirectToLogin() tea.Cmd {
	deps, slug, name := p.deps, p.topicSlug, p.topicName
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: login.New(deps, func() screen.Screen {
			return New(deps, slug, name)
		})}
	}
}

func (p *PracticeScreen) View(width, height int) string {
	var content string
	switch p.ctrl.State() {
	case practicectl.StateIdle, practicectl.StateStarting:
		content = theme.Hint.Render("Picking your first problem...")
	case practicectl.StateSubmitting:
		content = theme.Hint.Render("Checking...")
	case practicectl.StateShowingFeedback:
		content = p.renderFeedback(width)
	case practicectl.StateComplete:
		content = p.renderComplete(width)
	case practicectl.StateErrored:
		content = p.renderError()
	default:
		content = p.renderQuestion(width)
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (p *PracticeScreen) renderQuestion(width int) string {
	question := p.ctrl.Question()

	rows := []string{
		theme.Subtitle.Render(fmt.Sprintf("Problem %d  ·  Score %d", p.ctrl.Completed()+1, p.ctrl.Score())),
		"",
		theme.Body.Render(question.Stem),
		theme.Hint.Render("difficulty: " + question.ShownDifficulty),
		"",
		p.input.View(),
	}

	ladder := p.ctrl.Hints()
	if revealed := ladder.Revealed(); len(revealed) > 0 {
		rows = append(rows, "")
		for i, hint := range revealed {
			rows = append(rows, theme.Warning.Render(fmt.Sprintf("Hint %d: ", i+1))+theme.Body.Render(hint))
		}
	}
	if ladder.Loading() {
		rows = append(rows, "", theme.Hint.Render("Fetching a hint..."))
	} else if remaining, known := ladder.Remaining(); known {
		rows = append(rows, "", theme.Hint.Render(fmt.Sprintf("%d hint(s) left", remaining)))
	}
	if err := ladder.Err(); err != nil {
		rows = append(rows, "", theme.Incorrect.Render("Hint failed: "+err.Error()))
	}

	return theme.Card.Width(min(width-4, 70)).Render(strings.Join(rows, "\n"))
}

func (p *PracticeScreen) renderFeedback(width int) string {
	feedback := p.ctrl.Feedback()
	if feedback == nil {
		return ""
	}

	var rows []string
	if feedback.IsCorrect {
		rows = append(rows, theme.Correct.Render("Correct!"))
	} else {
		rows = append(rows,
			theme.Incorrect.Render("Not quite."),
			theme.Body.Render("The answer is "+feedback.CorrectAnswer),
		)
	}
	rows = append(rows,
		"",
		theme.Body.Render(p.ctrl.Question().Stem),
		"",
		theme.Subtitle.Render(fmt.Sprintf("Score %d  ·  %d completed", p.ctrl.Score(), p.ctrl.Completed())),
		"",
		theme.Hint.Render("Press any key to continue"),
	)

	return theme.Card.Width(min(width-4, 70)).Render(strings.Join(rows, "\n"))
}

func (p *PracticeScreen) renderComplete(width int) string {
	rows := []string{
		theme.Title.Render("Session complete!"),
		"",
		theme.Body.Render(fmt.Sprintf("You got %d of %d problems right.", p.ctrl.Score(), p.ctrl.Completed())),
		"",
		theme.Hint.Render("Enter for a new session, Esc to go back"),
	}
	return theme.Card.Width(min(width-4, 60)).Render(strings.Join(rows, "\n"))
}

func (p *PracticeScreen) renderError() string {
	if p.ctrl.Failure() == practicectl.FailureSubmit {
		return theme.Incorrect.Render("Checking your answer failed") + "\n" +
			theme.Body.Render(errText(p.ctrl.Err())) + "\n\n" +
			theme.Hint.Render("Press Enter to retry.")
	}
	return theme.Incorrect.Render("Could not start practice") + "\n" +
		theme.Body.Render(errText(p.ctrl.Err())) + "\n\n" +
		theme.Hint.Render("Press Enter to retry, Esc to go back.")
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
