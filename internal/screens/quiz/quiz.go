// Package quiz is the timed quiz screen: question navigation, answer entry,
// the countdown, and the end-of-quiz results table.
package quiz

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/brightsum/brightsum/internal/api"
	quizctl "github.com/brightsum/brightsum/internal/quiz"
	"github.com/brightsum/brightsum/internal/router"
	"github.com/brightsum/brightsum/internal/screen"
	"github.com/brightsum/brightsum/internal/screens/login"
	"github.com/brightsum/brightsum/internal/store"
	"github.com/brightsum/brightsum/internal/ui/components"
	"github.com/brightsum/brightsum/internal/ui/layout"
	"github.com/brightsum/brightsum/internal/ui/theme"
)

// QuizScreen binds the quiz controller to the terminal.
type QuizScreen struct {
	deps      screen.Deps
	topicSlug string
	topicName string

	ctrl  *quizctl.Controller
	input components.TextInput
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.Shutdowner = (*QuizScreen)(nil)

// New creates a QuizScreen for one topic.
func New(deps screen.Deps, topicSlug, topicName string) *QuizScreen {
	return &QuizScreen{
		deps:      deps,
		topicSlug: topicSlug,
		topicName: topicName,
		ctrl:      quizctl.New(),
		input:     components.NewTextInput("Your answer...", 64),
	}
}

func (q *QuizScreen) Init() tea.Cmd {
	epoch, err := q.ctrl.Start(q.topicSlug)
	if err != nil {
		return nil
	}
	return tea.Batch(q.startCmd(epoch), q.input.Init())
}

func (q *QuizScreen) Shutdown() {
	q.ctrl.Shutdown()
}

func (q *QuizScreen) Title() string {
	return q.topicName + " Quiz"
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	switch q.ctrl.State() {
	case quizctl.StateInProgress:
		return []layout.KeyHint{
			{Key: "←→", Description: "Question"},
			{Key: "Enter", Description: "Next"},
			{Key: "Ctrl+S", Description: "Finish"},
			{Key: "Esc", Description: "Abandon"},
		}
	case quizctl.StateErrored:
		if q.ctrl.Failure() == quizctl.FailureSubmit {
			return []layout.KeyHint{
				{Key: "Enter", Description: "Retry"},
				{Key: "Esc", Description: "Back"},
			}
		}
	case quizctl.StateCompleted:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}
	}
	return nil
}

func (q *QuizScreen) startCmd(epoch int) tea.Cmd {
	client := q.deps.API
	slug := q.topicSlug
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		resp, err := client.StartQuiz(ctx, slug)
		return startedMsg{Epoch: epoch, Resp: resp, Err: err}
	}
}

func (q *QuizScreen) submitCmd(epoch int, req api.QuizSubmitRequest) tea.Cmd {
	client := q.deps.API
	id := q.ctrl.AttemptID()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		resp, err := client.SubmitQuiz(ctx, id, req)
		return submittedMsg{Epoch: epoch, Resp: resp, Err: err}
	}
}

// logAttemptCmd appends the finished quiz to the local attempt log.
func (q *QuizScreen) logAttemptCmd(resp *api.QuizSubmitResponse) tea.Cmd {
	if q.deps.Store == nil {
		return nil
	}
	log := q.deps.Store.Attempts()
	rec := store.AttemptRecord{
		Kind:            api.KindQuiz,
		ServerAttemptID: q.ctrl.AttemptID(),
		Topic:           q.topicSlug,
		Score:           resp.Score,
		Total:           resp.TotalQuestions,
		ScorePercent:    resp.ScorePercent,
		Passed:          resp.Passed,
		DurationSeconds: resp.TimeTakenSeconds,
	}
	return func() tea.Msg {
		_, err := log.Record(context.Background(), rec)
		return attemptLoggedMsg{Err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		return q.handleStarted(msg)

	case submittedMsg:
		return q.handleSubmitted(msg)

	case timerTickMsg:
		return q.handleTick()

	case attemptLoggedMsg:
		if msg.Err != nil {
			fmt.Fprintf(os.Stderr, "warning: attempt log write failed: %v\n", msg.Err)
		}
		return q, nil

	case tea.KeyMsg:
		return q.handleKey(msg)
	}

	return q.forwardToInput(msg)
}

func (q *QuizScreen) handleStarted(msg startedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		q.ctrl.FailStart(msg.Epoch, msg.Err)
		if q.ctrl.Failure() == quizctl.FailureUnauthenticated {
			return q, q.redirectToLogin()
		}
		return q, nil
	}
	q.ctrl.ApplyStart(msg.Epoch, msg.Resp)
	if q.ctrl.State() != quizctl.StateInProgress {
		return q, nil
	}
	q.input.SetValue("")
	return q, tickCmd()
}

func (q *QuizScreen) handleSubmitted(msg submittedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		q.ctrl.FailSubmit(msg.Epoch, msg.Err)
		if q.ctrl.Failure() == quizctl.FailureUnauthenticated {
			return q, q.redirectToLogin()
		}
		return q, nil
	}
	q.ctrl.ApplySubmit(msg.Epoch, msg.Resp)
	if q.ctrl.State() == quizctl.StateCompleted {
		return q, q.logAttemptCmd(msg.Resp)
	}
	return q, nil
}

func (q *QuizScreen) handleTick() (screen.Screen, tea.Cmd) {
	expired := q.ctrl.Tick()
	if expired {
		return q, q.beginSubmit()
	}
	if q.ctrl.State() == quizctl.StateInProgress {
		return q, tickCmd()
	}
	return q, nil
}

func (q *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch q.ctrl.State() {
	case quizctl.StateInProgress:
		switch msg.String() {
		case "left", "shift+tab":
			q.syncAnswer()
			q.ctrl.Navigate(-1)
			q.input.SetValue(q.ctrl.Answer())
			return q, nil
		case "right", "tab":
			q.syncAnswer()
			q.ctrl.Navigate(1)
			q.input.SetValue(q.ctrl.Answer())
			return q, nil
		case "enter":
			q.syncAnswer()
			if q.ctrl.Index() == len(q.ctrl.Questions())-1 {
				return q, q.beginSubmit()
			}
			q.ctrl.Navigate(1)
			q.input.SetValue(q.ctrl.Answer())
			return q, nil
		case "ctrl+s":
			q.syncAnswer()
			return q, q.beginSubmit()
		}

	case quizctl.StateErrored:
		if msg.String() == "enter" {
			if q.ctrl.Failure() == quizctl.FailureSubmit {
				return q, q.beginSubmit()
			}
			// Start failures retry from scratch.
			if epoch, err := q.ctrl.Start(q.topicSlug); err == nil {
				return q, q.startCmd(epoch)
			}
		}
		return q, nil

	case quizctl.StateCompleted:
		if msg.String() == "enter" {
			return q, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return q, nil
	}

	return q.forwardToInput(msg)
}

func (q *QuizScreen) forwardToInput(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if q.ctrl.State() != quizctl.StateInProgress {
		return q, nil
	}
	var cmd tea.Cmd
	q.input, cmd = q.input.Update(msg)
	q.syncAnswer()
	return q, cmd
}

func (q *QuizScreen) syncAnswer() {
	q.ctrl.SetAnswer(q.input.Value())
}

func (q *QuizScreen) beginSubmit() tea.Cmd {
	epoch, req, ok := q.ctrl.BeginSubmit()
	if !ok {
		return nil
	}
	return q.submitCmd(epoch, req)
}

func (q *QuizScreen) redirectToLogin() tea.Cmd {
	deps, slug, name := q.deps, q.topicSlug, q.topicName
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: login.New(deps, func() screen.Screen {
			return New(deps, slug, name)
		})}
	}
}

func (q *QuizScreen) View(width, height int) string {
	var content string
	switch q.ctrl.State() {
	case quizctl.StateIdle, quizctl.StateStarting:
		content = theme.Hint.Render("Preparing your quiz...")
	case quizctl.StateSubmitting:
		content = theme.Hint.Render("Grading...")
	case quizctl.StateErrored:
		content = q.renderError()
	case quizctl.StateCompleted:
		content = q.renderResults(width)
	default:
		content = q.renderQuestion(width)
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (q *QuizScreen) renderQuestion(width int) string {
	current := q.ctrl.Current()
	if current == nil {
		return theme.Hint.Render("Loading...")
	}

	remaining := q.ctrl.Remaining()
	timerStyle := theme.Body
	if remaining <= 60 {
		timerStyle = theme.Incorrect
	} else if remaining <= 300 {
		timerStyle = theme.Warning
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		theme.Subtitle.Render(fmt.Sprintf("Question %d of %d", q.ctrl.Index()+1, len(q.ctrl.Questions()))),
		"    ",
		timerStyle.Render(formatClock(remaining)),
	)

	answered := 0
	for _, question := range q.ctrl.Questions() {
		if strings.TrimSpace(q.ctrl.AnswerFor(question.ID)) != "" {
			answered++
		}
	}

	rows := []string{
		header,
		"",
		theme.Body.Render(current.Stem),
		theme.Hint.Render("difficulty: " + current.BaseDifficulty),
		"",
		q.input.View(),
		"",
		theme.Subtitle.Render(fmt.Sprintf("%d of %d answered", answered, len(q.ctrl.Questions()))),
	}

	return theme.Card.Width(min(width-4, 70)).Render(strings.Join(rows, "\n"))
}

func (q *QuizScreen) renderResults(width int) string {
	result := q.ctrl.Result()
	if result == nil {
		return ""
	}

	verdict := theme.Incorrect.Render("NOT PASSED")
	if result.Passed {
		verdict = theme.Correct.Render("PASSED")
	}

	rows := []string{
		theme.Title.Render("Quiz Results"),
		"",
		theme.Body.Render(fmt.Sprintf("Score: %d/%d (%.0f%%)  ", result.Score, result.TotalQuestions, result.ScorePercent)) + verdict,
		theme.Subtitle.Render(fmt.Sprintf("Time taken: %s", formatClock(int(result.TimeTakenSeconds)))),
		"",
	}

	for i, r := range result.Results {
		mark := theme.Incorrect.Render("✗")
		if r.IsCorrect {
			mark = theme.Correct.Render("✓")
		}
		line := fmt.Sprintf("%s %d. %s", mark, i+1, r.Stem)
		rows = append(rows, theme.Body.Render(line))
		if !r.IsCorrect {
			yours := r.YourAnswer
			if strings.TrimSpace(yours) == "" {
				yours = "(blank)"
			}
			rows = append(rows, theme.Hint.Render(
				fmt.Sprintf("   you: %s   correct: %s", yours, r.CorrectAnswer)))
		}
	}

	rows = append(rows, "", theme.Hint.Render("Press Enter or Esc to go back"))
	return theme.Card.Width(min(width-4, 76)).Render(strings.Join(rows, "\n"))
}

func (q *QuizScreen) renderError() string {
	if q.ctrl.Failure() == quizctl.FailureSubmit {
		return theme.Incorrect.Render("Submitting your answers failed") + "\n" +
			theme.Body.Render(errText(q.ctrl.Err())) + "\n\n" +
			theme.Hint.Render("Your answers are safe. Press Enter to retry.")
	}
	return theme.Incorrect.Render("Could not start the quiz") + "\n" +
		theme.Body.Render(errText(q.ctrl.Err())) + "\n\n" +
		theme.Hint.Render("Press Enter to retry, Esc to go back.")
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
