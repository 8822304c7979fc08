// Package login is the email/password sign-in screen. Every other screen
// routes here when the server rejects the stored token; on success the
// learner lands back where they were headed.
package login

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/brightsum/brightsum/internal/api"
	"github.com/brightsum/brightsum/internal/auth"
	"github.com/brightsum/brightsum/internal/router"
	"github.com/brightsum/brightsum/internal/screen"
	"github.com/brightsum/brightsum/internal/ui/components"
	"github.com/brightsum/brightsum/internal/ui/layout"
	"github.com/brightsum/brightsum/internal/ui/theme"
)

const (
	fieldEmail = iota
	fieldPassword
)

// LoginScreen collects credentials and exchanges them for a token.
type LoginScreen struct {
	deps screen.Deps
	next func() screen.Screen

	email    components.TextInput
	password components.TextInput
	focused  int
	busy     bool
	errMsg   string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen. next, when non-nil, builds the screen to swap
// in after a successful sign-in; otherwise the screen pops itself.
func New(deps screen.Deps, next func() screen.Screen) *LoginScreen {
	email := components.NewTextInput("you@example.com", 254)
	password := components.NewPasswordInput("password", 128)
	password.Blur()

	return &LoginScreen{
		deps:     deps,
		next:     next,
		email:    email,
		password: password,
	}
}

func (l *LoginScreen) Init() tea.Cmd {
	return l.email.Init()
}

func (l *LoginScreen) Title() string {
	return "Sign In"
}

func (l *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch field"},
		{Key: "Enter", Description: "Sign in"},
		{Key: "Esc", Description: "Back"},
	}
}

func (l *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		return l.handleDone(msg)

	case tea.KeyMsg:
		if l.busy {
			return l, nil
		}
		switch msg.String() {
		case "tab", "shift+tab":
			return l, l.switchField()
		case "enter":
			if l.focused == fieldEmail {
				return l, l.switchField()
			}
			return l, l.submit()
		}
	}

	if l.busy {
		return l, nil
	}

	var cmd tea.Cmd
	if l.focused == fieldEmail {
		l.email, cmd = l.email.Update(msg)
	} else {
		l.password, cmd = l.password.Update(msg)
	}
	return l, cmd
}

func (l *LoginScreen) switchField() tea.Cmd {
	if l.focused == fieldEmail {
		l.focused = fieldPassword
		l.email.Blur()
		return l.password.Focus()
	}
	l.focused = fieldEmail
	l.password.Blur()
	return l.email.Focus()
}

func (l *LoginScreen) submit() tea.Cmd {
	email := strings.TrimSpace(l.email.Value())
	password := l.password.Value()
	if email == "" || password == "" {
		l.errMsg = "Email and password are required."
		return nil
	}

	l.busy = true
	l.errMsg = ""

	client := l.deps.API
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		resp, err := client.Login(ctx, email, password)
		if err != nil {
			return loginDoneMsg{Err: err}
		}

		// Best effort; the token alone is enough to proceed.
		identity, _ := client.MeWithToken(ctx, resp.AccessToken)
		return loginDoneMsg{Token: resp.AccessToken, Identity: identity}
	}
}

func (l *LoginScreen) handleDone(msg loginDoneMsg) (screen.Screen, tea.Cmd) {
	l.busy = false
	if msg.Err != nil {
		var status *api.StatusError
		if errors.As(msg.Err, &status) && status.Code == 401 {
			l.errMsg = "Wrong email or password."
		} else {
			l.errMsg = msg.Err.Error()
		}
		return l, nil
	}

	email := strings.TrimSpace(l.email.Value())
	if msg.Identity != nil {
		email = msg.Identity.Email
	}
	if err := l.deps.Creds.Save(auth.Credentials{
		AccessToken: msg.Token,
		Email:       email,
	}); err != nil {
		l.errMsg = "Signed in, but saving the session failed: " + err.Error()
		return l, nil
	}

	if l.next != nil {
		next := l.next
		return l, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next()} }
	}
	return l, func() tea.Msg { return router.PopScreenMsg{} }
}

func (l *LoginScreen) View(width, height int) string {
	label := func(text string, active bool) string {
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if active {
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		return style.Render(text)
	}

	var rows []string
	rows = append(rows,
		theme.Title.Render("Sign in to BrightSum"),
		"",
		label("Email", l.focused == fieldEmail),
		l.email.View(),
		"",
		label("Password", l.focused == fieldPassword),
		l.password.View(),
	)

	if l.busy {
		rows = append(rows, "", theme.Hint.Render("Signing in..."))
	}
	if l.errMsg != "" {
		rows = append(rows, "", theme.Incorrect.Render(l.errMsg))
	}

	card := theme.Card.Width(min(width-4, 60)).Render(strings.Join(rows, "\n"))

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(card)
}
