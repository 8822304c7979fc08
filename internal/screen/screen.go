package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/brightsum/brightsum/internal/api"
	"github.com/brightsum/brightsum/internal/auth"
	"github.com/brightsum/brightsum/internal/store"
	"github.com/brightsum/brightsum/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Shutdowner is an optional interface for screens that own in-flight
// requests. The router calls Shutdown when the screen leaves the stack so
// late responses are discarded instead of mutating a dead screen.
type Shutdowner interface {
	Shutdown()
}

// Deps carries the shared services screens need. One value is built at
// startup and threaded through screen constructors.
type Deps struct {
	API   *api.Client
	Creds *auth.FileStore
	Store *store.Store
}
