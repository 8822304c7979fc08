package login

import "github.com/brightsum/brightsum/internal/api"

// loginDoneMsg is sent when the login call finishes.
type loginDoneMsg struct {
	Token    string
	Identity *api.Identity
	Err      error
}
