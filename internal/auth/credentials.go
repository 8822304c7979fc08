// Package auth stores and serves the bearer credential for the BrightSum
// API. The session engine only ever reads tokens; writes happen through the
// login/logout commands.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoCredentials indicates no usable token is stored. Callers route the
// user to login instead of showing an inline error.
var ErrNoCredentials = errors.New("not logged in")

// TokenSource provides the bearer token for API requests.
type TokenSource interface {
	// Token returns the stored token, or ErrNoCredentials if none is
	// available (missing, cleared, invalidated, or locally expired).
	Token() (string, error)

	// Invalidate marks the in-memory token as rejected (after a 401).
	// The credentials file is left alone so `whoami` can still diagnose.
	Invalidate()
}

// Credentials is the on-disk credential record.
type Credentials struct {
	AccessToken string    `json:"access_token"`
	Email       string    `json:"email,omitempty"`
	SavedAt     time.Time `json:"saved_at"`
}

// FileStore is a TokenSource backed by a JSON file under the user config dir.
type FileStore struct {
	path string

	mu          sync.Mutex
	invalidated bool
}

// NewFileStore creates a FileStore at path. An empty path resolves to
// DefaultPath.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &FileStore{path: path}, nil
}

// DefaultPath resolves the credentials file location:
// $BRIGHTSUM_CREDENTIALS, then $XDG_CONFIG_HOME/brightsum/credentials.json,
// then ~/.config/brightsum/credentials.json.
func DefaultPath() (string, error) {
	if p := os.Getenv("BRIGHTSUM_CREDENTIALS"); p != "" {
		return p, nil
	}
	cfgHome := os.Getenv("XDG_CONFIG_HOME")
	if cfgHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		cfgHome = filepath.Join(home, ".config")
	}
	return filepath.Join(cfgHome, "brightsum", "credentials.json"), nil
}

func (s *FileStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.invalidated {
		return "", ErrNoCredentials
	}

	creds, err := s.load()
	if err != nil {
		return "", err
	}
	if Expired(creds.AccessToken, time.Now()) {
		return "", ErrNoCredentials
	}
	return creds.AccessToken, nil
}

func (s *FileStore) Invalidate() {
	s.mu.Lock()
	s.invalidated = true
	s.mu.Unlock()
}

// Save writes the credential record and re-arms the store.
func (s *FileStore) Save(creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if creds.SavedAt.IsZero() {
		creds.SavedAt = time.Now()
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	s.invalidated = false
	return nil
}

// Clear removes the credentials file. Missing file is not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invalidated = true
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

// Load returns the stored record without expiry checks, for `whoami`.
func (s *FileStore) Load() (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) load() (*Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCredentials
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	if creds.AccessToken == "" {
		return nil, ErrNoCredentials
	}
	return &creds, nil
}

// Expired reports whether the token's exp claim is in the past. The token is
// not signature-verified here — the server is the authority; this only
// avoids sending requests that are guaranteed to bounce. Tokens without a
// parseable exp claim are treated as live.
func Expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

// StaticToken is a TokenSource holding a fixed token, used in tests and for
// the BRIGHTSUM_TOKEN env override.
type StaticToken string

func (t StaticToken) Token() (string, error) {
	if t == "" {
		return "", ErrNoCredentials
	}
	return string(t), nil
}

func (t StaticToken) Invalidate() {}
