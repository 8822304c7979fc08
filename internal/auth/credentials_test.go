package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "student@example.com",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func testStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func TestFileStore_MissingFile(t *testing.T) {
	s := testStore(t)
	if _, err := s.Token(); err != ErrNoCredentials {
		t.Errorf("Token err = %v, want ErrNoCredentials", err)
	}
}

func TestFileStore_SaveThenToken(t *testing.T) {
	s := testStore(t)
	tok := signedToken(t, time.Now().Add(time.Hour))

	if err := s.Save(Credentials{AccessToken: tok, Email: "student@example.com"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if got != tok {
		t.Error("Token returned a different value than saved")
	}
}

func TestFileStore_ExpiredTokenRejected(t *testing.T) {
	s := testStore(t)
	tok := signedToken(t, time.Now().Add(-time.Hour))

	if err := s.Save(Credentials{AccessToken: tok}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.Token(); err != ErrNoCredentials {
		t.Errorf("Token err = %v, want ErrNoCredentials for expired token", err)
	}
}

func TestFileStore_InvalidateUntilNextSave(t *testing.T) {
	s := testStore(t)
	tok := signedToken(t, time.Now().Add(time.Hour))
	if err := s.Save(Credentials{AccessToken: tok}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	s.Invalidate()
	if _, err := s.Token(); err != ErrNoCredentials {
		t.Errorf("Token err = %v, want ErrNoCredentials after Invalidate", err)
	}

	// A fresh save (re-login) re-arms the store.
	if err := s.Save(Credentials{AccessToken: tok}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.Token(); err != nil {
		t.Errorf("Token err = %v after re-save, want nil", err)
	}
}

func TestFileStore_Clear(t *testing.T) {
	s := testStore(t)
	tok := signedToken(t, time.Now().Add(time.Hour))
	if err := s.Save(Credentials{AccessToken: tok}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := s.Token(); err != ErrNoCredentials {
		t.Errorf("Token err = %v, want ErrNoCredentials after Clear", err)
	}
	// Clearing twice is fine.
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}

func TestExpired_OpaqueTokenTreatedAsLive(t *testing.T) {
	if Expired("not-a-jwt", time.Now()) {
		t.Error("opaque token reported expired; server should decide")
	}
}
