// Package client implements the terminal client of the todo list service:
// a persisted login session, an HTTP API wrapper and the interactive UI.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const credFileName = "credentials.json"

// Session is the client's view of the authenticated user: the bearer token
// plus bookkeeping about where it came from. It is constructed once at
// startup, passed down explicitly, and persisted at defined lifecycle
// points: load-on-start, save-on-login, clear-on-logout.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// LoggedIn reports whether the session carries a token. The token may still
// be expired; the server is the authority on that.
func (s *Session) LoggedIn() bool {
	return s != nil && s.Token != ""
}

func credsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".todolists"), nil
}

func credFilePath() (string, error) {
	dir, err := credsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credFileName), nil
}

// LoadSession reads the persisted session. A missing file means "not logged
// in" and yields an empty session, not an error.
func LoadSession() (*Session, error) {
	p, err := credFilePath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Session{}, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	s.Token = stripBearer(s.Token)
	return &s, nil
}

// Save persists the session with owner-only permissions.
func (s *Session) Save() error {
	if strings.TrimSpace(s.Token) == "" {
		return fmt.Errorf("empty token")
	}
	dir, err := credsDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	p, _ := credFilePath()
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Clear removes the persisted session and empties the in-memory one.
func (s *Session) Clear() error {
	s.Token = ""
	s.Username = ""

	p, err := credFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
