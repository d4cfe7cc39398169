// cmd/client/session.go
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/service"
)

var errNotSignedIn = errors.New("not signed in: run `taskboard-cli signin` first")

// savedSession is what the CLI keeps between invocations
type savedSession struct {
	Server           string       `json:"server"`
	User             *models.User `json:"user"`
	AccessToken      string       `json:"accessToken"`
	RefreshToken     string       `json:"refreshToken"`
	ExpiresAt        time.Time    `json:"expiresAt"`
	RefreshExpiresAt time.Time    `json:"refreshExpiresAt"`
}

func newSavedSession(server string, s *service.Session) *savedSession {
	return &savedSession{
		Server:           server,
		User:             s.User,
		AccessToken:      s.AccessToken,
		RefreshToken:     s.RefreshToken,
		ExpiresAt:        s.ExpiresAt,
		RefreshExpiresAt: s.RefreshExpiresAt,
	}
}

// needsRefresh reports whether the access token is about to expire
func (s *savedSession) needsRefresh(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.Add(30*time.Second).After(s.ExpiresAt)
}

func (s *savedSession) canRefresh(now time.Time) bool {
	return s.RefreshToken != "" && now.Before(s.RefreshExpiresAt)
}

// sessionStore persists the session as a JSON file readable only by the user
type sessionStore struct {
	path string
}

func newSessionStore(dir string) *sessionStore {
	return &sessionStore{path: filepath.Join(dir, "session.json")}
}

func defaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".taskboard"
	}
	return filepath.Join(dir, "taskboard")
}

func (s *sessionStore) Load() (*savedSession, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errNotSignedIn
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var sess savedSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", s.path, err)
	}
	if sess.AccessToken == "" {
		return nil, errNotSignedIn
	}
	return &sess, nil
}

func (s *sessionStore) Save(sess *savedSession) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *sessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
