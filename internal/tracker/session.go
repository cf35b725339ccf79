// internal/tracker/session.go
package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"jobmindr/internal/models"
)

// SessionStore keeps the logged-in email in a small JSON file.
type SessionStore struct {
	path string
	now  func() time.Time
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path, now: time.Now}
}

func (s *SessionStore) Save(email string) (*models.Session, error) {
	sess := &models.Session{Email: email, CreatedAt: s.now().UTC()}
	raw, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return nil, fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return nil, fmt.Errorf("write session: %w", err)
	}
	return sess, nil
}

// Load returns nil without error when nobody is logged in. An unreadable
// file counts as logged out.
func (s *SessionStore) Load() (*models.Session, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil || sess.Email == "" {
		return nil, nil
	}
	return &sess, nil
}

func (s *SessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
