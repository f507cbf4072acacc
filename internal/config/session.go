package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Session is the persisted user record.
type Session struct {
	Tabs   []string `json:"tabs"`
	Cookie string   `json:"cookie"`
}

func DefaultSession() Session {
	return Session{Tabs: []string{}}
}

type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load never fails hard: a missing file gives the default session with a nil
// error, an unreadable or invalid one gives the default session and the
// reason it was ignored.
func (s *Store) Load() (Session, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultSession(), nil
	}
	if err != nil {
		return DefaultSession(), fmt.Errorf("read session config %s: %w", s.path, err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return DefaultSession(), nil
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return DefaultSession(), fmt.Errorf("parse session config %s: %w", s.path, err)
	}
	if session.Tabs == nil {
		session.Tabs = []string{}
	}
	return session, nil
}

// Save replaces the file through a temp file in the same directory.
func (s *Store) Save(session Session) error {
	if session.Tabs == nil {
		session.Tabs = []string{}
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session config: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return fmt.Errorf("create temp session config: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write session config: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod session config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session config: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace session config: %w", err)
	}
	return nil
}

// Update loads the current session, applies the non-nil changes and saves it
// right away. A load diagnostic does not block the update.
func (s *Store) Update(cookie *string, tabs []string) (Session, error) {
	session, _ := s.Load()
	if cookie != nil {
		session.Cookie = *cookie
	}
	if tabs != nil {
		session.Tabs = normalizeTabs(tabs)
	}
	if err := s.Save(session); err != nil {
		return session, err
	}
	return session, nil
}

func normalizeTabs(tabs []string) []string {
	out := make([]string, 0, len(tabs))
	seen := make(map[string]struct{}, len(tabs))
	for _, tab := range tabs {
		tab = strings.Trim(strings.TrimSpace(tab), "/")
		if tab == "" {
			continue
		}
		if _, ok := seen[tab]; ok {
			continue
		}
		seen[tab] = struct{}{}
		out = append(out, tab)
	}
	return out
}

// MaskedCookie hides all but the last four characters of the cookie.
func (s Session) MaskedCookie() string {
	if s.Cookie == "" {
		return "(none)"
	}
	if len(s.Cookie) <= 4 {
		return strings.Repeat("*", len(s.Cookie))
	}
	return strings.Repeat("*", 8) + s.Cookie[len(s.Cookie)-4:]
}
