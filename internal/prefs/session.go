package prefs

import (
	"errors"
	"fmt"
	"os"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultSessionPath = "~/.config/stayer/session.toml"

// Session is the persisted login state.
type Session struct {
	Token string `toml:"token"`
	Email string `toml:"email"`
}

// TokenStore persists the session token and user email. The file is read once
// when the store is opened; every save or drop rewrites it.
type TokenStore struct {
	mu      sync.Mutex
	path    string
	session Session
}

// DefaultSessionPath returns the default session file path.
func DefaultSessionPath() string {
	return defaultSessionPath
}

// OpenTokenStore loads the session file at path (empty uses the default). A
// missing file yields an empty session.
func OpenTokenStore(path string) (*TokenStore, error) {
	resolved, err := resolvePath(path, defaultSessionPath)
	if err != nil {
		return nil, fmt.Errorf("resolve session path: %w", err)
	}

	store := &TokenStore{path: resolved}
	bytes, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	if err := toml.Unmarshal(bytes, &store.session); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return store, nil
}

// Path returns the resolved session file path.
func (s *TokenStore) Path() string {
	return s.path
}

// Token returns the stored token, or "" when logged out.
func (s *TokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Token
}

// Email returns the stored user email.
func (s *TokenStore) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Email
}

// SaveToken persists token.
func (s *TokenStore) SaveToken(token string) error {
	return s.update(func(sess *Session) { sess.Token = token })
}

// DropToken removes the persisted token.
func (s *TokenStore) DropToken() error {
	return s.update(func(sess *Session) { sess.Token = "" })
}

// SaveEmail persists the user email.
func (s *TokenStore) SaveEmail(email string) error {
	return s.update(func(sess *Session) { sess.Email = email })
}

// DropEmail removes the persisted user email.
func (s *TokenStore) DropEmail() error {
	return s.update(func(sess *Session) { sess.Email = "" })
}

func (s *TokenStore) update(mutate func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.session
	mutate(&next)
	if next == (Session{}) {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove session: %w", err)
		}
		s.session = next
		return nil
	}
	if err := writeTOML(s.path, next, 0o600); err != nil {
		return err
	}
	s.session = next
	return nil
}
