package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/idilsaglam/todo-remote/internal/model"
)

const credFileName = "credentials.json"

// EnvToken overrides the stored credential when set (useful in CI and
// scripts). A session restored from the env has no user identity.
const EnvToken = "TODO_TOKEN"

const subBuffer = 8

// credentials is the on-disk shape. The user is kept as raw JSON so a
// corrupted user entry does not take the token down with it.
type credentials struct {
	Token     string          `json:"token"`
	User      json.RawMessage `json:"user,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Store owns the process-wide session state. The only writers are SetAuth
// and Logout; everything else observes via Get or Subscribe. Persistence
// and the in-memory update happen in the same locked step, so no observer
// sees state that disagrees with the credentials file.
type Store struct {
	mu   sync.RWMutex
	cur  model.Session
	subs map[chan model.Session]struct{}
	dir  string
}

// Open reads the credentials file once and returns a ready store. A missing
// file means logged out. Malformed user JSON is treated as absent while the
// token is still recovered.
func Open(dir string) (*Store, error) {
	s := &Store{
		subs: make(map[chan model.Session]struct{}),
		dir:  dir,
	}

	if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" {
		s.cur = model.Session{Token: stripBearer(env)}
		return s, nil
	}

	b, err := os.ReadFile(filepath.Join(dir, credFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil // not logged in
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var c credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	token := stripBearer(strings.TrimSpace(c.Token))
	if token == "" {
		return s, nil
	}
	var user *model.User
	if len(c.User) > 0 {
		var u model.User
		if err := json.Unmarshal(c.User, &u); err == nil {
			user = &u
		}
	}
	s.cur = model.Session{Token: token, User: user}
	return s, nil
}

// Get returns the current in-memory session. Never fails.
func (s *Store) Get() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// SetAuth persists and applies a new session. An empty token clears both
// the file and the in-memory state, keeping the no-partial-session
// invariant: a user without a token is never stored.
func (s *Store) SetAuth(token string, user *model.User) error {
	token = stripBearer(strings.TrimSpace(token))

	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" {
		if err := s.removeLocked(); err != nil {
			return err
		}
		s.cur = model.Session{}
		s.notifyLocked()
		return nil
	}

	if err := s.writeLocked(token, user); err != nil {
		return err
	}
	s.cur = model.Session{Token: token, User: user}
	s.notifyLocked()
	return nil
}

// Logout clears the session. Navigation back to the login screen is the
// caller's job; the store only owns state.
func (s *Store) Logout() error {
	return s.SetAuth("", nil)
}

// Subscribe returns a channel that receives the session after every
// mutation. The subscription ends when ctx is done. Slow receivers drop
// events rather than block a mutation.
func (s *Store) Subscribe(ctx context.Context) <-chan model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := make(chan model.Session, subBuffer)
	s.subs[sub] = struct{}{}

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, sub)
		close(sub)
	}()

	return sub
}

func (s *Store) notifyLocked() {
	for sub := range s.subs {
		select {
		case sub <- s.cur:
		default:
		}
	}
}

func (s *Store) writeLocked(token string, user *model.User) error {
	// ensure the dotdir exists with 0700
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	c := credentials{
		Token:     token,
		CreatedAt: time.Now(),
	}
	if user != nil {
		raw, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}
		c.User = raw
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	// write with 0600 (owner-only)
	if err := os.WriteFile(filepath.Join(s.dir, credFileName), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (s *Store) removeLocked() error {
	if err := os.Remove(filepath.Join(s.dir, credFileName)); err != nil {
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
