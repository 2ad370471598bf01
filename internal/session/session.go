// Package session owns the portal's authentication state: the signed-in
// user and their bearer credential, mirrored into durable storage so they
// survive restarts.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/nsda/portal/internal/config"
	"github.com/nsda/portal/internal/model"
	"github.com/nsda/portal/internal/storage"
	"github.com/rs/zerolog"
)

// ErrInvalidSession is returned by Login when the user or credential is
// missing.
var ErrInvalidSession = errors.New("session requires both a user and a credential")

// Listener is notified with the new session after every mutation.
type Listener func(model.Session)

// Store is the single owner of the session. Views read it; only Login and
// Logout mutate it.
type Store struct {
	kv  storage.KV
	log zerolog.Logger

	mu         sync.RWMutex
	user       *model.User
	credential string

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int
}

// NewStore creates an empty (anonymous) store backed by kv. Call Restore
// once at startup to load a persisted session.
func NewStore(kv storage.KV, log zerolog.Logger) *Store {
	return &Store{
		kv:        kv,
		log:       log.With().Str("component", "session").Logger(),
		listeners: make(map[int]Listener),
	}
}

// Restore loads the persisted session. A malformed or half-written entry
// leaves the session anonymous instead of failing; a storage read error is
// returned but also leaves the session anonymous.
func (s *Store) Restore(ctx context.Context) error {
	rawUser, hasUser, err := s.kv.Get(ctx, config.StorageKey.SessionUser)
	if err != nil {
		s.reset()
		return fmt.Errorf("read stored user: %w", err)
	}
	token, hasToken, err := s.kv.Get(ctx, config.StorageKey.SessionToken)
	if err != nil {
		s.reset()
		return fmt.Errorf("read stored credential: %w", err)
	}

	if !hasUser || !hasToken || token == "" {
		s.reset()
		return nil
	}

	var user model.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		s.log.Warn().Err(err).Msg("Stored user is malformed, starting anonymous")
		s.reset()
		return nil
	}

	s.mu.Lock()
	s.user = &user
	s.credential = token
	s.mu.Unlock()

	s.log.Debug().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("Session restored")
	s.notify()
	return nil
}

// Login stores user and credential durably and in memory.
func (s *Store) Login(ctx context.Context, user *model.User, credential string) error {
	if user == nil || credential == "" {
		return ErrInvalidSession
	}

	u := *user
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := s.kv.Set(ctx, config.StorageKey.SessionUser, string(raw)); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	if err := s.kv.Set(ctx, config.StorageKey.SessionToken, credential); err != nil {
		// Never leave a user without its credential on disk.
		_ = s.kv.Delete(ctx, config.StorageKey.SessionUser)
		return fmt.Errorf("persist credential: %w", err)
	}

	s.mu.Lock()
	s.user = &u
	s.credential = credential
	s.mu.Unlock()

	s.log.Info().Str("user_id", u.ID).Str("role", u.Role.String()).Msg("Signed in")
	s.notify()
	return nil
}

// Logout clears the session from memory and durable storage. It is
// idempotent. Memory is cleared even if storage fails.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	wasAuthenticated := s.credential != ""
	s.user = nil
	s.credential = ""
	s.mu.Unlock()

	errUser := s.kv.Delete(ctx, config.StorageKey.SessionUser)
	errToken := s.kv.Delete(ctx, config.StorageKey.SessionToken)

	if wasAuthenticated {
		s.log.Info().Msg("Signed out")
		s.notify()
	}

	if err := errors.Join(errUser, errToken); err != nil {
		return fmt.Errorf("clear stored session: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a credential is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential != ""
}

// Credential returns the bearer credential, or "" when anonymous.
func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for session changes and returns a function that
// removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			delete(s.listeners, id)
			s.listenersMu.Unlock()
		})
	}
}

func (s *Store) snapshotLocked() model.Session {
	if s.user == nil {
		return model.Session{}
	}
	u := *s.user
	return model.Session{User: &u, Credential: s.credential}
}

func (s *Store) reset() {
	s.mu.Lock()
	s.user = nil
	s.credential = ""
	s.mu.Unlock()
}

// notify calls listeners outside the state lock so they may read the store.
func (s *Store) notify() {
	snap := s.Snapshot()

	s.listenersMu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
