// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session implements the client-held login session: an identity
// plus an absolute expiry, persisted to disk so it survives restarts, with
// a single auto-logout timer.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/olegiv/pman-go/internal/auth"
	"github.com/olegiv/pman-go/internal/model"
	"github.com/olegiv/pman-go/internal/notify"
)

// SharedSecret is the fixed demo password accepted for any username. This is
// not a production-ready scheme: the collection resource is a bare
// json-server stand-in with no auth endpoint, so the client authenticates
// locally, the way the app it replaces did.
const SharedSecret = "testtest"

// AdminUsername is the one username that receives the ADMIN role.
// Matched exactly, case-sensitive.
const AdminUsername = "admin"

// Config configures a session store.
type Config struct {
	// Path is the durable storage location for the session record.
	Path string
	// Lifetime is how long a fresh login stays valid.
	Lifetime time.Duration
	// Center receives the warning shown when a session expires. Optional.
	Center *notify.Center
	// Now is the clock used for expiry decisions. Defaults to time.Now;
	// tests inject a fixed clock.
	Now func() time.Time
}

// Store owns the current session. There is at most one active session and
// at most one outstanding expiry timer at any time; starting or restoring a
// session replaces any prior timer.
type Store struct {
	mu         sync.Mutex
	current    *model.Session
	timer      *time.Timer
	path       string
	lifetime   time.Duration
	secretHash string
	center     *notify.Center
	now        func() time.Time
}

// NewStore creates a session store. The shared secret is hashed once up
// front so every login verifies against argon2id rather than comparing
// plaintext.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("session path is required")
	}
	if cfg.Lifetime <= 0 {
		return nil, fmt.Errorf("session lifetime must be positive, got %s", cfg.Lifetime)
	}

	hash, err := auth.HashSecret(SharedSecret)
	if err != nil {
		return nil, fmt.Errorf("hashing shared secret: %w", err)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Store{
		path:       cfg.Path,
		lifetime:   cfg.Lifetime,
		secretHash: hash,
		center:     cfg.Center,
		now:        now,
	}, nil
}

// Login validates the credentials and starts a new session. Any username is
// accepted; the role is ADMIN for the exact username "admin" and READER for
// everyone else. A wrong password returns false and leaves any existing
// session untouched.
func (s *Store) Login(username, password string) bool {
	ok, err := auth.VerifySecret(password, s.secretHash)
	if err != nil || !ok {
		slog.Debug("login rejected", "username", username)
		return false
	}

	role := model.RoleReader
	if username == AdminUsername {
		role = model.RoleAdmin
	}
	sess := model.Session{
		User:      model.User{Name: username, Role: role},
		ExpiresAt: s.now().Add(s.lifetime),
	}

	s.mu.Lock()
	s.current = &sess
	s.armTimerLocked(s.lifetime, &sess)
	if err := s.persistLocked(); err != nil {
		slog.Error("persisting session", "error", err, "path", s.path)
	}
	s.mu.Unlock()

	slog.Info("user logged in", "username", username, "role", role, "expires_at", sess.ExpiresAt)
	return true
}

// Logout ends the current session: memory and persisted state are cleared
// and the expiry timer is cancelled. Idempotent.
func (s *Store) Logout() {
	s.mu.Lock()
	had := s.current != nil
	s.clearLocked()
	s.mu.Unlock()

	if had {
		slog.Info("user logged out")
	}
}

// IsLoggedIn reports whether a valid session is active. A session past its
// expiry reads as logged out even before the timer has fired.
func (s *Store) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil && !s.current.Expired(s.now())
}

// IsAdmin reports whether the active session belongs to an admin.
func (s *Store) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil && !s.current.Expired(s.now()) && s.current.User.IsAdmin()
}

// Current returns the active session. The second return is false when
// logged out (including an expired-but-not-yet-fired session).
func (s *Store) Current() (model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.Expired(s.now()) {
		return model.Session{}, false
	}
	return *s.current, true
}

// Restore loads a persisted session at process start. A record whose expiry
// is in the future is restored and the timer re-armed for the remaining
// duration; a stale record or an unreadable file is purged.
func (s *Store) Restore() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading session file: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		slog.Warn("purging unreadable session file", "error", err, "path", s.path)
		s.removeFile()
		return nil
	}

	remaining := sess.ExpiresAt.Sub(s.now())
	if remaining <= 0 {
		slog.Info("persisted session already expired, purging", "expired_at", sess.ExpiresAt)
		s.removeFile()
		return nil
	}

	s.mu.Lock()
	s.current = &sess
	s.armTimerLocked(remaining, &sess)
	s.mu.Unlock()

	slog.Info("session restored", "username", sess.User.Name, "remaining", remaining)
	return nil
}

// armTimerLocked replaces the expiry timer. The timer captures the session
// it was armed for so a late firing cannot clear a newer session.
func (s *Store) armTimerLocked(d time.Duration, sess *model.Session) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(d, func() { s.expire(sess) })
}

// expire fires when the session lifetime elapses. Same effect as Logout,
// with its own log line and a warning so the user learns why they were
// thrown out.
func (s *Store) expire(sess *model.Session) {
	s.mu.Lock()
	if s.current != sess {
		// A newer session owns the timer slot now.
		s.mu.Unlock()
		return
	}
	s.clearLocked()
	s.mu.Unlock()

	slog.Info("session expired, auto logout", "username", sess.User.Name)
	if s.center != nil {
		s.center.ShowWarning("Your session expired. Please log in again.")
	}
}

func (s *Store) clearLocked() {
	s.current = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.removeFile()
}

func (s *Store) persistLocked() error {
	data, err := json.Marshal(s.current)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

func (s *Store) removeFile() {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("removing session file", "error", err, "path", s.path)
	}
}
