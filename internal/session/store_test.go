// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/olegiv/pman-go/internal/model"
	"github.com/olegiv/pman-go/internal/notify"
)

func newTestStore(t *testing.T, lifetime time.Duration, center *notify.Center) *Store {
	t.Helper()
	s, err := NewStore(Config{
		Path:     filepath.Join(t.TempDir(), "session.json"),
		Lifetime: lifetime,
		Center:   center,
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(s.Logout)
	return s
}

func TestLogin_RoleAssignment(t *testing.T) {
	tests := []struct {
		username string
		wantRole string
	}{
		{"admin", model.RoleAdmin},
		{"alice", model.RoleReader},
		{"Admin", model.RoleReader}, // exact, case-sensitive match only
		{"administrator", model.RoleReader},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			s := newTestStore(t, time.Hour, nil)

			if !s.Login(tt.username, SharedSecret) {
				t.Fatal("Login returned false for the correct password")
			}
			sess, ok := s.Current()
			if !ok {
				t.Fatal("no current session after login")
			}
			if sess.User.Role != tt.wantRole {
				t.Errorf("role = %q, want %q", sess.User.Role, tt.wantRole)
			}
			if got, want := s.IsAdmin(), tt.wantRole == model.RoleAdmin; got != want {
				t.Errorf("IsAdmin() = %v, want %v", got, want)
			}
		})
	}
}

func TestLogin_WrongPasswordKeepsExistingSession(t *testing.T) {
	s := newTestStore(t, time.Hour, nil)

	if !s.Login("alice", SharedSecret) {
		t.Fatal("initial login failed")
	}
	if s.Login("bob", "wrong") {
		t.Fatal("Login accepted a wrong password")
	}

	sess, ok := s.Current()
	if !ok {
		t.Fatal("existing session was dropped by a failed login")
	}
	if sess.User.Name != "alice" {
		t.Errorf("current user = %q, want alice", sess.User.Name)
	}
}

func TestLogout_Idempotent(t *testing.T) {
	s := newTestStore(t, time.Hour, nil)

	s.Login("alice", SharedSecret)
	s.Logout()
	s.Logout() // must be safe

	if s.IsLoggedIn() {
		t.Error("still logged in after logout")
	}
	if _, err := os.Stat(s.path); !os.IsNotExist(err) {
		t.Errorf("session file still present after logout: %v", err)
	}
}

func TestLogin_PersistsAndRestores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	first, err := NewStore(Config{Path: path, Lifetime: time.Hour})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	first.Login("admin", SharedSecret)
	// Drop the store without logging out, simulating a process exit.

	second, err := NewStore(Config{Path: path, Lifetime: time.Hour})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(second.Logout)
	if err := second.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if !second.IsLoggedIn() {
		t.Fatal("session not restored from disk")
	}
	if !second.IsAdmin() {
		t.Error("restored session lost the ADMIN role")
	}
}

func TestRestore_PurgesExpiredSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	stale := model.Session{
		User:      model.User{Name: "alice", Role: model.RoleReader},
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	data, err := json.Marshal(stale)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("writing stale session: %v", err)
	}

	s, err := NewStore(Config{Path: path, Lifetime: time.Hour})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if s.IsLoggedIn() {
		t.Error("expired session was restored")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("stale session file was not purged")
	}
}

func TestRestore_PurgesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("writing corrupt session: %v", err)
	}

	s, err := NewStore(Config{Path: path, Lifetime: time.Hour})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if s.IsLoggedIn() {
		t.Error("corrupt session file produced a login")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt session file was not purged")
	}
}

func TestExpiry_AutoLogoutWithWarning(t *testing.T) {
	center := notify.NewCenter()
	s := newTestStore(t, 20*time.Millisecond, center)

	s.Login("alice", SharedSecret)

	deadline := time.Now().Add(2 * time.Second)
	for s.IsLoggedIn() {
		if time.Now().After(deadline) {
			t.Fatal("session never expired")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// The warning may lag the state change by a timer tick.
	for time.Now().Before(deadline) {
		for _, m := range center.Messages() {
			if m.Kind == model.KindWarning {
				return
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("no expiry warning was shown")
}

func TestExpiredSessionReadsAsLoggedOut(t *testing.T) {
	// Freeze the clock after login so the timer has not fired but the
	// expiry is already in the past from the readers' point of view.
	base := time.Now()
	current := base
	s, err := NewStore(Config{
		Path:     filepath.Join(t.TempDir(), "session.json"),
		Lifetime: time.Hour,
		Now:      func() time.Time { return current },
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(s.Logout)

	s.Login("admin", SharedSecret)
	if !s.IsLoggedIn() {
		t.Fatal("not logged in right after login")
	}

	current = base.Add(2 * time.Hour)
	if s.IsLoggedIn() {
		t.Error("IsLoggedIn() = true for an expired session")
	}
	if s.IsAdmin() {
		t.Error("IsAdmin() = true for an expired session")
	}
	if _, ok := s.Current(); ok {
		t.Error("Current() returned an expired session")
	}
}

func TestLogin_ReplacesExpiryTimer(t *testing.T) {
	center := notify.NewCenter()
	s := newTestStore(t, 40*time.Millisecond, center)

	// Re-login resets the clock; the first timer must not fire against the
	// second session.
	s.Login("alice", SharedSecret)
	time.Sleep(20 * time.Millisecond)
	s.Login("alice", SharedSecret)
	time.Sleep(30 * time.Millisecond)

	if !s.IsLoggedIn() {
		t.Fatal("second session was expired by the first session's timer")
	}
	if got := len(center.Messages()); got != 0 {
		t.Errorf("got %d notifications before any expiry was due", got)
	}
}
