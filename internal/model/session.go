// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// User roles. READER is the role everyone gets unless they log in as the
// admin account.
const (
	RoleAdmin  = "ADMIN"
	RoleReader = "READER"
)

// User is the authenticated identity held by a session.
type User struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// IsAdmin returns true if the user has the ADMIN role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session is the authenticated identity plus its absolute expiry. It is
// persisted verbatim as JSON so a login survives restarts.
type Session struct {
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is no longer valid at the given time.
// An expired session must be treated as absent by every reader.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
