// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package guard implements pre-navigation checks evaluated by the router
// before a navigation commits. A guard is a pure function of the session
// state: it either allows the navigation or cancels it in favor of a
// redirect. A denial is reported via notification, never as an error.
package guard

import (
	"fmt"
	"log/slog"

	"github.com/olegiv/pman-go/internal/notify"
	"github.com/olegiv/pman-go/internal/session"
)

// Decision is the outcome of a guard check.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Allow lets the navigation proceed.
func Allow() Decision {
	return Decision{Allowed: true}
}

// RedirectTo cancels the navigation in favor of the given route.
func RedirectTo(route string) Decision {
	return Decision{RedirectTo: route}
}

// Func is a guard. The target is the destination the user attempted to
// reach, already formatted for display.
type Func func(target string) Decision

// RequireAuth gates a route on an active login. Unauthenticated users get a
// warning and are sent to the login route.
func RequireAuth(sessions *session.Store, center *notify.Center, loginRoute string) Func {
	return func(target string) Decision {
		if sessions.IsLoggedIn() {
			return Allow()
		}
		center.ShowWarning("Please log in")
		slog.Debug("auth guard blocked navigation", "target", target, "redirect", loginRoute)
		return RedirectTo(loginRoute)
	}
}

// RequireAdmin gates a route on the ADMIN role. Non-admins get a warning
// naming the attempted destination and land on the list route, which always
// has somewhere to go, rather than a guard-less dead end.
func RequireAdmin(sessions *session.Store, center *notify.Center, listRoute string) Func {
	return func(target string) Decision {
		if sessions.IsAdmin() {
			return Allow()
		}
		center.ShowWarning(fmt.Sprintf("Redirected from %s because you are not an %q", target, "Admin"))
		slog.Debug("admin guard blocked navigation", "target", target, "redirect", listRoute)
		return RedirectTo(listRoute)
	}
}
