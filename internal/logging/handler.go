// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a custom slog handler that integrates with the
// notification center. Logs at WARN level and above surface to the user as
// toast notifications in addition to the regular log output.
package logging

import (
	"context"
	"log/slog"

	"github.com/olegiv/pman-go/internal/notify"
)

// NotifyHandler is a slog.Handler that wraps another handler and also raises
// WARN and ERROR level records as user-visible notifications.
type NotifyHandler struct {
	inner  slog.Handler
	center *notify.Center
	level  slog.Level // Minimum level to surface as a notification
}

// NewNotifyHandler creates a NotifyHandler that wraps the given handler.
// Records at WARN level and above go to both the wrapped handler and the
// notification center.
func NewNotifyHandler(inner slog.Handler, center *notify.Center) *NotifyHandler {
	return &NotifyHandler{
		inner:  inner,
		center: center,
		level:  slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *NotifyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *NotifyHandler) Handle(ctx context.Context, r slog.Record) error {
	// Always forward to the inner handler first
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.raise(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *NotifyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &NotifyHandler{
		inner:  h.inner.WithAttrs(attrs),
		center: h.center,
		level:  h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *NotifyHandler) WithGroup(name string) slog.Handler {
	return &NotifyHandler{
		inner:  h.inner.WithGroup(name),
		center: h.center,
		level:  h.level,
	}
}

// raise turns a log record into a toast.
func (h *NotifyHandler) raise(r slog.Record) {
	if r.Level >= slog.LevelError {
		h.center.ShowError(r.Message)
		return
	}
	h.center.ShowWarning(r.Message)
}
