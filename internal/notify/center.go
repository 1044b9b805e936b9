// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package notify holds the queue of ephemeral user-facing messages that the
// client renders as toasts.
package notify

import (
	"sync"
	"time"

	"github.com/olegiv/pman-go/internal/model"
)

// DefaultSuccessTTL is how long a success message stays visible before it
// removes itself. Warnings and errors persist until explicit dismissal.
const DefaultSuccessTTL = 5 * time.Second

// Center collects notifications from all producers and hands out snapshots
// to the renderer. Safe for concurrent use; the success auto-removal timers
// fire on their own goroutines.
type Center struct {
	mu         sync.Mutex
	nextID     int64
	messages   []model.Notification
	successTTL time.Duration
	onChange   func()
}

// Option configures a Center.
type Option func(*Center)

// WithSuccessTTL overrides the success auto-removal delay.
func WithSuccessTTL(d time.Duration) Option {
	return func(c *Center) { c.successTTL = d }
}

// WithOnChange registers a callback invoked after every mutation, without
// the internal lock held. The renderer uses it to repaint.
func WithOnChange(fn func()) Option {
	return func(c *Center) { c.onChange = fn }
}

// NewCenter creates a notification center.
func NewCenter(opts ...Option) *Center {
	c := &Center{successTTL: DefaultSuccessTTL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ShowSuccess appends a success message. It removes itself after the TTL.
func (c *Center) ShowSuccess(text string) model.Notification {
	n := c.add(text, model.KindSuccess)
	time.AfterFunc(c.successTTL, func() { c.Remove(n.ID) })
	return n
}

// ShowWarning appends a warning message.
func (c *Center) ShowWarning(text string) model.Notification {
	return c.add(text, model.KindWarning)
}

// ShowError appends an error message.
func (c *Center) ShowError(text string) model.Notification {
	return c.add(text, model.KindError)
}

// Remove deletes a notification by id. Removing an id that is already gone
// is a no-op, so a manual dismissal can race the auto-removal timer safely.
func (c *Center) Remove(id int64) {
	c.mu.Lock()
	found := false
	kept := make([]model.Notification, 0, len(c.messages))
	for _, m := range c.messages {
		if m.ID == id {
			found = true
			continue
		}
		kept = append(kept, m)
	}
	c.messages = kept
	cb := c.onChange
	c.mu.Unlock()

	if found && cb != nil {
		cb()
	}
}

// Messages returns a snapshot of the current notifications in insertion
// order.
func (c *Center) Messages() []model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Notification, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Center) add(text string, kind model.NotificationKind) model.Notification {
	c.mu.Lock()
	c.nextID++
	n := model.Notification{ID: c.nextID, Text: text, Kind: kind}
	c.messages = append(c.messages, n)
	cb := c.onChange
	c.mu.Unlock()

	if cb != nil {
		cb()
	}
	return n
}
