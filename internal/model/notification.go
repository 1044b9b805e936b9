// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// NotificationKind classifies a notification for display purposes.
type NotificationKind string

// Notification kinds.
const (
	KindSuccess NotificationKind = "success"
	KindWarning NotificationKind = "warning"
	KindError   NotificationKind = "error"
)

// Notification is an ephemeral user-facing message. IDs are unique for the
// lifetime of the notification center that issued them and increase in
// insertion order.
type Notification struct {
	ID   int64            `json:"id"`
	Text string           `json:"text"`
	Kind NotificationKind `json:"kind"`
}
