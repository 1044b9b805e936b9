// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types shared by the pman client and the
// pmand backend: Person, User, Session, Notification, and pagination state.
package model

import "strings"

// Person is a single person record. The ID is an opaque identifier assigned
// by the collection resource; it is empty for a record that has not been
// created yet.
type Person struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// Validation bounds for person records. Names containing "universe" (any
// case) must carry the answer as their age.
const (
	MaxPersonAge = 120
	UniverseAge  = 42
)

// ValidatePerson checks the person form rules: name required, age within
// [0, MaxPersonAge], and the universe cross-field rule. Returns field errors
// keyed by field name, nil when valid. The cross-field rule is skipped while
// the name is empty; required-ness already covers that case.
func ValidatePerson(name string, age int) map[string]string {
	fieldErrors := map[string]string{}
	if name == "" {
		fieldErrors["name"] = "Name is required"
	}
	switch {
	case age < 0:
		fieldErrors["age"] = "Age must not be negative"
	case age > MaxPersonAge:
		fieldErrors["age"] = "Age must not exceed 120"
	case name != "" && strings.Contains(strings.ToLower(name), "universe") && age != UniverseAge:
		fieldErrors["age"] = "A person named after the universe must be 42"
	}
	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}
