// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package person

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/pman-go/internal/notify"
)

// ErrNameTaken is the validation error for a name the backend reports as
// unavailable.
var ErrNameTaken = errors.New("name taken")

// ValidationState tracks a name field through its edit session. The
// pending states let the hosting form show a checking indicator.
type ValidationState int

// Validation states.
const (
	StatePristine ValidationState = iota
	StateDebouncing
	StateChecking
	StateAvailable
	StateTaken
	StateErrorSuppressed
)

// String returns the state name for logs.
func (s ValidationState) String() string {
	switch s {
	case StatePristine:
		return "pristine"
	case StateDebouncing:
		return "debouncing"
	case StateChecking:
		return "checking"
	case StateAvailable:
		return "available"
	case StateTaken:
		return "taken"
	case StateErrorSuppressed:
		return "error-suppressed"
	default:
		return "unknown"
	}
}

// AvailabilityFunc is the probe the validator debounces.
// (*Client).IsNameAvailable satisfies it.
type AvailabilityFunc func(ctx context.Context, name string) (bool, error)

// NameValidator debounces edits to the name field and checks availability
// for the settled value only. Each edit bumps a generation counter and
// replaces the single debounce timer; a completion is applied only while
// its generation is still current, so a stale in-flight response can never
// overwrite the result of a later value.
//
// A transport failure is deliberately not a validation error: the form must
// remain submittable, so the failure is downgraded to a warning toast.
type NameValidator struct {
	mu       sync.Mutex
	check    AvailabilityFunc
	center   *notify.Center
	window   time.Duration
	gen      uint64
	state    ValidationState
	timer    *time.Timer
	onSettle func(ValidationState)
}

// NewNameValidator creates a validator with the given debounce window.
func NewNameValidator(check AvailabilityFunc, center *notify.Center, window time.Duration) *NameValidator {
	return &NameValidator{
		check:  check,
		center: center,
		window: window,
		state:  StatePristine,
	}
}

// OnSettle registers a callback invoked whenever a check settles (or is
// reset to pristine). Used by the form to repaint and by tests to
// synchronize.
func (v *NameValidator) OnSettle(fn func(ValidationState)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onSettle = fn
}

// Changed records a new value for the field. Callers only invoke this once
// the user actually edits, so the pristine phase needs no special casing
// here. An empty value resets to pristine without a check; required-ness is
// another validator's business.
func (v *NameValidator) Changed(value string) {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}

	if value == "" {
		v.state = StatePristine
		fn := v.onSettle
		v.mu.Unlock()
		if fn != nil {
			fn(StatePristine)
		}
		return
	}

	v.state = StateDebouncing
	v.timer = time.AfterFunc(v.window, func() { v.run(gen, value) })
	v.mu.Unlock()
}

// State returns the current validation state.
func (v *NameValidator) State() ValidationState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Pending reports whether a check is scheduled or in flight.
func (v *NameValidator) Pending() bool {
	st := v.State()
	return st == StateDebouncing || st == StateChecking
}

// Err returns ErrNameTaken when the settled result is "taken", nil
// otherwise. A suppressed transport failure is nil: absence of a clean
// signal must not block the user.
func (v *NameValidator) Err() error {
	if v.State() == StateTaken {
		return ErrNameTaken
	}
	return nil
}

// run performs the availability check for one debounced value.
func (v *NameValidator) run(gen uint64, value string) {
	v.mu.Lock()
	if gen != v.gen {
		v.mu.Unlock()
		return
	}
	v.state = StateChecking
	v.mu.Unlock()

	slog.Debug("checking name availability", "name", value)
	available, err := v.check(context.Background(), value)

	v.mu.Lock()
	if gen != v.gen {
		// Superseded while in flight; the newer value owns the result slot.
		v.mu.Unlock()
		slog.Debug("discarding stale availability result", "name", value)
		return
	}
	switch {
	case err != nil:
		v.state = StateErrorSuppressed
	case available:
		v.state = StateAvailable
	default:
		v.state = StateTaken
	}
	st := v.state
	fn := v.onSettle
	v.mu.Unlock()

	if st == StateErrorSuppressed {
		slog.Debug("availability check failed, suppressed from validity", "name", value, "error", err)
		if v.center != nil {
			v.center.ShowWarning("Server-side name check did not work. Proceed at your own risk.")
		}
	}
	if fn != nil {
		fn(st)
	}
}
