// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package person

import (
	"fmt"
	"net/http"

	"github.com/olegiv/pman-go/internal/notify"
)

// Interceptor is an http.RoundTripper that watches every exchange with the
// collection resource and turns outcomes into notifications: successful
// mutations get a success toast, a 401 forces a logout, 400/403 become
// warnings, and any other failure becomes a generic error. Nothing is ever
// retried; a failed attempt ends here.
type Interceptor struct {
	// Next is the underlying transport; nil means http.DefaultTransport.
	Next http.RoundTripper
	// Center receives the notifications; nil disables them.
	Center *notify.Center
	// ForceLogout is invoked on a 401 so the session store can end the
	// session without this package depending on it.
	ForceLogout func()
}

// RoundTrip implements http.RoundTripper.
func (i *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	next := i.Next
	if next == nil {
		next = http.DefaultTransport
	}

	resp, err := next.RoundTrip(req)
	if err != nil {
		i.showError(fmt.Sprintf("An error occurred. %v", err))
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if i.ForceLogout != nil {
			i.ForceLogout()
		}
		i.showError("You are not / no longer authenticated.")
	case resp.StatusCode == http.StatusBadRequest:
		i.showWarning("The server could not make sense of the request we made")
	case resp.StatusCode == http.StatusForbidden:
		i.showWarning("The server said you are not authorized to do this.")
	case resp.StatusCode >= 400:
		i.showError(fmt.Sprintf("An error occurred. The server returned status %d.", resp.StatusCode))
	case req.Method != http.MethodGet:
		if i.Center != nil {
			i.Center.ShowSuccess("That worked!")
		}
	}

	return resp, nil
}

func (i *Interceptor) showWarning(text string) {
	if i.Center != nil {
		i.Center.ShowWarning(text)
	}
}

func (i *Interceptor) showError(text string) {
	if i.Center != nil {
		i.Center.ShowError(text)
	}
}
