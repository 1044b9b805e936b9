// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package person

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/olegiv/pman-go/internal/model"
	"github.com/olegiv/pman-go/internal/notify"
)

func interceptedClient(t *testing.T, status int, forceLogout func()) (*http.Client, *notify.Center, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		if status < 300 {
			_, _ = w.Write([]byte(`{"id":"1","name":"x","age":1}`))
		}
	}))
	t.Cleanup(srv.Close)

	// Keep success toasts alive long enough to assert on.
	center := notify.NewCenter(notify.WithSuccessTTL(time.Minute))
	httpClient := &http.Client{Transport: &Interceptor{
		Center:      center,
		ForceLogout: forceLogout,
	}}
	return httpClient, center, srv
}

func TestInterceptor_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		method   string
		wantKind model.NotificationKind
		wantNone bool
	}{
		{"successful GET is silent", http.StatusOK, http.MethodGet, "", true},
		{"successful POST toasts", http.StatusCreated, http.MethodPost, model.KindSuccess, false},
		{"400 warns", http.StatusBadRequest, http.MethodGet, model.KindWarning, false},
		{"403 warns", http.StatusForbidden, http.MethodGet, model.KindWarning, false},
		{"401 errors", http.StatusUnauthorized, http.MethodGet, model.KindError, false},
		{"500 errors", http.StatusInternalServerError, http.MethodGet, model.KindError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpClient, center, srv := interceptedClient(t, tt.status, nil)

			req, err := http.NewRequest(tt.method, srv.URL, nil)
			if err != nil {
				t.Fatalf("building request: %v", err)
			}
			resp, err := httpClient.Do(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			_ = resp.Body.Close()

			msgs := center.Messages()
			if tt.wantNone {
				if len(msgs) != 0 {
					t.Errorf("got %d notifications, want none", len(msgs))
				}
				return
			}
			if len(msgs) != 1 {
				t.Fatalf("got %d notifications, want 1", len(msgs))
			}
			if msgs[0].Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", msgs[0].Kind, tt.wantKind)
			}
		})
	}
}

func TestInterceptor_401ForcesLogout(t *testing.T) {
	loggedOut := false
	httpClient, _, srv := interceptedClient(t, http.StatusUnauthorized, func() { loggedOut = true })

	resp, err := httpClient.Get(srv.URL)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	_ = resp.Body.Close()

	if !loggedOut {
		t.Error("401 did not force a logout")
	}
}

func TestInterceptor_NilCenterStaysQuiet(t *testing.T) {
	loggedOut := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	httpClient := &http.Client{Transport: &Interceptor{
		ForceLogout: func() { loggedOut = true },
	}}

	resp, err := httpClient.Get(srv.URL)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	_ = resp.Body.Close()

	if !loggedOut {
		t.Error("401 with no center did not force a logout")
	}
}

func TestInterceptor_TransportErrorNotifies(t *testing.T) {
	center := notify.NewCenter()
	httpClient := &http.Client{Transport: &Interceptor{Center: center}}

	// Closed server: the round-trip itself fails.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	if _, err := httpClient.Get(url); err == nil {
		t.Fatal("expected a transport error")
	}
	msgs := center.Messages()
	if len(msgs) != 1 || msgs[0].Kind != model.KindError {
		t.Errorf("notifications = %+v, want exactly one error", msgs)
	}
}
