package main

import (
	"bufio"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/olegiv/pman-go/internal/config"
	"github.com/olegiv/pman-go/internal/guard"
	"github.com/olegiv/pman-go/internal/nav"
	"github.com/olegiv/pman-go/internal/notify"
	"github.com/olegiv/pman-go/internal/person"
	"github.com/olegiv/pman-go/internal/session"
)

// testApp wires a minimal app against a counting fake backend.
func testApp(t *testing.T) (*app, *atomic.Int64) {
	t.Helper()

	var deletes atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deletes.Add(1)
			_, _ = w.Write([]byte(`{"id":"42","name":"x","age":1}`))
			return
		}
		_, _ = w.Write([]byte("[]"))
	}))
	t.Cleanup(srv.Close)

	center := notify.NewCenter()
	sessions, err := session.NewStore(session.Config{
		Path:     filepath.Join(t.TempDir(), "session.json"),
		Lifetime: time.Hour,
		Center:   center,
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(sessions.Logout)

	client := person.NewClient(srv.URL+"/persons", srv.Client(), time.Millisecond)

	router := nav.NewRouter()
	requireAuth := guard.RequireAuth(sessions, center, nav.RouteLogin)
	router.Handle(nav.RouteLogin)
	router.Handle(nav.RoutePersons, requireAuth)
	router.Handle(nav.RoutePersonDetail, requireAuth)

	a := &app{
		cfg:      &config.Config{},
		center:   center,
		sessions: sessions,
		client:   client,
		router:   router,
		list:     person.NewListSync(client, router),
		out:      bufio.NewWriter(io.Discard),
	}
	return a, &deletes
}

func TestCmdDeleteIsGuarded(t *testing.T) {
	a, deletes := testApp(t)

	// Logged out: the guard must redirect before any request is issued.
	a.cmdDelete([]string{"42"})

	if got := deletes.Load(); got != 0 {
		t.Errorf("logged-out rm issued %d DELETE requests, want 0", got)
	}
	if got := a.router.State().Route; got != nav.RouteLogin {
		t.Errorf("landed on %q, want the login route", got)
	}

	// Logged in: the delete goes through.
	if !a.sessions.Login("alice", session.SharedSecret) {
		t.Fatal("login failed")
	}
	a.cmdDelete([]string{"42"})

	if got := deletes.Load(); got != 1 {
		t.Errorf("logged-in rm issued %d DELETE requests, want 1", got)
	}
}
