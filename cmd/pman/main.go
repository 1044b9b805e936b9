// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command pman is the interactive console client for person records.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/pman-go/internal/config"
	"github.com/olegiv/pman-go/internal/guard"
	"github.com/olegiv/pman-go/internal/logging"
	"github.com/olegiv/pman-go/internal/model"
	"github.com/olegiv/pman-go/internal/nav"
	"github.com/olegiv/pman-go/internal/notify"
	"github.com/olegiv/pman-go/internal/person"
	"github.com/olegiv/pman-go/internal/session"
	"github.com/olegiv/pman-go/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// app bundles the wired client-side collaborators for the command loop.
type app struct {
	cfg       *config.Config
	center    *notify.Center
	sessions  *session.Store
	client    *person.Client
	router    *nav.Router
	validator *person.NameValidator
	list      *person.ListSync
	out       *bufio.Writer
}

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := &version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	center := notify.NewCenter(notify.WithSuccessTTL(cfg.SuccessTTL))

	// Logs go to stderr so the console stays readable; WARN and above also
	// surface as toasts through the notification handler.
	textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})
	slog.SetDefault(slog.New(logging.NewNotifyHandler(textHandler, center)))

	slog.Info("starting pman", "version", versionInfo, "api", cfg.APIBaseURL)

	sessions, err := session.NewStore(session.Config{
		Path:     cfg.SessionPath,
		Lifetime: cfg.SessionLifetime,
		Center:   center,
	})
	if err != nil {
		return fmt.Errorf("creating session store: %w", err)
	}
	if err := sessions.Restore(); err != nil {
		slog.Warn("restoring session", "error", err)
	}

	router := nav.NewRouter()

	// A 401 from the backend invalidates the local session.
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &person.Interceptor{
			Center: center,
			ForceLogout: func() {
				sessions.Logout()
				router.Navigate(nav.RouteLogin, "", nil)
			},
		},
	}
	client := person.NewClient(cfg.APIBaseURL, httpClient, cfg.CheckLatency)

	requireAuth := guard.RequireAuth(sessions, center, nav.RouteLogin)
	requireAdmin := guard.RequireAdmin(sessions, center, nav.RoutePersons)
	router.Handle(nav.RouteLogin)
	router.Handle(nav.RoutePersons, requireAuth)
	router.Handle(nav.RoutePersonDetail, requireAuth)
	router.Handle(nav.RoutePersonNew, requireAuth, requireAdmin)
	router.Handle(nav.RoutePersonEdit, requireAuth, requireAdmin)

	a := &app{
		cfg:       cfg,
		center:    center,
		sessions:  sessions,
		client:    client,
		router:    router,
		validator: person.NewNameValidator(client.IsNameAvailable, center, cfg.DebounceWindow),
		list:      person.NewListSync(client, router),
		out:       bufio.NewWriter(os.Stdout),
	}

	router.Subscribe(func(st nav.State) {
		fmt.Fprintf(a.out, "-> %s\n", st.URL())
	})

	if sess, ok := sessions.Current(); ok {
		fmt.Fprintf(a.out, "welcome back, %s (%s)\n", sess.User.Name, sess.User.Role)
	}

	return a.loop()
}

// loop reads commands until quit or EOF.
func (a *app) loop() error {
	scanner := bufio.NewScanner(os.Stdin)
	a.printHelp()
	a.prompt()

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			a.prompt()
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			break
		}
		a.dispatch(fields[0], fields[1:])
		a.renderToasts()
		a.prompt()
	}
	fmt.Fprintln(a.out, "bye")
	return a.out.Flush()
}

func (a *app) dispatch(cmd string, args []string) {
	switch cmd {
	case "help":
		a.printHelp()
	case "login":
		a.cmdLogin(args)
	case "logout":
		a.sessions.Logout()
		a.router.Navigate(nav.RouteLogin, "", nil)
	case "whoami":
		a.cmdWhoami()
	case "ls":
		a.router.Navigate(nav.RoutePersons, "", nil)
		a.printList()
	case "next":
		a.list.NextPage()
		a.printList()
	case "prev":
		a.list.PrevPage()
		a.printList()
	case "size":
		a.cmdSize(args)
	case "show":
		a.cmdShow(args)
	case "new":
		a.cmdNew(args)
	case "edit":
		a.cmdEdit(args)
	case "rm":
		a.cmdDelete(args)
	case "check":
		a.cmdCheck(args)
	case "dismiss":
		a.cmdDismiss(args)
	default:
		fmt.Fprintf(a.out, "unknown command %q, try help\n", cmd)
	}
}

func (a *app) cmdLogin(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(a.out, "usage: login <username> <password>")
		return
	}
	if !a.sessions.Login(args[0], args[1]) {
		a.center.ShowError("Login failed. Check your credentials.")
		return
	}
	a.router.Navigate(nav.RoutePersons, "", nil)
	a.printList()
}

func (a *app) cmdWhoami() {
	sess, ok := a.sessions.Current()
	if !ok {
		fmt.Fprintln(a.out, "not logged in")
		return
	}
	fmt.Fprintf(a.out, "%s (%s), session expires %s\n",
		sess.User.Name, sess.User.Role, sess.ExpiresAt.Format(time.RFC3339))
}

func (a *app) cmdSize(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "usage: size <pagesize>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		fmt.Fprintln(a.out, "page size must be a positive number")
		return
	}
	a.list.SetPageSize(n)
	a.printList()
}

func (a *app) cmdShow(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "usage: show <id>")
		return
	}
	a.router.Navigate(nav.RoutePersonDetail, args[0], nil)
	if a.router.State().Route != nav.RoutePersonDetail {
		return // guard redirected
	}
	p, err := a.client.Get(a.ctx(), args[0])
	if err != nil {
		slog.Debug("fetching person", "error", err, "id", args[0])
		return
	}
	a.printPerson(p)
}

func (a *app) cmdNew(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "usage: new <name...> <age>")
		return
	}
	name, age, ok := a.parseNameAge(args)
	if !ok {
		return
	}

	a.router.Navigate(nav.RoutePersonNew, "", nil)
	if a.router.State().Route != nav.RoutePersonNew {
		return // guard redirected
	}
	if !a.nameClears(name) {
		return
	}

	created, err := a.client.Create(a.ctx(), model.Person{Name: name, Age: age})
	if err != nil {
		slog.Debug("creating person", "error", err)
		return
	}
	a.printPerson(created)
	a.router.Navigate(nav.RoutePersons, "", nil)
	a.printList()
}

func (a *app) cmdEdit(args []string) {
	if len(args) < 3 {
		fmt.Fprintln(a.out, "usage: edit <id> <name...> <age>")
		return
	}
	id := args[0]
	name, age, ok := a.parseNameAge(args[1:])
	if !ok {
		return
	}

	a.router.Navigate(nav.RoutePersonEdit, id, nil)
	if a.router.State().Route != nav.RoutePersonEdit {
		return // guard redirected
	}
	if !a.nameClears(name) {
		return
	}

	updated, err := a.client.Update(a.ctx(), model.Person{ID: id, Name: name, Age: age})
	if err != nil {
		slog.Debug("updating person", "error", err, "id", id)
		return
	}
	a.printPerson(updated)
	a.router.Navigate(nav.RoutePersons, "", nil)
	a.printList()
}

func (a *app) cmdDelete(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "usage: rm <id>")
		return
	}
	a.router.Navigate(nav.RoutePersonDetail, args[0], nil)
	if a.router.State().Route != nav.RoutePersonDetail {
		return // guard redirected
	}
	deleted, err := a.client.Delete(a.ctx(), args[0])
	if err != nil {
		slog.Debug("deleting person", "error", err, "id", args[0])
		return
	}
	fmt.Fprintf(a.out, "deleted %s (%s)\n", deleted.Name, deleted.ID)
	a.router.Navigate(nav.RoutePersons, "", nil)
	a.printList()
}

func (a *app) cmdCheck(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "usage: check <name...>")
		return
	}
	name := strings.Join(args, " ")
	switch a.settleName(name) {
	case person.StateAvailable:
		fmt.Fprintf(a.out, "%q is available\n", name)
	case person.StateTaken:
		fmt.Fprintf(a.out, "%q is taken\n", name)
	case person.StateErrorSuppressed:
		fmt.Fprintf(a.out, "could not check %q\n", name)
	default:
		fmt.Fprintf(a.out, "no result for %q\n", name)
	}
}

func (a *app) cmdDismiss(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "usage: dismiss <notification id>")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "notification id must be a number")
		return
	}
	a.center.Remove(id)
}

// parseNameAge splits trailing age from the name words and applies the
// person form rules.
func (a *app) parseNameAge(args []string) (string, int, bool) {
	age, err := strconv.Atoi(args[len(args)-1])
	if err != nil {
		fmt.Fprintln(a.out, "age must be a number")
		return "", 0, false
	}
	name := strings.Join(args[:len(args)-1], " ")
	if fieldErrors := model.ValidatePerson(name, age); fieldErrors != nil {
		for field, msg := range fieldErrors {
			fmt.Fprintf(a.out, "%s: %s\n", field, msg)
		}
		return "", 0, false
	}
	return name, age, true
}

// nameClears runs the debounced availability check for a form submission and
// reports whether the name may be used. A suppressed transport failure
// clears: the warning toast is the only consequence.
func (a *app) nameClears(name string) bool {
	st := a.settleName(name)
	if st == person.StateTaken {
		a.center.ShowWarning(fmt.Sprintf("The name %q is already taken.", name))
		return false
	}
	return true
}

// settleName feeds the validator and blocks until the check settles.
func (a *app) settleName(name string) person.ValidationState {
	done := make(chan person.ValidationState, 1)
	a.validator.OnSettle(func(st person.ValidationState) {
		select {
		case done <- st:
		default:
		}
	})
	defer a.validator.OnSettle(nil)

	fmt.Fprintf(a.out, "checking %q...\n", name)
	_ = a.out.Flush()
	a.validator.Changed(name)

	select {
	case st := <-done:
		return st
	case <-time.After(a.cfg.DebounceWindow + a.cfg.CheckLatency + 10*time.Second):
		slog.Warn("name check timed out", "name", name)
		return person.StatePristine
	}
}

// printList waits for the outstanding fetch and renders the current page.
func (a *app) printList() {
	if a.router.State().Route != nav.RoutePersons {
		return
	}
	deadline := time.Now().Add(30 * time.Second)
	for a.list.Loading() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	q := a.list.Query()
	persons := a.list.Persons()
	fmt.Fprintf(a.out, "page %d (size %d), %d shown\n", q.Page, q.PageSize, len(persons))
	for _, p := range persons {
		fmt.Fprintf(a.out, "  %-36s  %-24s  %d\n", p.ID, p.Name, p.Age)
	}
	if a.list.CanNext() {
		fmt.Fprintln(a.out, "  (more available, try next)")
	}
}

func (a *app) printPerson(p model.Person) {
	fmt.Fprintf(a.out, "id:   %s\nname: %s\nage:  %d\n", p.ID, p.Name, p.Age)
}

// renderToasts prints pending notifications. Success messages expire on
// their own; warnings and errors stay until dismissed.
func (a *app) renderToasts() {
	for _, n := range a.center.Messages() {
		fmt.Fprintf(a.out, "[%s #%d] %s\n", n.Kind, n.ID, n.Text)
	}
}

func (a *app) prompt() {
	fmt.Fprint(a.out, "pman> ")
	_ = a.out.Flush()
}

func (a *app) printHelp() {
	fmt.Fprint(a.out, `commands:
  login <user> <pass>      log in (any user, shared password)
  logout                   end the session
  whoami                   show the active session
  ls | next | prev         browse persons
  size <n>                 change the page size
  show <id>                display one person
  new <name...> <age>      create a person (admin)
  edit <id> <name...> <age> replace a person (admin)
  rm <id>                  delete a person
  check <name...>          probe name availability
  dismiss <id>             dismiss a notification
  quit                     leave
`)
}

func (a *app) ctx() context.Context {
	return context.Background()
}
