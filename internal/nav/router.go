// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package nav is the in-process routing collaborator: named routes, guard
// evaluation, and URL-style query state with merge navigation. The query
// state is the single source of truth for pagination; consumers subscribe
// to committed navigations instead of keeping their own copies.
package nav

import (
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/olegiv/pman-go/internal/guard"
)

// Named routes. {id} is filled from the navigation argument.
const (
	RouteLogin        = "/login"
	RoutePersons      = "/persons"
	RoutePersonNew    = "/persons/new"
	RoutePersonDetail = "/persons/{id}"
	RoutePersonEdit   = "/persons/{id}/edit"
)

// State is a committed navigation: the route, its argument (a person id for
// detail/edit routes), and the bookmarkable query parameters.
type State struct {
	Route string
	Arg   string
	Query url.Values
}

// URL renders the state the way a browser would show it.
func (s State) URL() string {
	path := routeTarget(s.Route, s.Arg)
	if len(s.Query) == 0 {
		return path
	}
	return path + "?" + s.Query.Encode()
}

// Router evaluates guards and commits navigations. Query parameters merge
// across navigations: keys present in the new query replace existing
// values, everything else is preserved.
type Router struct {
	mu      sync.Mutex
	routes  map[string][]guard.Func
	current State
	subs    []func(State)
}

// NewRouter creates a router with no routes registered.
func NewRouter() *Router {
	return &Router{
		routes:  make(map[string][]guard.Func),
		current: State{Query: url.Values{}},
	}
}

// Handle registers a named route with its guard chain.
func (r *Router) Handle(route string, guards ...guard.Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[route] = guards
}

// Subscribe registers a callback invoked after every committed navigation.
func (r *Router) Subscribe(fn func(State)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, fn)
}

// State returns the current navigation state with a copied query.
func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return State{Route: r.current.Route, Arg: r.current.Arg, Query: cloneValues(r.current.Query)}
}

// Navigate moves to the named route, evaluating its guards first. A
// redirect decision cancels the navigation and re-enters Navigate for the
// redirect target. The query is merged into the current query state.
func (r *Router) Navigate(route, arg string, q url.Values) {
	r.mu.Lock()
	guards, ok := r.routes[route]
	r.mu.Unlock()
	if !ok {
		slog.Warn("navigation to unknown route", "route", route)
		return
	}

	target := routeTarget(route, arg)
	for _, g := range guards {
		d := g(target)
		if d.Allowed {
			continue
		}
		if d.RedirectTo != "" && d.RedirectTo != route {
			r.Navigate(d.RedirectTo, "", nil)
		}
		return
	}

	r.commit(route, arg, q)
}

// MergeQuery re-navigates to the current route with the given parameters
// merged into the query state. This is how pagination controls round-trip
// through the URL instead of mutating local state.
func (r *Router) MergeQuery(q url.Values) {
	r.mu.Lock()
	route, arg := r.current.Route, r.current.Arg
	r.mu.Unlock()
	if route == "" {
		slog.Warn("query merge before any navigation")
		return
	}
	r.Navigate(route, arg, q)
}

func (r *Router) commit(route, arg string, q url.Values) {
	r.mu.Lock()
	merged := cloneValues(r.current.Query)
	for k, vs := range q {
		merged[k] = append([]string(nil), vs...)
	}
	r.current = State{Route: route, Arg: arg, Query: merged}
	st := State{Route: route, Arg: arg, Query: cloneValues(merged)}
	subs := append(([]func(State))(nil), r.subs...)
	r.mu.Unlock()

	slog.Debug("navigation committed", "url", st.URL())
	for _, fn := range subs {
		fn(st)
	}
}

// routeTarget substitutes the argument into the route pattern for display
// and guard messages, e.g. /persons/{id}/edit + "5" -> /persons/5/edit.
func routeTarget(route, arg string) string {
	if arg == "" {
		return route
	}
	return strings.Replace(route, "{id}", arg, 1)
}

func cloneValues(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, vs := range q {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
