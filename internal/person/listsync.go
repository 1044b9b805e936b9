// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package person

import (
	"context"
	"log/slog"
	"sync"

	"github.com/olegiv/pman-go/internal/model"
	"github.com/olegiv/pman-go/internal/nav"
)

// ListSync keeps the visible page of persons consistent with the router's
// query state. The URL is the single source of truth: next/prev/page-size
// round-trip through a merge navigation and re-enter the query
// subscription, which is the only place pagination state is written.
//
// Fetches carry a generation token. A newer committed query state bumps the
// generation, so a fetch that resolves late is discarded instead of
// overwriting the newer page — the transport call may still complete, its
// result is simply ignored.
type ListSync struct {
	mu       sync.Mutex
	client   *Client
	router   *nav.Router
	gen      uint64
	query    model.PageQuery
	persons  []model.Person
	loading  bool
	onUpdate func()
}

// NewListSync creates the synchronizer and subscribes it to the router.
func NewListSync(client *Client, router *nav.Router) *ListSync {
	s := &ListSync{
		client: client,
		router: router,
		query:  model.PageQuery{Page: model.DefaultPage, PageSize: model.DefaultPageSize},
	}
	router.Subscribe(s.onNavigate)
	return s
}

// OnUpdate registers a callback invoked after every state change (loading
// toggles and list replacements), without the internal lock held.
func (s *ListSync) OnUpdate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = fn
}

// Persons returns the last successfully displayed list. A failed fetch
// leaves it untouched.
func (s *ListSync) Persons() []model.Person {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Person, len(s.persons))
	copy(out, s.persons)
	return out
}

// Loading reports whether a fetch is outstanding.
func (s *ListSync) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Query returns the current pagination state as parsed from the URL.
func (s *ListSync) Query() model.PageQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// CanNext reports whether the next-page control should be enabled. With no
// known total count, the heuristic is that a short page is the last one.
func (s *ListSync) CanNext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.persons) >= s.query.PageSize
}

// NextPage navigates to the next page. Permitted unconditionally; the UI
// uses CanNext to disable the control.
func (s *ListSync) NextPage() {
	q := s.Query()
	s.goToPage(q.Page+1, q.PageSize)
}

// PrevPage navigates to the previous page. No-op below page 1: no
// navigation is issued at all.
func (s *ListSync) PrevPage() {
	q := s.Query()
	if q.Page <= 1 {
		return
	}
	s.goToPage(q.Page-1, q.PageSize)
}

// SetPageSize changes the page size and returns to the first page.
func (s *ListSync) SetPageSize(size int) {
	s.goToPage(1, size)
}

// Reload re-fetches the current page without touching the URL state, e.g.
// after a delete changed the collection.
func (s *ListSync) Reload() {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	q := s.query
	s.loading = true
	s.mu.Unlock()

	s.notifyUpdate()
	go s.fetch(gen, q)
}

// goToPage issues a merge navigation; the state change comes back through
// onNavigate, never directly.
func (s *ListSync) goToPage(page, size int) {
	s.router.MergeQuery(model.PageQuery{Page: page, PageSize: size}.Values())
}

// onNavigate handles every committed navigation. Only the person list route
// drives fetches.
func (s *ListSync) onNavigate(st nav.State) {
	if st.Route != nav.RoutePersons {
		return
	}

	q := model.ParsePageQuery(st.Query)

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.query = q
	s.loading = true
	s.mu.Unlock()

	slog.Debug("query state changed, fetching persons", "page", q.Page, "page_size", q.PageSize)
	s.notifyUpdate()
	go s.fetch(gen, q)
}

func (s *ListSync) fetch(gen uint64, q model.PageQuery) {
	persons, err := s.client.List(context.Background(), q.Page, q.PageSize)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		slog.Debug("discarding superseded person fetch", "page", q.Page)
		return
	}
	s.loading = false
	if err != nil {
		// Keep the last successfully displayed list. Debug level: the
		// transport interceptor already surfaced the failure to the user.
		s.mu.Unlock()
		slog.Debug("person fetch failed", "error", err, "page", q.Page)
		s.notifyUpdate()
		return
	}
	s.persons = persons
	s.mu.Unlock()

	s.notifyUpdate()
}

func (s *ListSync) notifyUpdate() {
	s.mu.Lock()
	fn := s.onUpdate
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}
