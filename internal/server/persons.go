// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/pman-go/internal/model"
	"github.com/olegiv/pman-go/internal/store"
)

const (
	defaultListPage  = 1
	defaultListLimit = 10
	maxListLimit     = 100
)

// Handler holds shared dependencies for the person API handlers.
type Handler struct {
	queries *store.Queries
}

// NewHandler creates a new person API handler.
func NewHandler(db *sql.DB) *Handler {
	return &Handler{queries: store.New(db)}
}

// personInput is the accepted request body for create and update.
type personInput struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// validate returns field errors for an invalid input.
func (in personInput) validate() map[string]string {
	return model.ValidatePerson(in.Name, in.Age)
}

// decodeInput parses the request body into a personInput.
func decodeInput(w http.ResponseWriter, r *http.Request) (personInput, bool) {
	var in personInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&in); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return personInput{}, false
	}
	return in, true
}

// listParam parses a positive integer query parameter with a default.
func listParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// List returns one page of persons as a bare JSON array. The total row count
// travels in the X-Total-Count header so the body stays a plain collection.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := listParam(r, "_page", defaultListPage)
	limit := listParam(r, "_limit", defaultListLimit)
	if limit > maxListLimit {
		limit = maxListLimit
	}

	persons, err := h.queries.ListPersons(r.Context(), limit, (page-1)*limit)
	if err != nil {
		WriteInternalError(w, "Failed to list persons")
		return
	}
	total, err := h.queries.CountPersons(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to count persons")
		return
	}

	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	WriteJSON(w, http.StatusOK, persons)
}

// Get returns a single person by ID.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	person, ok := h.requirePerson(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, person)
}

// Create inserts a new person. The server assigns the ID.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	if fieldErrors := in.validate(); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	person, err := h.queries.CreatePerson(r.Context(), store.CreatePersonParams{
		Name: in.Name,
		Age:  in.Age,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create person")
		return
	}
	WriteJSON(w, http.StatusCreated, person)
}

// Update fully replaces a stored person.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	if fieldErrors := in.validate(); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	person, err := h.queries.UpdatePerson(r.Context(), store.UpdatePersonParams{
		ID:   chi.URLParam(r, "id"),
		Name: in.Name,
		Age:  in.Age,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Person not found")
			return
		}
		WriteInternalError(w, "Failed to update person")
		return
	}
	WriteJSON(w, http.StatusOK, person)
}

// Delete removes a person and returns the deleted representation.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	person, err := h.queries.DeletePerson(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Person not found")
			return
		}
		WriteInternalError(w, "Failed to delete person")
		return
	}
	WriteJSON(w, http.StatusOK, person)
}

// requirePerson fetches the person addressed by the URL, writing the error
// response itself when the lookup fails.
func (h *Handler) requirePerson(w http.ResponseWriter, r *http.Request) (model.Person, bool) {
	person, err := h.queries.GetPerson(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Person not found")
		} else {
			WriteInternalError(w, "Failed to retrieve person")
		}
		return model.Person{}, false
	}
	return person, true
}
