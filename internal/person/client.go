// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package person implements data access for the person collection resource
// plus the asynchronous pieces built on top of it: the debounced
// name-availability validator and the URL-driven list synchronizer.
package person

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/pman-go/internal/model"
)

// Sentinels for the availability simulation. Placeholder demo behavior, not
// a real uniqueness rule.
const (
	// reservedName makes the availability check report "taken".
	// There can be only one voldemort.
	reservedName = "voldemort"
	// errorTrigger makes the availability check fail with a transport error.
	errorTrigger = "error"
)

// ErrCheckFailed is the distinguishable failure path of the availability
// simulation.
var ErrCheckFailed = errors.New("the server responded with an error")

// StatusError is a non-2xx response from the collection resource.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("persons API returned %d: %s", e.Code, strings.TrimSpace(e.Body))
}

// Client performs CRUD against the persons collection resource. Every call
// is a fresh fetch; nothing is cached client-side.
type Client struct {
	http         *http.Client
	baseURL      string
	checkLatency time.Duration
}

// NewClient creates a data-access client for the collection at baseURL
// (e.g. http://localhost:3000/persons). httpClient may carry an Interceptor
// transport; nil uses http.DefaultClient. checkLatency is the injected
// delay of the availability simulation.
func NewClient(baseURL string, httpClient *http.Client, checkLatency time.Duration) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		http:         httpClient,
		baseURL:      strings.TrimRight(baseURL, "/"),
		checkLatency: checkLatency,
	}
}

// List fetches one page of persons using offset-style query parameters.
func (c *Client) List(ctx context.Context, page, limit int) ([]model.Person, error) {
	q := url.Values{
		"_page":  []string{strconv.Itoa(page)},
		"_limit": []string{strconv.Itoa(limit)},
	}
	var persons []model.Person
	if err := c.do(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil, &persons); err != nil {
		return nil, err
	}
	return persons, nil
}

// Get fetches a single person. A missing id surfaces as a *StatusError with
// code 404; there is no special not-found handling here.
func (c *Client) Get(ctx context.Context, id string) (model.Person, error) {
	var p model.Person
	err := c.do(ctx, http.MethodGet, c.baseURL+"/"+url.PathEscape(id), nil, &p)
	return p, err
}

// Create stores a new person. The server assigns the id; any id on the
// input is ignored.
func (c *Client) Create(ctx context.Context, p model.Person) (model.Person, error) {
	p.ID = ""
	var created model.Person
	err := c.do(ctx, http.MethodPost, c.baseURL, p, &created)
	return created, err
}

// Update replaces the person identified by p.ID in full.
func (c *Client) Update(ctx context.Context, p model.Person) (model.Person, error) {
	if p.ID == "" {
		return model.Person{}, fmt.Errorf("update requires a person id")
	}
	var updated model.Person
	err := c.do(ctx, http.MethodPut, c.baseURL+"/"+url.PathEscape(p.ID), p, &updated)
	return updated, err
}

// Delete removes a person and returns the deleted representation, for
// symmetry with the other operations. Callers must treat the deletion as
// complete even if the response body is empty.
func (c *Client) Delete(ctx context.Context, id string) (model.Person, error) {
	var deleted model.Person
	err := c.do(ctx, http.MethodDelete, c.baseURL+"/"+url.PathEscape(id), nil, &deleted)
	return deleted, err
}

// IsNameAvailable simulates a backend uniqueness probe. The injected
// latency, the deterministic input mapping, and the distinguishable failure
// path are all part of the contract: names containing "error" (any case)
// fail with ErrCheckFailed, names containing "voldemort" (any case) are
// taken, everything else is available.
func (c *Client) IsNameAvailable(ctx context.Context, name string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-time.After(c.checkLatency):
	}

	lower := strings.ToLower(name)
	if strings.Contains(lower, errorTrigger) {
		return false, ErrCheckFailed
	}
	return !strings.Contains(lower, reservedName), nil
}

// do runs one round-trip with a JSON body and decodes a JSON response into
// out. A nil out discards the body; an empty body with non-nil out is
// tolerated (DELETE may return nothing).
func (c *Client) do(ctx context.Context, method, rawURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: string(data)}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
