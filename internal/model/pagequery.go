// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"math"
	"net/url"
	"strconv"
)

// Query parameter names and pagination defaults. The query parameters are
// the externally visible, bookmarkable pagination state.
const (
	ParamPage     = "page"
	ParamPageSize = "pagesize"

	DefaultPage     = 1
	DefaultPageSize = 10
)

// maxPageValue caps parsed pagination numbers to keep offset arithmetic
// within int range.
const maxPageValue = 1 << 30

// PageQuery is the (page, pageSize) pair controlling which slice of the
// person collection is displayed.
type PageQuery struct {
	Page     int
	PageSize int
}

// ParsePageQuery derives pagination state from URL query parameters.
// Missing, non-numeric, or sub-1 values fall back to the defaults, and
// fractional values are truncated, so a malformed URL is never an error.
func ParsePageQuery(q url.Values) PageQuery {
	return PageQuery{
		Page:     parsePositive(q.Get(ParamPage), DefaultPage),
		PageSize: parsePositive(q.Get(ParamPageSize), DefaultPageSize),
	}
}

// parsePositive parses s as a number and truncates it to an integer >= 1.
// Returns def when s is absent, unparseable, below 1, or absurdly large.
func parsePositive(s string, def int) int {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f < 1 || f > maxPageValue {
		return def
	}
	return int(f)
}

// Values encodes the pagination state back into query parameters, ready to
// be merged into a navigation.
func (p PageQuery) Values() url.Values {
	return url.Values{
		ParamPage:     []string{strconv.Itoa(p.Page)},
		ParamPageSize: []string{strconv.Itoa(p.PageSize)},
	}
}

// Offset returns the zero-based record offset for offset-style queries.
func (p PageQuery) Offset() int {
	return (p.Page - 1) * p.PageSize
}
