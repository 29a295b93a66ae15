// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via the `page` and
// `per_page` query parameters. Unlike lenient clamping, out-of-range values are
// reported back to the caller as field errors so the handler can answer 422.
package pagination

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/taibuivan/flute/internal/platform/apperr"
)

const (
	// DefaultPerPage is the number of items per page if not specified.
	DefaultPerPage = 10
	// MaxPerPage is the upper bound for items per page.
	MaxPerPage = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the parsed page and page size from a request's query string.
type Params struct {
	Page    int
	PerPage int
}

// Offset returns the SQL OFFSET value derived from [Page] and [PerPage].
// It saturates at math.MaxInt, which still pages past every row.
func (p Params) Offset() int {
	if p.Page <= 1 || p.PerPage <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PerPage {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PerPage
}

// FromRequest parses "page" and "per_page" query parameters from an HTTP request.
//
// Missing parameters take their defaults. Non-numeric or out-of-range values
// are returned as [apperr.FieldError] entries.
func FromRequest(r *http.Request) (Params, []apperr.FieldError) {
	var errs []apperr.FieldError

	page, err := parseIntParam(r, "page", DefaultPage)
	if err != nil || page < 1 {
		errs = append(errs, apperr.FieldError{Field: "page", Message: "Must be greater than or equal to 1"})
	}

	perPage, err := parseIntParam(r, "per_page", DefaultPerPage)
	if err != nil || perPage < 1 || perPage > MaxPerPage {
		errs = append(errs, apperr.FieldError{
			Field:   "per_page",
			Message: fmt.Sprintf("Must be between 1 and %d", MaxPerPage),
		})
	}

	return Params{Page: page, PerPage: perPage}, errs
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(raw)
}
