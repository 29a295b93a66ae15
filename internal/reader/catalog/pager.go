// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"

	"github.com/taibuivan/flute/internal/reader/state"
)

// DefaultScrollThreshold is how many rows from the end trigger the next page.
const DefaultScrollThreshold = 3

// Request is a page load the Pager has asked for.
type Request struct {
	generation uint64
	Page       int
	PageSize   int
	Sort       state.SortOptions
	Reset      bool
}

// Result is the outcome of a Request.
type Result struct {
	Request Request
	Page    Page
	Err     error
}

/*
Pager holds the loaded library list.

Reset, More and Apply must be called from one goroutine (the UI loop).
Load only reads the fetcher and may run anywhere. A Reset invalidates every
request issued before it, so a slow page from an old sort never lands in the
new list.
*/
type Pager struct {
	fetcher   *Fetcher
	pageSize  int
	threshold int

	generation uint64
	books      []Book
	sort       state.SortOptions
	nextPage   int
	loading    bool
	err        error
}

// NewPager creates a Pager. Non-positive sizes select the defaults.
func NewPager(fetcher *Fetcher, pageSize, threshold int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if threshold <= 0 {
		threshold = DefaultScrollThreshold
	}
	return &Pager{fetcher: fetcher, pageSize: pageSize, threshold: threshold}
}

// Books returns the loaded books.
func (pager *Pager) Books() []Book { return pager.books }

// Loading reports whether a request is outstanding.
func (pager *Pager) Loading() bool { return pager.loading }

// HasMore reports whether another page is expected.
func (pager *Pager) HasMore() bool { return pager.nextPage > 0 }

// Err returns the error of the last failed load.
func (pager *Pager) Err() error { return pager.err }

// Reset drops the list and requests the first page under sort.
func (pager *Pager) Reset(sort state.SortOptions) Request {
	pager.generation++
	pager.books = nil
	pager.sort = sort
	pager.nextPage = 0
	pager.loading = true
	pager.err = nil
	return Request{generation: pager.generation, Page: 1, PageSize: pager.pageSize, Sort: sort, Reset: true}
}

// More requests the next page when none is in flight and one is expected.
func (pager *Pager) More() (Request, bool) {
	if pager.loading || pager.nextPage == 0 {
		return Request{}, false
	}
	pager.loading = true
	return Request{generation: pager.generation, Page: pager.nextPage, PageSize: pager.pageSize, Sort: pager.sort}, true
}

// NearEnd reports whether cursor is close enough to the end to load more.
func (pager *Pager) NearEnd(cursor int) bool {
	return len(pager.books)-1-cursor < pager.threshold
}

// Load performs req.
func (pager *Pager) Load(ctx context.Context, req Request) Result {
	sort := req.Sort
	page, err := pager.fetcher.FetchBooks(ctx, req.Page, req.PageSize, &sort)
	return Result{Request: req, Page: page, Err: err}
}

// Apply merges a finished load. Results of superseded requests are dropped
// and Apply reports false.
func (pager *Pager) Apply(result Result) bool {
	if result.Request.generation != pager.generation {
		return false
	}
	pager.loading = false
	if result.Err != nil {
		pager.err = result.Err
		return true
	}

	pager.err = nil
	if result.Request.Reset {
		pager.books = result.Page.Books
	} else {
		pager.books = append(pager.books, result.Page.Books...)
	}
	pager.nextPage = result.Page.NextPage
	return true
}
