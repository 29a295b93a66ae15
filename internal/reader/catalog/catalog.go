// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog pages through the library for the reader.

[Fetcher] turns the UI's sort selection into API parameters and maps server
summaries to [Book] view models. [Pager] keeps the loaded list: a sort change
resets it, and scrolling near the end appends the next page.
*/
package catalog

import (
	"context"
	"strconv"
	"time"

	"github.com/taibuivan/flute/internal/core/book"
	"github.com/taibuivan/flute/internal/reader/client"
	"github.com/taibuivan/flute/internal/reader/state"
	"github.com/taibuivan/flute/pkg/slice"
)

// PlaceholderCover is shown for books without cover art.
const PlaceholderCover = "placeholder-cover.png"

// DefaultPageSize is the number of books requested per page.
const DefaultPageSize = 12

// sortParams maps UI sort fields to the API's sort_option values.
var sortParams = map[state.SortField]book.SortOption{
	state.SortLastRead:      book.SortLastRead,
	state.SortAlphabetical:  book.SortTitle,
	state.SortUnknownWords:  book.SortUnknownTerms,
	state.SortLearningWords: book.SortLearningTerms,
}

// Book is a library entry as the reader shows it.
type Book struct {
	ID                 string
	Title              string
	CoverArt           string
	TotalTerms         int
	KnownTerms         int
	LearningTerms      int
	UnknownTerms       int
	ProgressRatio      float64
	LastVisitedChapter int
	LastRead           *time.Time
}

// NewBook maps a server summary to a view model.
func NewBook(summary book.Summary) Book {
	b := Book{
		ID:            strconv.FormatInt(summary.BookID, 10),
		Title:         summary.Title,
		CoverArt:      PlaceholderCover,
		TotalTerms:    summary.TotalTerms,
		KnownTerms:    summary.KnownTerms,
		LearningTerms: summary.LearningTerms,
		UnknownTerms:  summary.UnknownTerms,
		LastRead:      summary.LastRead,
	}
	if summary.CoverArtFilepath != nil && *summary.CoverArtFilepath != "" {
		b.CoverArt = *summary.CoverArtFilepath
	}
	if summary.TotalTerms > 0 {
		b.ProgressRatio = float64(summary.KnownTerms) / float64(summary.TotalTerms)
	}
	if summary.LastVisitedChapter != nil {
		b.LastVisitedChapter = *summary.LastVisitedChapter
	}
	return b
}

// # Fetching

// Source is the part of the API client the catalog uses.
type Source interface {
	BookSummaries(ctx context.Context, q client.SummaryQuery) ([]book.Summary, error)
}

// Page is one fetched page. NextPage is 0 when no more pages are expected.
type Page struct {
	Books    []Book
	NextPage int
}

// Fetcher loads library pages of one language.
type Fetcher struct {
	source     Source
	languageID int64
}

// NewFetcher creates a new Fetcher.
func NewFetcher(source Source, languageID int64) *Fetcher {
	return &Fetcher{source: source, languageID: languageID}
}

/*
FetchBooks loads one page.

sort may be nil, and a field without an API mapping leaves the sort
parameters out so the server default applies.

A full page is taken to mean more pages exist. When the total is an exact
multiple of pageSize this reports one extra page, which then comes back
empty and ends the listing.
*/
func (fetcher *Fetcher) FetchBooks(ctx context.Context, page, pageSize int, sort *state.SortOptions) (Page, error) {
	q := client.SummaryQuery{LanguageID: fetcher.languageID, Page: page, PerPage: pageSize}
	if sort != nil {
		if option, ok := sortParams[sort.Field]; ok {
			q.SortOption = string(option)
			q.SortOrder = string(sort.Order)
		}
	}

	summaries, err := fetcher.source.BookSummaries(ctx, q)
	if err != nil {
		return Page{}, err
	}

	result := Page{Books: slice.Map(summaries, NewBook)}
	if result.Books == nil {
		result.Books = []Book{}
	}
	if len(summaries) == pageSize {
		result.NextPage = page + 1
	}
	return result, nil
}
