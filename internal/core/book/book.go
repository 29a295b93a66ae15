// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package book implements book upload, the library listing and chapter reading.

Uploading a book tokenizes every chapter with the language's parser and
records an inverted index (book_vocab) of how often each term occurs in the
book. Summaries combine that index with the reader's term progress to report
how many word occurrences are known, being learned, or still unknown.
*/
package book

import (
	"time"

	"github.com/taibuivan/flute/internal/text/highlight"
	"github.com/taibuivan/flute/pkg/pagination"
)

// Book is a stored book.
type Book struct {
	ID                   int64      `db:"id"`
	LanguageID           int64      `db:"language_id"`
	Title                string     `db:"title"`
	CoverArtFilepath     *string    `db:"cover_art_filepath"`
	Source               *string    `db:"source"`
	IsArchived           bool       `db:"is_archived"`
	LastVisitedChapter   *int       `db:"last_visited_chapter"`
	LastVisitedWordIndex *int       `db:"last_visited_word_index"`
	LastRead             *time.Time `db:"last_read"`
}

// Chapter is the stored text of one chapter.
type Chapter struct {
	ID            int64  `json:"id" db:"id"`
	ChapterNumber int    `json:"chapter_number" db:"chapter_number"`
	WordCount     int    `json:"word_count" db:"word_count"`
	Content       string `json:"content" db:"content"`
}

// ChapterView is the response of GET /books/{id}/chapters/{n}.
type ChapterView struct {
	Chapter        Chapter               `json:"chapter"`
	TermHighlights []highlight.Highlight `json:"term_highlights"`
}

// Summary is one row of the library listing.
type Summary struct {
	BookID               int64      `json:"book_id" db:"book_id"`
	Title                string     `json:"title" db:"title"`
	CoverArtFilepath     *string    `json:"cover_art_filepath" db:"cover_art_filepath"`
	TotalTerms           int        `json:"total_terms" db:"total_terms"`
	KnownTerms           int        `json:"known_terms" db:"known_terms"`
	LearningTerms        int        `json:"learning_terms" db:"learning_terms"`
	UnknownTerms         int        `json:"unknown_terms" db:"unknown_terms"`
	LastVisitedChapter   *int       `json:"last_visited_chapter" db:"last_visited_chapter"`
	LastVisitedWordIndex *int       `json:"last_visited_word_index" db:"last_visited_word_index"`
	LastRead             *time.Time `json:"last_read" db:"last_read"`
}

// SummariesResult is the response of GET /books.
type SummariesResult struct {
	Summaries []Summary `json:"summaries"`
}

// Detail is the response of GET /books/{id}.
type Detail struct {
	BookID               int64      `json:"book_id"`
	Title                string     `json:"title"`
	LanguageID           int64      `json:"language_id"`
	CoverArtFilepath     *string    `json:"cover_art_filepath"`
	ChapterCount         int        `json:"chapter_count"`
	LastVisitedChapter   *int       `json:"last_visited_chapter"`
	LastVisitedWordIndex *int       `json:"last_visited_word_index"`
	LastRead             *time.Time `json:"last_read"`
}

// # Sorting

// SortOption names the column summaries are ordered by.
type SortOption string

const (
	SortTitle         SortOption = "title"
	SortLastRead      SortOption = "last_read"
	SortLearningTerms SortOption = "learning_terms"
	SortUnknownTerms  SortOption = "unknown_terms"
)

// SortOptions lists the accepted sort_option values.
var SortOptions = []string{string(SortTitle), string(SortLastRead), string(SortLearningTerms), string(SortUnknownTerms)}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SummaryQuery selects a page of summaries.
type SummaryQuery struct {
	LanguageID int64
	Sort       SortOption
	Order      SortOrder
	pagination.Params
}

// # Creation

// CreateInput is the body of POST /books.
type CreateInput struct {
	Title      string `json:"title"`
	LanguageID int64  `json:"language_id"`
	// Chapters is required; an empty list creates a book without chapters.
	Chapters         []string `json:"chapters"`
	Source           *string  `json:"source"`
	CoverArtFilepath *string  `json:"cover_art_filepath"`
}

// CreateResult is the response of POST /books.
type CreateResult struct {
	BookID int64 `json:"book_id"`
}

// NewChapter is a chapter ready to be inserted.
type NewChapter struct {
	Number    int
	Content   string
	WordCount int
}

// VocabEntry is one row of the book's inverted index.
type VocabEntry struct {
	TermID int64
	Count  int
}
