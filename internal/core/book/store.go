// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no book matches.
	ErrNotFound = errors.New("book: not found")
	// ErrChapterNotFound is returned when the book has no such chapter.
	ErrChapterNotFound = errors.New("book: chapter not found")
)

// BatchSize caps the rows written per bulk statement.
const BatchSize = 500

// Repository defines the data access contract.
type Repository interface {
	Insert(ctx context.Context, b *Book) (int64, error)
	InsertChapters(ctx context.Context, bookID int64, chapters []NewChapter) error
	InsertVocab(ctx context.Context, bookID int64, entries []VocabEntry) error
	UpsertTotals(ctx context.Context, bookID int64, totalTerms, totalTypes int) error

	Summaries(ctx context.Context, query SummaryQuery) ([]Summary, error)
	FindByID(ctx context.Context, id int64) (*Book, error)
	FindChapter(ctx context.Context, bookID int64, number int) (*Chapter, error)
	CountChapters(ctx context.Context, bookID int64) (int, error)

	// RecordVisit stores chapter as the last one read, stamped now.
	RecordVisit(ctx context.Context, bookID int64, chapter int) error
}
