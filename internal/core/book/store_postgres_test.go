// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/flute/internal/core/book"
	"github.com/taibuivan/flute/pkg/pagination"
	"github.com/taibuivan/flute/pkg/pointer"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

var summaryColumns = []string{
	"book_id", "title", "cover_art_filepath", "total_terms", "known_terms", "learning_terms",
	"unknown_terms", "last_visited_chapter", "last_visited_word_index", "last_read",
}

/*
TestPostgresRepository_Summaries checks ordering, paging and the status aggregates.
*/
func TestPostgresRepository_Summaries(t *testing.T) {
	tests := []struct {
		name    string
		query   book.SummaryQuery
		orderBy string
		limit   string
	}{
		{
			name:    "title ascending",
			query:   book.SummaryQuery{LanguageID: 1, Sort: book.SortTitle, Order: book.SortAsc, Params: pagination.Params{Page: 1, PerPage: 10}},
			orderBy: `ORDER BY b.title ASC NULLS LAST, b.title ASC`,
			limit:   `LIMIT 10 OFFSET 0`,
		},
		{
			name:    "last read descending",
			query:   book.SummaryQuery{LanguageID: 1, Sort: book.SortLastRead, Order: book.SortDesc, Params: pagination.Params{Page: 3, PerPage: 5}},
			orderBy: `ORDER BY b.last_read DESC NULLS LAST, b.title ASC`,
			limit:   `LIMIT 5 OFFSET 10`,
		},
		{
			name:    "unknown terms",
			query:   book.SummaryQuery{LanguageID: 1, Sort: book.SortUnknownTerms, Order: book.SortDesc, Params: pagination.Params{Page: 1, PerPage: 10}},
			orderBy: `ORDER BY unknown_terms DESC NULLS LAST, b.title ASC`,
			limit:   `LIMIT 10 OFFSET 0`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mock := newMock(t)
			read := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
			rows := pgxmock.NewRows(summaryColumns).
				AddRow(int64(7), "Cats", nil, 10, 4, 1, 5, pointer.To(2), nil, &read)

			mock.ExpectQuery(`FROM books b LEFT JOIN book_totals bt ON bt.book_id = b.id LEFT JOIN \(.*FILTER \(WHERE tp.status = 2\) AS known.*GROUP BY bv.book_id\s*\) s ON s.book_id = b.id WHERE b.language_id = \$1 AND b.is_archived = \$2 ` + tc.orderBy + ` ` + tc.limit).
				WithArgs(int64(1), false).
				WillReturnRows(rows)

			got, err := book.NewPostgresRepository(mock).Summaries(context.Background(), tc.query)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, 5, got[0].UnknownTerms)
			assert.Equal(t, read, *got[0].LastRead)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepository_Summaries_Empty(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM books b`).
		WithArgs(int64(99), false).
		WillReturnRows(pgxmock.NewRows(summaryColumns))

	got, err := book.NewPostgresRepository(mock).Summaries(context.Background(), book.SummaryQuery{
		LanguageID: 99, Sort: book.SortTitle, Order: book.SortAsc, Params: pagination.Params{Page: 1, PerPage: 10},
	})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPostgresRepository_Insert(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO books \(language_id,title,cover_art_filepath,source\) VALUES \(\$1,\$2,\$3,\$4\) RETURNING id`).
		WithArgs(int64(1), "Cats", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))

	id, err := book.NewPostgresRepository(mock).Insert(context.Background(), &book.Book{LanguageID: 1, Title: "Cats"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresRepository_InsertVocab writes one statement per chunk.
*/
func TestPostgresRepository_InsertVocab(t *testing.T) {
	entries := make([]book.VocabEntry, 2*book.BatchSize+1)
	for i := range entries {
		entries[i] = book.VocabEntry{TermID: int64(i + 1), Count: 1}
	}

	mock := newMock(t)
	for range 2 {
		mock.ExpectExec(`INSERT INTO book_vocab \(book_id,term_id,term_count\) VALUES`).
			WillReturnResult(pgxmock.NewResult("INSERT", book.BatchSize))
	}
	mock.ExpectExec(`INSERT INTO book_vocab`).
		WithArgs(int64(5), int64(1001), 1).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, book.NewPostgresRepository(mock).InsertVocab(context.Background(), 5, entries))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_InsertChapters(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`INSERT INTO chapters \(book_id,chapter_number,content,word_count\) VALUES \(\$1,\$2,\$3,\$4\),\(\$5,\$6,\$7,\$8\)`).
		WithArgs(int64(5), 1, "one", 1, int64(5), 2, "two words", 2).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))

	err := book.NewPostgresRepository(mock).InsertChapters(context.Background(), 5, []book.NewChapter{
		{Number: 1, Content: "one", WordCount: 1},
		{Number: 2, Content: "two words", WordCount: 2},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_UpsertTotals(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`INSERT INTO book_totals .* ON CONFLICT \(book_id\) DO UPDATE SET total_terms = EXCLUDED.total_terms, total_types = EXCLUDED.total_types`).
		WithArgs(int64(5), 10, 7).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, book.NewPostgresRepository(mock).UpsertTotals(context.Background(), 5, 10, 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_FindChapter(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT id, chapter_number, word_count, content FROM chapters WHERE book_id = \$1 AND chapter_number = \$2`).
			WithArgs(int64(5), 2).
			WillReturnRows(pgxmock.NewRows([]string{"id", "chapter_number", "word_count", "content"}).AddRow(int64(12), 2, 3, "The cat sat."))

		chapter, err := book.NewPostgresRepository(mock).FindChapter(context.Background(), 5, 2)
		require.NoError(t, err)
		assert.Equal(t, book.Chapter{ID: 12, ChapterNumber: 2, WordCount: 3, Content: "The cat sat."}, *chapter)
	})

	t.Run("missing", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`FROM chapters`).WithArgs(int64(5), 9).WillReturnError(pgx.ErrNoRows)

		_, err := book.NewPostgresRepository(mock).FindChapter(context.Background(), 5, 9)
		assert.ErrorIs(t, err, book.ErrChapterNotFound)
	})
}

func TestPostgresRepository_CountChapters(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM chapters WHERE book_id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))

	count, err := book.NewPostgresRepository(mock).CountChapters(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestPostgresRepository_RecordVisit(t *testing.T) {
	for _, affected := range []int64{1, 0} {
		t.Run(fmt.Sprintf("rows=%d", affected), func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectExec(`UPDATE books SET last_visited_chapter = \$1, last_read = now\(\), updated_at = now\(\) WHERE id = \$2`).
				WithArgs(3, int64(5)).
				WillReturnResult(pgxmock.NewResult("UPDATE", affected))

			err := book.NewPostgresRepository(mock).RecordVisit(context.Background(), 5, 3)
			if affected == 0 {
				assert.ErrorIs(t, err, book.ErrNotFound)
				return
			}
			assert.NoError(t, err)
		})
	}
}
