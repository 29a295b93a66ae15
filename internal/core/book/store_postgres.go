// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/taibuivan/flute/internal/core/term"
	"github.com/taibuivan/flute/internal/platform/database/schema"
	"github.com/taibuivan/flute/internal/platform/dberr"
	"github.com/taibuivan/flute/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on PostgreSQL.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Insert(ctx context.Context, b *Book) (int64, error) {
	sql, args, err := postgres.Builder().
		Insert(schema.Book.Table).
		Columns(schema.Book.LanguageID, schema.Book.Title, schema.Book.CoverArtFilepath, schema.Book.Source).
		Values(b.LanguageID, b.Title, b.CoverArtFilepath, b.Source).
		Suffix("RETURNING " + schema.Book.ID).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("book: build insert: %w", err)
	}

	var id int64
	if err := postgres.Conn(ctx, repository.db).QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, dberr.Wrap(err, "insert_book")
	}
	return id, nil
}

func (repository *PostgresRepository) InsertChapters(ctx context.Context, bookID int64, chapters []NewChapter) error {
	conn := postgres.Conn(ctx, repository.db)

	for _, chunk := range postgres.Chunks(len(chapters), BatchSize) {
		insert := postgres.Builder().
			Insert(schema.Chapter.Table).
			Columns(schema.Chapter.BookID, schema.Chapter.ChapterNumber, schema.Chapter.Content, schema.Chapter.WordCount)
		for _, chapter := range chapters[chunk[0]:chunk[1]] {
			insert = insert.Values(bookID, chapter.Number, chapter.Content, chapter.WordCount)
		}

		sql, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("book: build chapter insert: %w", err)
		}
		if _, err := conn.Exec(ctx, sql, args...); err != nil {
			return dberr.Wrap(err, "insert_chapters")
		}
	}
	return nil
}

func (repository *PostgresRepository) InsertVocab(ctx context.Context, bookID int64, entries []VocabEntry) error {
	conn := postgres.Conn(ctx, repository.db)

	for _, chunk := range postgres.Chunks(len(entries), BatchSize) {
		insert := postgres.Builder().
			Insert(schema.BookVocab.Table).
			Columns(schema.BookVocab.BookID, schema.BookVocab.TermID, schema.BookVocab.TermCount)
		for _, entry := range entries[chunk[0]:chunk[1]] {
			insert = insert.Values(bookID, entry.TermID, entry.Count)
		}

		sql, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("book: build vocab insert: %w", err)
		}
		if _, err := conn.Exec(ctx, sql, args...); err != nil {
			return dberr.Wrap(err, "insert_book_vocab")
		}
	}
	return nil
}

func (repository *PostgresRepository) UpsertTotals(ctx context.Context, bookID int64, totalTerms, totalTypes int) error {
	sql, args, err := postgres.Builder().
		Insert(schema.BookTotals.Table).
		Columns(schema.BookTotals.BookID, schema.BookTotals.TotalTerms, schema.BookTotals.TotalTypes).
		Values(bookID, totalTerms, totalTypes).
		Suffix(fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s, %s = EXCLUDED.%s",
			schema.BookTotals.BookID,
			schema.BookTotals.TotalTerms, schema.BookTotals.TotalTerms,
			schema.BookTotals.TotalTypes, schema.BookTotals.TotalTypes,
		)).
		ToSql()
	if err != nil {
		return fmt.Errorf("book: build totals upsert: %w", err)
	}

	if _, err := postgres.Conn(ctx, repository.db).Exec(ctx, sql, args...); err != nil {
		return dberr.Wrap(err, "upsert_book_totals")
	}
	return nil
}

// # Reads

// statusCounts sums each book's word occurrences per term status.
var statusCounts = fmt.Sprintf(`(
	SELECT bv.%[1]s,
		SUM(bv.%[2]s) FILTER (WHERE tp.%[3]s = %[4]d) AS known,
		SUM(bv.%[2]s) FILTER (WHERE tp.%[3]s = %[5]d) AS learning,
		SUM(bv.%[2]s) FILTER (WHERE tp.%[3]s = %[6]d) AS ignored
	FROM %[7]s bv
	JOIN %[8]s tp ON tp.%[9]s = bv.%[10]s
	GROUP BY bv.%[1]s
) s ON s.%[1]s = b.%[11]s`,
	schema.BookVocab.BookID, schema.BookVocab.TermCount, schema.TermProgress.Status,
	term.StatusKnown, term.StatusLearning, term.StatusIgnore,
	schema.BookVocab.Table, schema.TermProgress.Table, schema.TermProgress.TermID, schema.BookVocab.TermID,
	schema.Book.ID,
)

var sortColumns = map[SortOption]string{
	SortTitle:         "b." + schema.Book.Title,
	SortLastRead:      "b." + schema.Book.LastRead,
	SortLearningTerms: "learning_terms",
	SortUnknownTerms:  "unknown_terms",
}

func (repository *PostgresRepository) Summaries(ctx context.Context, query SummaryQuery) ([]Summary, error) {
	column, ok := sortColumns[query.Sort]
	if !ok {
		column = sortColumns[SortTitle]
	}
	direction := "ASC"
	if query.Order == SortDesc {
		direction = "DESC"
	}

	sql, args, err := postgres.Builder().
		Select(
			"b."+schema.Book.ID+" AS book_id",
			"b."+schema.Book.Title,
			"b."+schema.Book.CoverArtFilepath,
			"COALESCE(bt."+schema.BookTotals.TotalTerms+", 0) AS total_terms",
			"COALESCE(s.known, 0) AS known_terms",
			"COALESCE(s.learning, 0) AS learning_terms",
			"GREATEST(COALESCE(bt."+schema.BookTotals.TotalTerms+", 0) - COALESCE(s.known, 0) - COALESCE(s.learning, 0) - COALESCE(s.ignored, 0), 0) AS unknown_terms",
			"b."+schema.Book.LastVisitedChapter,
			"b."+schema.Book.LastVisitedWordIndex,
			"b."+schema.Book.LastRead,
		).
		From(schema.Book.Table+" b").
		LeftJoin(fmt.Sprintf("%s bt ON bt.%s = b.%s", schema.BookTotals.Table, schema.BookTotals.BookID, schema.Book.ID)).
		LeftJoin(statusCounts).
		Where(squirrel.Eq{"b." + schema.Book.LanguageID: query.LanguageID}).
		Where(squirrel.Eq{"b." + schema.Book.IsArchived: false}).
		OrderBy(fmt.Sprintf("%s %s NULLS LAST", column, direction), "b."+schema.Book.Title+" ASC").
		Limit(uint64(query.PerPage)).
		Offset(uint64(query.Offset())).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("book: build summaries query: %w", err)
	}

	summaries := []Summary{}
	if err := pgxscan.Select(ctx, postgres.Conn(ctx, repository.db), &summaries, sql, args...); err != nil {
		return nil, dberr.Wrap(err, "list_book_summaries")
	}
	return summaries, nil
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id int64) (*Book, error) {
	sql, args, err := postgres.Builder().
		Select(
			schema.Book.ID, schema.Book.LanguageID, schema.Book.Title, schema.Book.CoverArtFilepath,
			schema.Book.Source, schema.Book.IsArchived, schema.Book.LastVisitedChapter,
			schema.Book.LastVisitedWordIndex, schema.Book.LastRead,
		).
		From(schema.Book.Table).
		Where(squirrel.Eq{schema.Book.ID: id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("book: build find query: %w", err)
	}

	var b Book
	if err := pgxscan.Get(ctx, postgres.Conn(ctx, repository.db), &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, dberr.Wrap(err, "find_book")
	}
	return &b, nil
}

func (repository *PostgresRepository) FindChapter(ctx context.Context, bookID int64, number int) (*Chapter, error) {
	sql, args, err := postgres.Builder().
		Select(schema.Chapter.Columns()...).
		From(schema.Chapter.Table).
		Where(squirrel.Eq{schema.Chapter.BookID: bookID}).
		Where(squirrel.Eq{schema.Chapter.ChapterNumber: number}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("book: build chapter query: %w", err)
	}

	var chapter Chapter
	if err := pgxscan.Get(ctx, postgres.Conn(ctx, repository.db), &chapter, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, ErrChapterNotFound
		}
		return nil, dberr.Wrap(err, "find_chapter")
	}
	return &chapter, nil
}

func (repository *PostgresRepository) CountChapters(ctx context.Context, bookID int64) (int, error) {
	sql, args, err := postgres.Builder().
		Select("COUNT(*)").
		From(schema.Chapter.Table).
		Where(squirrel.Eq{schema.Chapter.BookID: bookID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("book: build count query: %w", err)
	}

	var count int
	if err := postgres.Conn(ctx, repository.db).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_chapters")
	}
	return count, nil
}

func (repository *PostgresRepository) RecordVisit(ctx context.Context, bookID int64, chapter int) error {
	sql, args, err := postgres.Builder().
		Update(schema.Book.Table).
		Set(schema.Book.LastVisitedChapter, chapter).
		Set(schema.Book.LastRead, squirrel.Expr("now()")).
		Set(schema.Book.UpdatedAt, squirrel.Expr("now()")).
		Where(squirrel.Eq{schema.Book.ID: bookID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("book: build visit update: %w", err)
	}

	tag, err := postgres.Conn(ctx, repository.db).Exec(ctx, sql, args...)
	if err != nil {
		return dberr.Wrap(err, "record_book_visit")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
