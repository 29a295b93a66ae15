// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package term

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

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

var conflictTarget = fmt.Sprintf("ON CONFLICT (%s, %s)", schema.Term.LanguageID, schema.Term.Norm)

func (repository *PostgresRepository) FindByID(ctx context.Context, id int64) (*Term, error) {
	sql, args, err := postgres.Builder().
		Select(schema.Term.ID, schema.Term.LanguageID, schema.Term.Norm, schema.Term.Display, schema.Term.TokenCount).
		From(schema.Term.Table).
		Where(squirrel.Eq{schema.Term.ID: id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("term: build find query: %w", err)
	}

	var t Term
	if err := pgxscan.Get(ctx, postgres.Conn(ctx, repository.db), &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, dberr.Wrap(err, "find_term")
	}
	return &t, nil
}

func (repository *PostgresRepository) Upsert(ctx context.Context, t *Term, updateDisplay bool) (int64, error) {
	onConflict := conflictTarget + " DO NOTHING"
	if updateDisplay {
		onConflict = fmt.Sprintf("%s DO UPDATE SET %s = EXCLUDED.%s", conflictTarget, schema.Term.Display, schema.Term.Display)
	}

	sql, args, err := postgres.Builder().
		Insert(schema.Term.Table).
		Columns(schema.Term.LanguageID, schema.Term.Norm, schema.Term.Display, schema.Term.TokenCount).
		Values(t.LanguageID, t.Norm, t.Display, t.TokenCount).
		Suffix(onConflict + " RETURNING " + schema.Term.ID).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("term: build upsert: %w", err)
	}

	conn := postgres.Conn(ctx, repository.db)

	var id int64
	err = conn.QueryRow(ctx, sql, args...).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, dberr.Wrap(err, "upsert_term")
	}

	// DO NOTHING returns no row for an existing term.
	ids, err := repository.ResolveIDs(ctx, t.LanguageID, []string{t.Norm})
	if err != nil {
		return 0, err
	}
	id, ok := ids[t.Norm]
	if !ok {
		return 0, dberr.Wrap(pgx.ErrNoRows, "resolve_term")
	}
	return id, nil
}

func (repository *PostgresRepository) UpdateDisplay(ctx context.Context, id int64, display string) error {
	sql, args, err := postgres.Builder().
		Update(schema.Term.Table).
		Set(schema.Term.Display, display).
		Where(squirrel.Eq{schema.Term.ID: id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("term: build display update: %w", err)
	}

	tag, err := postgres.Conn(ctx, repository.db).Exec(ctx, sql, args...)
	if err != nil {
		return dberr.Wrap(err, "update_term_display")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) UpsertProgress(ctx context.Context, progress Progress) error {
	columns := []string{schema.TermProgress.TermID, schema.TermProgress.Status, schema.TermProgress.LearningStage}
	values := []any{progress.TermID, progress.Status, progress.LearningStage}
	if progress.Translation != nil {
		columns = append(columns, schema.TermProgress.Translation)
		values = append(values, *progress.Translation)
	}

	sql, args, err := postgres.Builder().
		Insert(schema.TermProgress.Table).
		Columns(columns...).
		Values(values...).
		Suffix(progressConflict(columns[1:])).
		ToSql()
	if err != nil {
		return fmt.Errorf("term: build progress upsert: %w", err)
	}

	if _, err := postgres.Conn(ctx, repository.db).Exec(ctx, sql, args...); err != nil {
		return dberr.Wrap(err, "upsert_term_progress")
	}
	return nil
}

// progressConflict overwrites the given columns of an existing progress row.
func progressConflict(columns []string) string {
	clause := fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET ", schema.TermProgress.TermID)
	for _, column := range columns {
		clause += fmt.Sprintf("%s = EXCLUDED.%s, ", column, column)
	}
	return clause + schema.TermProgress.UpdatedAt + " = now()"
}

func (repository *PostgresRepository) EnsureTerms(ctx context.Context, languageID int64, terms []Term) error {
	conn := postgres.Conn(ctx, repository.db)

	for _, chunk := range postgres.Chunks(len(terms), BatchSize) {
		insert := postgres.Builder().
			Insert(schema.Term.Table).
			Columns(schema.Term.LanguageID, schema.Term.Norm, schema.Term.Display, schema.Term.TokenCount).
			Suffix(conflictTarget + " DO NOTHING")
		for _, t := range terms[chunk[0]:chunk[1]] {
			insert = insert.Values(languageID, t.Norm, t.Display, t.TokenCount)
		}

		sql, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("term: build bulk insert: %w", err)
		}
		if _, err := conn.Exec(ctx, sql, args...); err != nil {
			return dberr.Wrap(err, "ensure_terms")
		}
	}
	return nil
}

func (repository *PostgresRepository) ResolveIDs(ctx context.Context, languageID int64, norms []string) (map[string]int64, error) {
	conn := postgres.Conn(ctx, repository.db)
	ids := make(map[string]int64, len(norms))

	for _, chunk := range postgres.Chunks(len(norms), BatchSize) {
		sql, args, err := postgres.Builder().
			Select(schema.Term.ID, schema.Term.Norm).
			From(schema.Term.Table).
			Where(squirrel.Eq{schema.Term.LanguageID: languageID}).
			Where(squirrel.Eq{schema.Term.Norm: norms[chunk[0]:chunk[1]]}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("term: build resolve query: %w", err)
		}

		var rows []struct {
			ID   int64  `db:"id"`
			Norm string `db:"norm"`
		}
		if err := pgxscan.Select(ctx, conn, &rows, sql, args...); err != nil {
			return nil, dberr.Wrap(err, "resolve_term_ids")
		}
		for _, row := range rows {
			ids[row.Norm] = row.ID
		}
	}
	return ids, nil
}

func (repository *PostgresRepository) ListWithProgress(ctx context.Context, languageID int64) ([]WithProgress, error) {
	sql, args, err := postgres.Builder().
		Select(
			"t."+schema.Term.ID,
			"t."+schema.Term.Norm,
			"t."+schema.Term.Display,
			"p."+schema.TermProgress.Status,
			"p."+schema.TermProgress.LearningStage,
		).
		From(schema.Term.Table + " t").
		Join(fmt.Sprintf("%s p ON p.%s = t.%s", schema.TermProgress.Table, schema.TermProgress.TermID, schema.Term.ID)).
		Where(squirrel.Eq{"t." + schema.Term.LanguageID: languageID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("term: build progress query: %w", err)
	}

	terms := []WithProgress{}
	if err := pgxscan.Select(ctx, postgres.Conn(ctx, repository.db), &terms, sql, args...); err != nil {
		return nil, dberr.Wrap(err, "list_terms_with_progress")
	}
	return terms, nil
}

func (repository *PostgresRepository) ListIDs(ctx context.Context, languageID int64) ([]int64, error) {
	sql, args, err := postgres.Builder().
		Select(schema.Term.ID).
		From(schema.Term.Table).
		Where(squirrel.Eq{schema.Term.LanguageID: languageID}).
		OrderBy(schema.Term.ID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("term: build id query: %w", err)
	}

	var ids []int64
	if err := pgxscan.Select(ctx, postgres.Conn(ctx, repository.db), &ids, sql, args...); err != nil {
		return nil, dberr.Wrap(err, "list_term_ids")
	}
	return ids, nil
}

func (repository *PostgresRepository) SetProgressBulk(ctx context.Context, ids []int64, status Status, stage int) error {
	conn := postgres.Conn(ctx, repository.db)
	columns := []string{schema.TermProgress.TermID, schema.TermProgress.Status, schema.TermProgress.LearningStage}

	for _, chunk := range postgres.Chunks(len(ids), BatchSize) {
		insert := postgres.Builder().
			Insert(schema.TermProgress.Table).
			Columns(columns...).
			Suffix(progressConflict(columns[1:]))
		for _, id := range ids[chunk[0]:chunk[1]] {
			insert = insert.Values(id, status, stage)
		}

		sql, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("term: build bulk progress: %w", err)
		}
		if _, err := conn.Exec(ctx, sql, args...); err != nil {
			return dberr.Wrap(err, "set_progress_bulk")
		}
	}
	return nil
}
