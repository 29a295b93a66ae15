// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package language

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

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

func (repository *PostgresRepository) List(ctx context.Context, withBooks bool) ([]Summary, error) {
	query := postgres.Builder().
		Select(schema.Language.ID, schema.Language.Name, schema.Language.FlagImageFilepath).
		From(schema.Language.Table).
		OrderBy(schema.Language.Name)

	if withBooks {
		query = query.Where(fmt.Sprintf("EXISTS (SELECT 1 FROM %s WHERE %s.%s = %s.%s)",
			schema.Book.Table,
			schema.Book.Table, schema.Book.LanguageID,
			schema.Language.Table, schema.Language.ID,
		))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("language: build list query: %w", err)
	}

	languages := []Summary{}
	if err := pgxscan.Select(ctx, postgres.Conn(ctx, repository.db), &languages, sql, args...); err != nil {
		return nil, dberr.Wrap(err, "list_languages")
	}
	return languages, nil
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id int64) (*Language, error) {
	return repository.findOne(ctx, squirrel.Eq{schema.Language.ID: id})
}

func (repository *PostgresRepository) FindByName(ctx context.Context, name string) (*Language, error) {
	return repository.findOne(ctx, squirrel.Eq{schema.Language.Name: name})
}

func (repository *PostgresRepository) findOne(ctx context.Context, where squirrel.Eq) (*Language, error) {
	sql, args, err := postgres.Builder().
		Select(schema.Language.Columns()...).
		From(schema.Language.Table).
		Where(where).
		OrderBy(schema.Language.ID).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("language: build find query: %w", err)
	}

	var lang Language
	if err := pgxscan.Get(ctx, postgres.Conn(ctx, repository.db), &lang, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, dberr.Wrap(err, "find_language")
	}
	return &lang, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, lang *Language) (int64, error) {
	sql, args, err := postgres.Builder().
		Insert(schema.Language.Table).
		Columns(
			schema.Language.Name,
			schema.Language.FlagImageFilepath,
			schema.Language.CharacterSubstitutions,
			schema.Language.RegexpSplitSentences,
			schema.Language.ExceptionsSplitSentences,
			schema.Language.WordCharacters,
			schema.Language.RightToLeft,
			schema.Language.ShowRomanization,
			schema.Language.ParserType,
		).
		Values(
			lang.Name,
			lang.FlagImageFilepath,
			lang.CharacterSubstitutions,
			lang.RegexpSplitSentences,
			lang.ExceptionsSplitSentences,
			lang.WordCharacters,
			lang.RightToLeft,
			lang.ShowRomanization,
			lang.ParserType,
		).
		Suffix("RETURNING " + schema.Language.ID).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("language: build insert: %w", err)
	}

	var id int64
	if err := postgres.Conn(ctx, repository.db).QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, dberr.Wrap(err, "create_language")
	}
	return id, nil
}

func (repository *PostgresRepository) Update(ctx context.Context, id int64, changes map[string]any) error {
	sql, args, err := postgres.Builder().
		Update(schema.Language.Table).
		SetMap(changes).
		Set(schema.Language.UpdatedAt, squirrel.Expr("now()")).
		Where(squirrel.Eq{schema.Language.ID: id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("language: build update: %w", err)
	}

	tag, err := postgres.Conn(ctx, repository.db).Exec(ctx, sql, args...)
	if err != nil {
		return dberr.Wrap(err, "update_language")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
