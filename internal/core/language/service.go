// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package language

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/flute/internal/platform/apperr"
	"github.com/taibuivan/flute/internal/platform/database/schema"
	"github.com/taibuivan/flute/internal/platform/validate"
	"github.com/taibuivan/flute/internal/text/parse"
	"github.com/taibuivan/flute/pkg/nullable"
)

// Service implements the language use cases.
type Service struct {
	repo    Repository
	parsers *parse.Registry
	logger  *slog.Logger
}

// NewService creates a new Service.
func NewService(repo Repository, parsers *parse.Registry, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		parsers: parsers,
		logger:  logger,
	}
}

// NotFound builds the 404 returned for an unknown language id.
func NotFound(id int64) *apperr.AppError {
	return apperr.NotFoundf("Language with id '%d' not found", id)
}

// List returns language summaries ordered by name.
func (service *Service) List(ctx context.Context, withBooks bool) (*ListResult, error) {
	languages, err := service.repo.List(ctx, withBooks)
	if err != nil {
		return nil, err
	}
	return &ListResult{Languages: languages}, nil
}

// Get returns the full language record.
func (service *Service) Get(ctx context.Context, id int64) (*Language, error) {
	lang, err := service.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, NotFound(id)
	}
	return lang, err
}

// Find returns the language without translating [ErrNotFound], so callers can
// phrase their own 404.
func (service *Service) Find(ctx context.Context, id int64) (*Language, error) {
	return service.repo.FindByID(ctx, id)
}

// Parser resolves the parser configured for lang.
// An unknown or unsupported parser is a client error.
func (service *Service) Parser(lang *Language) (parse.Parser, error) {
	parser, err := service.parsers.Get(lang.ParserType)
	if err != nil {
		return nil, apperr.BadRequest(err.Error()).WithCause(err)
	}
	return parser, nil
}

// Create validates and stores a new language.
func (service *Service) Create(ctx context.Context, input CreateInput) (int64, error) {
	lang := input.Language()

	v := &validate.Validator{}
	v.Required("name", lang.Name).MaxLen("name", lang.Name, MaxNameLength)
	if lang.FlagImageFilepath != nil {
		v.MaxLen("flag_image_filepath", *lang.FlagImageFilepath, MaxSettingLength)
	}
	v.MaxLen("character_substitutions", lang.CharacterSubstitutions, MaxSettingLength).
		MaxLen("regexp_split_sentences", lang.RegexpSplitSentences, MaxSettingLength).
		MaxLen("exceptions_split_sentences", lang.ExceptionsSplitSentences, MaxSettingLength).
		MaxLen("word_characters", lang.WordCharacters, MaxSettingLength)
	service.validateParserType(v, lang.ParserType)
	if err := v.Err(); err != nil {
		return 0, err
	}

	id, err := service.repo.Create(ctx, lang)
	if err != nil {
		return 0, err
	}

	service.logger.InfoContext(ctx, "language_created",
		slog.Int64("language_id", id),
		slog.String("name", lang.Name),
		slog.String("parser_type", lang.ParserType),
	)
	return id, nil
}

// GetOrCreate returns the language named input.Name, creating it when absent.
func (service *Service) GetOrCreate(ctx context.Context, input CreateInput) (*Language, error) {
	lang, err := service.repo.FindByName(ctx, input.Name)
	if err == nil {
		return lang, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	id, err := service.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	return service.Get(ctx, id)
}

// Update applies the keys present in input.
func (service *Service) Update(ctx context.Context, id int64, input UpdateInput) error {
	v := &validate.Validator{}
	changes := map[string]any{}

	setString(v, changes, "name", schema.Language.Name, input.Name, MaxNameLength, false)
	setString(v, changes, "flag_image_filepath", schema.Language.FlagImageFilepath, input.FlagImageFilepath, MaxSettingLength, true)
	setString(v, changes, "character_substitutions", schema.Language.CharacterSubstitutions, input.CharacterSubstitutions, MaxSettingLength, false)
	setString(v, changes, "regexp_split_sentences", schema.Language.RegexpSplitSentences, input.RegexpSplitSentences, MaxSettingLength, false)
	setString(v, changes, "exceptions_split_sentences", schema.Language.ExceptionsSplitSentences, input.ExceptionsSplitSentences, MaxSettingLength, false)
	setString(v, changes, "word_characters", schema.Language.WordCharacters, input.WordCharacters, MaxSettingLength, false)
	setString(v, changes, "parser_type", schema.Language.ParserType, input.ParserType, MaxParserTypeLength, false)
	setBool(v, changes, "right_to_left", schema.Language.RightToLeft, input.RightToLeft)
	setBool(v, changes, "show_romanization", schema.Language.ShowRomanization, input.ShowRomanization)

	if input.Name.Set && !input.Name.Null {
		v.Required("name", input.Name.Value)
	}
	if input.ParserType.Set && !input.ParserType.Null {
		service.validateParserType(v, input.ParserType.Value)
	}
	if err := v.Err(); err != nil {
		return err
	}

	if err := service.repo.Update(ctx, id, changes); err != nil {
		if errors.Is(err, ErrNotFound) {
			return NotFound(id)
		}
		return err
	}

	service.logger.InfoContext(ctx, "language_updated",
		slog.Int64("language_id", id),
		slog.Int("fields", len(changes)),
	)
	return nil
}

func (service *Service) validateParserType(v *validate.Validator, parserType string) {
	v.MaxLen("parser_type", parserType, MaxParserTypeLength)
	v.Custom("parser_type", !service.parsers.Has(parserType), fmt.Sprintf("Unknown parser type '%s'", parserType))
}

func setString(v *validate.Validator, changes map[string]any, field, column string, value nullable.Field[string], max int, allowNull bool) {
	if !value.Set {
		return
	}
	if value.Null && !allowNull {
		v.Custom(field, true, "Field may not be null")
		return
	}
	if !value.Null {
		v.MaxLen(field, value.Value, max)
	}
	changes[column] = value.Any()
}

func setBool(v *validate.Validator, changes map[string]any, field, column string, value nullable.Field[bool]) {
	if !value.Set {
		return
	}
	if value.Null {
		v.Custom(field, true, "Field may not be null")
		return
	}
	changes[column] = value.Value
}
