// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package term

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/taibuivan/flute/internal/core/language"
	"github.com/taibuivan/flute/internal/platform/apperr"
	"github.com/taibuivan/flute/internal/platform/validate"
	"github.com/taibuivan/flute/internal/text/parse"
)

// ErrDisplayMismatch is returned when a display form does not lowercase to the term's norm.
var ErrDisplayMismatch = apperr.BadRequest("display must match the term's normalized form")

// LanguageFinder resolves a language and its parser.
type LanguageFinder interface {
	Find(ctx context.Context, id int64) (*language.Language, error)
	Parser(lang *language.Language) (parse.Parser, error)
}

// Transactor runs fn inside a database transaction.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements the term use cases.
type Service struct {
	repo      Repository
	languages LanguageFinder
	tx        Transactor
	logger    *slog.Logger
}

// NewService creates a new Service.
func NewService(repo Repository, languages LanguageFinder, tx Transactor, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		languages: languages,
		tx:        tx,
		logger:    logger,
	}
}

// Create upserts a term by its normalized form and records the reader's progress.
func (service *Service) Create(ctx context.Context, input CreateInput) (int64, error) {
	text := strings.TrimSpace(input.Term)

	v := &validate.Validator{}
	v.Required("term", text).Positive("language_id", input.LanguageID)
	validateProgress(v, input.UpdateInput)
	if err := v.Err(); err != nil {
		return 0, err
	}

	lang, err := service.languages.Find(ctx, input.LanguageID)
	if err != nil {
		if errors.Is(err, language.ErrNotFound) {
			return 0, apperr.NotFoundf("invalid language_id: '%d'", input.LanguageID)
		}
		return 0, err
	}

	parser, err := service.languages.Parser(lang)
	if err != nil {
		return 0, err
	}

	norm := parser.Lowercase(text)
	if input.Display != nil && parser.Lowercase(*input.Display) != norm {
		return 0, ErrDisplayMismatch
	}

	tokenCount, err := parse.TokenCount(ctx, parser, norm, lang.ParseSettings())
	if err != nil {
		return 0, apperr.BadRequest(err.Error()).WithCause(err)
	}

	display := text
	if input.Display != nil {
		display = *input.Display
	}

	var termID int64
	err = service.tx.RunInTx(ctx, func(ctx context.Context) error {
		id, err := service.repo.Upsert(ctx, &Term{
			LanguageID: lang.ID,
			Norm:       norm,
			Display:    display,
			TokenCount: tokenCount,
		}, input.Display != nil)
		if err != nil {
			return err
		}
		termID = id
		return service.repo.UpsertProgress(ctx, progressOf(id, input.UpdateInput))
	})
	if err != nil {
		return 0, err
	}

	service.logger.InfoContext(ctx, "term_upserted",
		slog.Int64("term_id", termID),
		slog.Int64("language_id", lang.ID),
		slog.String("status", input.Status.String()),
	)
	return termID, nil
}

// Update changes a term's display form and progress.
func (service *Service) Update(ctx context.Context, id int64, input UpdateInput) error {
	v := &validate.Validator{}
	validateProgress(v, input)
	if err := v.Err(); err != nil {
		return err
	}

	t, err := service.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFoundf("invalid term_id: '%d'", id)
		}
		return err
	}

	var parser parse.Parser
	if input.Display != nil {
		lang, err := service.languages.Find(ctx, t.LanguageID)
		if err != nil {
			return err
		}
		if parser, err = service.languages.Parser(lang); err != nil {
			return err
		}
		if parser.Lowercase(*input.Display) != t.Norm {
			return ErrDisplayMismatch
		}
	}

	err = service.tx.RunInTx(ctx, func(ctx context.Context) error {
		if input.Display != nil {
			if err := service.repo.UpdateDisplay(ctx, id, *input.Display); err != nil {
				return err
			}
		}
		return service.repo.UpsertProgress(ctx, progressOf(id, input))
	})
	if err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "term_updated",
		slog.Int64("term_id", id),
		slog.String("status", input.Status.String()),
	)
	return nil
}

// WithProgress returns the language's terms the reader has marked.
func (service *Service) WithProgress(ctx context.Context, languageID int64) ([]WithProgress, error) {
	return service.repo.ListWithProgress(ctx, languageID)
}

// IDs returns every term id of a language.
func (service *Service) IDs(ctx context.Context, languageID int64) ([]int64, error) {
	return service.repo.ListIDs(ctx, languageID)
}

// SetStatus records the same progress for many terms.
func (service *Service) SetStatus(ctx context.Context, ids []int64, status Status, stage int) error {
	if !status.Valid() {
		return apperr.ValidationError("Invalid status")
	}
	if err := service.repo.SetProgressBulk(ctx, ids, status, stage); err != nil {
		return err
	}
	service.logger.InfoContext(ctx, "term_status_bulk_set",
		slog.Int("count", len(ids)),
		slog.String("status", status.String()),
	)
	return nil
}

func validateProgress(v *validate.Validator, input UpdateInput) {
	v.Custom("status", !input.Status.Valid(), "Must be one of: 1, 2, 3")
	v.Range("learning_stage", input.Stage(), MinLearningStage, MaxLearningStage)
}

func progressOf(id int64, input UpdateInput) Progress {
	return Progress{
		TermID:        id,
		Status:        input.Status,
		LearningStage: input.Stage(),
		Translation:   input.Translation,
	}
}
