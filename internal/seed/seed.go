// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package seed fills a development database with generated books and a
realistic spread of term progress.

Books go through the same [book.Service.Create] pipeline as API uploads, so
seeded data is indistinguishable from real data.
*/
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/flute/internal/core/book"
	"github.com/taibuivan/flute/internal/core/language"
	"github.com/taibuivan/flute/internal/core/term"
	"github.com/taibuivan/flute/pkg/pointer"
)

// Source is stored on every generated book.
const Source = "Generated for development"

// Share of the language's terms marked known and learning. The rest stay unknown.
const (
	KnownShare    = 0.5
	LearningShare = 0.2
)

// Learning stages given to seeded progress.
const (
	KnownStage    = 5
	LearningStage = 1
)

// # Dependencies

// LanguageResolver finds or creates the seeding language.
type LanguageResolver interface {
	GetOrCreate(ctx context.Context, input language.CreateInput) (*language.Language, error)
}

// BookCreator stores one book.
type BookCreator interface {
	Create(ctx context.Context, input book.CreateInput) (int64, error)
}

// TermMarker lists and marks a language's terms.
type TermMarker interface {
	IDs(ctx context.Context, languageID int64) ([]int64, error)
	SetStatus(ctx context.Context, ids []int64, status term.Status, stage int) error
}

// # Options

// Options control one seeding run.
type Options struct {
	NumBooks int
	MinWords int
	MaxWords int
	Workers  int

	// Seed makes a run reproducible.
	Seed uint64
}

// DefaultOptions returns the options used by the seed-db command.
func DefaultOptions() Options {
	return Options{NumBooks: 100, MinWords: 500, MaxWords: 2000, Workers: 4}
}

func (o Options) validate() error {
	switch {
	case o.NumBooks < 0:
		return errors.New("seed: --num-books must not be negative")
	case o.MinWords < 1:
		return errors.New("seed: --min-words must be positive")
	case o.MaxWords < o.MinWords:
		return fmt.Errorf("seed: --max-words (%d) is below --min-words (%d)", o.MaxWords, o.MinWords)
	case o.Workers < 1:
		return errors.New("seed: --workers must be positive")
	}
	return nil
}

// Report summarizes a finished run.
type Report struct {
	LanguageID int64
	Books      int
	Terms      int
	Known      int
	Learning   int
}

// Unknown is the number of terms left without progress.
func (r Report) Unknown() int {
	return r.Terms - r.Known - r.Learning
}

// # Seeder

// Seeder generates books and term progress.
type Seeder struct {
	languages LanguageResolver
	books     BookCreator
	terms     TermMarker
	logger    *slog.Logger
}

// NewSeeder creates a new Seeder.
func NewSeeder(languages LanguageResolver, books BookCreator, terms TermMarker, logger *slog.Logger) *Seeder {
	return &Seeder{languages: languages, books: books, terms: terms, logger: logger}
}

/*
Run seeds the database.

It resolves the default language, creates opts.NumBooks books with up to
opts.Workers uploads in flight, then shuffles every term of the language and
marks the first half known and the next fifth learning.
*/
func (seeder *Seeder) Run(ctx context.Context, opts Options) (*Report, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	preset, err := language.Preset(language.DefaultPreset)
	if err != nil {
		return nil, err
	}
	lang, err := seeder.languages.GetOrCreate(ctx, preset)
	if err != nil {
		return nil, fmt.Errorf("seed: resolve language: %w", err)
	}
	seeder.logger.InfoContext(ctx, "seed_language_resolved", slog.Int64("language_id", lang.ID), slog.String("name", lang.Name))

	created, err := seeder.createBooks(ctx, lang.ID, opts)
	if err != nil {
		return nil, err
	}

	report := &Report{LanguageID: lang.ID, Books: created}
	if err := seeder.markTerms(ctx, rand.New(rand.NewPCG(opts.Seed, ^uint64(0))), report); err != nil {
		return nil, err
	}

	seeder.logger.InfoContext(ctx, "seed_completed",
		slog.Int("books", report.Books),
		slog.Int("terms", report.Terms),
		slog.Int("known", report.Known),
		slog.Int("learning", report.Learning),
		slog.Int("unknown", report.Unknown()),
	)
	return report, nil
}

func (seeder *Seeder) createBooks(ctx context.Context, languageID int64, opts Options) (int, error) {
	var created atomic.Int64

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(opts.Workers)
	for i := range opts.NumBooks {
		group.Go(func() error {
			// Each book draws from its own stream so output does not depend on scheduling.
			rng := rand.New(rand.NewPCG(opts.Seed, uint64(i)))
			words := opts.MinWords + rng.IntN(opts.MaxWords-opts.MinWords+1)

			_, err := seeder.books.Create(ctx, book.CreateInput{
				Title:      Title(rng, i+1),
				LanguageID: languageID,
				Chapters:   Chapters(rng, Content(rng, words), words),
				Source:     pointer.To(Source),
			})
			if err != nil {
				return fmt.Errorf("seed: create book %d: %w", i+1, err)
			}

			if n := created.Add(1); n%10 == 0 {
				seeder.logger.InfoContext(ctx, "seed_books_progress", slog.Int64("created", n), slog.Int("total", opts.NumBooks))
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return int(created.Load()), err
	}
	return int(created.Load()), nil
}

func (seeder *Seeder) markTerms(ctx context.Context, rng *rand.Rand, report *Report) error {
	ids, err := seeder.terms.IDs(ctx, report.LanguageID)
	if err != nil {
		return fmt.Errorf("seed: list terms: %w", err)
	}
	report.Terms = len(ids)
	if len(ids) == 0 {
		seeder.logger.WarnContext(ctx, "seed_no_terms")
		return nil
	}

	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	known := int(float64(len(ids)) * KnownShare)
	learning := int(float64(len(ids)) * LearningShare)

	if err := seeder.terms.SetStatus(ctx, ids[:known], term.StatusKnown, KnownStage); err != nil {
		return fmt.Errorf("seed: mark known: %w", err)
	}
	report.Known = known

	if err := seeder.terms.SetStatus(ctx, ids[known:known+learning], term.StatusLearning, LearningStage); err != nil {
		return fmt.Errorf("seed: mark learning: %w", err)
	}
	report.Learning = learning
	return nil
}
