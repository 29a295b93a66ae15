// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/flute/internal/core/language"
	"github.com/taibuivan/flute/internal/core/term"
	"github.com/taibuivan/flute/internal/platform/apperr"
	"github.com/taibuivan/flute/internal/platform/validate"
	"github.com/taibuivan/flute/internal/text/highlight"
	"github.com/taibuivan/flute/internal/text/parse"
)

// MaxTitleLength is the longest accepted book title.
const MaxTitleLength = 500

// TermStore is the slice of the term repository a book upload needs.
type TermStore interface {
	EnsureTerms(ctx context.Context, languageID int64, terms []term.Term) error
	ResolveIDs(ctx context.Context, languageID int64, norms []string) (map[string]int64, error)
	ListWithProgress(ctx context.Context, languageID int64) ([]term.WithProgress, error)
}

// Service implements the book use cases.
type Service struct {
	repo      Repository
	terms     TermStore
	languages term.LanguageFinder
	tx        term.Transactor
	counts    CountCache
	logger    *slog.Logger
}

// NewService creates a new Service.
func NewService(repo Repository, terms TermStore, languages term.LanguageFinder, tx term.Transactor, counts CountCache, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		terms:     terms,
		languages: languages,
		tx:        tx,
		counts:    counts,
		logger:    logger,
	}
}

// NotFound is the error for a missing book.
func NotFound(id int64) error {
	return apperr.NotFoundf("Book %d not found", id)
}

// # Create

// tokenized is one parsed chapter.
type tokenized struct {
	content string
	tokens  []parse.Token
}

/*
Create stores a book, its chapters and its vocabulary index.

Every chapter is tokenized with the language's parser. Each distinct word
norm becomes a term (existing terms are reused and keep their display form),
and book_vocab records how often it occurs. Everything is written in one
transaction, so a failure leaves nothing behind.
*/
func (service *Service) Create(ctx context.Context, input CreateInput) (int64, error) {
	title := strings.TrimSpace(input.Title)

	v := &validate.Validator{}
	v.Required("title", title).
		MaxLen("title", title, MaxTitleLength).
		Positive("language_id", input.LanguageID).
		Custom("chapters", input.Chapters == nil, "This field is required")
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

	chapters, err := tokenizeChapters(ctx, parser, lang.ParseSettings(), input.Chapters)
	if err != nil {
		return 0, apperr.BadRequest(err.Error()).WithCause(err)
	}

	vocab := collectVocab(parser, chapters)

	var bookID int64
	err = service.tx.RunInTx(ctx, func(ctx context.Context) error {
		id, err := service.repo.Insert(ctx, &Book{
			LanguageID:       lang.ID,
			Title:            title,
			CoverArtFilepath: input.CoverArtFilepath,
			Source:           input.Source,
		})
		if err != nil {
			return err
		}
		bookID = id

		rows := make([]NewChapter, len(chapters))
		for i, chapter := range chapters {
			rows[i] = NewChapter{Number: i + 1, Content: chapter.content, WordCount: parse.WordCount(chapter.tokens)}
		}
		if err := service.repo.InsertChapters(ctx, id, rows); err != nil {
			return err
		}

		if err := service.terms.EnsureTerms(ctx, lang.ID, vocab.terms); err != nil {
			return err
		}
		ids, err := service.terms.ResolveIDs(ctx, lang.ID, vocab.norms)
		if err != nil {
			return err
		}

		entries := make([]VocabEntry, 0, len(vocab.norms))
		for _, norm := range vocab.norms {
			termID, ok := ids[norm]
			if !ok {
				return apperr.Internal(errors.New("book: term vanished during upload: " + norm))
			}
			entries = append(entries, VocabEntry{TermID: termID, Count: vocab.counts[norm]})
		}
		if err := service.repo.InsertVocab(ctx, id, entries); err != nil {
			return err
		}
		return service.repo.UpsertTotals(ctx, id, vocab.total, len(vocab.norms))
	})
	if err != nil {
		return 0, err
	}

	service.logger.InfoContext(ctx, "book_created",
		slog.Int64("book_id", bookID),
		slog.Int64("language_id", lang.ID),
		slog.Int("chapters", len(chapters)),
		slog.Int("total_terms", vocab.total),
		slog.Int("total_types", len(vocab.norms)),
	)
	return bookID, nil
}

// tokenizeChapters parses chapters concurrently, keeping their order.
func tokenizeChapters(ctx context.Context, parser parse.Parser, settings parse.Settings, texts []string) ([]tokenized, error) {
	chapters := make([]tokenized, len(texts))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, text := range texts {
		group.Go(func() error {
			content := strings.TrimSpace(text)
			chapters[i].content = content
			if content == "" {
				return nil
			}
			tokens, err := parser.Tokens(ctx, content, settings)
			if err != nil {
				return err
			}
			chapters[i].tokens = tokens
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return chapters, nil
}

// vocabulary is the per-norm word count of a whole book.
type vocabulary struct {
	// norms are sorted so concurrent uploads insert terms in the same order.
	norms  []string
	counts map[string]int
	terms  []term.Term
	total  int
}

func collectVocab(parser parse.Parser, chapters []tokenized) vocabulary {
	vocab := vocabulary{counts: make(map[string]int)}
	display := make(map[string]string)
	for _, chapter := range chapters {
		for _, token := range chapter.tokens {
			if !token.IsWord {
				continue
			}
			norm := parser.Lowercase(token.Text)
			vocab.total++
			if vocab.counts[norm] == 0 {
				display[norm] = token.Text
			}
			vocab.counts[norm]++
		}
	}

	vocab.norms = slices.Sorted(maps.Keys(vocab.counts))
	vocab.terms = make([]term.Term, len(vocab.norms))
	for i, norm := range vocab.norms {
		vocab.terms[i] = term.Term{Norm: norm, Display: display[norm], TokenCount: 1}
	}
	return vocab
}

// # Read

// Summaries lists a page of a language's books with their progress counts.
//
// An unknown language yields an empty page.
func (service *Service) Summaries(ctx context.Context, query SummaryQuery) ([]Summary, error) {
	v := &validate.Validator{}
	v.Positive("language_id", query.LanguageID).
		OneOf("sort_option", string(query.Sort), SortOptions...).
		OneOf("sort_order", string(query.Order), string(SortAsc), string(SortDesc))
	if err := v.Err(); err != nil {
		return nil, err
	}
	return service.repo.Summaries(ctx, query)
}

// Detail returns a book and its chapter count.
func (service *Service) Detail(ctx context.Context, id int64) (*Detail, error) {
	b, err := service.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NotFound(id)
		}
		return nil, err
	}

	count, err := service.chapterCount(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Detail{
		BookID:               b.ID,
		Title:                b.Title,
		LanguageID:           b.LanguageID,
		CoverArtFilepath:     b.CoverArtFilepath,
		ChapterCount:         count,
		LastVisitedChapter:   b.LastVisitedChapter,
		LastVisitedWordIndex: b.LastVisitedWordIndex,
		LastRead:             b.LastRead,
	}, nil
}

// chapterCount reads through the cache. Cache failures fall back to the database.
func (service *Service) chapterCount(ctx context.Context, id int64) (int, error) {
	count, ok, err := service.counts.Get(ctx, id)
	if err != nil {
		service.logger.WarnContext(ctx, "chapter_count_cache_get_failed", slog.Int64("book_id", id), slog.Any("error", err))
	}
	if ok {
		return count, nil
	}

	count, err = service.repo.CountChapters(ctx, id)
	if err != nil {
		return 0, err
	}
	if err := service.counts.Set(ctx, id, count); err != nil {
		service.logger.WarnContext(ctx, "chapter_count_cache_set_failed", slog.Int64("book_id", id), slog.Any("error", err))
	}
	return count, nil
}

/*
Chapter returns a chapter with the highlights of every marked term in it,
and records it as the book's last visited chapter.
*/
func (service *Service) Chapter(ctx context.Context, bookID int64, number int) (*ChapterView, error) {
	b, err := service.repo.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NotFound(bookID)
		}
		return nil, err
	}

	chapter, err := service.repo.FindChapter(ctx, bookID, number)
	if err != nil {
		if errors.Is(err, ErrChapterNotFound) {
			return nil, apperr.NotFoundf("Chapter %d not found", number)
		}
		return nil, err
	}

	lang, err := service.languages.Find(ctx, b.LanguageID)
	if err != nil {
		return nil, err
	}
	parser, err := service.languages.Parser(lang)
	if err != nil {
		return nil, err
	}

	settings := lang.ParseSettings()
	tokens, err := parser.Tokens(ctx, chapter.Content, settings)
	if err != nil {
		return nil, apperr.BadRequest(err.Error()).WithCause(err)
	}

	marked, err := service.terms.ListWithProgress(ctx, b.LanguageID)
	if err != nil {
		return nil, err
	}

	highlights, err := highlight.Find(ctx, parser, settings, tokens, marked)
	if err != nil {
		return nil, err
	}

	if err := service.repo.RecordVisit(ctx, bookID, number); err != nil {
		return nil, err
	}

	return &ChapterView{Chapter: *chapter, TermHighlights: highlights}, nil
}
