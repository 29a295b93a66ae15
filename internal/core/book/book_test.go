// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/flute/internal/core/book"
	"github.com/taibuivan/flute/internal/core/language"
	"github.com/taibuivan/flute/internal/core/term"
	"github.com/taibuivan/flute/internal/platform/respond"
	"github.com/taibuivan/flute/internal/text/parse"
	"github.com/taibuivan/flute/pkg/pagination"
	"github.com/taibuivan/flute/pkg/pointer"
)

// # Fakes

type memoryRepository struct {
	books      map[int64]*book.Book
	chapters   map[int64][]book.NewChapter
	vocab      map[int64][]book.VocabEntry
	totals     map[int64][2]int
	nextID     int64
	countCalls int
	lastQuery  book.SummaryQuery
	summaries  []book.Summary
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		books:    map[int64]*book.Book{},
		chapters: map[int64][]book.NewChapter{},
		vocab:    map[int64][]book.VocabEntry{},
		totals:   map[int64][2]int{},
		nextID:   1,
	}
}

func (repo *memoryRepository) Insert(_ context.Context, b *book.Book) (int64, error) {
	id := repo.nextID
	repo.nextID++
	stored := *b
	stored.ID = id
	repo.books[id] = &stored
	return id, nil
}

func (repo *memoryRepository) InsertChapters(_ context.Context, bookID int64, chapters []book.NewChapter) error {
	repo.chapters[bookID] = append(repo.chapters[bookID], chapters...)
	return nil
}

func (repo *memoryRepository) InsertVocab(_ context.Context, bookID int64, entries []book.VocabEntry) error {
	repo.vocab[bookID] = append(repo.vocab[bookID], entries...)
	return nil
}

func (repo *memoryRepository) UpsertTotals(_ context.Context, bookID int64, totalTerms, totalTypes int) error {
	repo.totals[bookID] = [2]int{totalTerms, totalTypes}
	return nil
}

func (repo *memoryRepository) Summaries(_ context.Context, query book.SummaryQuery) ([]book.Summary, error) {
	repo.lastQuery = query
	if repo.summaries == nil {
		return []book.Summary{}, nil
	}
	return repo.summaries, nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id int64) (*book.Book, error) {
	b, ok := repo.books[id]
	if !ok {
		return nil, book.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (repo *memoryRepository) FindChapter(_ context.Context, bookID int64, number int) (*book.Chapter, error) {
	chapters := repo.chapters[bookID]
	if number < 1 || number > len(chapters) {
		return nil, book.ErrChapterNotFound
	}
	chapter := chapters[number-1]
	return &book.Chapter{ID: int64(number), ChapterNumber: chapter.Number, WordCount: chapter.WordCount, Content: chapter.Content}, nil
}

func (repo *memoryRepository) CountChapters(_ context.Context, bookID int64) (int, error) {
	repo.countCalls++
	return len(repo.chapters[bookID]), nil
}

func (repo *memoryRepository) RecordVisit(_ context.Context, bookID int64, chapter int) error {
	b, ok := repo.books[bookID]
	if !ok {
		return book.ErrNotFound
	}
	now := time.Now()
	b.LastVisitedChapter = &chapter
	b.LastRead = &now
	return nil
}

// termStore is a single-language term table.
type termStore struct {
	ids    map[string]int64
	terms  map[int64]term.Term
	nextID int64
	marked []term.WithProgress
}

func newTermStore() *termStore {
	return &termStore{ids: map[string]int64{}, terms: map[int64]term.Term{}, nextID: 100}
}

func (store *termStore) EnsureTerms(_ context.Context, languageID int64, terms []term.Term) error {
	for _, t := range terms {
		if _, ok := store.ids[t.Norm]; ok {
			continue
		}
		t.ID = store.nextID
		t.LanguageID = languageID
		store.nextID++
		store.ids[t.Norm] = t.ID
		store.terms[t.ID] = t
	}
	return nil
}

func (store *termStore) ResolveIDs(_ context.Context, _ int64, norms []string) (map[string]int64, error) {
	ids := map[string]int64{}
	for _, norm := range norms {
		if id, ok := store.ids[norm]; ok {
			ids[norm] = id
		}
	}
	return ids, nil
}

func (store *termStore) ListWithProgress(context.Context, int64) ([]term.WithProgress, error) {
	return store.marked, nil
}

type fakeLanguages struct {
	registry *parse.Registry
	langs    map[int64]*language.Language
}

func (f fakeLanguages) Find(_ context.Context, id int64) (*language.Language, error) {
	lang, ok := f.langs[id]
	if !ok {
		return nil, language.ErrNotFound
	}
	return lang, nil
}

func (f fakeLanguages) Parser(lang *language.Language) (parse.Parser, error) {
	return f.registry.Get(lang.ParserType)
}

type directTx struct{}

func (directTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// # Helpers

type fixture struct {
	server http.Handler
	repo   *memoryRepository
	terms  *termStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	english := language.CreateInput{Name: "English"}.Language()
	english.ID = 1

	repo := newMemoryRepository()
	terms := newTermStore()
	languages := fakeLanguages{registry: parse.NewRegistry(), langs: map[int64]*language.Language{1: english}}
	service := book.NewService(repo, terms, languages, directTx{}, book.NewMemoryCountCache(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	router := chi.NewRouter()
	router.Route("/books", book.NewHandler(service).RegisterRoutes)
	return fixture{server: router, repo: repo, terms: terms}
}

func do(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))
	return recorder
}

func bookID(t *testing.T, recorder *httptest.ResponseRecorder) int64 {
	t.Helper()
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	var result book.CreateResult
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&result))
	return result.BookID
}

func errorBody(t *testing.T, recorder *httptest.ResponseRecorder) respond.ErrorEnvelope {
	t.Helper()
	var envelope respond.ErrorEnvelope
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	return envelope
}

// # Create

/*
TestCreate_BuildsVocabulary verifies chapters, word counts and the inverted index.
*/
func TestCreate_BuildsVocabulary(t *testing.T) {
	f := newFixture(t)

	id := bookID(t, do(t, f.server, http.MethodPost, "/books", `{
		"title": "Cats",
		"language_id": 1,
		"source": "unit test",
		"chapters": ["The cat sat on the mat.", "  The CAT was happy.  ", "   "]
	}`))

	stored := f.repo.books[id]
	assert.Equal(t, "Cats", stored.Title)
	assert.Equal(t, "unit test", *stored.Source)

	chapters := f.repo.chapters[id]
	require.Len(t, chapters, 3)
	assert.Equal(t, book.NewChapter{Number: 1, Content: "The cat sat on the mat.", WordCount: 6}, chapters[0])
	assert.Equal(t, book.NewChapter{Number: 2, Content: "The CAT was happy.", WordCount: 4}, chapters[1])
	assert.Equal(t, book.NewChapter{Number: 3, Content: "", WordCount: 0}, chapters[2])

	assert.Equal(t, [2]int{10, 7}, f.repo.totals[id])

	counts := map[string]int{}
	for _, entry := range f.repo.vocab[id] {
		counts[f.terms.terms[entry.TermID].Norm] = entry.Count
	}
	assert.Equal(t, map[string]int{"the": 3, "cat": 2, "sat": 1, "on": 1, "mat": 1, "was": 1, "happy": 1}, counts)

	the := f.terms.terms[f.terms.ids["the"]]
	assert.Equal(t, "The", the.Display)
	assert.Equal(t, 1, the.TokenCount)
}

/*
TestCreate_ReusesExistingTerms verifies that uploads never overwrite a term's display.
*/
func TestCreate_ReusesExistingTerms(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.terms.EnsureTerms(context.Background(), 1, []term.Term{{Norm: "cat", Display: "Cat", TokenCount: 1}}))
	catID := f.terms.ids["cat"]

	id := bookID(t, do(t, f.server, http.MethodPost, "/books", `{"title": "Again", "language_id": 1, "chapters": ["cat cat"]}`))

	assert.Equal(t, "Cat", f.terms.terms[catID].Display)
	assert.Equal(t, []book.VocabEntry{{TermID: catID, Count: 2}}, f.repo.vocab[id])
}

func TestCreate_EmptyChapterList(t *testing.T) {
	f := newFixture(t)

	id := bookID(t, do(t, f.server, http.MethodPost, "/books", `{"title": "Empty", "language_id": 1, "chapters": []}`))
	assert.Empty(t, f.repo.chapters[id])
	assert.Equal(t, [2]int{0, 0}, f.repo.totals[id])
}

/*
TestCreate_Errors covers validation and unknown languages.
*/
func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{name: "unknown language", body: `{"title": "T", "language_id": 99999, "chapters": ["x"]}`, status: http.StatusNotFound, msg: "invalid language_id: '99999'"},
		{name: "missing chapters", body: `{"title": "T", "language_id": 1}`, status: http.StatusUnprocessableEntity},
		{name: "missing title", body: `{"language_id": 1, "chapters": ["x"]}`, status: http.StatusUnprocessableEntity},
		{name: "missing language", body: `{"title": "T", "chapters": ["x"]}`, status: http.StatusUnprocessableEntity},
		{name: "invalid json", body: `{"title":`, status: http.StatusUnprocessableEntity},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			recorder := do(t, f.server, http.MethodPost, "/books", tc.body)
			assert.Equal(t, tc.status, recorder.Code)
			if tc.msg != "" {
				envelope := errorBody(t, recorder)
				assert.Equal(t, "Not Found", envelope.Error)
				assert.Equal(t, tc.msg, envelope.Msg)
			}
			assert.Empty(t, f.repo.books)
		})
	}
}

// # Summaries

/*
TestSummaries_Query verifies defaults and the parameters passed to storage.
*/
func TestSummaries_Query(t *testing.T) {
	f := newFixture(t)

	recorder := do(t, f.server, http.MethodGet, "/books?language_id=1", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"summaries": []}`, recorder.Body.String())
	assert.Equal(t, book.SortTitle, f.repo.lastQuery.Sort)
	assert.Equal(t, book.SortAsc, f.repo.lastQuery.Order)
	assert.Equal(t, 1, f.repo.lastQuery.Page)
	assert.Equal(t, 10, f.repo.lastQuery.PerPage)

	recorder = do(t, f.server, http.MethodGet, "/books?language_id=1&sort_option=unknown_terms&sort_order=desc&page=3&per_page=5", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, book.SummaryQuery{
		LanguageID: 1,
		Sort:       book.SortUnknownTerms,
		Order:      book.SortDesc,
		Params:     pagination.Params{Page: 3, PerPage: 5},
	}, f.repo.lastQuery)
	assert.Equal(t, 10, f.repo.lastQuery.Offset())
}

func TestSummaries_Body(t *testing.T) {
	f := newFixture(t)
	f.repo.summaries = []book.Summary{{
		BookID: 7, Title: "Cats", TotalTerms: 10, KnownTerms: 4, LearningTerms: 1, UnknownTerms: 5,
		LastVisitedChapter: pointer.To(2),
	}}

	recorder := do(t, f.server, http.MethodGet, "/books?language_id=1", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"summaries": [{
		"book_id": 7, "title": "Cats", "cover_art_filepath": null,
		"total_terms": 10, "known_terms": 4, "learning_terms": 1, "unknown_terms": 5,
		"last_visited_chapter": 2, "last_visited_word_index": null, "last_read": null
	}]}`, recorder.Body.String())
}

/*
TestSummaries_Rejects covers every 422 case of the listing.
*/
func TestSummaries_Rejects(t *testing.T) {
	queries := map[string]string{
		"missing language": "",
		"bad language":     "?language_id=abc",
		"bad sort":         "?language_id=1&sort_option=author",
		"empty sort":       "?language_id=1&sort_option=",
		"bad order":        "?language_id=1&sort_order=up",
		"page zero":        "?language_id=1&page=0",
		"per page zero":    "?language_id=1&per_page=0",
		"per page too big": "?language_id=1&per_page=101",
		"page not number":  "?language_id=1&page=x",
	}

	for name, query := range queries {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			recorder := do(t, f.server, http.MethodGet, "/books"+query, "")
			assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		})
	}
}

// # Reading

/*
TestDetail_CachesChapterCount verifies the count is read from storage once.
*/
func TestDetail_CachesChapterCount(t *testing.T) {
	f := newFixture(t)
	id := bookID(t, do(t, f.server, http.MethodPost, "/books", `{"title": "Two", "language_id": 1, "chapters": ["one", "two"]}`))

	for range 3 {
		recorder := do(t, f.server, http.MethodGet, "/books/1", "")
		require.Equal(t, http.StatusOK, recorder.Code)

		var detail book.Detail
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&detail))
		assert.Equal(t, id, detail.BookID)
		assert.Equal(t, 2, detail.ChapterCount)
		assert.Equal(t, int64(1), detail.LanguageID)
	}
	assert.Equal(t, 1, f.repo.countCalls)

	recorder := do(t, f.server, http.MethodGet, "/books/42", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "Book 42 not found", errorBody(t, recorder).Msg)
}

/*
TestChapter_HighlightsAndRecordsVisit reads a chapter with marked terms.
*/
func TestChapter_HighlightsAndRecordsVisit(t *testing.T) {
	f := newFixture(t)
	id := bookID(t, do(t, f.server, http.MethodPost, "/books", `{"title": "Cats", "language_id": 1, "chapters": ["Intro.", "The cat sat."]}`))

	f.terms.marked = []term.WithProgress{
		{ID: f.terms.ids["cat"], Norm: "cat", Display: "cat", Status: term.StatusLearning, LearningStage: pointer.To(2)},
		{ID: f.terms.ids["the"], Norm: "the", Display: "The", Status: term.StatusKnown},
	}

	recorder := do(t, f.server, http.MethodGet, "/books/1/chapters/2", "")
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var view book.ChapterView
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&view))
	assert.Equal(t, book.Chapter{ID: 2, ChapterNumber: 2, WordCount: 3, Content: "The cat sat."}, view.Chapter)
	require.Len(t, view.TermHighlights, 2)
	assert.Equal(t, 0, view.TermHighlights[0].StartPos)
	assert.Equal(t, 3, view.TermHighlights[0].EndPos)
	assert.Nil(t, view.TermHighlights[0].LearningStage)
	assert.Equal(t, 4, view.TermHighlights[1].StartPos)
	assert.Equal(t, 7, view.TermHighlights[1].EndPos)
	assert.Equal(t, 2, *view.TermHighlights[1].LearningStage)

	stored := f.repo.books[id]
	require.NotNil(t, stored.LastVisitedChapter)
	assert.Equal(t, 2, *stored.LastVisitedChapter)
	assert.NotNil(t, stored.LastRead)
}

func TestChapter_NotFound(t *testing.T) {
	f := newFixture(t)
	bookID(t, do(t, f.server, http.MethodPost, "/books", `{"title": "One", "language_id": 1, "chapters": ["only"]}`))

	tests := []struct {
		target string
		msg    string
	}{
		{"/books/9/chapters/1", "Book 9 not found"},
		{"/books/1/chapters/2", "Chapter 2 not found"},
		{"/books/1/chapters/zero", "Chapter zero not found"},
	}
	for _, tc := range tests {
		recorder := do(t, f.server, http.MethodGet, tc.target, "")
		assert.Equal(t, http.StatusNotFound, recorder.Code, tc.target)
		assert.Equal(t, tc.msg, errorBody(t, recorder).Msg, tc.target)
	}
	assert.Nil(t, f.repo.books[1].LastVisitedChapter)
}
