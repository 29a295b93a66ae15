// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package language_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/flute/internal/core/language"
	"github.com/taibuivan/flute/internal/platform/database/schema"
	"github.com/taibuivan/flute/internal/platform/respond"
	"github.com/taibuivan/flute/internal/text/parse"
)

// memoryRepository is an in-memory [language.Repository].
type memoryRepository struct {
	languages map[int64]*language.Language
	withBooks map[int64]bool
	nextID    int64
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{languages: map[int64]*language.Language{}, withBooks: map[int64]bool{}, nextID: 1}
}

func (repo *memoryRepository) List(_ context.Context, withBooks bool) ([]language.Summary, error) {
	out := []language.Summary{}
	for id, lang := range repo.languages {
		if withBooks && !repo.withBooks[id] {
			continue
		}
		out = append(out, language.Summary{ID: id, Name: lang.Name, FlagImageFilepath: lang.FlagImageFilepath})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id int64) (*language.Language, error) {
	lang, ok := repo.languages[id]
	if !ok {
		return nil, language.ErrNotFound
	}
	copied := *lang
	return &copied, nil
}

func (repo *memoryRepository) FindByName(_ context.Context, name string) (*language.Language, error) {
	for _, lang := range repo.languages {
		if lang.Name == name {
			copied := *lang
			return &copied, nil
		}
	}
	return nil, language.ErrNotFound
}

func (repo *memoryRepository) Create(_ context.Context, lang *language.Language) (int64, error) {
	id := repo.nextID
	repo.nextID++
	stored := *lang
	stored.ID = id
	repo.languages[id] = &stored
	return id, nil
}

func (repo *memoryRepository) Update(_ context.Context, id int64, changes map[string]any) error {
	lang, ok := repo.languages[id]
	if !ok {
		return language.ErrNotFound
	}
	for column, value := range changes {
		switch column {
		case schema.Language.Name:
			lang.Name = value.(string)
		case schema.Language.FlagImageFilepath:
			if value == nil {
				lang.FlagImageFilepath = nil
			} else {
				path := value.(string)
				lang.FlagImageFilepath = &path
			}
		case schema.Language.ParserType:
			lang.ParserType = value.(string)
		case schema.Language.RightToLeft:
			lang.RightToLeft = value.(bool)
		case schema.Language.WordCharacters:
			lang.WordCharacters = value.(string)
		}
	}
	return nil
}

func newServer(t *testing.T) (http.Handler, *memoryRepository) {
	t.Helper()
	repo := newMemoryRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := language.NewService(repo, parse.NewRegistry(), logger)

	router := chi.NewRouter()
	router.Route("/languages", language.NewHandler(service).RegisterRoutes)
	return router, repo
}

func do(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(method, target, reader))
	return recorder
}

func decode[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&out))
	return out
}

/*
TestHandler_CreateAndGet verifies defaults are applied on creation.
*/
func TestHandler_CreateAndGet(t *testing.T) {
	server, _ := newServer(t)

	created := do(t, server, http.MethodPost, "/languages", `{"name": "Klingon"}`)
	require.Equal(t, http.StatusCreated, created.Code)
	result := decode[language.CreateResult](t, created)
	assert.Equal(t, int64(1), result.LanguageID)

	got := do(t, server, http.MethodGet, "/languages/1", "")
	require.Equal(t, http.StatusOK, got.Code)
	lang := decode[language.Language](t, got)
	assert.Equal(t, "Klingon", lang.Name)
	assert.Equal(t, language.DefaultParserType, lang.ParserType)
	assert.Equal(t, language.DefaultCharacterSubstitutions, lang.CharacterSubstitutions)
	assert.Equal(t, language.DefaultExceptionsSplitSentences, lang.ExceptionsSplitSentences)
	assert.Nil(t, lang.FlagImageFilepath)
}

/*
TestHandler_CreateValidation covers the 422 paths.
*/
func TestHandler_CreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing name", body: `{}`, field: "name"},
		{name: "name too long", body: `{"name": "` + strings.Repeat("x", 41) + `"}`, field: "name"},
		{name: "parser type too long", body: `{"name": "X", "parser_type": "` + strings.Repeat("p", 21) + `"}`, field: "parser_type"},
		{name: "unknown parser", body: `{"name": "X", "parser_type": "nope"}`, field: "parser_type"},
		{name: "word characters too long", body: `{"name": "X", "word_characters": "` + strings.Repeat("a", 501) + `"}`, field: "word_characters"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server, _ := newServer(t)
			recorder := do(t, server, http.MethodPost, "/languages", tc.body)

			require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
			envelope := decode[respond.ErrorEnvelope](t, recorder)
			assert.Equal(t, "Unprocessable Entity", envelope.Error)
			require.NotEmpty(t, envelope.Details)
			assert.Equal(t, tc.field, envelope.Details[0].Field)
		})
	}
}

/*
TestHandler_NotFound verifies the message for unknown and malformed ids.
*/
func TestHandler_NotFound(t *testing.T) {
	server, _ := newServer(t)

	for _, target := range []string{"/languages/999", "/languages/abc"} {
		recorder := do(t, server, http.MethodGet, target, "")
		require.Equal(t, http.StatusNotFound, recorder.Code)
		envelope := decode[respond.ErrorEnvelope](t, recorder)
		assert.Equal(t, "Not Found", envelope.Error)
		assert.Equal(t, "Language with id '"+strings.TrimPrefix(target, "/languages/")+"' not found", envelope.Msg)
	}

	recorder := do(t, server, http.MethodPatch, "/languages/999", `{"name": "X"}`)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

/*
TestHandler_Update verifies that only present keys are written.
*/
func TestHandler_Update(t *testing.T) {
	server, repo := newServer(t)
	flag := "flags/en.png"
	_, _ = repo.Create(context.Background(), &language.Language{Name: "English", FlagImageFilepath: &flag, ParserType: "spacedel", WordCharacters: "a-z"})

	recorder := do(t, server, http.MethodPatch, "/languages/1", `{"right_to_left": true, "flag_image_filepath": null}`)
	require.Equal(t, http.StatusNoContent, recorder.Code)

	lang := repo.languages[1]
	assert.Equal(t, "English", lang.Name)
	assert.True(t, lang.RightToLeft)
	assert.Nil(t, lang.FlagImageFilepath)
	assert.Equal(t, "a-z", lang.WordCharacters)

	tests := []struct {
		name string
		body string
	}{
		{name: "name too long", body: `{"name": "` + strings.Repeat("x", 41) + `"}`},
		{name: "null name", body: `{"name": null}`},
		{name: "unknown parser", body: `{"parser_type": "nope"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := do(t, server, http.MethodPatch, "/languages/1", tc.body)
			assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		})
	}
}

/*
TestHandler_List verifies ordering and the with_books filter.
*/
func TestHandler_List(t *testing.T) {
	server, repo := newServer(t)
	for _, name := range []string{"Spanish", "English", "German"} {
		_, _ = repo.Create(context.Background(), &language.Language{Name: name})
	}
	repo.withBooks[1] = true

	all := decode[language.ListResult](t, do(t, server, http.MethodGet, "/languages", ""))
	require.Len(t, all.Languages, 3)
	assert.Equal(t, []string{"English", "German", "Spanish"}, []string{all.Languages[0].Name, all.Languages[1].Name, all.Languages[2].Name})

	filtered := decode[language.ListResult](t, do(t, server, http.MethodGet, "/languages?with_books=true", ""))
	require.Len(t, filtered.Languages, 1)
	assert.Equal(t, "Spanish", filtered.Languages[0].Name)
}

/*
TestService_GetOrCreate reuses an existing language by name.
*/
func TestService_GetOrCreate(t *testing.T) {
	repo := newMemoryRepository()
	service := language.NewService(repo, parse.NewRegistry(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	preset, err := language.Preset("english")
	require.NoError(t, err)

	first, err := service.GetOrCreate(context.Background(), preset)
	require.NoError(t, err)
	second, err := service.GetOrCreate(context.Background(), preset)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.languages, 1)
	assert.Equal(t, "a-zA-Z", first.WordCharacters)
}

/*
TestPresets verifies every preset names a registered parser.
*/
func TestPresets(t *testing.T) {
	presets, err := language.Presets()
	require.NoError(t, err)
	require.NotEmpty(t, presets)

	registry := parse.NewRegistry()
	for _, preset := range presets {
		lang := preset.Language()
		assert.True(t, registry.Has(lang.ParserType), lang.Name)
		assert.NotEmpty(t, lang.RegexpSplitSentences, lang.Name)
	}

	_, err = language.Preset("Elvish")
	assert.Error(t, err)
}
