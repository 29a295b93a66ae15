// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/flute/internal/api"
	"github.com/taibuivan/flute/internal/core/book"
	"github.com/taibuivan/flute/internal/core/image"
	"github.com/taibuivan/flute/internal/core/language"
	"github.com/taibuivan/flute/internal/core/term"
	"github.com/taibuivan/flute/internal/platform/config"
	"github.com/taibuivan/flute/internal/platform/constants"
	"github.com/taibuivan/flute/internal/platform/middleware"
	"github.com/taibuivan/flute/internal/platform/sec"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newServer(t *testing.T, deps api.HealthDependencies, verifier middleware.TokenVerifier) http.Handler {
	t.Helper()
	store, err := image.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	liveness, readiness := api.NewHealthHandlers(deps, discard)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := api.NewServer(ctx, &config.Config{ServerPort: "0", Environment: "test"}, discard, verifier, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Language:  language.NewHandler(nil),
		Book:      book.NewHandler(nil),
		Term:      term.NewHandler(nil),
		Image:     image.NewHandler(image.NewService(store, discard)),
	})
	return server.Handler()
}

func do(server http.Handler, method, target, token string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, strings.NewReader(`{}`))
	if token != "" {
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)
	return recorder
}

func TestHealth(t *testing.T) {
	server := newServer(t, api.HealthDependencies{}, nil)

	recorder := do(server, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status": "healthy", "message": "API is running"}`, recorder.Body.String())
	assert.NotEmpty(t, recorder.Header().Get(constants.HeaderXRequestID))
}

/*
TestReady reports each dependency and degrades on failure.
*/
func TestReady(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("ready", func(t *testing.T) {
		server := newServer(t, api.HealthDependencies{CheckDatabase: ok, CheckCache: ok}, nil)
		recorder := do(server, http.MethodGet, "/api/ready", "")
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("degraded", func(t *testing.T) {
		server := newServer(t, api.HealthDependencies{CheckDatabase: ok, CheckCache: down}, nil)
		recorder := do(server, http.MethodGet, "/api/ready", "")
		require.Equal(t, http.StatusServiceUnavailable, recorder.Code)

		var body struct {
			Status string `json:"status"`
			Checks []struct {
				Name string `json:"name"`
				OK   bool   `json:"ok"`
			} `json:"checks"`
		}
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
		assert.Equal(t, "degraded", body.Status)
		require.Len(t, body.Checks, 2)
		assert.True(t, body.Checks[0].OK)
		assert.False(t, body.Checks[1].OK)
	})
}

/*
TestWriteGuard verifies that only mutating requests need a token.
*/
func TestWriteGuard(t *testing.T) {
	tokens, err := sec.NewTokenService("secret", constants.AuthIssuer)
	require.NoError(t, err)
	token, err := tokens.GenerateAccessToken("reader", time.Hour)
	require.NoError(t, err)

	server := newServer(t, api.HealthDependencies{}, tokens)

	assert.Equal(t, http.StatusUnauthorized, do(server, http.MethodPost, "/api/books", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(server, http.MethodDelete, "/api/images/2026/01/a.png", "not-a-token").Code)

	// Reads stay open and reach the handler.
	assert.Equal(t, http.StatusNotFound, do(server, http.MethodGet, "/api/images/2026/01/a.png", "").Code)
	// A valid token lets writes through.
	assert.Equal(t, http.StatusNotFound, do(server, http.MethodDelete, "/api/images/2026/01/a.png", token).Code)
}
