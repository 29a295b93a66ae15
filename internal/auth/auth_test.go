// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/flute/internal/auth"
	"github.com/taibuivan/flute/internal/platform/constants"
	"github.com/taibuivan/flute/internal/platform/sec"
)

func newServer(t *testing.T) (http.Handler, *sec.TokenService) {
	t.Helper()
	hash, err := sec.HashPassword("correct horse")
	require.NoError(t, err)
	tokens, err := sec.NewTokenService("test-secret", constants.AuthIssuer)
	require.NoError(t, err)

	service := auth.NewService(hash, tokens, slog.New(slog.NewTextHandler(io.Discard, nil)))
	router := chi.NewRouter()
	router.Route("/auth", auth.NewHandler(service).RegisterRoutes)
	return router, tokens
}

func post(server http.Handler, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(body)))
	return recorder
}

/*
TestIssueToken exchanges the password for a verifiable token.
*/
func TestIssueToken(t *testing.T) {
	server, tokens := newServer(t)

	recorder := post(server, `{"password": "correct horse"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var result auth.TokenResult
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&result))
	assert.Equal(t, int64(constants.AccessTokenTTL.Seconds()), result.ExpiresIn)

	claims, err := tokens.VerifyToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, auth.Subject, claims.Subject)
}

func TestIssueToken_Rejects(t *testing.T) {
	server, _ := newServer(t)

	assert.Equal(t, http.StatusUnauthorized, post(server, `{"password": "wrong"}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, post(server, `{}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, post(server, `{`).Code)
}
