// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/flute/internal/platform/request"
	"github.com/taibuivan/flute/internal/platform/respond"
	"github.com/taibuivan/flute/internal/platform/validate"
)

// Handler implements the token endpoint.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// RegisterRoutes mounts the handlers under /auth.
//
// # Endpoints
//   - POST /token : Exchanges the password for a write-guard token.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/token", handler.issueToken)
}

// issueToken handles POST /api/auth/token requests.
//
// # Returns
//   - Writes HTTP 200 OK with the token on success.
//   - Writes HTTP 401 Unauthorized for a wrong password.
//   - Writes HTTP 422 when the password is missing.
func (handler *Handler) issueToken(writer http.ResponseWriter, request *http.Request) {
	var input TokenInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Password == "" {
		respond.Error(writer, request, validate.RequiredError("password", "This field is required"))
		return
	}

	result, err := handler.authService.IssueToken(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}
