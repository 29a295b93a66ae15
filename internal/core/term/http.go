// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package term

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/flute/internal/platform/request"
	"github.com/taibuivan/flute/internal/platform/respond"
)

// Handler exposes the term endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the handlers under /terms.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/", handler.createTerm)
	router.Patch("/{id}", handler.updateTerm)
}

func (handler *Handler) createTerm(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	termID, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, CreateResult{TermID: termID})
}

func (handler *Handler) updateTerm(writer http.ResponseWriter, request *http.Request) {
	raw := requestutil.Param(request, "id")
	termID, err := requestutil.Int64Param(request, "id", fmt.Sprintf("invalid term_id: '%s'", raw))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Update(request.Context(), termID, input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
