// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package language

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/flute/internal/platform/request"
	"github.com/taibuivan/flute/internal/platform/respond"
)

// Handler exposes the language endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the handlers under /languages.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listLanguages)
	router.Post("/", handler.createLanguage)
	router.Get("/{id}", handler.getLanguage)
	router.Patch("/{id}", handler.updateLanguage)
}

func (handler *Handler) listLanguages(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.List(request.Context(), requestutil.BoolQuery(request, "with_books"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) getLanguage(writer http.ResponseWriter, request *http.Request) {
	languageID, err := languageIDParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	lang, err := handler.service.Get(request.Context(), languageID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, lang)
}

func (handler *Handler) createLanguage(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	languageID, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, CreateResult{LanguageID: languageID})
}

func (handler *Handler) updateLanguage(writer http.ResponseWriter, request *http.Request) {
	languageID, err := languageIDParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Update(request.Context(), languageID, input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func languageIDParam(request *http.Request) (int64, error) {
	raw := requestutil.Param(request, "id")
	return requestutil.Int64Param(request, "id", fmt.Sprintf("Language with id '%s' not found", raw))
}
