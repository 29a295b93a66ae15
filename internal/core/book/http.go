// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/flute/internal/platform/apperr"
	requestutil "github.com/taibuivan/flute/internal/platform/request"
	"github.com/taibuivan/flute/internal/platform/respond"
	"github.com/taibuivan/flute/internal/platform/validate"
	"github.com/taibuivan/flute/pkg/pagination"
)

// Handler exposes the book endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the handlers under /books.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listSummaries)
	router.Post("/", handler.createBook)
	router.Get("/{id}", handler.getBook)
	router.Get("/{id}/chapters/{number}", handler.getChapter)
}

func (handler *Handler) createBook(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookID, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, CreateResult{BookID: bookID})
}

func (handler *Handler) listSummaries(writer http.ResponseWriter, request *http.Request) {
	query, err := summaryQueryFrom(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	summaries, err := handler.service.Summaries(request.Context(), query)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, SummariesResult{Summaries: summaries})
}

// summaryQueryFrom reads language_id, sort_option, sort_order and the page.
func summaryQueryFrom(request *http.Request) (SummaryQuery, error) {
	languageID, present, err := requestutil.Int64Query(request, "language_id")
	if err != nil {
		return SummaryQuery{}, err
	}
	if !present {
		return SummaryQuery{}, validate.RequiredError("language_id", "This field is required")
	}

	page, fieldErrs := pagination.FromRequest(request)
	if len(fieldErrs) > 0 {
		return SummaryQuery{}, apperr.ValidationError("Validation failed", fieldErrs...)
	}

	values := request.URL.Query()
	query := SummaryQuery{
		LanguageID: languageID,
		Sort:       SortTitle,
		Order:      SortAsc,
		Params:     page,
	}
	if values.Has("sort_option") {
		query.Sort = SortOption(values.Get("sort_option"))
	}
	if values.Has("sort_order") {
		query.Order = SortOrder(values.Get("sort_order"))
	}
	return query, nil
}

func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	raw := requestutil.Param(request, "id")
	bookID, err := requestutil.Int64Param(request, "id", fmt.Sprintf("Book %s not found", raw))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.Detail(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

func (handler *Handler) getChapter(writer http.ResponseWriter, request *http.Request) {
	raw := requestutil.Param(request, "id")
	bookID, err := requestutil.Int64Param(request, "id", fmt.Sprintf("Book %s not found", raw))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	rawNumber := requestutil.Param(request, "number")
	number, err := strconv.Atoi(rawNumber)
	if err != nil || number < 1 {
		respond.Error(writer, request, apperr.NotFoundf("Chapter %s not found", rawNumber))
		return
	}

	view, err := handler.service.Chapter(request.Context(), bookID, number)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}
