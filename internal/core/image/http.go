// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package image

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/flute/internal/platform/constants"
	"github.com/taibuivan/flute/internal/platform/respond"
)

const (
	// multipartOverhead is the room left for multipart headers above the file limit.
	multipartOverhead = 1 << 20
	// multipartMemory is how much of a form is buffered in memory before spilling to disk.
	multipartMemory = 1 << 20
)

// Handler exposes the image endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the handlers under /images.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/", handler.uploadImage)
	router.Get("/*", handler.getImage)
	router.Delete("/*", handler.deleteImage)
}

/*
POST /api/images.

Request:
  - body: multipart/form-data with an "image" file field

Response:
  - 201: UploadResult
  - 400: Missing field, empty file or oversized file
  - 415: Extension or content type not allowed
*/
func (handler *Handler) uploadImage(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxImageSize+multipartOverhead)

	if err := request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(writer, request, errTooLarge(request.ContentLength))
			return
		}
		respond.Error(writer, request, ErrNoField)
		return
	}
	defer func() { _ = request.MultipartForm.RemoveAll() }()

	file, header, err := request.FormFile(constants.ImageFormField)
	if err != nil {
		// A part without a filename is parsed as a plain value.
		if _, ok := request.MultipartForm.Value[constants.ImageFormField]; ok {
			respond.Error(writer, request, ErrNoFile)
			return
		}
		respond.Error(writer, request, ErrNoField)
		return
	}
	defer file.Close()

	result, err := handler.service.Save(request.Context(), Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, result)
}

// GET /api/images/{path...} serves the stored bytes.
func (handler *Handler) getImage(writer http.ResponseWriter, request *http.Request) {
	relative := chi.URLParam(request, "*")

	file, contentType, err := handler.service.Open(request.Context(), relative)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer file.Close()

	writer.Header().Set("Content-Type", contentType)
	http.ServeContent(writer, request, path.Base(relative), time.Time{}, file)
}

// DELETE /api/images/{path...} removes the stored file.
func (handler *Handler) deleteImage(writer http.ResponseWriter, request *http.Request) {
	relative := chi.URLParam(request, "*")

	if err := handler.service.Delete(request.Context(), relative); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, fmt.Sprintf("Image '%s' deleted successfully", relative))
}
