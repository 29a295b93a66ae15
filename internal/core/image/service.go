// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package image

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/taibuivan/flute/internal/platform/constants"
)

// Upload is one received file.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Service implements the image use cases.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a new Service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Save validates an upload and writes it to storage.
func (service *Service) Save(ctx context.Context, upload Upload) (*UploadResult, error) {
	if upload.Filename == "" {
		return nil, ErrNoFile
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, errExtension(ext)
	}
	if !allowedContentTypes[upload.ContentType] {
		return nil, errContentType(upload.ContentType)
	}
	if upload.Size > constants.MaxImageSize {
		return nil, errTooLarge(upload.Size)
	}
	if upload.Size == 0 {
		return nil, ErrEmptyFile
	}

	path, size, err := service.store.Save(ctx, ext, upload.Body)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "image_saved",
		slog.String("file_path", path),
		slog.String("content_type", upload.ContentType),
		slog.Int64("file_size", size),
	)

	return &UploadResult{
		FilePath:         path,
		OriginalFilename: upload.Filename,
		ContentType:      upload.ContentType,
		FileSize:         size,
	}, nil
}

// Open returns a stored file and the content type it is served with.
func (service *Service) Open(ctx context.Context, path string) (io.ReadSeekCloser, string, error) {
	file, err := service.store.Open(ctx, path)
	if err != nil {
		return nil, "", translate(err)
	}
	return file, ContentTypeOf(filepath.Ext(path)), nil
}

// Delete removes a stored file.
func (service *Service) Delete(ctx context.Context, path string) error {
	if err := service.store.Delete(ctx, path); err != nil {
		return translate(err)
	}
	service.logger.InfoContext(ctx, "image_deleted", slog.String("file_path", path))
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, ErrOutsideRoot):
		return ErrInvalidPath
	case errors.Is(err, ErrNotFound):
		return ErrFileNotFound
	default:
		return err
	}
}
