// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package image stores uploaded cover art and flag images on local disk.

Files are written under the storage root as yyyy/mm/<uuidv7><ext> and are
addressed afterwards by that relative path, which is what books and
languages keep in their *_filepath columns.
*/
package image

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/taibuivan/flute/internal/platform/apperr"
	"github.com/taibuivan/flute/internal/platform/constants"
)

// UploadResult is the response of POST /images.
type UploadResult struct {
	FilePath         string `json:"file_path"`
	OriginalFilename string `json:"original_filename"`
	ContentType      string `json:"content_type"`
	FileSize         int64  `json:"file_size"`
}

// allowedExtensions maps each accepted extension to the content type it is served with.
var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",
}

var allowedContentTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/bmp":     true,
	"image/svg+xml": true,
}

// # Errors

var (
	ErrNoField      = apperr.BadRequest("No 'image' field in request")
	ErrNoFile       = apperr.BadRequest("No file provided")
	ErrEmptyFile    = apperr.BadRequest("File is empty")
	ErrInvalidPath  = apperr.NotFound("Invalid file path")
	ErrFileNotFound = apperr.NotFound("Image file not found")
)

func errExtension(ext string) error {
	allowed := slices.Sorted(maps.Keys(allowedExtensions))
	return apperr.UnsupportedMediaType(fmt.Sprintf("File type '%s' not allowed. Allowed types: %s", ext, strings.Join(allowed, ", ")))
}

func errContentType(contentType string) error {
	return apperr.UnsupportedMediaType(fmt.Sprintf("Content type '%s' not allowed", contentType))
}

func errTooLarge(size int64) error {
	return apperr.BadRequest(fmt.Sprintf("File size (%d bytes) exceeds maximum allowed size (%d bytes)", size, constants.MaxImageSize))
}

// ContentTypeOf returns the content type a stored file is served with.
func ContentTypeOf(ext string) string {
	if contentType, ok := allowedExtensions[strings.ToLower(ext)]; ok {
		return contentType
	}
	return "application/octet-stream"
}
