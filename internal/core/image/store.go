// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package image

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrOutsideRoot is returned for paths that escape the storage root.
	ErrOutsideRoot = errors.New("image: path outside storage root")
	// ErrNotFound is returned when no file exists at the path.
	ErrNotFound = errors.New("image: not found")
)

// Store defines the file storage contract. Paths are slash-separated and
// relative to the storage root.
type Store interface {
	// Save writes r under a fresh name with the given extension and returns its path and size.
	Save(ctx context.Context, ext string, r io.Reader) (string, int64, error)
	Open(ctx context.Context, path string) (io.ReadSeekCloser, error)
	Delete(ctx context.Context, path string) error
}
