// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package image

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/taibuivan/flute/pkg/uuidv7"
)

// DiskStore implements [Store] on the local filesystem.
type DiskStore struct {
	root string
	now  func() time.Time
}

// NewDiskStore creates a DiskStore rooted at root, creating the directory if needed.
func NewDiskStore(root string) (*DiskStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("image: resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("image: create storage root: %w", err)
	}
	return &DiskStore{root: abs, now: time.Now}, nil
}

func (store *DiskStore) Save(_ context.Context, ext string, r io.Reader) (string, int64, error) {
	now := store.now().UTC()
	relative := path.Join(fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())), uuidv7.New()+ext)

	full := filepath.Join(store.root, filepath.FromSlash(relative))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", 0, fmt.Errorf("image: create directory: %w", err)
	}

	file, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("image: create file: %w", err)
	}

	size, err := io.Copy(file, r)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(full)
		return "", 0, fmt.Errorf("image: write file: %w", err)
	}
	return relative, size, nil
}

func (store *DiskStore) Open(_ context.Context, relative string) (io.ReadSeekCloser, error) {
	full, err := store.resolve(relative)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("image: open file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("image: stat file: %w", err)
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, ErrNotFound
	}
	return file, nil
}

func (store *DiskStore) Delete(_ context.Context, relative string) error {
	full, err := store.resolve(relative)
	if err != nil {
		return err
	}

	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("image: stat file: %w", err)
	}
	if info.IsDir() {
		return ErrNotFound
	}

	if err := os.Remove(full); err != nil {
		return fmt.Errorf("image: remove file: %w", err)
	}
	return nil
}

// resolve maps a relative path to an absolute one inside the root.
func (store *DiskStore) resolve(relative string) (string, error) {
	if relative == "" || strings.ContainsRune(relative, 0) {
		return "", ErrOutsideRoot
	}

	full := filepath.Join(store.root, filepath.FromSlash(relative))
	rel, err := filepath.Rel(store.root, full)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return full, nil
}
