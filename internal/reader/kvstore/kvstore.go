// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package kvstore persists small JSON values under string keys for the reader.

Reads never fail: a missing key, unreadable backend, malformed JSON or a
value rejected by the caller's validator all yield the caller's default and
a logged warning. Writes never fail either: a backend error is logged and
the caller's in-memory copy stays authoritative for the rest of the session.

Usage:

	kv := kvstore.New(backend, logger)
	settings := kvstore.Get(ctx, kv, "reader-settings", defaults, Settings.Valid)
	kvstore.Set(ctx, kv, "reader-settings", settings)
*/
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

// ErrNotFound is returned by a Backend for a key it does not hold.
var ErrNotFound = errors.New("kvstore: key not found")

// Backend stores raw serialized values.
type Backend interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, value string) error
}

// Store reads and writes JSON values through a Backend.
type Store struct {
	backend Backend
	logger  *slog.Logger
}

// New creates a new Store.
func New(backend Backend, logger *slog.Logger) *Store {
	return &Store{backend: backend, logger: logger}
}

/*
Get returns the value stored under key, or def.

valid may be nil. When set, a decoded value it rejects is treated like
corrupt data.
*/
func Get[T any](ctx context.Context, store *Store, key string, def T, valid func(T) bool) T {
	raw, err := store.backend.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			store.logger.WarnContext(ctx, "kv_load_failed", slog.String("key", key), slog.Any("error", err))
		}
		return def
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		store.logger.WarnContext(ctx, "kv_value_corrupt", slog.String("key", key), slog.Any("error", err))
		return def
	}
	if valid != nil && !valid(value) {
		store.logger.WarnContext(ctx, "kv_value_invalid", slog.String("key", key))
		return def
	}
	return value
}

// Set stores value under key. Failures are logged and dropped.
func Set[T any](ctx context.Context, store *Store, key string, value T) {
	raw, err := json.Marshal(value)
	if err != nil {
		store.logger.ErrorContext(ctx, "kv_encode_failed", slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := store.backend.Save(ctx, key, string(raw)); err != nil {
		store.logger.ErrorContext(ctx, "kv_save_failed", slog.String("key", key), slog.Any("error", err))
	}
}
