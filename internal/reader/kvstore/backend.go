// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// # SQLite

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
)`

// SQLiteBackend keeps values in a single-table SQLite database.
type SQLiteBackend struct {
	db *sql.DB
}

// OpenSQLite opens (and creates when missing) the database at path.
// Use ":memory:" for a throwaway database.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("kvstore: create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("kvstore: open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("kvstore: apply schema: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

// Load implements [Backend].
func (backend *SQLiteBackend) Load(ctx context.Context, key string) (string, error) {
	var value string
	err := backend.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("kvstore: load %q: %w", key, err)
	}
	return value, nil
}

// Save implements [Backend].
func (backend *SQLiteBackend) Save(ctx context.Context, key, value string) error {
	_, err := backend.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("kvstore: save %q: %w", key, err)
	}
	return nil
}

// Close closes the database.
func (backend *SQLiteBackend) Close() error {
	return backend.db.Close()
}

// # Memory

// MemoryBackend keeps values for the lifetime of the process.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string)}
}

// Load implements [Backend].
func (backend *MemoryBackend) Load(_ context.Context, key string) (string, error) {
	backend.mu.RLock()
	defer backend.mu.RUnlock()
	value, ok := backend.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Save implements [Backend].
func (backend *MemoryBackend) Save(_ context.Context, key, value string) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.values[key] = value
	return nil
}

// Clear drops every value.
func (backend *MemoryBackend) Clear() {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	clear(backend.values)
}
