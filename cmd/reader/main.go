// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command reader is the Flute terminal reader.
//
// # Startup Sequence
//
//  1. Load configuration from environment variables.
//  2. Open the state database (settings, progress, sort).
//  3. Log to a file next to it, since the terminal belongs to the UI.
//  4. Check the API is reachable.
//  5. Run the terminal UI until the user quits.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/taibuivan/flute/internal/platform/config"
	"github.com/taibuivan/flute/internal/platform/constants"
	"github.com/taibuivan/flute/internal/reader/client"
	"github.com/taibuivan/flute/internal/reader/kvstore"
	"github.com/taibuivan/flute/internal/reader/state"
	"github.com/taibuivan/flute/internal/reader/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "flute-reader:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ── 1. Configuration ──────────────────────────────────────────────────
	cfg, err := config.LoadReader()
	if err != nil {
		return err
	}

	statePath := cfg.StatePath
	if statePath == "" {
		if statePath, err = defaultStatePath(); err != nil {
			return err
		}
	}

	// ── 2. State ──────────────────────────────────────────────────────────
	backend, err := kvstore.OpenSQLite(statePath)
	if err != nil {
		return err
	}
	defer backend.Close()

	// ── 3. Logger ─────────────────────────────────────────────────────────
	logFile, err := os.OpenFile(filepath.Join(filepath.Dir(statePath), "reader.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("reader_starting",
		slog.String("version", constants.AppVersion),
		slog.String("api_url", cfg.APIURL),
		slog.String("state_path", statePath),
	)

	store := state.Load(ctx, kvstore.New(backend, log), log)

	// ── 4. API ────────────────────────────────────────────────────────────
	opts := []client.Option{client.WithLogger(log)}
	if cfg.Token != "" {
		opts = append(opts, client.WithToken(cfg.Token))
	}
	api, err := client.New(cfg.APIURL, opts...)
	if err != nil {
		return err
	}
	if err := api.Health(ctx); err != nil {
		return fmt.Errorf("api at %s is not reachable: %w", cfg.APIURL, err)
	}

	// ── 5. UI ─────────────────────────────────────────────────────────────
	err = tui.Run(ctx, tui.Options{API: api, Store: store, Logger: log})
	log.Info("reader_stopped", slog.Any("error", err))
	return err
}

// defaultStatePath is reader.db in the user's config directory.
func defaultStatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(dir, "flute", "reader.db"), nil
}
