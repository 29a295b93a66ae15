// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command admin holds the Flute maintenance commands.
//
//	flute-admin seed-db [--num-books 100] [--min-words 500] [--max-words 2000] [--reset]
//	flute-admin hash-password <password>
//	flute-admin token [--ttl 720h]
//
// Database commands read the same environment as the API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/flute/internal/auth"
	"github.com/taibuivan/flute/internal/core/book"
	"github.com/taibuivan/flute/internal/core/language"
	"github.com/taibuivan/flute/internal/core/term"
	"github.com/taibuivan/flute/internal/platform/config"
	"github.com/taibuivan/flute/internal/platform/constants"
	"github.com/taibuivan/flute/internal/platform/migration"
	pgstore "github.com/taibuivan/flute/internal/platform/postgres"
	"github.com/taibuivan/flute/internal/platform/sec"
	"github.com/taibuivan/flute/internal/seed"
	"github.com/taibuivan/flute/internal/text/parse"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:          "flute-admin",
		Short:        "Flute maintenance commands",
		Version:      constants.AppVersion,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(newLogger(level))
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	root.AddCommand(newSeedCmd())
	root.AddCommand(newHashPasswordCmd())
	root.AddCommand(newTokenCmd())
	return root
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// # seed-db

func newSeedCmd() *cobra.Command {
	opts := seed.DefaultOptions()
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed-db",
		Short: "Seed the database with sample books and term progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := slog.Default()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if reset {
				if err := migration.RunDown(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
					return fmt.Errorf("reset database: %w", err)
				}
			}
			if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}

			pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			txManager := pgstore.NewTxManager(pool)
			parsers := parse.NewRegistry(parse.WithMecabPath(cfg.MecabPath))

			languageService := language.NewService(language.NewPostgresRepository(pool), parsers, log)
			termRepository := term.NewPostgresRepository(pool)
			termService := term.NewService(termRepository, languageService, txManager, log)
			bookService := book.NewService(book.NewPostgresRepository(pool), termRepository, languageService, txManager, book.NewMemoryCountCache(), log)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Creating %d books...\n", opts.NumBooks)

			report, err := seed.NewSeeder(languageService, bookService, termService, log).Run(ctx, opts)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "Database seeding completed!")
			fmt.Fprintf(out, "   - Language id %d\n", report.LanguageID)
			fmt.Fprintf(out, "   - Created %d books\n", report.Books)
			fmt.Fprintf(out, "   - %d terms marked as KNOWN\n", report.Known)
			fmt.Fprintf(out, "   - %d terms marked as LEARNING\n", report.Learning)
			fmt.Fprintf(out, "   - %d terms remain unknown\n", report.Unknown())
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.NumBooks, "num-books", opts.NumBooks, "number of books to create")
	cmd.Flags().IntVar(&opts.MinWords, "min-words", opts.MinWords, "minimum words per book")
	cmd.Flags().IntVar(&opts.MaxWords, "max-words", opts.MaxWords, "maximum words per book")
	cmd.Flags().IntVar(&opts.Workers, "workers", opts.Workers, "concurrent book uploads")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", uint64(time.Now().UnixNano()), "random seed")
	cmd.Flags().BoolVar(&reset, "reset", false, "drop and recreate the schema first")
	return cmd
}

// # hash-password

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the AUTH_PASSWORD_HASH value for a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := sec.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

// # token

func newTokenCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a write token signed with AUTH_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("AUTH_SECRET")
			if secret == "" {
				return fmt.Errorf("AUTH_SECRET is not set")
			}
			tokens, err := sec.NewTokenService(secret, constants.AuthIssuer)
			if err != nil {
				return err
			}
			token, err := tokens.GenerateAccessToken(auth.Subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", constants.AccessTokenTTL, "token lifetime")
	return cmd
}
