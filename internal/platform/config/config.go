// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, parsers) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Flute API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./migrations"`

	// Key-Value Cache (Redis). Empty disables the chapter-count cache.
	RedisURL string `env:"REDIS_URL"`

	// ImageStoragePath is the root directory for uploaded images.
	ImageStoragePath string `env:"IMAGE_STORAGE_PATH" envDefault:"images"`

	// MecabPath points at the MeCab binary used by the Japanese parser.
	// Empty means "look it up on $PATH".
	MecabPath string `env:"MECAB_PATH"`

	// Optional single-user write guard. Both must be set to enable it.
	AuthSecret       string `env:"AUTH_SECRET"`
	AuthPasswordHash string `env:"AUTH_PASSWORD_HASH"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if (cfg.AuthSecret == "") != (cfg.AuthPasswordHash == "") {
		return nil, fmt.Errorf("config: AUTH_SECRET and AUTH_PASSWORD_HASH must be set together")
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AuthEnabled reports whether mutating routes require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.AuthSecret != "" && c.AuthPasswordHash != ""
}

// Origins returns the comma-separated EXTRA_ORIGINS as a trimmed list.
func (c *Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// # Reader Client

// ReaderConfig holds the settings of the terminal reader client.
type ReaderConfig struct {
	// APIURL is the single base-URL override for the backend.
	APIURL string `env:"FLUTE_API_URL" envDefault:"http://localhost:8080/api"`

	// StatePath is the SQLite file holding settings and progress.
	// Empty selects the per-user default.
	StatePath string `env:"FLUTE_STATE_PATH"`

	// Token is sent as a bearer token when the API guards writes.
	Token string `env:"FLUTE_TOKEN"`

	Debug bool `env:"DEBUG" envDefault:"false"`
}

// LoadReader parses the reader client environment.
func LoadReader() (*ReaderConfig, error) {
	cfg := &ReaderConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	return cfg, nil
}
