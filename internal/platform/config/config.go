// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct. An optional .env file is merged first (real environment variables win),
and the parsed struct is checked with 'go-playground/validator' before use.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, settings service) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the invitation API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080" validate:"required,numeric"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development" validate:"oneof=development staging production test"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Shared by every instance.
	RedisURL string `env:"REDIS_URL" validate:"omitempty,url"`

	// SingleInstance declares that exactly one API process serves the store.
	// Only then may settings be cached in process memory when Redis is absent.
	SingleInstance bool `env:"SINGLE_INSTANCE" envDefault:"false"`

	// SettingsCacheTTL bounds how long a public settings read may be served from cache.
	SettingsCacheTTL time.Duration `env:"SETTINGS_CACHE_TTL" envDefault:"30s" validate:"min=0,max=1h"`

	// Identity token keys. The private key is only needed by operator tooling.
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required" validate:"required"`

	// PublicStorageURL is the public prefix stored image paths are joined onto.
	PublicStorageURL string `env:"PUBLIC_STORAGE_URL,required" validate:"required,url"`

	// AllowedOriginSuffix is the production CORS allow rule (e.g. "wedding.example.com").
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX"`
}

// # Configuration Loading

// Load merges an optional .env file, parses environment variables into a
// [Config] struct, and validates it.
func Load() (*Config, error) {

	// A missing .env is the normal production case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	return Parse()
}

// Parse reads the current process environment into a validated [Config].
func Parse() (*Config, error) {
	cfg := &Config{}

	// Fails if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
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

/*
CacheMode reports which settings cache the process may use.

Without Redis an in-process cache is only coherent when a single instance
serves the store; otherwise reads go straight to the database.
*/
func (c *Config) CacheMode() CacheMode {
	switch {
	case c.SettingsCacheTTL <= 0:
		return CacheDisabled
	case c.RedisURL != "":
		return CacheRedis
	case c.SingleInstance:
		return CacheInProcess
	default:
		return CacheDisabled
	}
}

// CacheMode selects the settings read cache.
type CacheMode string

const (
	CacheDisabled  CacheMode = "disabled"
	CacheRedis     CacheMode = "redis"
	CacheInProcess CacheMode = "in_process"
)

// OriginSuffix returns the production CORS allow rule.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}
