// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/authy/authy/internal/account"
	accredis "github.com/authy/authy/internal/account/redis"
	"github.com/authy/authy/internal/config"
	"github.com/authy/authy/internal/observability"
	"github.com/authy/authy/internal/store"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// BackendOpener opens the credential store for a parsed database URL.
	// Default: openBackend (postgres.Open or sqlite.Open by dialect)
	BackendOpener func(ctx context.Context, target store.Target) (Backend, error)

	// MigrationRunner applies pending migrations.
	// Default: runMigrationsUp
	MigrationRunner func(databaseURL string) error

	// RedisClientFactory creates the cache client when redis is enabled.
	// Default: go-redis client from config
	RedisClientFactory func(cfg config.RedisConfig) RedisClient

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, checker observability.ReadinessChecker, logger *slog.Logger) ObservabilityServer

	// APIServerFactory creates the HTTP API server.
	// Default: httpapi.NewServer
	APIServerFactory func(addr string, handler http.Handler, readHeaderTimeout time.Duration, logger *slog.Logger) APIServer

	// Random is the key material source.
	// Default: crypto/rand.Reader
	Random io.Reader

	// LogWriter receives structured logs.
	// Default: os.Stderr
	LogWriter io.Writer

	// RetryBase is the first backoff interval while waiting for the database.
	// Default: 500ms
	RetryBase time.Duration
}

// Backend is a credential store that owns a connection.
type Backend interface {
	account.CredentialStore
	Close() error
}

// RedisClient is the cache client plus its lifecycle.
type RedisClient interface {
	accredis.Interface
	Close() error
}

// ObservabilityServer interface wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// APIServer interface wraps the methods used from httpapi.Server.
type APIServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}

// MigrateDeps contains injectable dependencies for the migrate command.
type MigrateDeps struct {
	// MigratorFactory creates a migrator for a database URL.
	// Default: store.NewMigrator
	MigratorFactory func(databaseURL string) (Migrator, error)
}

// Migrator interface wraps the methods used from store.Migrator.
type Migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
	Force(version int) error
	PendingMigrations() ([]uint, error)
	AppliedMigrations() ([]uint, error)
	Dialect() store.Dialect
	Close() error
}
