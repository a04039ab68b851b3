// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

package main

import (
	"context"
	"crypto/rand"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/cobra"

	"github.com/authy/authy/internal/account"
	"github.com/authy/authy/internal/account/postgres"
	accredis "github.com/authy/authy/internal/account/redis"
	"github.com/authy/authy/internal/account/sqlite"
	"github.com/authy/authy/internal/config"
	"github.com/authy/authy/internal/httpapi"
	"github.com/authy/authy/internal/logging"
	"github.com/authy/authy/internal/observability"
	"github.com/authy/authy/internal/store"
	"github.com/authy/authy/pkg/errutil"
)

const (
	serviceName      = "authy"
	defaultRetryBase = 500 * time.Millisecond
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the account API server",
		Long: `Start the HTTP account API. The database URL scheme selects the store:
sqlite://path for an embedded file or postgres://... for PostgreSQL.
Pending migrations are applied before the server accepts requests.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), cmd, nil)
		},
	}

	config.BindFlags(cmd.Flags())

	return cmd
}

func (d *ServeDeps) withDefaults() *ServeDeps {
	out := ServeDeps{}
	if d != nil {
		out = *d
	}
	if out.BackendOpener == nil {
		out.BackendOpener = openBackend
	}
	if out.MigrationRunner == nil {
		out.MigrationRunner = runMigrationsUp
	}
	if out.RedisClientFactory == nil {
		out.RedisClientFactory = func(cfg config.RedisConfig) RedisClient {
			return redis.NewClient(&redis.Options{
				Addr:     cfg.Addr,
				Password: cfg.Password,
				DB:       cfg.DB,
			})
		}
	}
	if out.ObservabilityServerFactory == nil {
		out.ObservabilityServerFactory = func(addr string, checker observability.ReadinessChecker, logger *slog.Logger) ObservabilityServer {
			return observability.NewServer(addr, checker, logger)
		}
	}
	if out.APIServerFactory == nil {
		out.APIServerFactory = func(addr string, handler http.Handler, readHeaderTimeout time.Duration, logger *slog.Logger) APIServer {
			return httpapi.NewServer(addr, handler, readHeaderTimeout, logger)
		}
	}
	if out.Random == nil {
		out.Random = rand.Reader
	}
	if out.LogWriter == nil {
		out.LogWriter = os.Stderr
	}
	if out.RetryBase <= 0 {
		out.RetryBase = defaultRetryBase
	}
	return &out
}

// runServeWithDeps starts the server with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cmd *cobra.Command, deps *ServeDeps) error {
	if ctx == nil {
		ctx = context.Background()
	}
	deps = deps.withDefaults()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := logging.SetDefault(serviceName, version, cfg.Log.Format, level, deps.LogWriter)

	target, err := store.ParseURL(cfg.Database.URL)
	if err != nil {
		return err
	}

	logger.Info("starting authy",
		"addr", cfg.Server.Addr,
		"dialect", string(target.Dialect),
		"cache", cfg.Redis.Enabled(),
	)

	backend, err := connectWithRetry(ctx, deps, target, cfg.Database.ConnectRetries, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := backend.Close(); closeErr != nil {
			errutil.LogError(logger, "failed to close store", closeErr)
		}
	}()
	logger.Info("connected to database", "dialect", string(target.Dialect))

	if err := deps.MigrationRunner(cfg.Database.URL); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "migrate on connect").Wrap(err)
	}

	var credentials account.CredentialStore = backend
	if cfg.Redis.Enabled() {
		client := deps.RedisClientFactory(cfg.Redis)
		defer func() {
			if closeErr := client.Close(); closeErr != nil {
				logger.Warn("failed to close redis client", "error", closeErr)
			}
		}()
		credentials = accredis.NewCachedStore(backend, client, cfg.Redis.TTL, logger.With("component", "apikey-cache"))
		logger.Info("API key cache enabled", "redis_addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}

	svc, err := account.NewServiceWithLogger(credentials, deps.Random, logger.With("component", "account"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var obsServer ObservabilityServer
	var metrics *observability.Metrics
	if cfg.Metrics.Addr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Metrics.Addr, credentials.Ping, logger)
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").With("addr", cfg.Metrics.Addr).Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability", logger)
		metrics = obsServer.Metrics()
		logger.Info("observability server started", "addr", obsServer.Addr())
	}

	gin.SetMode(gin.ReleaseMode)
	router := httpapi.NewRouter(svc, httpapi.WithLogger(logger), httpapi.WithMetrics(metrics))
	apiServer := deps.APIServerFactory(cfg.Server.Addr, router, cfg.Server.ReadHeaderTimeout, logger)
	apiErrChan, err := apiServer.Start()
	if err != nil {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer stopCancel()
		if obsServer != nil {
			if stopErr := obsServer.Stop(stopCtx); stopErr != nil {
				logger.Warn("failed to stop observability server during cleanup", "error", stopErr)
			}
		}
		return err
	}
	go monitorServerErrors(ctx, cancel, apiErrChan, "api", logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("Authy listening on " + apiServer.Addr())
	logger.Info("authy ready", "addr", apiServer.Addr())

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Warn("error stopping api server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			logger.Warn("error stopping observability server", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

// connectWithRetry opens and pings the store, backing off exponentially
// while the database comes up. retries bounds the attempts after the first.
func connectWithRetry(ctx context.Context, deps *ServeDeps, target store.Target, retries uint64, logger *slog.Logger) (Backend, error) {
	var backend Backend
	attempt := 0
	backoff := retry.WithMaxRetries(retries, retry.NewExponential(deps.RetryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		b, err := deps.BackendOpener(ctx, target)
		if err != nil {
			logger.Warn("database not reachable", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		if err := b.Ping(ctx); err != nil {
			_ = b.Close() //nolint:errcheck // ping error takes precedence
			logger.Warn("database ping failed", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		backend = b
		return nil
	})
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("dialect", string(target.Dialect)).
			With("attempts", attempt).
			Wrap(err)
	}
	return backend, nil
}

// openBackend opens the store implementation matching the URL dialect.
func openBackend(ctx context.Context, target store.Target) (Backend, error) {
	switch target.Dialect {
	case store.DialectPostgres:
		s, err := postgres.Open(ctx, target.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case store.DialectSQLite:
		s, err := sqlite.Open(ctx, target.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, oops.Code("DATABASE_URL_UNSUPPORTED").
			With("dialect", string(target.Dialect)).
			Errorf("no store for dialect %q", target.Dialect)
	}
}

// monitorServerErrors monitors a server's error channel and cancels the context on error.
// It exits when either an error is received, the channel is closed, or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string, logger *slog.Logger) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			logger.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
