// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

// Package redis caches API key lookups in front of another CredentialStore.
package redis

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/authy/authy/internal/account"
)

// DefaultTTL bounds how long a revoked key can stay valid on another replica
// whose cache entry was not invalidated.
const DefaultTTL = 30 * time.Second

// Interface is the subset of the go-redis client used for caching.
type Interface interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// CachedStore wraps a CredentialStore and caches positive API key checks.
// Absent keys are never cached, so a freshly issued key is valid at once.
// Cache failures are logged and fall through to the wrapped store.
type CachedStore struct {
	store  account.CredentialStore
	client Interface
	ttl    time.Duration
	logger *slog.Logger
}

var _ account.CredentialStore = (*CachedStore)(nil)

// NewCachedStore creates a CachedStore. A zero ttl selects DefaultTTL and a
// nil logger discards output.
func NewCachedStore(store account.CredentialStore, client Interface, ttl time.Duration, logger *slog.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CachedStore{store: store, client: client, ttl: ttl, logger: logger}
}

// cacheKey hashes the raw key so secrets never appear in the keyspace.
func cacheKey(key account.APIKey) string {
	sum := sha256.Sum256(key.Bytes())
	return fmt.Sprintf("authy:apikey:%x", sum)
}

// APIKeyExists answers from the cache when possible.
func (c *CachedStore) APIKeyExists(ctx context.Context, key account.APIKey) (bool, error) {
	ck := cacheKey(key)
	if err := c.client.Get(ctx, ck).Err(); err == nil {
		c.logger.DebugContext(ctx, "API key cache hit")
		return true, nil
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "API key cache read failed", "error", err)
	}

	exists, err := c.store.APIKeyExists(ctx, key)
	if err != nil {
		return false, err
	}
	if exists {
		c.remember(ctx, ck)
	}
	return exists, nil
}

// InsertAPIKey stores the key and primes the cache.
func (c *CachedStore) InsertAPIKey(ctx context.Context, key account.APIKey) (account.APIKey, error) {
	stored, err := c.store.InsertAPIKey(ctx, key)
	if err != nil {
		return account.APIKey{}, err
	}
	c.remember(ctx, cacheKey(stored))
	return stored, nil
}

// DeleteAPIKey removes the key from the store, then from the cache.
// Deleting from the store first keeps a concurrent check from re-caching it.
func (c *CachedStore) DeleteAPIKey(ctx context.Context, key account.APIKey) (account.RevocationStatus, error) {
	status, err := c.store.DeleteAPIKey(ctx, key)
	if err != nil {
		return status, err
	}
	if err := c.client.Del(ctx, cacheKey(key)).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to invalidate API key cache entry", "error", err)
	}
	return status, nil
}

func (c *CachedStore) remember(ctx context.Context, ck string) {
	if err := c.client.Set(ctx, ck, "1", c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to cache API key", "error", err)
	}
}

// Ping checks the wrapped store. An unreachable cache only degrades
// performance, so it is logged rather than reported.
func (c *CachedStore) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		c.logger.WarnContext(ctx, "redis ping failed", "error", err)
	}
	return c.store.Ping(ctx)
}

func (c *CachedStore) FindUserByEmail(ctx context.Context, email account.Email) (*account.User, error) {
	return c.store.FindUserByEmail(ctx, email)
}

func (c *CachedStore) InsertUser(ctx context.Context, name account.Name, email account.Email, password account.Password) (*account.User, error) {
	return c.store.InsertUser(ctx, name, email, password)
}

func (c *CachedStore) ReplaceUserFields(ctx context.Context, email account.Email, name *account.Name, password *account.Password) (*account.User, error) {
	return c.store.ReplaceUserFields(ctx, email, name, password)
}
