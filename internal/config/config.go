// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

// Package config loads server configuration from defaults, a YAML file,
// AUTHY_* environment variables, and command-line flags, in that order.
package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/authy/authy/internal/logging"
	"github.com/authy/authy/internal/store"
)

// EnvPrefix prefixes every environment override, e.g. AUTHY_DATABASE_URL.
const EnvPrefix = "AUTHY_"

// Config is the complete server configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server" yaml:"server"`
	Database DatabaseConfig `koanf:"database" yaml:"database"`
	Redis    RedisConfig    `koanf:"redis" yaml:"redis"`
	Metrics  MetricsConfig  `koanf:"metrics" yaml:"metrics"`
	Log      LogConfig      `koanf:"log" yaml:"log"`
}

// ServerConfig configures the HTTP API listener.
type ServerConfig struct {
	Addr              string        `koanf:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// DatabaseConfig selects the credential store. The URL scheme picks the
// backend: sqlite:// (or sqlite:) for an embedded file, postgres:// for PostgreSQL.
type DatabaseConfig struct {
	URL            string `koanf:"url" yaml:"url"`
	ConnectRetries uint64 `koanf:"connect_retries" yaml:"connect_retries"`
}

// RedisConfig enables the API key cache when Addr is set.
type RedisConfig struct {
	Addr     string        `koanf:"addr" yaml:"addr"`
	Password string        `koanf:"password" yaml:"password"`
	DB       int           `koanf:"db" yaml:"db"`
	TTL      time.Duration `koanf:"ttl" yaml:"ttl"`
}

// Enabled reports whether a redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// MetricsConfig configures the observability listener. Empty Addr disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr" yaml:"addr"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Format string `koanf:"format" yaml:"format"`
	Level  string `koanf:"level" yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:              "127.0.0.1:8000",
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   30 * time.Second,
		},
		Database: DatabaseConfig{
			URL:            "sqlite://data.db",
			ConnectRetries: 5,
		},
		Redis: RedisConfig{
			TTL: 30 * time.Second,
		},
		Metrics: MetricsConfig{
			Addr: "127.0.0.1:9100",
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
		},
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"addr":         "server.addr",
	"database-url": "database.url",
	"redis-addr":   "redis.addr",
	"metrics-addr": "metrics.addr",
	"log-format":   "log.format",
	"log-level":    "log.level",
}

// BindFlags registers the overridable flags on fs with their defaults.
func BindFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("addr", d.Server.Addr, "API listen address")
	fs.String("database-url", d.Database.URL, "database URL (sqlite://path or postgres://...)")
	fs.String("redis-addr", d.Redis.Addr, "redis address for the API key cache (empty disables)")
	fs.String("metrics-addr", d.Metrics.Addr, "metrics and health listen address (empty disables)")
	fs.String("log-format", d.Log.Format, "log format (json or text)")
	fs.String("log-level", d.Log.Level, "log level (debug, info, warn, error)")
}

// Load builds the effective configuration. path may be empty, and fs may be
// nil. Only flags the user actually set override lower layers.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "defaults").Wrap(err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("source", "file").
				With("path", path).
				Wrap(err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnvKey,
	}), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "env").Wrap(err)
	}

	if fs != nil {
		if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		}), nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("operation", "unmarshal").Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// transformEnvKey maps AUTHY_SERVER_READ_HEADER_TIMEOUT to
// server.read_header_timeout: the first segment is the section, the rest is
// the field name.
func transformEnvKey(key, value string) (string, any) {
	trimmed := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, field, found := strings.Cut(trimmed, "_")
	if !found || section == "" || field == "" {
		return "", nil
	}
	return section + "." + field, value
}

// Validate checks that the configuration can start a server.
func (c *Config) Validate() error {
	invalid := func(key, format string, args ...any) error {
		return oops.Code("CONFIG_INVALID").With("key", key).Errorf(format, args...)
	}

	if c.Server.Addr == "" {
		return invalid("server.addr", "server address is required")
	}
	if c.Server.ReadHeaderTimeout <= 0 {
		return invalid("server.read_header_timeout", "read header timeout must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return invalid("server.shutdown_timeout", "shutdown timeout must be positive")
	}
	if _, err := store.ParseURL(c.Database.URL); err != nil {
		return oops.Code("CONFIG_INVALID").With("key", "database.url").Wrap(err)
	}
	if c.Redis.DB < 0 {
		return invalid("redis.db", "redis db must be non-negative, got %d", c.Redis.DB)
	}
	if c.Redis.Enabled() && c.Redis.TTL <= 0 {
		return invalid("redis.ttl", "redis ttl must be positive")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return invalid("log.format", "log format must be json or text, got %q", c.Log.Format)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return oops.Code("CONFIG_INVALID").With("key", "log.level").Wrap(err)
	}
	return nil
}

const redacted = "xxxxx"

// Redacted returns a copy safe to print: database and redis passwords are masked.
func (c Config) Redacted() Config {
	out := c
	if out.Redis.Password != "" {
		out.Redis.Password = redacted
	}
	if u, err := url.Parse(out.Database.URL); err == nil && u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), redacted)
			out.Database.URL = u.String()
		}
	}
	return out
}
