// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authy/authy/pkg/errutil"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "authy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, "sqlite://data.db", cfg.Database.URL)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_Precedence(t *testing.T) {
	path := writeFile(t, `
server:
  addr: 0.0.0.0:8080
  shutdown_timeout: 5s
database:
  url: postgres://authy:secret@db:5432/authy
log:
  format: text
`)
	t.Setenv("AUTHY_SERVER_ADDR", "0.0.0.0:9090")
	t.Setenv("AUTHY_REDIS_ADDR", "cache:6379")
	t.Setenv("AUTHY_REDIS_DB", "2")
	t.Setenv("AUTHY_SERVER_READ_HEADER_TIMEOUT", "3s")

	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--log-level", "debug"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr, "env beats file")
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout, "file beats defaults")
	assert.Equal(t, 3*time.Second, cfg.Server.ReadHeaderTimeout, "env durations are parsed")
	assert.Equal(t, "postgres://authy:secret@db:5432/authy", cfg.Database.URL)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "debug", cfg.Log.Level, "set flag applies")
	assert.Equal(t, "127.0.0.1:9100", cfg.Metrics.Addr, "unset flag does not clobber defaults")
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	t.Setenv("AUTHY_DATABASE_URL", "sqlite://env.db")

	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--database-url", "sqlite://flag.db"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, "sqlite://flag.db", cfg.Database.URL)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "CONFIG_LOAD_FAILED")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "server: [unclosed"), nil)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "CONFIG_LOAD_FAILED")
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("AUTHY_LOG_FORMAT", "xml")
		_, err := Load("", nil)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
		errutil.AssertErrorContext(t, err, "key", "log.format")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantCode string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty addr", mutate: func(c *Config) { c.Server.Addr = "" }, wantCode: "CONFIG_INVALID"},
		{name: "zero header timeout", mutate: func(c *Config) { c.Server.ReadHeaderTimeout = 0 }, wantCode: "CONFIG_INVALID"},
		{name: "zero shutdown timeout", mutate: func(c *Config) { c.Server.ShutdownTimeout = 0 }, wantCode: "CONFIG_INVALID"},
		{name: "unsupported database", mutate: func(c *Config) { c.Database.URL = "mysql://db/authy" }, wantCode: "DATABASE_URL_UNSUPPORTED"},
		{name: "negative redis db", mutate: func(c *Config) { c.Redis.DB = -1 }, wantCode: "CONFIG_INVALID"},
		{name: "redis without ttl", mutate: func(c *Config) { c.Redis.Addr = "cache:6379"; c.Redis.TTL = 0 }, wantCode: "CONFIG_INVALID"},
		{name: "ttl ignored without redis", mutate: func(c *Config) { c.Redis.TTL = 0 }},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantCode: "LOG_LEVEL_INVALID"},
		{name: "metrics disabled", mutate: func(c *Config) { c.Metrics.Addr = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantCode == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, tt.wantCode)
		})
	}
}

func TestTransformEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AUTHY_DATABASE_URL", "database.url"},
		{"AUTHY_SERVER_READ_HEADER_TIMEOUT", "server.read_header_timeout"},
		{"AUTHY_REDIS_TTL", "redis.ttl"},
		{"AUTHY_ADDR", ""},
		{"AUTHY_", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			key, _ := transformEnvKey(tt.in, "v")
			assert.Equal(t, tt.want, key)
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.Database.URL = "postgres://authy:hunter2@db:5432/authy?sslmode=disable"
	cfg.Redis.Password = "cachepass"

	out := cfg.Redacted()
	assert.NotContains(t, out.Database.URL, "hunter2")
	assert.Contains(t, out.Database.URL, "authy:xxxxx@db:5432")
	assert.Equal(t, "xxxxx", out.Redis.Password)
	assert.Equal(t, "postgres://authy:hunter2@db:5432/authy?sslmode=disable", cfg.Database.URL, "original is untouched")

	plain := Default().Redacted()
	assert.Equal(t, "sqlite://data.db", plain.Database.URL)
	assert.Empty(t, plain.Redis.Password)
}
