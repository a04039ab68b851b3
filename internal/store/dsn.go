// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

// Package store selects, opens, and migrates the credential database.
package store

import (
	"strings"

	"github.com/samber/oops"
)

// Dialect identifies a supported database engine.
type Dialect string

// Supported dialects.
const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Target is a parsed database URL.
type Target struct {
	Dialect Dialect
	// DSN is what the runtime driver connects with.
	DSN string
	// MigrateURL is what golang-migrate connects with.
	MigrateURL string
}

// ParseURL classifies a database URL by scheme.
//
// Accepted forms:
//   - postgres://, postgresql://, pgx5://
//   - sqlite://path, sqlite:path, sqlite3://path
//
// The bare "sqlite:path" form is accepted so "sqlite:data.db" works as a default.
func ParseURL(databaseURL string) (Target, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"),
		strings.HasPrefix(databaseURL, "postgresql://"):
		_, rest, _ := strings.Cut(databaseURL, "://")
		return Target{
			Dialect:    DialectPostgres,
			DSN:        databaseURL,
			MigrateURL: "pgx5://" + rest,
		}, nil
	case strings.HasPrefix(databaseURL, "pgx5://"):
		rest := strings.TrimPrefix(databaseURL, "pgx5://")
		return Target{
			Dialect:    DialectPostgres,
			DSN:        "postgres://" + rest,
			MigrateURL: databaseURL,
		}, nil
	}

	for _, prefix := range []string{"sqlite3://", "sqlite://", "sqlite:"} {
		if path, ok := strings.CutPrefix(databaseURL, prefix); ok {
			if path == "" {
				return Target{}, oops.Code("DATABASE_URL_INVALID").
					With("url", databaseURL).
					Errorf("sqlite url has no file path")
			}
			return Target{
				Dialect:    DialectSQLite,
				DSN:        path,
				MigrateURL: "sqlite://" + path,
			}, nil
		}
	}

	return Target{}, oops.Code("DATABASE_URL_UNSUPPORTED").
		With("url", redact(databaseURL)).
		Errorf("unsupported database url scheme")
}

// redact drops everything after the scheme so credentials never reach logs.
func redact(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "<opaque>"
	}
	return scheme + "://..."
}
