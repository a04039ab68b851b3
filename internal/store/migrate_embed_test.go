// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

package store

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsFS_EmbeddedFiles(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}_\w+\.(up|down)\.sql$`)

	byDialect := make(map[Dialect][]string)
	for _, dialect := range []Dialect{DialectPostgres, DialectSQLite} {
		entries, err := migrationsFS.ReadDir(migrationsDir(dialect))
		require.NoError(t, err, "should read embedded %s migrations", dialect)

		for _, entry := range entries {
			assert.True(t, pattern.MatchString(entry.Name()),
				"file %s should match pattern NNNNNN_name.(up|down).sql", entry.Name())
			byDialect[dialect] = append(byDialect[dialect], entry.Name())
		}
	}

	assert.Contains(t, byDialect[DialectPostgres], "000001_create_users.up.sql")
	assert.Contains(t, byDialect[DialectPostgres], "000001_create_users.down.sql")
	assert.ElementsMatch(t, byDialect[DialectPostgres], byDialect[DialectSQLite],
		"both dialects must ship the same migration set")
}
