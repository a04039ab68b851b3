// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildDSN(t *testing.T) {
	pragmas := "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "plain path", path: "data.db", want: "file:data.db?" + pragmas},
		{name: "absolute path", path: "/var/lib/authy/data.db", want: "file:/var/lib/authy/data.db?" + pragmas},
		{name: "existing query", path: "data.db?mode=rwc", want: "file:data.db?mode=rwc&" + pragmas},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildDSN(tt.path))
		})
	}
}
