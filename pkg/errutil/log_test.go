// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

package errutil_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authy/authy/pkg/errutil"
)

func TestLogError_WithOopsError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	err := oops.Code("USER_DUPLICATE").
		With("email", "ada@example.com").
		Errorf("insert failed")

	errutil.LogError(logger, "register failed", err)

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "ERROR", logEntry["level"])
	assert.Equal(t, "register failed", logEntry["msg"])
	assert.Equal(t, "USER_DUPLICATE", logEntry["code"])
	assert.Contains(t, logEntry, "context")
}

func TestLogError_WithStandardError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	errutil.LogError(logger, "operation failed", errors.New("standard error"))

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "ERROR", logEntry["level"])
	assert.Contains(t, logEntry["error"], "standard error")
	assert.NotContains(t, logEntry, "code")
}

func TestLogErrorContext_ExtraAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	errutil.LogErrorContext(context.Background(), logger, "request failed",
		oops.Code("API_KEY_VALIDATE_FAILED").Errorf("boom"),
		"path", "/api/user/login")

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "/api/user/login", logEntry["path"])
	assert.Equal(t, "API_KEY_VALIDATE_FAILED", logEntry["code"])
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "standard error", err: errors.New("x"), want: ""},
		{name: "oops without code", err: oops.Errorf("x"), want: ""},
		{name: "oops with code", err: oops.Code("A").Errorf("x"), want: "A"},
		{name: "deepest code wins", err: oops.Code("OUTER").Wrap(oops.Code("INNER").Errorf("x")), want: "INNER"},
		{name: "code under fmt wrapping", err: fmt.Errorf("ctx: %w", oops.Code("A").Errorf("x")), want: "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errutil.ErrorCode(tt.err))
		})
	}
}
