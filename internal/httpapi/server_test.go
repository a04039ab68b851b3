// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

package httpapi_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/authy/authy/internal/httpapi"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestServer_Lifecycle(t *testing.T) {
	f := newFixture(t)
	server := httpapi.NewServer("127.0.0.1:0", f.router, 5*time.Second, slog.New(slog.DiscardHandler))
	assert.Empty(t, server.Addr())

	errCh, err := server.Start()
	require.NoError(t, err)

	_, err = server.Start()
	require.Error(t, err, "double start must fail")

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + server.Addr() + "/api/user/nowhere")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	client.CloseIdleConnections()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `"404"`, string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Stop(ctx))
	require.NoError(t, server.Stop(ctx), "second stop is a no-op")

	select {
	case err, ok := <-errCh:
		if ok {
			assert.NoError(t, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("error channel not closed after shutdown")
	}
}

func TestServer_ListenFailure(t *testing.T) {
	server := httpapi.NewServer("256.0.0.1:0", http.NotFoundHandler(), time.Second, nil)
	_, err := server.Start()
	require.Error(t, err)
}
