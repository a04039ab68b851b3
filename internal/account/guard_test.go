// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

package account_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/authy/authy/internal/account"
	"github.com/authy/authy/internal/account/mocks"
	"github.com/authy/authy/pkg/errutil"
)

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	issued := account.APIKeyFromBytes([]byte("0123456789abcdef"))

	tests := []struct {
		name      string
		headers   http.Header
		setupMock func(store *mocks.MockCredentialStore)
		wantErr   error
		wantCode  string
	}{
		{
			name:      "no header",
			headers:   http.Header{},
			setupMock: func(_ *mocks.MockCredentialStore) {},
			wantErr:   account.ErrKeyNotFound,
			wantCode:  "API_KEY_MISSING",
		},
		{
			name:      "empty header",
			headers:   http.Header{"X-Api-Key": []string{""}},
			setupMock: func(_ *mocks.MockCredentialStore) {},
			wantErr:   account.ErrKeyNotFound,
			wantCode:  "API_KEY_MISSING",
		},
		{
			name:      "not base64",
			headers:   http.Header{"X-Api-Key": []string{"%%%"}},
			setupMock: func(_ *mocks.MockCredentialStore) {},
			wantErr:   account.ErrKeyDecode,
			wantCode:  "API_KEY_DECODE_FAILED",
		},
		{
			name:    "well formed but never issued",
			headers: http.Header{"X-Api-Key": []string{account.APIKeyFromBytes([]byte("fedcba9876543210")).Encode()}},
			setupMock: func(store *mocks.MockCredentialStore) {
				store.On("APIKeyExists", ctx, mock.AnythingOfType("account.APIKey")).Return(false, nil)
			},
			wantErr:  account.ErrKeyNotFound,
			wantCode: "API_KEY_UNKNOWN",
		},
		{
			name:    "store failure",
			headers: http.Header{"X-Api-Key": []string{issued.Encode()}},
			setupMock: func(store *mocks.MockCredentialStore) {
				store.On("APIKeyExists", ctx, mock.AnythingOfType("account.APIKey")).Return(false, errors.New("connection reset"))
			},
			wantCode: "API_KEY_VALIDATE_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockCredentialStore(t)
			tt.setupMock(store)

			key, err := account.Authenticate(ctx, tt.headers, store)
			require.Error(t, err)
			assert.True(t, key.IsZero())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.False(t, errors.Is(err, account.ErrKeyNotFound))
				assert.False(t, errors.Is(err, account.ErrKeyDecode))
			}
			errutil.AssertErrorCode(t, err, tt.wantCode)
		})
	}
}

func TestAuthenticate_AcceptsIssuedKey(t *testing.T) {
	ctx := context.Background()
	issued := account.APIKeyFromBytes([]byte("0123456789abcdef"))
	store := mocks.NewMockCredentialStore(t)
	store.On("APIKeyExists", ctx, mock.MatchedBy(func(k account.APIKey) bool {
		return k.Equal(issued)
	})).Return(true, nil)

	headers := http.Header{}
	headers.Set(account.APIKeyHeader, issued.Encode())

	key, err := account.Authenticate(ctx, headers, store)
	require.NoError(t, err)
	assert.True(t, key.Equal(issued))
}
