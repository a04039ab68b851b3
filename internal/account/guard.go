// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

package account

import (
	"context"
	"net/http"

	"github.com/samber/oops"
)

// Authenticate extracts the API key from headers and checks it against the store.
//
// Outcomes:
//   - header missing or empty: ErrKeyNotFound
//   - header not valid base64: ErrKeyDecode
//   - key not in the store: ErrKeyNotFound
//   - store failure: the store error, wrapped with API_KEY_VALIDATE_FAILED
//
// Handlers call it before doing any guarded work.
func Authenticate(ctx context.Context, headers http.Header, store KeyStore) (APIKey, error) {
	text := headers.Get(APIKeyHeader)
	if text == "" {
		return APIKey{}, oops.Code("API_KEY_MISSING").
			With("header", APIKeyHeader).
			Wrap(ErrKeyNotFound)
	}

	key, err := DecodeAPIKey(text)
	if err != nil {
		return APIKey{}, err
	}

	exists, err := store.APIKeyExists(ctx, key)
	if err != nil {
		return APIKey{}, oops.Code("API_KEY_VALIDATE_FAILED").
			With("operation", "check api key").
			Wrap(err)
	}
	if !exists {
		return APIKey{}, oops.Code("API_KEY_UNKNOWN").Wrap(ErrKeyNotFound)
	}
	return key, nil
}
