// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

package account

import (
	"bytes"
	"crypto/subtle"
	"encoding/base64"
	"io"

	"github.com/samber/oops"
)

// API key configuration.
const (
	APIKeyHeader = "x-api-key"
	APIKeyBytes  = 16
)

// APIKey is an opaque bearer token.
type APIKey struct {
	raw []byte
}

// GenerateAPIKey reads APIKeyBytes bytes from r.
// Callers pass crypto/rand.Reader in production.
func GenerateAPIKey(r io.Reader) (APIKey, error) {
	if r == nil {
		return APIKey{}, oops.Code("API_KEY_GENERATE_FAILED").Errorf("random source is required")
	}
	buf := make([]byte, APIKeyBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return APIKey{}, oops.Code("API_KEY_GENERATE_FAILED").
			With("operation", "read random bytes").
			Wrap(err)
	}
	return APIKey{raw: buf}, nil
}

// DecodeAPIKey parses the standard base64 form produced by Encode.
func DecodeAPIKey(text string) (APIKey, error) {
	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return APIKey{}, oops.Code("API_KEY_DECODE_FAILED").
			With("cause", err.Error()).
			Wrap(ErrKeyDecode)
	}
	return APIKey{raw: raw}, nil
}

// APIKeyFromBytes wraps raw key bytes loaded from a store.
func APIKeyFromBytes(b []byte) APIKey {
	return APIKey{raw: bytes.Clone(b)}
}

// Encode returns the standard base64 form of the key.
func (k APIKey) Encode() string {
	return base64.StdEncoding.EncodeToString(k.raw)
}

// Bytes returns a copy of the raw key bytes.
func (k APIKey) Bytes() []byte {
	return bytes.Clone(k.raw)
}

// String redacts the key so it does not end up in logs by accident.
// Use Encode when the key itself is wanted.
func (k APIKey) String() string {
	return "APIKey(redacted)"
}

// IsZero reports whether the key holds no bytes.
func (k APIKey) IsZero() bool {
	return len(k.raw) == 0
}

// Equal reports whether both keys hold the same bytes.
func (k APIKey) Equal(other APIKey) bool {
	return bytes.Equal(k.raw, other.raw)
}

// EqualConstantTime is Equal without an early exit on the first differing byte.
func (k APIKey) EqualConstantTime(other APIKey) bool {
	return subtle.ConstantTimeCompare(k.raw, other.raw) == 1
}
