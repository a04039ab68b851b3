// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

package account

import "errors"

// Sentinel errors. Stores and services wrap these with oops codes.
var (
	// ErrNotFound is returned when a requested user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when inserting a user whose email already exists.
	ErrConflict = errors.New("already exists")

	// ErrPermission is returned when a login attempt fails the password check.
	ErrPermission = errors.New("permission denied")

	// ErrValidation is returned when a value type rejects its input.
	ErrValidation = errors.New("validation failed")

	// ErrKeyNotFound is returned by the guard when no usable API key was presented.
	ErrKeyNotFound = errors.New("API key not found")

	// ErrKeyDecode is returned when an API key is not valid base64.
	ErrKeyDecode = errors.New("invalid API key format")
)
