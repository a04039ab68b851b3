// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

package account

import "context"

// RevocationStatus is the outcome of deleting an API key.
type RevocationStatus int

// Revocation outcomes.
const (
	RevocationNotFound RevocationStatus = iota
	Revoked
)

// String returns a log-friendly name for the status.
func (s RevocationStatus) String() string {
	if s == Revoked {
		return "revoked"
	}
	return "not_found"
}

// UserStore manages user persistence.
type UserStore interface {
	// FindUserByEmail returns the user with exactly this email.
	// Returns ErrNotFound if no user matches.
	FindUserByEmail(ctx context.Context, email Email) (*User, error)

	// InsertUser stores a new user and returns it as stored.
	// Returns ErrConflict if the email is already registered.
	InsertUser(ctx context.Context, name Name, email Email, password Password) (*User, error)

	// ReplaceUserFields overwrites the non-nil fields of the user with this
	// email in a single statement and returns the resulting row.
	// Returns ErrNotFound if no user matches.
	ReplaceUserFields(ctx context.Context, email Email, name *Name, password *Password) (*User, error)
}

// KeyStore manages API key persistence.
type KeyStore interface {
	// InsertAPIKey stores a key and returns it.
	InsertAPIKey(ctx context.Context, key APIKey) (APIKey, error)

	// DeleteAPIKey removes a key, reporting whether it was present.
	DeleteAPIKey(ctx context.Context, key APIKey) (RevocationStatus, error)

	// APIKeyExists reports whether the key is present.
	APIKeyExists(ctx context.Context, key APIKey) (bool, error)
}

// CredentialStore is the full persistence boundary used by Service.
type CredentialStore interface {
	UserStore
	KeyStore

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error
}
