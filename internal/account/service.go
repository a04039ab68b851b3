// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

package account

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/samber/oops"
)

// Service implements the credential verification protocol.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	store  CredentialStore
	random io.Reader
	logger *slog.Logger
}

// NewService creates a Service that discards its logs.
// random is the source for new API keys, normally crypto/rand.Reader.
func NewService(store CredentialStore, random io.Reader) (*Service, error) {
	return NewServiceWithLogger(store, random, slog.New(slog.DiscardHandler))
}

// NewServiceWithLogger creates a Service that logs to logger.
// Issued API keys are written to this logger.
func NewServiceWithLogger(store CredentialStore, random io.Reader, logger *slog.Logger) (*Service, error) {
	if store == nil {
		return nil, oops.Code("SERVICE_INVALID_CONFIG").Errorf("credential store is required")
	}
	if random == nil {
		return nil, oops.Code("SERVICE_INVALID_CONFIG").Errorf("random source is required")
	}
	if logger == nil {
		return nil, oops.Code("SERVICE_INVALID_CONFIG").Errorf("logger is required")
	}
	return &Service{store: store, random: random, logger: logger}, nil
}

// Register stores a new user.
// Returns ErrConflict if the email is taken.
func (s *Service) Register(ctx context.Context, req Registration) (*User, error) {
	user, err := s.store.InsertUser(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return nil, oops.Code("ACCOUNT_REGISTER_FAILED").
			With("operation", "insert user").
			With("email", req.Email.String()).
			Wrap(err)
	}
	return user, nil
}

// Login returns the user whose email and password both match.
//
// An unknown email fails with ErrNotFound. A missing or wrong password fails
// with ErrPermission. Both carry the same public message at the HTTP layer.
func (s *Service) Login(ctx context.Context, attempt LoginAttempt) (*User, error) {
	user, err := s.store.FindUserByEmail(ctx, attempt.Email)
	if err != nil {
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "find user by email").
			With("email", attempt.Email.String()).
			Wrap(err)
	}

	if attempt.Password == nil {
		return nil, oops.Code("AUTH_INVALID_CREDENTIALS").
			With("reason", "password missing").
			Wrap(ErrPermission)
	}
	if !user.Password.Matches(*attempt.Password) {
		return nil, oops.Code("AUTH_INVALID_CREDENTIALS").
			With("reason", "password mismatch").
			Wrap(ErrPermission)
	}
	return user, nil
}

// Update replaces the supplied fields of an existing user and returns the
// stored result. Unsupplied fields keep their value and the email never
// changes. The merge runs inside the store as one statement.
func (s *Service) Update(ctx context.Context, upd UserUpdate) (*User, error) {
	user, err := s.store.ReplaceUserFields(ctx, upd.Email, upd.Name, upd.Password)
	if err != nil {
		return nil, oops.Code("ACCOUNT_UPDATE_FAILED").
			With("operation", "replace user fields").
			With("email", upd.Email.String()).
			Wrap(err)
	}
	return user, nil
}

// IssueKey generates and stores a new API key.
// The encoded key is logged; callers should not echo it in response bodies.
func (s *Service) IssueKey(ctx context.Context) (APIKey, error) {
	key, err := GenerateAPIKey(s.random)
	if err != nil {
		return APIKey{}, oops.Code("API_KEY_ISSUE_FAILED").
			With("operation", "generate api key").
			Wrap(err)
	}

	stored, err := s.store.InsertAPIKey(ctx, key)
	if err != nil {
		return APIKey{}, oops.Code("API_KEY_ISSUE_FAILED").
			With("operation", "insert api key").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "API key issued", "api_key", stored.Encode())
	return stored, nil
}

// RevokeKey deletes key. A key that was not present is reported as
// RevocationNotFound, not as an error.
func (s *Service) RevokeKey(ctx context.Context, key APIKey) (RevocationStatus, error) {
	status, err := s.store.DeleteAPIKey(ctx, key)
	if err != nil {
		return RevocationNotFound, oops.Code("API_KEY_REVOKE_FAILED").
			With("operation", "delete api key").
			Wrap(err)
	}
	s.logger.DebugContext(ctx, "API key revocation", "status", status.String())
	return status, nil
}

// ValidateKey reports whether key is present in the store.
func (s *Service) ValidateKey(ctx context.Context, key APIKey) (bool, error) {
	exists, err := s.store.APIKeyExists(ctx, key)
	if err != nil {
		return false, oops.Code("API_KEY_VALIDATE_FAILED").
			With("operation", "check api key").
			Wrap(err)
	}
	return exists, nil
}

// Authenticate runs the request guard against this service's store.
func (s *Service) Authenticate(ctx context.Context, headers http.Header) (APIKey, error) {
	return Authenticate(ctx, headers, s.store)
}
