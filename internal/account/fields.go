// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

package account

import (
	"strings"

	"github.com/samber/oops"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 5

// Email identifies a user. The raw input is kept as-is.
type Email struct {
	value string
}

// NewEmail validates and wraps an email address.
func NewEmail(s string) (Email, error) {
	if strings.TrimSpace(s) == "" {
		return Email{}, oops.Code("ACCOUNT_INVALID_EMAIL").
			With("reason", "empty email").
			Wrapf(ErrValidation, "invalid email: empty email")
	}
	return Email{value: s}, nil
}

// String returns the email exactly as it was given.
func (e Email) String() string {
	return e.value
}

// Name is a user's display name.
type Name struct {
	value string
}

// NewName validates and wraps a display name.
func NewName(s string) (Name, error) {
	if strings.TrimSpace(s) == "" {
		return Name{}, oops.Code("ACCOUNT_EMPTY_NAME").
			Wrapf(ErrValidation, "name cannot be empty")
	}
	return Name{value: s}, nil
}

// String returns the name exactly as it was given.
func (n Name) String() string {
	return n.value
}

// Password is a user's secret, held in plaintext.
type Password struct {
	value string
}

// NewPassword validates and wraps a password.
// Length is counted in bytes.
func NewPassword(s string) (Password, error) {
	if len(s) < MinPasswordLength {
		return Password{}, oops.Code("ACCOUNT_INVALID_PASSWORD").
			With("reason", "too short").
			With("min", MinPasswordLength).
			Wrapf(ErrValidation, "invalid password: password length less than %d", MinPasswordLength)
	}
	return Password{value: s}, nil
}

// String returns the plaintext password.
func (p Password) String() string {
	return p.value
}

// Matches reports whether candidate is exactly the stored password.
// The comparison is plain string equality.
func (p Password) Matches(candidate Password) bool {
	return p.value == candidate.value
}
