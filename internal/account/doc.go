// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

// Package account provides the credential core of authy.
//
// # Domain Types
//
// User fields are value types that can only be built through their
// constructors:
//   - NewEmail - rejects strings that are empty after trimming
//   - NewName - rejects strings that are empty after trimming
//   - NewPassword - rejects strings shorter than MinPasswordLength
//
// Trimming is only used to test emptiness. The stored value is the raw
// input, so "a@b.c" and "a@b.c " are distinct identities.
//
// Passwords are stored and compared as plaintext. This is a known weakness
// carried over from the original data model, not a design recommendation.
//
// # API Keys
//
// An APIKey is 16 random bytes, transported as standard base64 in the
// x-api-key header. Keys carry no owner, scope, or expiry: any key present
// in the store authorizes any guarded request.
//
// # Errors
//
// Every failure wraps one of the sentinel errors in errors.go so that the
// transport layer can classify it with errors.Is, independent of the store
// backend.
package account
