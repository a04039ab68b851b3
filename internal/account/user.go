// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

package account

import (
	"encoding/json"

	"github.com/samber/oops"
)

// User is a registered account. Email is its identity within the store.
type User struct {
	Name     Name
	Email    Email
	Password Password
}

// NewUser validates raw fields and builds a User.
// The first failing field determines the returned error.
func NewUser(name, email, password string) (*User, error) {
	n, err := NewName(name)
	if err != nil {
		return nil, err
	}
	e, err := NewEmail(email)
	if err != nil {
		return nil, err
	}
	p, err := NewPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{Name: n, Email: e, Password: p}, nil
}

// userJSON is the wire shape of a User.
type userJSON struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MarshalJSON encodes the user including its plaintext password,
// matching the response shape existing clients expect.
func (u User) MarshalJSON() ([]byte, error) {
	//nolint:wrapcheck // json.Marshaler passthrough
	return json.Marshal(userJSON{
		Name:     u.Name.String(),
		Email:    u.Email.String(),
		Password: u.Password.String(),
	})
}

// UnmarshalJSON decodes a user and re-validates every field.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw userJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return oops.Code("ACCOUNT_DECODE_FAILED").With("operation", "unmarshal user").Wrap(err)
	}
	decoded, err := NewUser(raw.Name, raw.Email, raw.Password)
	if err != nil {
		return err
	}
	*u = *decoded
	return nil
}

// Registration is the input to Service.Register.
type Registration struct {
	Name     Name
	Email    Email
	Password Password
}

// LoginAttempt is the input to Service.Login.
// A nil Password always fails verification.
type LoginAttempt struct {
	Email    Email
	Password *Password
}

// UserUpdate is the input to Service.Update.
// Nil fields keep their stored value. Email selects the row and is never changed.
type UserUpdate struct {
	Email    Email
	Name     *Name
	Password *Password
}
