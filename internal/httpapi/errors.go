// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

package httpapi

import (
	"errors"
	"net/http"

	"github.com/authy/authy/internal/account"
	"github.com/authy/authy/pkg/errutil"
)

// Response bodies. Every body is a bare JSON string.
const (
	msgKeyIssued      = "Api key generated. See logs for details."
	msgLogout         = "logout successful"
	msgInvalidRequest = "invalid request"
	msgKeyInvalid     = "API key missing/invalid"
	msgInvalidUser    = "invalid user detail"
	msgDuplicateUser  = "User already registered"
	msgServerError    = "a server error occurred"
	msgBadBody        = "invalid request body"
	msgUserError      = "usr parsing error: "
	msgNoRoute        = "404"
	msgNoMethod       = "request error"
	msgPanic          = "internal server error"
)

// validationMessages maps value-type error codes to the rule shown to callers.
var validationMessages = map[string]string{
	"ACCOUNT_EMPTY_NAME":       "name cannot be empty",
	"ACCOUNT_INVALID_EMAIL":    "invalid email: empty email",
	"ACCOUNT_INVALID_PASSWORD": "invalid password: password length less than 5",
}

// classify maps a domain error to a status and a public message.
// Only account sentinels are consulted; store details never reach the body.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, account.ErrKeyNotFound), errors.Is(err, account.ErrKeyDecode):
		return http.StatusBadRequest, msgKeyInvalid
	case errors.Is(err, account.ErrValidation):
		rule, ok := validationMessages[errutil.ErrorCode(err)]
		if !ok {
			rule = "invalid input"
		}
		return http.StatusUnauthorized, msgUserError + rule
	case errors.Is(err, account.ErrPermission):
		return http.StatusUnauthorized, msgInvalidUser
	case errors.Is(err, account.ErrNotFound):
		return http.StatusNotFound, msgInvalidUser
	case errors.Is(err, account.ErrConflict):
		return http.StatusConflict, msgDuplicateUser
	default:
		return http.StatusInternalServerError, msgServerError
	}
}

// keyOutcome labels a guard failure for metrics.
func keyOutcome(err error) string {
	switch {
	case errors.Is(err, account.ErrKeyDecode):
		return "malformed"
	case errutil.ErrorCode(err) == "API_KEY_MISSING":
		return "missing"
	case errors.Is(err, account.ErrKeyNotFound):
		return "unknown"
	default:
		return "error"
	}
}
