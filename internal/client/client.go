// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

// Package client is an HTTP client for the Authy account API.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samber/oops"

	"github.com/authy/authy/internal/account"
)

// DefaultAddr is the server the client talks to when none is configured.
const DefaultAddr = "http://127.0.0.1:8000"

const basePath = "/api/user"

// APIError is a non-2xx response. Message is the server's JSON string body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Client calls the account API.
type Client struct {
	http   *resty.Client
	apiKey string
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the key sent in the x-api-key header on guarded calls.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithRetryCount retries requests that failed in transport or hit a gateway error.
func WithRetryCount(n int) Option {
	return func(c *Client) { c.http.SetRetryCount(n) }
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultAddr
	}
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json").
			SetRetryCount(2).
			SetRetryWaitTime(100 * time.Millisecond).
			SetRetryMaxWaitTime(2 * time.Second),
	}
	c.http.AddRetryCondition(retryCondition)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// retryCondition retries transport failures and gateway errors on GET and
// PATCH only. A POST register may have committed before the failure.
func retryCondition(r *resty.Response, err error) bool {
	if r == nil || r.Request == nil {
		return false
	}
	switch r.Request.Method {
	case http.MethodGet, http.MethodPatch:
	default:
		return false
	}
	if err != nil {
		return true
	}
	switch r.StatusCode() {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

type loginBody struct {
	Email    string  `json:"email"`
	Password *string `json:"password,omitempty"`
}

type registerBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateBody struct {
	Email    string  `json:"email"`
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

// IssueKey asks the server for a new key. The key itself is written to the
// server log; the returned string is the server's message.
func (c *Client) IssueKey(ctx context.Context) (string, error) {
	var msg string
	if err := c.do(ctx, http.MethodGet, basePath+"/key", false, nil, &msg); err != nil {
		return "", err
	}
	return msg, nil
}

// RevokeKey revokes the configured key.
func (c *Client) RevokeKey(ctx context.Context) (string, error) {
	var msg string
	if err := c.do(ctx, http.MethodGet, basePath+"/logout", true, nil, &msg); err != nil {
		return "", err
	}
	return msg, nil
}

// Login returns the user if email and password match.
func (c *Client) Login(ctx context.Context, email, password string) (*account.User, error) {
	var user account.User
	body := loginBody{Email: email, Password: &password}
	if err := c.do(ctx, http.MethodPost, basePath+"/login", true, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates a user.
func (c *Client) Register(ctx context.Context, name, email, password string) (*account.User, error) {
	var user account.User
	body := registerBody{Name: name, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, basePath, true, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update changes the non-nil fields of the user with this email.
func (c *Client) Update(ctx context.Context, email string, name, password *string) (*account.User, error) {
	var user account.User
	body := updateBody{Email: email, Name: name, Password: password}
	if err := c.do(ctx, http.MethodPatch, basePath, true, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) do(ctx context.Context, method, path string, guarded bool, body, result any) error {
	req := c.http.R().SetContext(ctx).SetResult(result).SetError(new(string))
	if guarded {
		if c.apiKey == "" {
			return oops.Code("CLIENT_API_KEY_REQUIRED").
				With("path", path).
				Errorf("an API key is required for %s %s", method, path)
		}
		req.SetHeader(account.APIKeyHeader, c.apiKey)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return oops.Code("CLIENT_REQUEST_FAILED").
			With("method", method).
			With("path", path).
			Wrap(err)
	}
	if resp.IsError() {
		apiErr := &APIError{Status: resp.StatusCode(), Message: resp.String()}
		if msg, ok := resp.Error().(*string); ok && msg != nil && *msg != "" {
			apiErr.Message = *msg
		}
		return apiErr
	}
	return nil
}
