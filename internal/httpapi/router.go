// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

// Package httpapi exposes the account service over HTTP with gin.
package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/authy/authy/internal/account"
	"github.com/authy/authy/internal/logging"
	"github.com/authy/authy/internal/observability"
)

// RequestIDHeader carries the request ID. A valid ULID sent by the caller is
// reused; anything else is replaced.
const RequestIDHeader = "X-Request-ID"

// BasePath is where the account routes are mounted.
const BasePath = "/api/user"

const unmatchedRoute = "unmatched"

var tracer = otel.Tracer("github.com/authy/authy/internal/httpapi")

// Option configures the router.
type Option func(*Handler)

// WithLogger sets the request and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMetrics records request and API key metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// NewRouter builds the gin engine serving svc.
//
//	GET   /api/user/key     issue a key (unguarded)
//	GET   /api/user/logout  revoke the presented key
//	POST  /api/user/login   verify credentials
//	POST  /api/user         register
//	PATCH /api/user         update name and/or password
func NewRouter(svc *account.Service, opts ...Option) *gin.Engine {
	h := &Handler{svc: svc, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(h)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(h.requestContext(), h.recovery())

	r.NoRoute(func(c *gin.Context) { c.JSON(http.StatusNotFound, msgNoRoute) })
	r.NoMethod(func(c *gin.Context) { c.JSON(http.StatusMethodNotAllowed, msgNoMethod) })

	api := r.Group(BasePath)
	api.GET("/key", h.issueKey)
	api.GET("/logout", h.revokeKey)
	api.POST("/login", h.login)
	for _, p := range []string{"", "/"} {
		api.POST(p, h.register)
		api.PATCH(p, h.update)
	}
	return r
}

// requestContext attaches a request ID and span to the request context,
// then logs and measures the request once it completes.
func (h *Handler) requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if _, err := ulid.ParseStrict(id); err != nil {
			id = ulid.Make().String()
		}
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		ctx := logging.WithRequestID(c.Request.Context(), id)
		ctx, span := tracer.Start(ctx, c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route),
			))
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, id)

		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start)
		span.SetAttributes(attribute.Int("http.status_code", status))
		h.metrics.ObserveRequest(c.Request.Method, route, status, elapsed)
		h.logger.InfoContext(ctx, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", route,
			"status", status,
			"latency", elapsed)
	}
}

// recovery turns a handler panic into a 500 with a generic body.
func (h *Handler) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		h.logger.ErrorContext(c.Request.Context(), "panic recovered",
			"route", c.FullPath(),
			"panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, msgPanic)
	})
}
