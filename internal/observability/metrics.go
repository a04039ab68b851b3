// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the custom Prometheus metrics for Authy.
// All methods are safe on a nil *Metrics, which records nothing.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	APIKeyChecksTotal   *prometheus.CounterVec
	APIKeysIssuedTotal  prometheus.Counter
	APIKeyRevokesTotal  *prometheus.CounterVec
}

// NewMetrics creates and registers the Authy metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authy_http_requests_total",
				Help: "Total number of HTTP requests by method, route, and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "authy_http_request_duration_seconds",
				Help:    "HTTP request latency by method and route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		APIKeyChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authy_api_key_checks_total",
				Help: "Total number of API key checks by outcome",
			},
			[]string{"outcome"},
		),
		APIKeysIssuedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "authy_api_keys_issued_total",
				Help: "Total number of API keys issued",
			},
		),
		APIKeyRevokesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authy_api_key_revocations_total",
				Help: "Total number of API key revocations by result",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.APIKeyChecksTotal,
		m.APIKeysIssuedTotal,
		m.APIKeyRevokesTotal,
	)
	return m
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordKeyCheck records a guard outcome such as "accepted" or "unknown".
func (m *Metrics) RecordKeyCheck(outcome string) {
	if m == nil {
		return
	}
	m.APIKeyChecksTotal.WithLabelValues(outcome).Inc()
}

// RecordKeyIssued counts an issued key.
func (m *Metrics) RecordKeyIssued() {
	if m == nil {
		return
	}
	m.APIKeysIssuedTotal.Inc()
}

// RecordKeyRevoked records a revocation result such as "revoked" or "not_found".
func (m *Metrics) RecordKeyRevoked(result string) {
	if m == nil {
		return
	}
	m.APIKeyRevokesTotal.WithLabelValues(result).Inc()
}
