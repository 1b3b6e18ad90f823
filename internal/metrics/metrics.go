// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

// Package metrics holds the Prometheus collectors for Guidewiki.
//
// Instrumented areas:
//   - API endpoint latency and throughput
//   - Backend (PostgREST) queries and RPC calls
//   - Backend circuit breaker state
//   - Session change events per delivery transport
//   - WebSocket tab connections
//   - Map viewer mounts
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "guidewiki"

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "API request duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_active_requests",
			Help:      "Current number of active API requests",
		},
	)

	// Backend Metrics
	BackendQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_queries_total",
			Help:      "Total number of backend table queries and RPC calls",
		},
		[]string{"target", "outcome"}, // outcome: ok, not_found, error, not_configured, rejected
	)

	BackendQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_query_duration_seconds",
			Help:      "Backend round-trip duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"target"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_requests_total",
			Help:      "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_consecutive_failures",
			Help:      "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state_transitions_total",
			Help:      "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Session Metrics
	SessionEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Session change events handed to a delivery transport",
		},
		[]string{"kind", "transport"},
	)

	SessionEventErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_event_errors_total",
			Help:      "Session change events a transport failed to deliver",
		},
		[]string{"transport"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_connections",
			Help:      "Current number of connected tabs",
		},
	)

	WSMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_messages_dropped_total",
			Help:      "Messages dropped because a buffer was full",
		},
	)

	// Map Viewer Metrics
	MapViewersMounted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "map_viewers_mounted_total",
			Help:      "Map viewer mounts, labelled by whether a previous game's viewer was reset",
		},
		[]string{"reset"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordBackendCall records one backend round trip.
func RecordBackendCall(target, outcome string, duration time.Duration) {
	BackendQueriesTotal.WithLabelValues(target, outcome).Inc()
	BackendQueryDuration.WithLabelValues(target).Observe(duration.Seconds())
}

// RecordSessionEvent records a session event handed to a transport.
func RecordSessionEvent(kind, transport string, err error) {
	SessionEventsTotal.WithLabelValues(kind, transport).Inc()
	if err != nil {
		SessionEventErrors.WithLabelValues(transport).Inc()
	}
}

// RecordMapViewerMount records a viewer mount.
func RecordMapViewerMount(reset bool) {
	label := "false"
	if reset {
		label = "true"
	}
	MapViewersMounted.WithLabelValues(label).Inc()
}
