// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/guidewiki/internal/config"
	"github.com/tomtom215/guidewiki/internal/logging"
	"github.com/tomtom215/guidewiki/internal/metrics"
)

// BreakerName labels the backend circuit breaker in logs and metrics.
const BreakerName = "backend-api"

// CircuitBreakerClient wraps HTTPClient with the circuit breaker pattern.
// An open circuit fails fast with ErrCircuitOpen; calls are never re-issued.
//
// Only transport failures and 5xx/429 responses count against the breaker.
// A missing row or a duplicate username is an answer, not an outage.
type CircuitBreakerClient struct {
	client *HTTPClient
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// Ensure CircuitBreakerClient implements Client
var _ Client = (*CircuitBreakerClient)(nil)

// NewCircuitBreakerClient creates a backend client with circuit breaker
// Circuit breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewCircuitBreakerClient(cfg *config.BackendConfig) *CircuitBreakerClient {
	client := NewHTTPClient(cfg)
	cbName := BreakerName

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		IsSuccessful: isSuccessful,

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// isSuccessful decides which errors count as breaker failures.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return !apiErr.Transient()
	}
	return false
}

// execute wraps a backend call with circuit breaker protection.
func (cbc *CircuitBreakerClient) execute(target string, fn func() error) error {
	_, err := cbc.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			metrics.RecordBackendCall(target, "rejected", 0)
			logging.Warn().Err(err).Str("target", target).Msg("[CIRCUIT BREAKER] Request rejected")
			return fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		if isSuccessful(err) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)
			return err
		}
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		counts := cbc.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		return err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)
	return nil
}

// Configured reports whether the wrapped client has both connection parameters.
func (cbc *CircuitBreakerClient) Configured() bool {
	return cbc.client.Configured()
}

// Select runs a table query with circuit breaker protection. Unconfigured
// calls bypass the breaker.
func (cbc *CircuitBreakerClient) Select(ctx context.Context, q *Query, dest interface{}) error {
	if !cbc.Configured() {
		return cbc.client.Select(ctx, q, dest)
	}
	return cbc.execute(q.Table(), func() error {
		return cbc.client.Select(ctx, q, dest)
	})
}

// RPC calls a remote procedure with circuit breaker protection.
func (cbc *CircuitBreakerClient) RPC(ctx context.Context, fn string, params, dest interface{}) error {
	if !cbc.Configured() {
		return cbc.client.RPC(ctx, fn, params, dest)
	}
	return cbc.execute("rpc/"+fn, func() error {
		return cbc.client.RPC(ctx, fn, params, dest)
	})
}

// State returns the breaker state as "closed", "half-open" or "open".
func (cbc *CircuitBreakerClient) State() string {
	return stateToString(cbc.cb.State())
}

// Name returns the breaker name.
func (cbc *CircuitBreakerClient) Name() string {
	return cbc.name
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
