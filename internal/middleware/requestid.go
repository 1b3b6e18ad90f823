// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

// Package middleware contains HTTP middleware shared by the page shell and the JSON API.
package middleware

import (
	"context"
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/tomtom215/guidewiki/internal/logging"
)

type contextKey string

// RequestIDKey is the context key holding the request ID.
const RequestIDKey contextKey = "request_id"

// TabIDHeader carries the caller's tab identifier on HTTP requests.
const TabIDHeader = "X-Tab-ID"

// validID accepts upstream request and tab IDs that are safe to log and echo.
var validID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// RequestID assigns each request an ID, echoes it in X-Request-ID and stores
// it in the logging context. An upstream X-Request-ID is reused when well formed.
// A well-formed X-Tab-ID header is recorded as the originating tab.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if !validID.MatchString(requestID) {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = logging.ContextWithRequestID(ctx, requestID)
		ctx = logging.ContextWithNewCorrelationID(ctx)

		if tab := r.Header.Get(TabIDHeader); validID.MatchString(tab) {
			ctx = logging.ContextWithTabID(ctx, tab)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// ValidTabID reports whether id is acceptable as a tab identifier.
func ValidTabID(id string) bool {
	return validID.MatchString(id)
}
