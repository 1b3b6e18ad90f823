// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	correlationIDKey  contextKey = "correlation_id"
	requestIDKey      contextKey = "request_id"
	browserContextKey contextKey = "browser_context"
	tabIDKey          contextKey = "tab_id"
	loggerKey         contextKey = "logger"
)

// GenerateCorrelationID creates a short correlation ID (first 8 characters of a UUID).
func GenerateCorrelationID() string {
	return uuid.New().String()[:8]
}

// GenerateRequestID creates a new unique request ID.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithCorrelationID returns a new context with the given correlation ID.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// ContextWithNewCorrelationID returns a context with a newly generated correlation ID.
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return ContextWithCorrelationID(ctx, GenerateCorrelationID())
}

// CorrelationIDFromContext retrieves the correlation ID from context.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithRequestID returns a new context with the given request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext retrieves the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithBrowserContext records the browser context (cookie namespace)
// that a request belongs to, so log lines of one visitor can be grouped.
func ContextWithBrowserContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, browserContextKey, id)
}

// BrowserContextFromContext retrieves the browser context ID from context.
func BrowserContextFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(browserContextKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithTabID records the originating tab of a request.
func ContextWithTabID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, tabIDKey, id)
}

// TabIDFromContext retrieves the tab ID from context.
func TabIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(tabIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithLogger stores a logger in the context.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext retrieves a logger from context, falling back to the global logger.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return Logger()
}

// Ctx returns a logger with the context's correlation, request, browser
// context and tab IDs attached.
//
//	logging.Ctx(ctx).Info().Msg("Processing request")
func Ctx(ctx context.Context) *zerolog.Logger {
	l := CtxWith(ctx).Logger()
	return &l
}

// CtxWith returns a logger context builder with context values pre-populated.
//
//	logger := logging.CtxWith(ctx).Str("slug", slug).Logger()
func CtxWith(ctx context.Context) zerolog.Context {
	logger := LoggerFromContext(ctx)
	logCtx := logger.With()

	if id := CorrelationIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("correlation_id", id)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("request_id", id)
	}
	if id := BrowserContextFromContext(ctx); id != "" {
		logCtx = logCtx.Str("browser_context", SanitizeID(id))
	}
	if id := TabIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("tab_id", id)
	}

	return logCtx
}

// WithComponent creates a child logger with a component field.
//
//	backendLogger := logging.WithComponent("backend")
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
