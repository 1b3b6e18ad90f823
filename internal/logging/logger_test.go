// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

// captureGlobal swaps the global logger for one writing into a buffer.
func captureGlobal(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Logger()
	prevLevel := zerolog.GlobalLevel()
	SetLogger(NewTestLogger(&buf))
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() {
		SetLogger(prev)
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &buf
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected default format 'json', got '%s'", cfg.Format)
	}
	if !cfg.Timestamp {
		t.Error("expected default timestamp to be true")
	}
}

func TestInit(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev); SetLevelString("info") })

	Init(Config{Level: "debug", Format: "json", Timestamp: true, Output: &buf})
	Info().Msg("test message")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("expected output to contain 'test message', got: %s", output)
	}
	if !strings.Contains(output, `"level":"info"`) {
		t.Errorf("expected output to contain level, got: %s", output)
	}
	if GetLevel() != zerolog.DebugLevel {
		t.Errorf("GetLevel() = %v, want debug", GetLevel())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCtxAddsContextFields(t *testing.T) {
	buf := captureGlobal(t)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr1234")
	ctx = ContextWithBrowserContext(ctx, "0123456789abcdef")
	ctx = ContextWithTabID(ctx, "tab-a")

	Ctx(ctx).Info().Msg("hello")

	out := buf.String()
	for _, want := range []string{`"request_id":"req-1"`, `"correlation_id":"corr1234"`, `"browser_context":"0123...cdef"`, `"tab_id":"tab-a"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestContextGettersEmpty(t *testing.T) {
	ctx := context.Background()
	if RequestIDFromContext(ctx) != "" || CorrelationIDFromContext(ctx) != "" ||
		BrowserContextFromContext(ctx) != "" || TabIDFromContext(ctx) != "" {
		t.Error("expected empty values from bare context")
	}
	if len(GenerateCorrelationID()) != 8 {
		t.Error("correlation IDs should be 8 characters")
	}
	if GenerateRequestID() == GenerateRequestID() {
		t.Error("request IDs should be unique")
	}
}

func TestSlogHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(NewTestLogger(&buf)))

	logger.With("service", "http").WithGroup("tree").Warn("service restarted", "attempt", 2)

	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("expected warn level: %s", out)
	}
	if !strings.Contains(out, `"tree.attempt":2`) {
		t.Errorf("expected grouped attribute: %s", out)
	}
	if !strings.Contains(out, `"service":"http"`) {
		t.Errorf("expected pre-set attribute: %s", out)
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWatermillLogger(t *testing.T) {
	buf := captureGlobal(t)

	var adapter watermill.LoggerAdapter = NewWatermillLogger("session-bus")
	adapter = adapter.With(watermill.LogFields{"topic": "session.storage"})
	adapter.Error("publish failed", errors.New("closed"), watermill.LogFields{"message_uuid": "m1"})

	out := buf.String()
	for _, want := range []string{`"component":"session-bus"`, `"topic":"session.storage"`, `"message_uuid":"m1"`, `"error":"closed"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestLogAuthEventMasksIdentifiers(t *testing.T) {
	buf := captureGlobal(t)

	LogAuthEvent(context.Background(), AuthEvent{
		Event:    "signin",
		Username: "alice",
		UserID:   "3f9c2a1e-0000-0000-0000-77d0b1c2",
		Success:  false,
		Reason:   "invalid_credentials",
	})

	out := buf.String()
	if strings.Contains(out, "alice") {
		t.Errorf("username should be masked: %s", out)
	}
	if !strings.Contains(out, `"username":"al***"`) {
		t.Errorf("expected masked username: %s", out)
	}
	if !strings.Contains(out, `"user_id":"3f9c...b1c2"`) {
		t.Errorf("expected masked user id: %s", out)
	}
	if !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("failed events should log at warn: %s", out)
	}
}

func TestSanitize(t *testing.T) {
	if got := SanitizeUsername("al"); got != "***" {
		t.Errorf("SanitizeUsername(al) = %q", got)
	}
	if got := SanitizeID("short"); got != "***" {
		t.Errorf("SanitizeID(short) = %q", got)
	}
	if got := SanitizeID(""); got != "" {
		t.Errorf("SanitizeID(\"\") = %q", got)
	}
}
