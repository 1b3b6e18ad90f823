// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package logging

import (
	"context"
	"strings"
)

// AuthEvent is a sign-in, sign-up or sign-out outcome.
type AuthEvent struct {
	// Event is "signin", "signup" or "signout".
	Event    string
	Username string
	UserID   string
	Success  bool
	// Reason is a short machine-readable failure reason such as
	// "username_taken" or "invalid_credentials".
	Reason string
}

// LogAuthEvent writes an auth audit line with identifiers masked.
// Password material never reaches this function.
func LogAuthEvent(ctx context.Context, ev AuthEvent) {
	logger := CtxWith(ctx).Str("component", "auth").Logger()

	e := logger.Info()
	if !ev.Success {
		e = logger.Warn()
	}

	e = e.Str("event", ev.Event).Bool("success", ev.Success)
	if ev.Username != "" {
		e = e.Str("username", SanitizeUsername(ev.Username))
	}
	if ev.UserID != "" {
		e = e.Str("user_id", SanitizeID(ev.UserID))
	}
	if ev.Reason != "" {
		e = e.Str("reason", ev.Reason)
	}
	e.Msg("auth event")
}

// SanitizeID masks an identifier, keeping the first and last 4 characters.
// Example: "3f9c2a1e-...-77d0b1c2" -> "3f9c...b1c2"
func SanitizeID(id string) string {
	if id == "" {
		return ""
	}
	if len(id) <= 12 {
		return "***"
	}
	return id[:4] + "..." + id[len(id)-4:]
}

// SanitizeUsername masks a username, keeping the first 2 characters.
// Example: "johndoe" -> "jo***"
func SanitizeUsername(username string) string {
	username = strings.TrimSpace(username)
	if len(username) <= 2 {
		return "***"
	}
	return username[:2] + "***"
}
