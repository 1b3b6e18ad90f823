// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package backend

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// Sentinel errors. Callers classify with errors.Is.
var (
	// ErrNotConfigured is returned by every call when the backend URL or
	// API key is missing.
	ErrNotConfigured = errors.New("backend not configured")

	// ErrNotFound is returned when a single-row query matched no row.
	ErrNotFound = errors.New("no matching row")

	// ErrUsernameTaken is returned when create_user rejects a duplicate name.
	ErrUsernameTaken = errors.New("username taken")

	// ErrCircuitOpen is returned when the circuit breaker rejects a call.
	ErrCircuitOpen = errors.New("backend circuit breaker open")
)

// PostgREST error code for "JSON object requested, multiple (or no) rows returned".
const codeSingularity = "PGRST116"

// usernameTakenMarker is the exception text raised by create_user.
const usernameTakenMarker = "username_taken"

// Error is a non-2xx response from the backend. The JSON fields follow the
// PostgREST error body.
type Error struct {
	Status  int    `json:"-"`
	Target  string `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// Error implements error.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("backend %s returned status %d (%s): %s", e.Target, e.Status, e.Code, msg)
	}
	return fmt.Sprintf("backend %s returned status %d: %s", e.Target, e.Status, msg)
}

// Unwrap maps well-known backend responses onto the package sentinels so
// errors.Is(err, ErrNotFound) and errors.Is(err, ErrUsernameTaken) work on
// the raw response error.
func (e *Error) Unwrap() error {
	switch {
	case e.Code == codeSingularity && zeroRows(e.Details):
		return ErrNotFound
	case strings.Contains(e.Message, usernameTakenMarker),
		strings.Contains(e.Details, usernameTakenMarker):
		return ErrUsernameTaken
	default:
		return nil
	}
}

// Transient reports whether the failure is on the backend side rather than
// a rejection of this particular request.
func (e *Error) Transient() bool {
	return e.Status >= http.StatusInternalServerError || e.Status == http.StatusTooManyRequests
}

// zeroRows recognizes the PostgREST detail text for an empty singular result.
func zeroRows(details string) bool {
	return details == "" || strings.Contains(details, "0 rows")
}

// parseError builds an *Error from a response body. Bodies that are not a
// PostgREST error object keep their raw text as the message.
func parseError(status int, target string, body []byte) *Error {
	apiErr := &Error{Status: status, Target: target}
	if len(body) > 0 {
		if err := json.Unmarshal(body, apiErr); err != nil || (apiErr.Message == "" && apiErr.Code == "") {
			apiErr.Message = strings.TrimSpace(string(body))
		}
	}
	return apiErr
}

// Message returns the backend's own error text when err carries one.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// outcome classifies an error for the backend_queries_total metric.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrCircuitOpen):
		return "rejected"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
