// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/tomtom215/guidewiki/internal/auth"
	"github.com/tomtom215/guidewiki/internal/backend"
	"github.com/tomtom215/guidewiki/internal/models"
	"github.com/tomtom215/guidewiki/internal/session"
)

type testSessionResponse struct {
	Session    *models.Session     `json:"session"`
	Header     session.HeaderState `json:"header"`
	Persistent bool                `json:"persistent"`
}

func credentials(username, password string) map[string]string {
	return map[string]string{"username": username, "password": password}
}

func TestGetSessionSignedOut(t *testing.T) {
	env := setupTestEnv(t, session.NewMemoryStorage())
	client := env.browser(t)

	status, resp := env.do(t, client, http.MethodGet, "/api/v1/session", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}

	var got testSessionResponse
	dataAs(t, resp, &got)
	if got.Session != nil {
		t.Errorf("session = %+v, want nil", got.Session)
	}
	want := session.HeaderState{LoginText: session.LoginText, LoginHref: session.LoginHref}
	if got.Header != want {
		t.Errorf("header = %+v, want %+v", got.Header, want)
	}
	if !got.Persistent {
		t.Error("persistent should be true with memory storage")
	}
}

func TestSignUpLoginLogout(t *testing.T) {
	env := setupTestEnv(t, session.NewMemoryStorage())
	client := env.browser(t)

	status, resp := env.do(t, client, http.MethodPost, "/api/v1/auth/signup", credentials("alice", "hunter2"))
	if status != http.StatusCreated {
		t.Fatalf("signup status = %d (%+v)", status, resp.Error)
	}
	var signedUp testSessionResponse
	dataAs(t, resp, &signedUp)
	if signedUp.Session == nil || signedUp.Session.Username != "alice" || signedUp.Session.UserID != "user-1" {
		t.Fatalf("session = %+v", signedUp.Session)
	}
	if !signedUp.Header.SignedIn || signedUp.Header.Username != "alice" {
		t.Errorf("header = %+v", signedUp.Header)
	}

	// The password never reaches the backend in clear text.
	env.backend.mu.Lock()
	hashes := append([]string(nil), env.backend.hashes...)
	env.backend.mu.Unlock()
	if len(hashes) != 1 || hashes[0] != auth.HashPassword("hunter2") {
		t.Errorf("hashes = %v", hashes)
	}

	// The session survives across requests of the same browser.
	_, resp = env.do(t, client, http.MethodGet, "/api/v1/session", nil)
	var stored testSessionResponse
	dataAs(t, resp, &stored)
	if stored.Session == nil || stored.Session.Username != "alice" {
		t.Fatalf("stored session = %+v", stored.Session)
	}

	status, resp = env.do(t, client, http.MethodPost, "/api/v1/auth/logout", nil)
	if status != http.StatusOK {
		t.Fatalf("logout status = %d", status)
	}
	_, resp = env.do(t, client, http.MethodGet, "/api/v1/session", nil)
	var cleared testSessionResponse
	dataAs(t, resp, &cleared)
	if cleared.Session != nil || cleared.Header.SignedIn {
		t.Errorf("after logout = %+v", cleared)
	}

	status, resp = env.do(t, client, http.MethodPost, "/api/v1/auth/login", credentials("alice", "hunter2"))
	if status != http.StatusOK {
		t.Fatalf("login status = %d (%+v)", status, resp.Error)
	}
	var loggedIn testSessionResponse
	dataAs(t, resp, &loggedIn)
	if loggedIn.Session == nil || loggedIn.Session.UserID != "user-1" {
		t.Errorf("login session = %+v", loggedIn.Session)
	}
}

func TestSessionsAreScopedToBrowserContext(t *testing.T) {
	env := setupTestEnv(t, session.NewMemoryStorage())
	alice, other := env.browser(t), env.browser(t)

	if status, _ := env.do(t, alice, http.MethodPost, "/api/v1/auth/signup", credentials("alice", "pw")); status != http.StatusCreated {
		t.Fatalf("signup status = %d", status)
	}

	_, resp := env.do(t, other, http.MethodGet, "/api/v1/session", nil)
	var got testSessionResponse
	dataAs(t, resp, &got)
	if got.Session != nil {
		t.Errorf("other browser sees session %+v", got.Session)
	}
}

func TestAuthErrors(t *testing.T) {
	env := setupTestEnv(t, session.NewMemoryStorage())
	client := env.browser(t)

	if status, _ := env.do(t, client, http.MethodPost, "/api/v1/auth/signup", credentials("alice", "pw")); status != http.StatusCreated {
		t.Fatalf("seed signup status = %d", status)
	}

	tests := []struct {
		name       string
		path       string
		body       interface{}
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "duplicate username",
			path:       "/api/v1/auth/signup",
			body:       credentials("alice", "other"),
			wantStatus: http.StatusConflict,
			wantCode:   ErrCodeUsernameTaken,
			wantMsg:    auth.MsgUsernameTaken,
		},
		{
			name:       "wrong password",
			path:       "/api/v1/auth/login",
			body:       credentials("alice", "wrong"),
			wantStatus: http.StatusUnauthorized,
			wantCode:   ErrCodeInvalidCredentials,
			wantMsg:    auth.MsgWrongCredentials,
		},
		{
			name:       "unknown user",
			path:       "/api/v1/auth/login",
			body:       credentials("bob", "pw"),
			wantStatus: http.StatusUnauthorized,
			wantCode:   ErrCodeInvalidCredentials,
			wantMsg:    auth.MsgWrongCredentials,
		},
		{
			name:       "missing password",
			path:       "/api/v1/auth/login",
			body:       map[string]string{"username": "alice"},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidation,
		},
		{
			name:       "username with surrounding spaces",
			path:       "/api/v1/auth/signup",
			body:       credentials(" alice", "pw"),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := env.do(t, client, http.MethodPost, tt.path, tt.body)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d", status, tt.wantStatus)
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Fatalf("error = %+v, want code %s", resp.Error, tt.wantCode)
			}
			if tt.wantMsg != "" && resp.Error.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", resp.Error.Message, tt.wantMsg)
			}
		})
	}
}

func TestAuthBackendFailures(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(fb *fakeBackend)
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "not configured",
			setup:      func(fb *fakeBackend) { fb.configured = false },
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   ErrCodeNotConfigured,
			wantMsg:    auth.MsgNotConfigured,
		},
		{
			name:       "circuit open",
			setup:      func(fb *fakeBackend) { fb.rpcErr = backend.ErrCircuitOpen },
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   ErrCodeBackend,
			wantMsg:    auth.MsgLoginFailed,
		},
		{
			name: "backend message shown",
			setup: func(fb *fakeBackend) {
				fb.rpcErr = &backend.Error{Status: http.StatusBadRequest, Message: "account locked"}
			},
			wantStatus: http.StatusBadGateway,
			wantCode:   ErrCodeBackend,
			wantMsg:    "account locked",
		},
		{
			name:       "transport failure",
			setup:      func(fb *fakeBackend) { fb.rpcErr = errors.New("connection refused") },
			wantStatus: http.StatusBadGateway,
			wantCode:   ErrCodeBackend,
			wantMsg:    auth.MsgLoginFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t, session.NewMemoryStorage())
			env.backend.mu.Lock()
			tt.setup(env.backend)
			env.backend.mu.Unlock()

			status, resp := env.do(t, env.browser(t), http.MethodPost, "/api/v1/auth/login", credentials("alice", "pw"))
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d", status, tt.wantStatus)
			}
			if resp.Error.Code != tt.wantCode || resp.Error.Message != tt.wantMsg {
				t.Errorf("error = %+v", resp.Error)
			}
		})
	}
}

func TestSignInWithoutStorage(t *testing.T) {
	env := setupTestEnv(t, nil)
	client := env.browser(t)

	status, resp := env.do(t, client, http.MethodPost, "/api/v1/auth/signup", credentials("alice", "pw"))
	if status != http.StatusCreated {
		t.Fatalf("signup status = %d (%+v)", status, resp.Error)
	}
	var got testSessionResponse
	dataAs(t, resp, &got)
	if got.Session == nil || got.Persistent {
		t.Errorf("got %+v, want a non-persistent session", got)
	}

	_, resp = env.do(t, client, http.MethodGet, "/api/v1/session", nil)
	var after testSessionResponse
	dataAs(t, resp, &after)
	if after.Session != nil {
		t.Errorf("session stored without storage: %+v", after.Session)
	}
}
