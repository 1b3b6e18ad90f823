// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package auth

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/guidewiki/internal/backend"
	"github.com/tomtom215/guidewiki/internal/logging"
	"github.com/tomtom215/guidewiki/internal/models"
	"github.com/tomtom215/guidewiki/internal/session"
)

// Remote procedure names.
const (
	RPCCreateUser  = "create_user"
	RPCVerifyLogin = "verify_login"
)

// ErrInvalidCredentials is returned when verify_login finds no user.
var ErrInvalidCredentials = errors.New("wrong username or password")

// User-facing messages.
const (
	MsgNotConfigured    = "Supabase not configured"
	MsgUsernameTaken    = "Username is already taken"
	MsgWrongCredentials = "Wrong username or password"
	MsgSignUpFailed     = "Sign up failed"
	MsgLoginFailed      = "Login failed"
)

// credentials is the body of both remote procedures.
type credentials struct {
	Username     string `json:"p_username"`
	PasswordHash string `json:"p_password_hash"`
}

// Service signs users up, in and out.
type Service struct {
	client backend.Client
	store  *session.Store
}

// NewService creates an auth service.
func NewService(client backend.Client, store *session.Store) *Service {
	return &Service{client: client, store: store}
}

// SignUp creates a user and stores the new session for browser context
// ns. origin is the tab that submitted the form.
//
// A session that cannot be persisted (session.ErrNoStorage) is not an
// error: the user was created and the session is returned.
func (s *Service) SignUp(ctx context.Context, ns, origin, username, password string) (*models.Session, error) {
	creds := credentials{Username: username, PasswordHash: HashPassword(password)}

	var userID models.ID
	if err := s.client.RPC(ctx, RPCCreateUser, creds, &userID); err != nil {
		logging.LogAuthEvent(ctx, logging.AuthEvent{Event: "signup", Username: username, Reason: reason(err)})
		return nil, fmt.Errorf("sign up: %w", err)
	}
	if userID.IsZero() {
		logging.LogAuthEvent(ctx, logging.AuthEvent{Event: "signup", Username: username, Reason: "empty_user_id"})
		return nil, errors.New("sign up: backend returned no user id")
	}

	sess := models.Session{UserID: userID, Username: username}
	logging.LogAuthEvent(ctx, logging.AuthEvent{Event: "signup", Username: username, UserID: userID.String(), Success: true})
	return &sess, s.persist(ctx, ns, origin, sess)
}

// SignIn verifies the credentials and stores the session for ns.
func (s *Service) SignIn(ctx context.Context, ns, origin, username, password string) (*models.Session, error) {
	creds := credentials{Username: username, PasswordHash: HashPassword(password)}

	var result json.RawMessage
	if err := s.client.RPC(ctx, RPCVerifyLogin, creds, &result); err != nil {
		logging.LogAuthEvent(ctx, logging.AuthEvent{Event: "signin", Username: username, Reason: reason(err)})
		return nil, fmt.Errorf("sign in: %w", err)
	}
	userID, err := verifiedUserID(result)
	if err != nil {
		logging.LogAuthEvent(ctx, logging.AuthEvent{Event: "signin", Username: username, Reason: "bad_result"})
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if userID.IsZero() {
		logging.LogAuthEvent(ctx, logging.AuthEvent{Event: "signin", Username: username, Reason: "invalid_credentials"})
		return nil, ErrInvalidCredentials
	}

	sess := models.Session{UserID: userID, Username: username}
	logging.LogAuthEvent(ctx, logging.AuthEvent{Event: "signin", Username: username, UserID: userID.String(), Success: true})
	return &sess, s.persist(ctx, ns, origin, sess)
}

// verifiedUserID reads the verify_login result. Falsy results (null,
// false, "", 0 or an empty body) mean no matching user and yield a zero ID.
func verifiedUserID(raw json.RawMessage) (models.ID, error) {
	raw = bytes.TrimSpace(raw)
	switch string(raw) {
	case "", "null", "false", `""`:
		return "", nil
	}
	if raw[0] != '"' {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", fmt.Errorf("unexpected %s result %s", RPCVerifyLogin, raw)
		}
		if f, err := n.Float64(); err == nil && f == 0 {
			return "", nil
		}
	}

	var id models.ID
	if err := json.Unmarshal(raw, &id); err != nil {
		return "", fmt.Errorf("decode %s result: %w", RPCVerifyLogin, err)
	}
	return id, nil
}

// SignOut clears the session of ns.
func (s *Service) SignOut(ctx context.Context, ns, origin string) error {
	err := s.store.Clear(ctx, ns, origin)
	if errors.Is(err, session.ErrNoStorage) {
		err = nil
	}
	logging.LogAuthEvent(ctx, logging.AuthEvent{Event: "signout", Success: err == nil, Reason: reason(err)})
	return err
}

func (s *Service) persist(ctx context.Context, ns, origin string, sess models.Session) error {
	err := s.store.Set(ctx, ns, origin, sess)
	if errors.Is(err, session.ErrNoStorage) {
		logging.Ctx(ctx).Debug().Msg("Session not persisted: no storage")
		return nil
	}
	return err
}

// reason is the audit-log reason for err.
func reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, backend.ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, backend.ErrUsernameTaken):
		return "username_taken"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, backend.ErrCircuitOpen):
		return "circuit_open"
	default:
		return "backend_error"
	}
}

// UserMessage returns the login-page text for an error from SignUp
// (signup true) or SignIn. A backend error message is shown as is; a
// transport failure gets the generic text.
func UserMessage(err error, signup bool) string {
	switch {
	case errors.Is(err, backend.ErrNotConfigured):
		return MsgNotConfigured
	case errors.Is(err, backend.ErrUsernameTaken):
		return MsgUsernameTaken
	case errors.Is(err, ErrInvalidCredentials):
		return MsgWrongCredentials
	}
	if msg := backend.Message(err); msg != "" {
		return msg
	}
	if signup {
		return MsgSignUpFailed
	}
	return MsgLoginFailed
}
