// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/guidewiki/internal/auth"
	"github.com/tomtom215/guidewiki/internal/backend"
	"github.com/tomtom215/guidewiki/internal/logging"
	"github.com/tomtom215/guidewiki/internal/models"
	"github.com/tomtom215/guidewiki/internal/session"
)

// credentialsRequest is the body of sign-up and sign-in.
type credentialsRequest struct {
	Username string `json:"username" validate:"required,username,max=64"`
	Password string `json:"password" validate:"required,max=256"`
}

// sessionResponse is the session of a browser context and the header
// built from it. Persistent is false when this server keeps no sessions.
type sessionResponse struct {
	Session    *models.Session     `json:"session"`
	Header     session.HeaderState `json:"header"`
	Persistent bool                `json:"persistent"`
}

func (h *Handler) sessionResponse(sess *models.Session) sessionResponse {
	return sessionResponse{
		Session:    sess,
		Header:     session.HeaderFor(sess),
		Persistent: h.store.Available(),
	}
}

// GetSession returns the stored session of the browser context.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.store.Get(r.Context(), browserContext(r))
	WriteSuccess(w, r, h.sessionResponse(sess))
}

// SignUp creates an account and signs the browser context in.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := h.auth.SignUp(r.Context(), browserContext(r), tabID(r), req.Username, req.Password)
	if err != nil {
		respondAuthError(w, r, err, true)
		return
	}
	NewResponseWriter(w, r).Created(h.sessionResponse(sess))
}

// Login signs the browser context in.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := h.auth.SignIn(r.Context(), browserContext(r), tabID(r), req.Username, req.Password)
	if err != nil {
		respondAuthError(w, r, err, false)
		return
	}
	WriteSuccess(w, r, h.sessionResponse(sess))
}

// Logout clears the session of the browser context.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.SignOut(r.Context(), browserContext(r), tabID(r)); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Sign out failed")
		NewResponseWriter(w, r).InternalError("Sign out failed")
		return
	}
	WriteSuccess(w, r, h.sessionResponse(nil))
}

// respondAuthError maps a sign-up or sign-in failure to a status and the
// user-facing message.
func respondAuthError(w http.ResponseWriter, r *http.Request, err error, signup bool) {
	msg := auth.UserMessage(err, signup)

	switch {
	case errors.Is(err, backend.ErrNotConfigured):
		WriteError(w, r, http.StatusServiceUnavailable, ErrCodeNotConfigured, msg)
	case errors.Is(err, backend.ErrUsernameTaken):
		WriteError(w, r, http.StatusConflict, ErrCodeUsernameTaken, msg)
	case errors.Is(err, auth.ErrInvalidCredentials):
		WriteError(w, r, http.StatusUnauthorized, ErrCodeInvalidCredentials, msg)
	case errors.Is(err, backend.ErrCircuitOpen):
		WriteError(w, r, http.StatusServiceUnavailable, ErrCodeBackend, msg)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Bool("signup", signup).Msg("Auth backend call failed")
		WriteError(w, r, http.StatusBadGateway, ErrCodeBackend, msg)
	}
}
