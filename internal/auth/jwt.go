// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/guidewiki/internal/config"
)

// ContextClaims are the claims of a browser-context token.
type ContextClaims struct {
	ContextID string `json:"cid"`
	jwt.RegisteredClaims
}

// ContextTokens issues and validates browser-context tokens.
type ContextTokens struct {
	key    []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewContextTokens creates a token manager keyed from the session secret.
func NewContextTokens(cfg *config.SecurityConfig) (*ContextTokens, error) {
	key, err := config.DeriveKey(cfg.SessionSecret, config.KeyPurposeContextCookie)
	if err != nil {
		return nil, fmt.Errorf("derive context cookie key: %w", err)
	}
	return &ContextTokens{key: key, maxAge: cfg.CookieMaxAge, now: time.Now}, nil
}

// NewContextID returns a fresh browser-context identifier.
func NewContextID() string {
	return uuid.NewString()
}

// Issue signs a token naming the given context.
func (t *ContextTokens) Issue(contextID string) (string, error) {
	now := t.now()
	claims := &ContextClaims{
		ContextID: contextID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.maxAge)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns the context it names.
func (t *ContextTokens) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ContextClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.key, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*ContextClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	if _, err := uuid.Parse(claims.ContextID); err != nil {
		return "", fmt.Errorf("invalid context id: %w", err)
	}
	return claims.ContextID, nil
}
