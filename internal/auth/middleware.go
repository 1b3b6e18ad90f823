// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/guidewiki/internal/logging"
)

// ContextCookieConfig holds the browser-context cookie attributes.
type ContextCookieConfig struct {
	// CookieName is the name of the browser-context cookie.
	CookieName string

	// CookiePath is the path for the cookie.
	CookiePath string

	// CookieSecure sets the Secure flag on the cookie.
	CookieSecure bool

	// MaxAge is the cookie lifetime.
	MaxAge time.Duration
}

// DefaultContextCookieConfig returns sensible defaults.
func DefaultContextCookieConfig() *ContextCookieConfig {
	return &ContextCookieConfig{
		CookieName:   "guidewiki_ctx",
		CookiePath:   "/",
		CookieSecure: true,
		MaxAge:       365 * 24 * time.Hour,
	}
}

// BrowserContext assigns every request to a browser context. The context
// is named by a signed cookie; a request without a valid cookie starts a
// new context and receives a fresh cookie.
type BrowserContext struct {
	tokens *ContextTokens
	config *ContextCookieConfig
}

// NewBrowserContext creates the browser-context middleware.
func NewBrowserContext(tokens *ContextTokens, config *ContextCookieConfig) *BrowserContext {
	if config == nil {
		config = DefaultContextCookieConfig()
	}
	return &BrowserContext{tokens: tokens, config: config}
}

// Handler is the middleware.
func (b *BrowserContext) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := b.contextID(r)
		if id == "" {
			id = NewContextID()
			if err := b.setCookie(w, id); err != nil {
				logging.Error().Err(err).Msg("Failed to issue browser context cookie")
			}
		}
		next.ServeHTTP(w, r.WithContext(logging.ContextWithBrowserContext(r.Context(), id)))
	})
}

func (b *BrowserContext) contextID(r *http.Request) string {
	cookie, err := r.Cookie(b.config.CookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	id, err := b.tokens.Parse(cookie.Value)
	if err != nil {
		logging.Debug().Err(err).Msg("Discarding invalid browser context cookie")
		return ""
	}
	return id
}

func (b *BrowserContext) setCookie(w http.ResponseWriter, id string) error {
	token, err := b.tokens.Issue(id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     b.config.CookieName,
		Value:    token,
		Path:     b.config.CookiePath,
		MaxAge:   int(b.config.MaxAge.Seconds()),
		Secure:   b.config.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// BrowserContextID returns the browser context of a request.
func BrowserContextID(ctx context.Context) string {
	return logging.BrowserContextFromContext(ctx)
}
