// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/guidewiki/internal/auth"
	"github.com/tomtom215/guidewiki/internal/middleware"
)

// Router wires handlers and middleware into the HTTP route tree.
type Router struct {
	handler        *Handler
	shell          *Shell
	chiMiddleware  *ChiMiddleware
	browserContext *auth.BrowserContext
}

// NewRouter creates a router. A nil middleware config uses the defaults.
func NewRouter(handler *Handler, shell *Shell, browserContext *auth.BrowserContext, mwConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:        handler,
		shell:          shell,
		chiMiddleware:  NewChiMiddleware(mwConfig),
		browserContext: browserContext,
	}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)        // X-Request-ID and X-Tab-ID into the logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	if router.browserContext != nil {
		r.Use(router.browserContext.Handler) // Session namespace cookie
	}

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// ========================
	// Core API Endpoints
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		// Page data, one endpoint per front-end route
		r.Route("/pages", func(r chi.Router) {
			r.Get("/home", router.handler.PageHome)
			r.Get("/games/{slug}", router.handler.PageGame)
			r.Get("/guides", router.handler.PageGuides)
			r.Get("/guides/{id}", router.handler.PageGuide)
			r.Get("/maps", router.handler.PageMaps)
		})

		// Map viewer
		r.Get("/games/{slug}/map", router.handler.MountMap)
		r.Get("/map", router.handler.GetMap)
		r.Post("/map/viewport", router.handler.UpdateViewport)

		// Session and authentication
		r.Get("/session", router.handler.GetSession)
		r.Route("/auth", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimitAuth()).Post("/signup", router.handler.SignUp)
			r.With(router.chiMiddleware.RateLimitAuth()).Post("/login", router.handler.Login)
			r.Post("/logout", router.handler.Logout)
		})

		r.With(router.chiMiddleware.RateLimitWebSocket()).Get("/ws", router.handler.WebSocket)
	})

	// ========================
	// Metrics
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// HTML Shell
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(PageSecurityHeaders())

		r.Get("/", router.shell.page("Home", "home", "/api/v1/pages/home"))
		r.Get("/games/{slug}", router.shell.Game)
		r.Get("/guides", router.shell.page("Guides", "guides", "/api/v1/pages/guides"))
		r.Get("/guides/{id}", router.shell.Guide)
		r.Get("/maps", router.shell.page("Interactive Maps", "maps", "/api/v1/pages/maps"))
		r.Get("/login", router.shell.page("Logg inn", "login", ""))

		for _, item := range wikiNav {
			if item.Href == "/maps" {
				continue
			}
			r.Get(item.Href, router.shell.page(item.Label, "wiki", ""))
		}
	})

	r.Handle("/assets/*", router.shell.Assets())

	return r
}
