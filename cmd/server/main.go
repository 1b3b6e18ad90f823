// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/guidewiki/internal/api"
	"github.com/tomtom215/guidewiki/internal/auth"
	"github.com/tomtom215/guidewiki/internal/backend"
	"github.com/tomtom215/guidewiki/internal/catalog"
	"github.com/tomtom215/guidewiki/internal/config"
	"github.com/tomtom215/guidewiki/internal/logging"
	"github.com/tomtom215/guidewiki/internal/mapview"
	"github.com/tomtom215/guidewiki/internal/session"
	"github.com/tomtom215/guidewiki/internal/supervisor"
	"github.com/tomtom215/guidewiki/internal/supervisor/services"
	ws "github.com/tomtom215/guidewiki/internal/websocket"
)

const (
	viewerIdleTimeout   = 30 * time.Minute
	viewerPruneInterval = 5 * time.Minute
	storageGCInterval   = 10 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Bool("backend_configured", cfg.Backend.Configured()).
		Str("session_store", cfg.Session.Store).
		Msg("Starting Guidewiki with supervisor tree")

	if !cfg.Backend.Configured() {
		logging.Warn().Msg("Backend URL or API key missing; every page will report that the backend is not configured")
	}
	if cfg.Security.SecretGenerated() {
		logging.Warn().Msg("SESSION_SECRET not set; generated a temporary secret, browser contexts reset on restart")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (RATE_LIMIT_DISABLED=true)")
	}
	if cfg.Session.Store == string(session.StorageMemory) && !cfg.IsDevelopment() {
		logging.Warn().Msg("Session store is 'memory'; signed-in sessions are lost when the server restarts")
	}

	// === SESSION STORE ===
	storage, err := session.OpenStorage(session.StorageType(cfg.Session.Store), cfg.Session.StorePath)
	if err != nil {
		logging.Fatal().Err(err).Str("store", cfg.Session.Store).Msg("Failed to open session storage")
	}
	defer func() {
		if storage == nil {
			return
		}
		if err := storage.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing session storage")
		}
	}()

	pubSub := session.NewPubSub(cfg.Session.TopicBuffer)
	defer func() {
		if err := pubSub.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing session bus")
		}
	}()

	sameTab := session.NewSameTab()
	crossTab := session.NewCrossTab(pubSub)
	store := session.NewStore(storage, session.NewEmitter(sameTab, crossTab))

	// The hub pushes header state to tabs for both event kinds.
	wsHub := ws.NewHub()
	sameTab.Subscribe("", "", wsHub)
	forwarder := session.NewForwarder(pubSub, wsHub)

	// === BACKEND ===
	client := backend.NewCircuitBreakerClient(&cfg.Backend)
	fetcher := catalog.NewFetcher(client)
	viewers := mapview.NewRegistry(mapview.ZoomLimits{Min: cfg.Map.MinZoom, Max: cfg.Map.MaxZoom})

	// === BROWSER CONTEXT ===
	tokens, err := auth.NewContextTokens(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize browser-context tokens")
	}
	cookieCfg := auth.DefaultContextCookieConfig()
	cookieCfg.CookieName = cfg.Security.CookieName
	cookieCfg.CookieSecure = cfg.Security.CookieSecure
	cookieCfg.MaxAge = cfg.Security.CookieMaxAge
	browserContext := auth.NewBrowserContext(tokens, cookieCfg)

	handler := api.NewHandler(api.Deps{
		Config:  cfg,
		Pages:   catalog.NewPages(fetcher),
		Fetcher: fetcher,
		Viewers: viewers,
		Store:   store,
		Auth:    auth.NewService(client, store),
		Hub:     wsHub,
		Breaker: client,
	})

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Security.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.Security.RateLimitWindow
	mwConfig.AuthRateLimitRequests = cfg.Security.AuthRateLimitReqs
	mwConfig.RateLimitDisabled = cfg.Security.RateLimitDisabled

	router := api.NewRouter(handler, api.NewShell(cfg.Server.WebDistDir), browserContext, mwConfig)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// === SUPERVISOR TREE ===
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// State layer
	tree.AddStateService(services.NewViewerPrunerService(viewers, viewerIdleTimeout, viewerPruneInterval))
	if gc, ok := storage.(*session.BadgerStorage); ok {
		tree.AddStateService(services.NewStorageGCService(gc, storageGCInterval))
		logging.Info().Str("path", cfg.Session.StorePath).Msg("Session storage GC added to supervisor tree")
	}

	// Messaging layer
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddMessagingService(forwarder)
	logging.Info().Msg("WebSocket hub and cross-tab forwarder added to supervisor tree")

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
