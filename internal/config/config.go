// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every optional setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// Configuration Categories:
//
//  1. Backend: the hosted PostgREST/Supabase endpoint and its public API key
//  2. Server: HTTP listener, environment mode, static front-end directory
//  3. Security: cookie signing secret, CORS, rate limits
//  4. Session: single-slot session storage backend and event bus sizing
//  5. Map: zoom limits and default viewport for the image map viewer
//  6. Logging: log level and output format
//
// A missing backend URL or API key is not a load error. The application starts
// in a degraded "not configured" mode where every page reports a static error.
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Backend  BackendConfig  `koanf:"backend"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Session  SessionConfig  `koanf:"session"`
	Map      MapConfig      `koanf:"map"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// BackendConfig holds the two connection parameters of the hosted database.
type BackendConfig struct {
	URL    string `koanf:"url"`
	APIKey string `koanf:"api_key"`

	// Timeout bounds a single backend round trip. Zero means no deadline
	// beyond the caller's context.
	Timeout time.Duration `koanf:"timeout"`
}

// Configured reports whether both connection parameters are present.
func (b BackendConfig) Configured() bool {
	return b.URL != "" && b.APIKey != ""
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging, production
	WebDistDir  string        `koanf:"web_dist_dir"`
}

// SecurityConfig holds cookie signing, CORS and rate limit configuration.
type SecurityConfig struct {
	// SessionSecret signs the browser-context cookie. Required in production.
	SessionSecret string `koanf:"session_secret"`

	CookieName   string        `koanf:"cookie_name"`
	CookieSecure bool          `koanf:"cookie_secure"`
	CookieMaxAge time.Duration `koanf:"cookie_max_age"`

	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	AuthRateLimitReqs int           `koanf:"auth_rate_limit_reqs"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	generatedSecret bool
}

// SecretGenerated reports whether SessionSecret was generated at startup.
// Cookies signed with a generated secret do not survive a restart.
func (s SecurityConfig) SecretGenerated() bool {
	return s.generatedSecret
}

// SessionConfig selects where the per-browser session slot is persisted.
type SessionConfig struct {
	// Store is "memory", "badger" or "none". With "none" nothing is
	// persisted: reads return no session and writes report an error.
	Store     string `koanf:"store"`
	StorePath string `koanf:"store_path"`

	// TopicBuffer is the output buffer of the in-process cross-tab topic.
	TopicBuffer int64 `koanf:"topic_buffer"`
}

// MapConfig holds image map viewer limits.
type MapConfig struct {
	MinZoom       float64 `koanf:"min_zoom"`
	MaxZoom       float64 `koanf:"max_zoom"`
	DefaultWidth  int     `koanf:"default_width"`
	DefaultHeight int     `koanf:"default_height"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, console
	Caller bool   `koanf:"caller"` // include caller information
}

// Load reads configuration from defaults, config file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "" || c.Server.Environment == "development"
}
