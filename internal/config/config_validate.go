// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package config

import (
	"fmt"
	"strings"
)

// minSessionSecretLength is the minimum length of SESSION_SECRET in production.
const minSessionSecretLength = 32

// Validate checks that configuration values are well formed.
// Missing backend connection parameters are allowed and handled at runtime.
func (c *Config) Validate() error {
	if err := c.validateBackend(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateSession(); err != nil {
		return err
	}

	if err := c.validateMap(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateBackend only checks the URL shape when one is given.
func (c *Config) validateBackend() error {
	if c.Backend.URL != "" {
		if err := validateHTTPURL(c.Backend.URL, "SUPABASE_URL"); err != nil {
			return fmt.Errorf("SUPABASE_URL is invalid: %w", err)
		}
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must not be negative, got %v", c.Backend.Timeout)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}

	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.IsProduction() {
		if len(c.Security.SessionSecret) < minSessionSecretLength {
			return fmt.Errorf("SESSION_SECRET must be at least %d characters in production", minSessionSecretLength)
		}
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain '*' in production")
			}
		}
	}

	if c.Security.CookieName == "" {
		return fmt.Errorf("COOKIE_NAME must not be empty")
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.AuthRateLimitReqs < 1 {
			return fmt.Errorf("AUTH_RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.AuthRateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
		}
	}
	return nil
}

func (c *Config) validateSession() error {
	switch c.Session.Store {
	case "memory", "none":
	case "badger":
		if strings.TrimSpace(c.Session.StorePath) == "" {
			return fmt.Errorf("SESSION_STORE_PATH is required when SESSION_STORE=badger")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be 'memory', 'badger' or 'none', got %q", c.Session.Store)
	}

	if c.Session.TopicBuffer < 0 {
		return fmt.Errorf("SESSION_TOPIC_BUFFER must not be negative, got %d", c.Session.TopicBuffer)
	}
	return nil
}

func (c *Config) validateMap() error {
	if c.Map.MinZoom > c.Map.MaxZoom {
		return fmt.Errorf("MAP_MIN_ZOOM (%v) must not exceed MAP_MAX_ZOOM (%v)", c.Map.MinZoom, c.Map.MaxZoom)
	}
	if c.Map.DefaultWidth < 0 || c.Map.DefaultHeight < 0 {
		return fmt.Errorf("MAP_DEFAULT_WIDTH and MAP_DEFAULT_HEIGHT must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
