// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/guidewiki/config.yaml",
	"/etc/guidewiki/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// generatedSecretBytes is the entropy of a development-only cookie secret.
const generatedSecretBytes = 32

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:     "",
			APIKey:  "",
			Timeout: 0, // no client-side deadline on backend calls
		},
		Server: ServerConfig{
			Port:        3000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
			WebDistDir:  "./web/dist",
		},
		Security: SecurityConfig{
			SessionSecret:     "",
			CookieName:        "guidewiki_ctx",
			CookieSecure:      false,
			CookieMaxAge:      365 * 24 * time.Hour,
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			AuthRateLimitReqs: 10,
			RateLimitDisabled: false,
		},
		Session: SessionConfig{
			Store:       "memory",
			StorePath:   "/data/sessions",
			TopicBuffer: 64,
		},
		Map: MapConfig{
			MinZoom:       -1,
			MaxZoom:       4,
			DefaultWidth:  800,
			DefaultHeight: 600,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// SUPABASE_URL -> backend.url, HTTP_PORT -> server.port
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.Backend.URL = strings.TrimSuffix(strings.TrimSpace(cfg.Backend.URL), "/")
	cfg.Backend.APIKey = strings.TrimSpace(cfg.Backend.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	if cfg.Security.SessionSecret == "" {
		secret, err := generateSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		cfg.Security.SessionSecret = secret
		cfg.Security.generatedSecret = true
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak into config.
var envMappings = map[string]string{
	// Backend connection parameters. The NEXT_PUBLIC_ names are accepted so an
	// existing front-end .env file can be reused as is.
	"supabase_url":                  "backend.url",
	"backend_url":                   "backend.url",
	"next_public_supabase_url":      "backend.url",
	"supabase_anon_key":             "backend.api_key",
	"backend_api_key":               "backend.api_key",
	"next_public_supabase_anon_key": "backend.api_key",
	"backend_timeout":               "backend.timeout",

	// Server
	"http_port":      "server.port",
	"http_host":      "server.host",
	"server_timeout": "server.timeout",
	"environment":    "server.environment",
	"web_dist_dir":   "server.web_dist_dir",

	// Security
	"session_secret":           "security.session_secret",
	"cookie_name":              "security.cookie_name",
	"cookie_secure":            "security.cookie_secure",
	"cookie_max_age":           "security.cookie_max_age",
	"cors_origins":             "security.cors_origins",
	"rate_limit_requests":      "security.rate_limit_reqs",
	"rate_limit_window":        "security.rate_limit_window",
	"auth_rate_limit_requests": "security.auth_rate_limit_reqs",
	"rate_limit_disabled":      "security.rate_limit_disabled",

	// Session storage
	"session_store":        "session.store",
	"session_store_path":   "session.store_path",
	"session_topic_buffer": "session.topic_buffer",

	// Map viewer
	"map_min_zoom":       "map.min_zoom",
	"map_max_zoom":       "map.max_zoom",
	"map_default_width":  "map.default_width",
	"map_default_height": "map.default_height",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - SUPABASE_URL -> backend.url
//   - SUPABASE_ANON_KEY -> backend.api_key
//   - HTTP_PORT -> server.port
//   - SESSION_STORE -> session.store
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

func generateSecret() (string, error) {
	buf := make([]byte, generatedSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
