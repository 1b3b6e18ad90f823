// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/guidewiki/internal/config"
	"github.com/tomtom215/guidewiki/internal/logging"
	"github.com/tomtom215/guidewiki/internal/metrics"
)

// Client is the backend surface used by the data fetchers and the auth
// service.
type Client interface {
	// Configured reports whether URL and API key are both present.
	Configured() bool

	// Select runs q and decodes the result into dest: a slice pointer for
	// list queries, a struct pointer for Single queries.
	Select(ctx context.Context, q *Query, dest interface{}) error

	// RPC calls the remote procedure fn with params as its JSON body and
	// decodes the return value into dest (which may be nil).
	RPC(ctx context.Context, fn string, params, dest interface{}) error
}

const (
	restPath         = "/rest/v1/"
	rpcPath          = "/rest/v1/rpc/"
	acceptObject     = "application/vnd.pgrst.object+json"
	acceptJSON       = "application/json"
	maxResponseBytes = 8 << 20
)

// HTTPClient talks to a PostgREST endpoint (a Supabase project) over HTTP.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client from backend configuration. A client built
// from incomplete configuration is valid; every call returns ErrNotConfigured.
func NewHTTPClient(cfg *config.BackendConfig) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Configured reports whether the client has both connection parameters.
func (c *HTTPClient) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// Select runs a table query.
func (c *HTTPClient) Select(ctx context.Context, q *Query, dest interface{}) error {
	if !c.Configured() {
		metrics.RecordBackendCall(q.Table(), outcome(ErrNotConfigured), 0)
		return ErrNotConfigured
	}

	endpoint := c.baseURL + restPath + url.PathEscape(q.Table())
	if params := q.Values().Encode(); params != "" {
		endpoint += "?" + params
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	accept := acceptJSON
	if q.IsSingle() {
		accept = acceptObject
	}
	c.setHeaders(req, accept)

	return c.do(req, q.Table(), dest)
}

// RPC calls a remote procedure.
func (c *HTTPClient) RPC(ctx context.Context, fn string, params, dest interface{}) error {
	target := "rpc/" + fn
	if !c.Configured() {
		metrics.RecordBackendCall(target, outcome(ErrNotConfigured), 0)
		return ErrNotConfigured
	}

	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode %s params: %w", fn, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+rpcPath+url.PathEscape(fn), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, acceptJSON)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, target, dest)
}

func (c *HTTPClient) setHeaders(req *http.Request, accept string) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", accept)
}

// do executes req, classifies non-2xx responses and decodes the body.
func (c *HTTPClient) do(req *http.Request, target string, dest interface{}) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordBackendCall(target, outcome(err), time.Since(start))
	}()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend %s request failed: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", target, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseError(resp.StatusCode, target, body)
		logging.Debug().
			Str("target", target).
			Int("status", resp.StatusCode).
			Str("code", apiErr.Code).
			Msg("Backend returned an error response")
		return apiErr
	}

	if dest == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", target, err)
	}
	return nil
}
