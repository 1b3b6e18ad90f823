// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/guidewiki/internal/auth"
	"github.com/tomtom215/guidewiki/internal/backend"
	"github.com/tomtom215/guidewiki/internal/catalog"
	"github.com/tomtom215/guidewiki/internal/config"
	"github.com/tomtom215/guidewiki/internal/mapview"
	"github.com/tomtom215/guidewiki/internal/models"
	"github.com/tomtom215/guidewiki/internal/session"
)

type fakeUser struct {
	hash string
	id   string
}

// fakeBackend is an in-memory backend.Client serving games, guides,
// markers and the two auth procedures.
type fakeBackend struct {
	mu         sync.Mutex
	configured bool
	games      []models.Game
	guides     []models.Guide
	markers    []models.MapMarker
	users      map[string]fakeUser
	hashes     []string
	nextID     int
	rpcErr     error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		configured: true,
		games: []models.Game{
			{ID: "7", Slug: "hades", Title: "Hades", MapImageURL: "https://img.example/hades.png"},
			{ID: "8", Slug: "celeste", Title: "Celeste"},
		},
		guides: []models.Guide{
			{ID: "11", Title: "Tartarus", OrderIndex: 1, Content: "Go up."},
		},
		markers: []models.MapMarker{
			{ID: "21", Label: "Fountain", XPercent: 25, YPercent: 75},
		},
		users: map[string]fakeUser{},
	}
}

func (f *fakeBackend) Configured() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.configured
}

func (f *fakeBackend) Select(ctx context.Context, q *backend.Query, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.configured {
		return backend.ErrNotConfigured
	}

	var body interface{}
	switch q.Table() {
	case catalog.TableGames:
		if !q.IsSingle() {
			body = f.games
			break
		}
		slug := strings.TrimPrefix(q.Values().Get("slug"), "eq.")
		for i := range f.games {
			if f.games[i].Slug == slug {
				body = f.games[i]
			}
		}
		if body == nil {
			return &backend.Error{Status: http.StatusNotAcceptable, Code: "PGRST116", Details: "The result contains 0 rows"}
		}
	case catalog.TableGuides:
		if q.IsSingle() {
			id := strings.TrimPrefix(q.Values().Get("id"), "eq.")
			for i := range f.guides {
				if f.guides[i].ID.String() == id {
					body = f.guides[i]
				}
			}
			if body == nil {
				return &backend.Error{Status: http.StatusNotAcceptable, Code: "PGRST116", Details: "The result contains 0 rows"}
			}
			break
		}
		body = f.guides
	case catalog.TableMarkers:
		body = f.markers
	default:
		return fmt.Errorf("unknown table %s", q.Table())
	}
	return remarshal(body, dest)
}

func (f *fakeBackend) RPC(ctx context.Context, fn string, params, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.configured {
		return backend.ErrNotConfigured
	}
	if f.rpcErr != nil {
		return f.rpcErr
	}

	var creds struct {
		Username string `json:"p_username"`
		Hash     string `json:"p_password_hash"`
	}
	if err := remarshal(params, &creds); err != nil {
		return err
	}
	f.hashes = append(f.hashes, creds.Hash)

	var result interface{}
	switch fn {
	case auth.RPCCreateUser:
		if _, ok := f.users[creds.Username]; ok {
			return &backend.Error{Status: http.StatusBadRequest, Code: "P0001", Message: "username_taken"}
		}
		f.nextID++
		id := fmt.Sprintf("user-%d", f.nextID)
		f.users[creds.Username] = fakeUser{hash: creds.Hash, id: id}
		result = id
	case auth.RPCVerifyLogin:
		if u, ok := f.users[creds.Username]; ok && u.hash == creds.Hash {
			result = u.id
		}
	default:
		return fmt.Errorf("unknown procedure %s", fn)
	}
	return remarshal(result, dest)
}

func remarshal(src, dest interface{}) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// testEnv is a full router over a fake backend.
type testEnv struct {
	backend *fakeBackend
	store   *session.Store
	viewers *mapview.Registry
	handler *Handler
	server  *httptest.Server
}

func testConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{
			SessionSecret:     "test-secret-0123456789abcdef",
			CookieMaxAge:      time.Hour,
			RateLimitDisabled: true,
		},
		Map: config.MapConfig{
			MinZoom:       mapview.DefaultZoomLimits.Min,
			MaxZoom:       mapview.DefaultZoomLimits.Max,
			DefaultWidth:  800,
			DefaultHeight: 600,
		},
	}
}

func setupTestEnv(t *testing.T, storage session.Storage, opts ...func(*Deps)) *testEnv {
	t.Helper()

	cfg := testConfig()
	fb := newFakeBackend()
	fetcher := catalog.NewFetcher(fb)
	store := session.NewStore(storage, nil)
	viewers := mapview.NewRegistry(mapview.ZoomLimits{Min: cfg.Map.MinZoom, Max: cfg.Map.MaxZoom})

	deps := Deps{
		Config:  cfg,
		Pages:   catalog.NewPages(fetcher),
		Fetcher: fetcher,
		Viewers: viewers,
		Store:   store,
		Auth:    auth.NewService(fb, store),
	}
	for _, opt := range opts {
		opt(&deps)
	}
	handler := NewHandler(deps)

	tokens, err := auth.NewContextTokens(&cfg.Security)
	if err != nil {
		t.Fatalf("NewContextTokens: %v", err)
	}
	cookieCfg := auth.DefaultContextCookieConfig()
	cookieCfg.CookieSecure = false
	bc := auth.NewBrowserContext(tokens, cookieCfg)

	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true
	router := NewRouter(handler, NewShell(""), bc, mw)

	server := httptest.NewServer(router.SetupChi())
	t.Cleanup(server.Close)

	return &testEnv{backend: fb, store: store, viewers: viewers, handler: handler, server: server}
}

// browser returns an HTTP client with its own cookie jar, standing in
// for one browser context.
func (e *testEnv) browser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func (e *testEnv) do(t *testing.T, client *http.Client, method, path string, body interface{}) (int, APIResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Tab-ID", "tab-1")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s %s: %v", method, path, err)
	}
	return resp.StatusCode, out
}

// dataAs re-decodes the envelope's data into dest.
func dataAs(t *testing.T, resp APIResponse, dest interface{}) {
	t.Helper()
	if err := remarshal(resp.Data, dest); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}
