// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package api

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/guidewiki/internal/logging"
)

//go:embed templates/shell.html
var templateFS embed.FS

var shellTemplate = template.Must(template.ParseFS(templateFS, "templates/shell.html"))

// NavItem is one wiki sidebar entry.
type NavItem struct {
	Href   string
	Label  string
	Active bool
}

// wikiNav lists the sidebar entries in display order.
var wikiNav = []NavItem{
	{Href: "/walkthrough", Label: "Walkthrough"},
	{Href: "/bosses", Label: "Bosses"},
	{Href: "/treasures", Label: "Treasures"},
	{Href: "/weapons", Label: "Weapons"},
	{Href: "/maps", Label: "Interactive Maps"},
	{Href: "/merchant-requests", Label: "Merchants & Requests"},
}

// SidebarFor returns the sidebar with every item whose href prefixes path
// marked active.
func SidebarFor(path string) []NavItem {
	items := make([]NavItem, len(wikiNav))
	for i, item := range wikiNav {
		item.Active = strings.HasPrefix(path, item.Href)
		items[i] = item
	}
	return items
}

// shellData is the template input.
type shellData struct {
	Title        string
	Page         string
	DataEndpoint string
	Nonce        string
	Nav          []NavItem
	Assets       bool
}

// Shell renders the HTML page shell. Pages carry no server-rendered data:
// the shell names the API endpoint the front-end loads its state from.
type Shell struct {
	distDir string
	assets  bool
}

// NewShell creates the shell renderer. When distDir holds a built
// front-end its assets are linked and served.
func NewShell(distDir string) *Shell {
	s := &Shell{distDir: distDir}
	if distDir != "" {
		if info, err := os.Stat(distDir); err == nil && info.IsDir() {
			s.assets = true
		} else {
			logging.Warn().Str("dir", distDir).Msg("Front-end directory not found, serving shell without assets")
		}
	}
	return s
}

func (s *Shell) render(w http.ResponseWriter, r *http.Request, title, page, endpoint string) {
	data := shellData{
		Title:        title,
		Page:         page,
		DataEndpoint: endpoint,
		Nonce:        cspNonce(r.Context()),
		Nav:          SidebarFor(r.URL.Path),
		Assets:       s.assets,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if err := shellTemplate.Execute(w, data); err != nil {
		logging.Error().Err(err).Str("page", page).Msg("Failed to execute shell template")
	}
}

// page returns a handler rendering a fixed page.
func (s *Shell) page(title, page, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, title, page, endpoint)
	}
}

// Game renders the game page shell.
func (s *Shell) Game(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	s.render(w, r, "Game", "game", "/api/v1/pages/games/"+url.PathEscape(slug))
}

// Guide renders the guide detail shell.
func (s *Shell) Guide(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.render(w, r, "Guide", "guide", "/api/v1/pages/guides/"+url.PathEscape(id))
}

// Assets serves the built front-end's files.
func (s *Shell) Assets() http.Handler {
	if !s.assets {
		return http.NotFoundHandler()
	}
	return http.StripPrefix("/assets/", http.FileServer(http.Dir(filepath.Join(s.distDir, "assets"))))
}
