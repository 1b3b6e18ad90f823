// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package catalog

import (
	"context"
	"errors"

	"github.com/tomtom215/guidewiki/internal/backend"
	"github.com/tomtom215/guidewiki/internal/logging"
	"github.com/tomtom215/guidewiki/internal/models"
)

// Status is the outcome of one page load. A page is never partially
// rendered: it is either ready (possibly with empty lists) or an error.
type Status string

const (
	StatusReady Status = "ready"
	StatusError Status = "error"
)

// PageState is embedded by every page.
type PageState struct {
	Status Status `json:"status"`

	// Message is the error text when Status is error.
	Message string `json:"message,omitempty"`

	// EmptyText is shown in place of an empty primary list.
	EmptyText string `json:"empty_text,omitempty"`
}

func ready() PageState { return PageState{Status: StatusReady} }

func failed(msg string) PageState { return PageState{Status: StatusError, Message: msg} }

// HomePage lists all games.
type HomePage struct {
	PageState
	Games []models.Game `json:"games"`
}

// GamePage shows one game with its guides and map markers.
type GamePage struct {
	PageState
	Game    *models.Game       `json:"game,omitempty"`
	Guides  []models.Guide     `json:"guides"`
	Markers []models.MapMarker `json:"markers"`
}

// GuidesPage lists every guide with its game.
type GuidesPage struct {
	PageState
	Guides []models.Guide `json:"guides"`
}

// GuidePage shows one guide.
type GuidePage struct {
	PageState
	Guide *models.Guide `json:"guide,omitempty"`
}

// MapsPage lists games that have an interactive map.
type MapsPage struct {
	PageState
	Games []models.Game `json:"games"`
}

// Pages builds page states from Fetcher results. Each method returns
// ErrViewClosed, and nothing else, as its error: every other failure is
// folded into the page's Status and Message.
type Pages struct {
	fetcher *Fetcher
}

// NewPages creates a page builder.
func NewPages(fetcher *Fetcher) *Pages {
	return &Pages{fetcher: fetcher}
}

// Home loads the home page.
func (p *Pages) Home(ctx context.Context) (*HomePage, error) {
	page := &HomePage{Games: []models.Game{}}
	if !p.fetcher.Configured() {
		page.PageState = failed(HomeNotConfigured)
		return page, nil
	}

	games, err := Load(ctx, p.fetcher.ListGames)
	switch {
	case errors.Is(err, ErrViewClosed):
		return nil, err
	case err != nil:
		logLoadError(ctx, "home", err)
		page.PageState = failed(HomeLoadFailed)
		return page, nil
	}

	page.PageState = ready()
	page.Games = games
	if len(games) == 0 {
		page.EmptyText = HomeEmpty
	}
	return page, nil
}

// Game loads the game page for slug.
func (p *Pages) Game(ctx context.Context, slug string) (*GamePage, error) {
	page := &GamePage{Guides: []models.Guide{}, Markers: []models.MapMarker{}}
	if !p.fetcher.Configured() {
		page.PageState = failed(GameNotConfigured)
		return page, nil
	}

	detail, err := Load(ctx, func(ctx context.Context) (*GameDetail, error) {
		return p.fetcher.GameDetail(ctx, slug)
	})
	switch {
	case errors.Is(err, ErrViewClosed):
		return nil, err
	case err != nil:
		logLoadError(ctx, "game", err)
		page.PageState = failed(GameNotFound)
		return page, nil
	}

	page.PageState = ready()
	page.Game = detail.Game
	page.Guides = detail.Guides
	page.Markers = detail.Markers
	if len(detail.Guides) == 0 {
		page.EmptyText = GameNoGuides
	}
	return page, nil
}

// Guides loads the guides overview.
func (p *Pages) Guides(ctx context.Context) (*GuidesPage, error) {
	page := &GuidesPage{Guides: []models.Guide{}}
	if !p.fetcher.Configured() {
		page.PageState = failed(GuidesLoadFailed)
		return page, nil
	}

	guides, err := Load(ctx, p.fetcher.ListGuides)
	switch {
	case errors.Is(err, ErrViewClosed):
		return nil, err
	case err != nil:
		logLoadError(ctx, "guides", err)
		page.PageState = failed(GuidesLoadFailed)
		return page, nil
	}

	page.PageState = ready()
	page.Guides = guides
	if len(guides) == 0 {
		page.EmptyText = GuidesEmpty
	}
	return page, nil
}

// Guide loads one guide's detail page.
func (p *Pages) Guide(ctx context.Context, id string) (*GuidePage, error) {
	page := &GuidePage{}
	if !p.fetcher.Configured() {
		page.PageState = failed(GuideNotConfigured)
		return page, nil
	}

	guide, err := Load(ctx, func(ctx context.Context) (*models.Guide, error) {
		return p.fetcher.GuideByID(ctx, id)
	})
	switch {
	case errors.Is(err, ErrViewClosed):
		return nil, err
	case err != nil:
		logLoadError(ctx, "guide", err)
		page.PageState = failed(GuideNotFound)
		return page, nil
	}

	page.PageState = ready()
	page.Guide = guide
	if !guide.HasContent() {
		page.EmptyText = GuideNoContent
	}
	return page, nil
}

// Maps loads the maps overview.
func (p *Pages) Maps(ctx context.Context) (*MapsPage, error) {
	page := &MapsPage{Games: []models.Game{}}
	if !p.fetcher.Configured() {
		page.PageState = failed(MapsLoadFailed)
		return page, nil
	}

	games, err := Load(ctx, p.fetcher.ListGamesWithMaps)
	switch {
	case errors.Is(err, ErrViewClosed):
		return nil, err
	case err != nil:
		logLoadError(ctx, "maps", err)
		page.PageState = failed(MapsLoadFailed)
		return page, nil
	}

	page.PageState = ready()
	page.Games = games
	if len(games) == 0 {
		page.EmptyText = MapsEmpty
	}
	return page, nil
}

// logLoadError logs a failed page load. Not-found is expected traffic and
// stays at debug.
func logLoadError(ctx context.Context, page string, err error) {
	if errors.Is(err, backend.ErrNotFound) {
		logging.Ctx(ctx).Debug().Err(err).Str("page", page).Msg("Page data not found")
		return
	}
	logging.Ctx(ctx).Error().Err(err).Str("page", page).Msg("Failed to load page data")
}
