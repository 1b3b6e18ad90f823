// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/guidewiki/internal/backend"
	"github.com/tomtom215/guidewiki/internal/models"
)

// Backend table names.
const (
	TableGames   = "games"
	TableGuides  = "guides"
	TableMarkers = "map_markers"
)

// gameJoin embeds a guide's parent game under the "game" key.
const gameJoin = "game:games!inner(id,slug,title)"

// Column sets per query.
var (
	gameListColumns   = []string{"id", "slug", "title", "short_description", "cover_image_url", "release_year"}
	gameDetailColumns = []string{"id", "slug", "title", "subtitle", "description", "cover_image_url", "map_image_url"}
	guideListColumns  = []string{"id", "title", "summary", "category", "order_index"}
	markerColumns     = []string{"id", "label", "description", "x_percent", "y_percent", "category", "order_index"}
)

// Fetcher issues the read queries behind every page. It holds no state
// between calls; every result is a fresh copy owned by the caller.
type Fetcher struct {
	client backend.Client
}

// NewFetcher creates a Fetcher over client.
func NewFetcher(client backend.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Configured reports whether the backend can be queried at all.
func (f *Fetcher) Configured() bool {
	return f.client.Configured()
}

// ListGames returns all games ordered by title.
func (f *Fetcher) ListGames(ctx context.Context) ([]models.Game, error) {
	q := backend.From(TableGames).
		Select(gameListColumns...).
		Order("title", true)

	games := []models.Game{}
	if err := f.client.Select(ctx, q, &games); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return nonNil(games), nil
}

// ListGamesWithMaps returns games that have a map image, ordered by title.
func (f *Fetcher) ListGamesWithMaps(ctx context.Context) ([]models.Game, error) {
	columns := append(append([]string{}, gameListColumns...), "map_image_url")
	q := backend.From(TableGames).
		Select(columns...).
		NotNull("map_image_url").
		Order("title", true)

	games := []models.Game{}
	if err := f.client.Select(ctx, q, &games); err != nil {
		return nil, fmt.Errorf("list games with maps: %w", err)
	}
	return nonNil(games), nil
}

// GameBySlug returns the one game with slug, or an error wrapping
// backend.ErrNotFound.
func (f *Fetcher) GameBySlug(ctx context.Context, slug string) (*models.Game, error) {
	q := backend.From(TableGames).
		Select(gameDetailColumns...).
		Eq("slug", slug).
		Single()

	var game models.Game
	if err := f.client.Select(ctx, q, &game); err != nil {
		return nil, fmt.Errorf("game %q: %w", slug, err)
	}
	if game.ID.IsZero() && game.Slug == "" {
		return nil, fmt.Errorf("game %q: %w", slug, backend.ErrNotFound)
	}
	return &game, nil
}

// GuidesForGame returns a game's guides ordered by order_index.
func (f *Fetcher) GuidesForGame(ctx context.Context, gameID models.ID) ([]models.Guide, error) {
	q := backend.From(TableGuides).
		Select(guideListColumns...).
		Eq("game_id", gameID).
		Order("order_index", true)

	guides := []models.Guide{}
	if err := f.client.Select(ctx, q, &guides); err != nil {
		return nil, fmt.Errorf("guides for game %s: %w", gameID, err)
	}
	return nonNil(guides), nil
}

// MarkersForGame returns a game's map markers ordered by order_index.
func (f *Fetcher) MarkersForGame(ctx context.Context, gameID models.ID) ([]models.MapMarker, error) {
	q := backend.From(TableMarkers).
		Select(markerColumns...).
		Eq("game_id", gameID).
		Order("order_index", true)

	markers := []models.MapMarker{}
	if err := f.client.Select(ctx, q, &markers); err != nil {
		return nil, fmt.Errorf("markers for game %s: %w", gameID, err)
	}
	return nonNil(markers), nil
}

// ListGuides returns every guide with its parent game, ordered by order_index.
func (f *Fetcher) ListGuides(ctx context.Context) ([]models.Guide, error) {
	columns := append(append([]string{}, guideListColumns...), gameJoin)
	q := backend.From(TableGuides).
		Select(columns...).
		Order("order_index", true)

	guides := []models.Guide{}
	if err := f.client.Select(ctx, q, &guides); err != nil {
		return nil, fmt.Errorf("list guides: %w", err)
	}
	return nonNil(guides), nil
}

// GuideByID returns one guide with its content and parent game.
func (f *Fetcher) GuideByID(ctx context.Context, id string) (*models.Guide, error) {
	q := backend.From(TableGuides).
		Select("id", "title", "summary", "content", "category", "order_index", gameJoin).
		Eq("id", id).
		Single()

	var guide models.Guide
	if err := f.client.Select(ctx, q, &guide); err != nil {
		return nil, fmt.Errorf("guide %s: %w", id, err)
	}
	if guide.ID.IsZero() {
		return nil, fmt.Errorf("guide %s: %w", id, backend.ErrNotFound)
	}
	return &guide, nil
}

// GameDetail is a game with its guides and markers.
type GameDetail struct {
	Game    *models.Game
	Guides  []models.Guide
	Markers []models.MapMarker
}

// GameDetail loads the game by slug, then its guides and markers in
// parallel. Any failure fails the whole load.
func (f *Fetcher) GameDetail(ctx context.Context, slug string) (*GameDetail, error) {
	game, err := f.GameBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	detail := &GameDetail{Game: game}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		guides, err := f.GuidesForGame(gctx, game.ID)
		detail.Guides = guides
		return err
	})
	g.Go(func() error {
		markers, err := f.MarkersForGame(gctx, game.ID)
		detail.Markers = markers
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
