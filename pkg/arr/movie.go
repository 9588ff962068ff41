/*
 * requestarr is a Discord bot to search and request movies, TV shows and books.
 * Copyright (C) 2025  Lucas Duport
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package arr

import (
	"context"

	"github.com/lucasduport/requestarr/pkg/types"
)

// MovieClient adds movies through Radarr.
type MovieClient struct {
	*Client
}

var _ Service = (*MovieClient)(nil)

// NewMovieClient creates a Radarr adapter.
func NewMovieClient(baseURL, apiKey string) *MovieClient {
	return &MovieClient{Client: NewClient("radarr", baseURL, apiKey)}
}

// Lookup searches Radarr's catalog for movies matching term.
func (c *MovieClient) Lookup(ctx context.Context, term string) ([]types.SearchResult, error) {
	return c.lookup(ctx, "movie", term)
}

type movieAddRequest struct {
	Title            string          `json:"title"`
	QualityProfileID int             `json:"qualityProfileId"`
	TitleSlug        string          `json:"titleSlug"`
	Images           []types.Image   `json:"images"`
	TmdbID           int64           `json:"tmdbId"`
	Year             int             `json:"year"`
	Monitored        bool            `json:"monitored"`
	RootFolderPath   string          `json:"rootFolderPath"`
	AddOptions       movieAddOptions `json:"addOptions"`
}

type movieAddOptions struct {
	SearchForMovie bool `json:"searchForMovie"`
}

// Add sends the movie to Radarr, monitored and with an immediate search.
func (c *MovieClient) Add(ctx context.Context, item types.SearchResult) error {
	return c.post(ctx, "movie", movieAddRequest{
		Title:            item.Title,
		QualityProfileID: 1,
		TitleSlug:        item.TitleSlug,
		Images:           item.Images,
		TmdbID:           item.TmdbID,
		Year:             item.Year,
		Monitored:        true,
		RootFolderPath:   "/movies",
		AddOptions:       movieAddOptions{SearchForMovie: true},
	})
}
