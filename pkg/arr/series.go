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

// SeriesClient adds TV shows through Sonarr.
type SeriesClient struct {
	*Client
}

var _ Service = (*SeriesClient)(nil)

// NewSeriesClient creates a Sonarr adapter.
func NewSeriesClient(baseURL, apiKey string) *SeriesClient {
	return &SeriesClient{Client: NewClient("sonarr", baseURL, apiKey)}
}

// Lookup searches Sonarr's catalog for series matching term.
func (c *SeriesClient) Lookup(ctx context.Context, term string) ([]types.SearchResult, error) {
	return c.lookup(ctx, "series", term)
}

type seriesAddRequest struct {
	Title             string           `json:"title"`
	QualityProfileID  int              `json:"qualityProfileId"`
	LanguageProfileID int              `json:"languageProfileId"`
	TitleSlug         string           `json:"titleSlug"`
	Images            []types.Image    `json:"images"`
	TvdbID            int64            `json:"tvdbId"`
	Year              int              `json:"year"`
	Monitored         bool             `json:"monitored"`
	RootFolderPath    string           `json:"rootFolderPath"`
	SeriesType        string           `json:"seriesType"`
	SeasonFolder      bool             `json:"seasonFolder"`
	Seasons           []types.Season   `json:"seasons"`
	AddOptions        seriesAddOptions `json:"addOptions"`
}

type seriesAddOptions struct {
	SearchForMissingEpisodes bool `json:"searchForMissingEpisodes"`
}

// Add sends the series to Sonarr with all regular seasons monitored.
func (c *SeriesClient) Add(ctx context.Context, item types.SearchResult) error {
	slug := item.TitleSlug
	if slug == "" {
		slug = Slugify(item.Title)
	}
	return c.post(ctx, "series", seriesAddRequest{
		Title:             item.Title,
		QualityProfileID:  1,
		LanguageProfileID: 1,
		TitleSlug:         slug,
		Images:            item.Images,
		TvdbID:            item.TvdbID,
		Year:              item.Year,
		Monitored:         true,
		RootFolderPath:    "/tv",
		SeriesType:        "standard",
		SeasonFolder:      true,
		Seasons:           monitoredSeasons(item.Seasons),
		AddOptions:        seriesAddOptions{SearchForMissingEpisodes: true},
	})
}

// monitoredSeasons drops specials (season number <= 0) and marks everything
// that remains as monitored.
func monitoredSeasons(seasons []types.Season) []types.Season {
	out := make([]types.Season, 0, len(seasons))
	for _, s := range seasons {
		if s.SeasonNumber <= 0 {
			continue
		}
		out = append(out, types.Season{SeasonNumber: s.SeasonNumber, Monitored: true})
	}
	return out
}
