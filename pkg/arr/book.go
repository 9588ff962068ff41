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
	"strconv"

	"github.com/lucasduport/requestarr/pkg/types"
	"github.com/lucasduport/requestarr/pkg/utils"
)

const defaultBookQualityProfileID = 1

// BookClient adds books through Readarr. Unlike the other managers the
// quality profile and root folder are configurable, because Readarr setups
// vary too much for a hardcoded profile to work.
type BookClient struct {
	*Client
	qualityProfileID string
	rootFolder       string
}

var _ Service = (*BookClient)(nil)

// NewBookClient creates a Readarr adapter. qualityProfileID may be empty or
// non-numeric, in which case profile 1 is used; rootFolder defaults to /books.
func NewBookClient(baseURL, apiKey, qualityProfileID, rootFolder string) *BookClient {
	if rootFolder == "" {
		rootFolder = "/books"
	}
	return &BookClient{
		Client:           NewClient("readarr", baseURL, apiKey),
		qualityProfileID: qualityProfileID,
		rootFolder:       rootFolder,
	}
}

// Lookup searches Readarr's catalog for books matching term.
func (c *BookClient) Lookup(ctx context.Context, term string) ([]types.SearchResult, error) {
	return c.lookup(ctx, "book", term)
}

type bookAddRequest struct {
	Title            string         `json:"title"`
	QualityProfileID int            `json:"qualityProfileId"`
	TitleSlug        string         `json:"titleSlug"`
	Images           []types.Image  `json:"images"`
	Monitored        bool           `json:"monitored"`
	RootFolderPath   string         `json:"rootFolderPath"`
	AddOptions       bookAddOptions `json:"addOptions"`
}

type bookAddOptions struct {
	SearchForBook bool `json:"searchForBook"`
}

// Add sends the book to Readarr, monitored and with an immediate search.
func (c *BookClient) Add(ctx context.Context, item types.SearchResult) error {
	images := item.Images
	if images == nil {
		images = []types.Image{}
	}
	return c.post(ctx, "book", bookAddRequest{
		Title:            item.Title,
		QualityProfileID: c.profileID(),
		TitleSlug:        item.TitleSlug,
		Images:           images,
		Monitored:        true,
		RootFolderPath:   c.rootFolder,
		AddOptions:       bookAddOptions{SearchForBook: true},
	})
}

// profileID parses the configured quality profile, falling back to the
// default when unset or not a number.
func (c *BookClient) profileID() int {
	if c.qualityProfileID == "" {
		return defaultBookQualityProfileID
	}
	id, err := strconv.Atoi(c.qualityProfileID)
	if err != nil || id <= 0 {
		utils.WarnLog("readarr: invalid quality profile id %q, using %d", c.qualityProfileID, defaultBookQualityProfileID)
		return defaultBookQualityProfileID
	}
	return id
}
