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

package types

import "time"

// MediaKind identifies which downstream manager a request targets.
type MediaKind string

const (
	KindMovie MediaKind = "movie"
	KindTV    MediaKind = "tv"
	KindBook  MediaKind = "book"
)

// Label returns the user-facing name of the kind.
func (k MediaKind) Label() string {
	switch k {
	case KindMovie:
		return "Movie"
	case KindTV:
		return "TV Show"
	case KindBook:
		return "Book"
	}
	return string(k)
}

// Resource returns the API resource path used by the kind's manager.
func (k MediaKind) Resource() string {
	switch k {
	case KindMovie:
		return "movie"
	case KindTV:
		return "series"
	case KindBook:
		return "book"
	}
	return string(k)
}

// Valid reports whether k is one of the three supported kinds.
func (k MediaKind) Valid() bool {
	return k == KindMovie || k == KindTV || k == KindBook
}

// Image is one artwork entry attached to a lookup result.
type Image struct {
	CoverType string `json:"coverType"`
	URL       string `json:"url,omitempty"`
	RemoteURL string `json:"remoteUrl,omitempty"`
}

// Season is one season entry of a series lookup result.
type Season struct {
	SeasonNumber int  `json:"seasonNumber"`
	Monitored    bool `json:"monitored"`
}

// SearchResult is one candidate returned by a manager lookup. Fields that a
// given manager does not supply stay at their zero value. Results are never
// mutated after the lookup returns.
type SearchResult struct {
	Title         string   `json:"title"`
	Year          int      `json:"year,omitempty"`
	Overview      string   `json:"overview,omitempty"`
	TitleSlug     string   `json:"titleSlug,omitempty"`
	Images        []Image  `json:"images,omitempty"`
	TmdbID        int64    `json:"tmdbId,omitempty"`
	TvdbID        int64    `json:"tvdbId,omitempty"`
	Seasons       []Season `json:"seasons,omitempty"`
	ForeignBookID string   `json:"foreignBookId,omitempty"`
}

// Session is one in-flight selection workflow: a user ran a search command
// and has not yet confirmed or cancelled a candidate.
type Session struct {
	Kind    MediaKind
	ID      string // originating interaction ID
	UserID  string // only this user may act on the session
	Results []SearchResult
	Created time.Time
}

// BotStatus is a snapshot of the bot for the status API: who it is logged
// in as and how many selection sessions are live per kind.
type BotStatus struct {
	User     string         `json:"user,omitempty"`
	Sessions map[string]int `json:"sessions"`
}

// RequestStat is one row of the per-kind request history aggregate.
type RequestStat struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// APIResponse is the envelope used by the status API.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
