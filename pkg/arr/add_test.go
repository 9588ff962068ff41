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
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lucasduport/requestarr/pkg/types"
)

// captureServer records the last POST path and decoded JSON body.
func captureServer(t *testing.T, path *string, body *map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*path = r.URL.Path
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("reading request body: %v", err)
		}
		if err := json.Unmarshal(raw, body); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
}

func TestMovieAddPayload(t *testing.T) {
	var path string
	var body map[string]interface{}
	srv := captureServer(t, &path, &body)
	defer srv.Close()

	c := NewMovieClient(srv.URL, "key")
	err := c.Add(context.Background(), types.SearchResult{
		Title:     "The Matrix",
		Year:      1999,
		TitleSlug: "the-matrix-603",
		TmdbID:    603,
		Images:    []types.Image{{CoverType: "poster", RemoteURL: "https://img/poster.jpg"}},
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if path != "/movie" {
		t.Errorf("expected POST /movie, got %s", path)
	}
	if body["title"] != "The Matrix" {
		t.Errorf("unexpected title: %v", body["title"])
	}
	if body["qualityProfileId"] != float64(1) {
		t.Errorf("expected qualityProfileId 1, got %v", body["qualityProfileId"])
	}
	if body["tmdbId"] != float64(603) {
		t.Errorf("expected tmdbId 603, got %v", body["tmdbId"])
	}
	if body["rootFolderPath"] != "/movies" {
		t.Errorf("expected rootFolderPath /movies, got %v", body["rootFolderPath"])
	}
	if body["monitored"] != true {
		t.Errorf("expected monitored true")
	}
	opts, ok := body["addOptions"].(map[string]interface{})
	if !ok || opts["searchForMovie"] != true {
		t.Errorf("expected addOptions.searchForMovie true, got %v", body["addOptions"])
	}
}

func TestSeriesAddPayload(t *testing.T) {
	var path string
	var body map[string]interface{}
	srv := captureServer(t, &path, &body)
	defer srv.Close()

	c := NewSeriesClient(srv.URL, "key")
	err := c.Add(context.Background(), types.SearchResult{
		Title:  "Breaking Bad",
		Year:   2008,
		TvdbID: 81189,
		Seasons: []types.Season{
			{SeasonNumber: 0, Monitored: false}, // specials stay out
			{SeasonNumber: 1, Monitored: false},
			{SeasonNumber: 2, Monitored: true},
		},
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if path != "/series" {
		t.Errorf("expected POST /series, got %s", path)
	}
	// No slug in the lookup result, so one is derived from the title.
	if body["titleSlug"] != "breaking-bad" {
		t.Errorf("expected derived titleSlug breaking-bad, got %v", body["titleSlug"])
	}
	if body["seriesType"] != "standard" || body["seasonFolder"] != true {
		t.Errorf("unexpected series options: type=%v folder=%v", body["seriesType"], body["seasonFolder"])
	}
	if body["rootFolderPath"] != "/tv" {
		t.Errorf("expected rootFolderPath /tv, got %v", body["rootFolderPath"])
	}
	if body["languageProfileId"] != float64(1) {
		t.Errorf("expected languageProfileId 1, got %v", body["languageProfileId"])
	}

	seasons, ok := body["seasons"].([]interface{})
	if !ok || len(seasons) != 2 {
		t.Fatalf("expected 2 seasons after filtering specials, got %v", body["seasons"])
	}
	for i, s := range seasons {
		season := s.(map[string]interface{})
		if season["monitored"] != true {
			t.Errorf("season %d should be monitored", i)
		}
	}

	opts, ok := body["addOptions"].(map[string]interface{})
	if !ok || opts["searchForMissingEpisodes"] != true {
		t.Errorf("expected addOptions.searchForMissingEpisodes true, got %v", body["addOptions"])
	}
}

func TestSeriesAddKeepsExistingSlug(t *testing.T) {
	var path string
	var body map[string]interface{}
	srv := captureServer(t, &path, &body)
	defer srv.Close()

	c := NewSeriesClient(srv.URL, "key")
	err := c.Add(context.Background(), types.SearchResult{Title: "The 100", TitleSlug: "the-100"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if body["titleSlug"] != "the-100" {
		t.Errorf("existing slug should win, got %v", body["titleSlug"])
	}
}

func TestBookAddPayload(t *testing.T) {
	tests := []struct {
		name            string
		profileID       string
		expectedProfile float64
	}{
		{"default when empty", "", 1},
		{"configured value", "7", 7},
		{"non-numeric falls back", "high", 1},
		{"non-positive falls back", "0", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path string
			var body map[string]interface{}
			srv := captureServer(t, &path, &body)
			defer srv.Close()

			c := NewBookClient(srv.URL, "key", tt.profileID, "")
			err := c.Add(context.Background(), types.SearchResult{Title: "Dune", TitleSlug: "dune-123"})
			if err != nil {
				t.Fatalf("Add failed: %v", err)
			}

			if path != "/book" {
				t.Errorf("expected POST /book, got %s", path)
			}
			if body["qualityProfileId"] != tt.expectedProfile {
				t.Errorf("expected qualityProfileId %v, got %v", tt.expectedProfile, body["qualityProfileId"])
			}
			if body["rootFolderPath"] != "/books" {
				t.Errorf("expected default rootFolderPath /books, got %v", body["rootFolderPath"])
			}
			// A nil image list must serialize as [], not null.
			if images, ok := body["images"].([]interface{}); !ok || len(images) != 0 {
				t.Errorf("expected empty images array, got %v", body["images"])
			}
			opts, ok := body["addOptions"].(map[string]interface{})
			if !ok || opts["searchForBook"] != true {
				t.Errorf("expected addOptions.searchForBook true, got %v", body["addOptions"])
			}
		})
	}
}

func TestBookAddCustomRootFolder(t *testing.T) {
	var path string
	var body map[string]interface{}
	srv := captureServer(t, &path, &body)
	defer srv.Close()

	c := NewBookClient(srv.URL, "key", "", "/mnt/library/books")
	if err := c.Add(context.Background(), types.SearchResult{Title: "Dune"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if body["rootFolderPath"] != "/mnt/library/books" {
		t.Errorf("expected configured root folder, got %v", body["rootFolderPath"])
	}
}

func TestAddErrorSurfacesManagerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`[{"errorMessage":"This movie has already been added"}]`))
	}))
	defer srv.Close()

	c := NewMovieClient(srv.URL, "key")
	err := c.Add(context.Background(), types.SearchResult{Title: "The Matrix"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := err.Error(); !containsAll(got, "radarr", "400", "already been added") {
		t.Errorf("unexpected error: %q", got)
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
