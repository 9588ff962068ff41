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

package discord

import (
	"testing"

	"github.com/lucasduport/requestarr/pkg/types"
)

func TestActionRoundTrip(t *testing.T) {
	tests := []action{
		{Kind: types.KindMovie, Stage: stageSelect, SessionID: "123456789", Index: 0},
		{Kind: types.KindTV, Stage: stageConfirm, SessionID: "987654321", Index: 2},
		{Kind: types.KindBook, Stage: stageCancel, SessionID: "42", Index: 1},
	}

	for _, want := range tests {
		got, err := parseAction(want.CustomID())
		if err != nil {
			t.Errorf("parseAction(%q) failed: %v", want.CustomID(), err)
			continue
		}
		if got != want {
			t.Errorf("round trip of %q: got %+v, want %+v", want.CustomID(), got, want)
		}
	}
}

func TestActionCustomIDFormat(t *testing.T) {
	a := action{Kind: types.KindMovie, Stage: stageConfirm, SessionID: "12345", Index: 1}
	if got := a.CustomID(); got != "movie_confirm:12345:1" {
		t.Errorf("unexpected custom ID %q", got)
	}
}

func TestParseActionRejectsMalformed(t *testing.T) {
	tests := []struct {
		name     string
		customID string
	}{
		{"empty", ""},
		{"no separators", "something"},
		{"too few parts", "movie_select:123"},
		{"too many parts", "movie_select:123:0:extra"},
		{"no stage", "movie:123:0"},
		{"unknown kind", "podcast_select:123:0"},
		{"unknown stage", "movie_destroy:123:0"},
		{"empty session id", "movie_select::0"},
		{"non-numeric index", "movie_select:123:abc"},
		{"negative index", "movie_select:123:-1"},
		{"foreign component", "music_player_pause"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseAction(tt.customID); err == nil {
				t.Errorf("parseAction(%q) should have failed", tt.customID)
			}
		})
	}
}
