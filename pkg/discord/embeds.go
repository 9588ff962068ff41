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
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/lucasduport/requestarr/pkg/types"
	"github.com/lucasduport/requestarr/pkg/utils"
)

// Common embed colors
const (
	colorInfo    = 0x5BC0DE // teal-ish
	colorSuccess = 0x28A745 // green
	colorError   = 0xDC3545 // red
)

const overviewLimit = 400

// resultEmbed renders one lookup candidate. Books rarely carry a year, so
// the title line omits it for them.
func resultEmbed(item types.SearchResult, index int, kind types.MediaKind) *discordgo.MessageEmbed {
	title := fmt.Sprintf("%d. %s", index+1, item.Title)
	if kind != types.KindBook && item.Year != 0 {
		title = fmt.Sprintf("%s (%d)", title, item.Year)
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: overviewText(item),
		Color:       colorInfo,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Select by clicking the button below. (%s search)", kind.Label()),
		},
	}
	if poster := posterURL(item.Images); poster != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: poster}
	}
	return embed
}

// confirmEmbed renders the confirmation prompt for a chosen candidate.
func confirmEmbed(item types.SearchResult, kind types.MediaKind) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("You selected: %s", selectionLabel(item, kind)),
		Description: overviewText(item),
		Color:       colorInfo,
	}
}

// selectionLabel names a candidate in prompts and notices: movies and shows
// carry a year (or N/A), books just the title.
func selectionLabel(item types.SearchResult, kind types.MediaKind) string {
	if kind == types.KindBook {
		return item.Title
	}
	if item.Year != 0 {
		return fmt.Sprintf("%s (%d)", item.Title, item.Year)
	}
	return fmt.Sprintf("%s (N/A)", item.Title)
}

func overviewText(item types.SearchResult) string {
	if item.Overview == "" {
		return "No overview available."
	}
	return utils.TruncateString(item.Overview, overviewLimit)
}

// posterURL picks the first image marked as a poster or cover.
func posterURL(images []types.Image) string {
	for _, img := range images {
		if img.CoverType != "poster" && img.CoverType != "cover" {
			continue
		}
		if img.RemoteURL != "" {
			return img.RemoteURL
		}
		if img.URL != "" {
			return img.URL
		}
	}
	return ""
}
