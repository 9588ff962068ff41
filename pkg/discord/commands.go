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

// commandKinds maps slash command names to the media kind they search.
var commandKinds = map[string]types.MediaKind{
	"movie": types.KindMovie,
	"tv":    types.KindTV,
	"book":  types.KindBook,
}

// commandSpecs returns the definitions of the three search commands. Each
// takes a single required query string.
func commandSpecs() []*discordgo.ApplicationCommand {
	queryOption := func(desc string) []*discordgo.ApplicationCommandOption {
		return []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "query",
				Description: desc,
				Required:    true,
			},
		}
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "movie",
			Description: "Search for a movie and add it to Radarr",
			Options:     queryOption("Movie title to search for"),
		},
		{
			Name:        "tv",
			Description: "Search for a TV show and add it to Sonarr",
			Options:     queryOption("TV show title to search for"),
		},
		{
			Name:        "book",
			Description: "Search for a book and add it to Readarr",
			Options:     queryOption("Book title or author to search for"),
		},
	}
}

// applicationID returns the configured application ID, falling back to the
// bot user discovered at connect time.
func (b *Bot) applicationID() (string, error) {
	if b.appID != "" {
		return b.appID, nil
	}
	if b.session.State != nil && b.session.State.User != nil {
		return b.session.State.User.ID, nil
	}
	return "", fmt.Errorf("application ID unknown: not configured and session state is empty")
}

// devGuildScope resolves the registration scope. If no explicit dev guild is
// configured and the bot is in exactly one guild, that guild is used so
// commands appear instantly during development.
func (b *Bot) devGuildScope() string {
	if b.devGuildID == "" && b.session.State != nil && len(b.session.State.Guilds) == 1 {
		b.devGuildID = b.session.State.Guilds[0].ID
		utils.InfoLog("Discord: auto-using guild %s for command registration", b.devGuildID)
	}
	return b.devGuildID
}

// registerSlashCommands overwrites the command set in one call. With a dev
// guild configured the commands are scoped to it, which makes them available
// immediately instead of after global propagation.
func (b *Bot) registerSlashCommands() error {
	appID, err := b.applicationID()
	if err != nil {
		return err
	}

	specs := commandSpecs()
	created, err := b.session.ApplicationCommandBulkOverwrite(appID, b.devGuildScope(), specs)
	if err != nil {
		return fmt.Errorf("bulk overwrite of %d command(s) failed: %w", len(specs), err)
	}
	b.registeredCommands = created

	scope := "globally"
	if b.devGuildID != "" {
		scope = "in guild " + b.devGuildID
	}
	utils.InfoLog("Discord: registered %d slash command(s) %s", len(created), scope)
	return nil
}

// unregisterSlashCommands removes the commands registered by this process.
// Only dev-guild commands are removed; global commands are left in place so
// a restart doesn't flap them in every guild.
func (b *Bot) unregisterSlashCommands() error {
	if b.devGuildID == "" || len(b.registeredCommands) == 0 {
		return nil
	}
	appID, err := b.applicationID()
	if err != nil {
		return err
	}
	for _, cmd := range b.registeredCommands {
		if err := b.session.ApplicationCommandDelete(appID, b.devGuildID, cmd.ID); err != nil {
			utils.WarnLog("Discord: failed to delete command %s: %v", cmd.Name, err)
		}
	}
	b.registeredCommands = nil
	return nil
}

// cleanupExistingCommands deletes stale dev-guild commands left behind by a
// previous run that did not shut down cleanly.
func (b *Bot) cleanupExistingCommands() error {
	if b.devGuildScope() == "" {
		return nil
	}
	appID, err := b.applicationID()
	if err != nil {
		return err
	}
	existing, err := b.session.ApplicationCommands(appID, b.devGuildID)
	if err != nil {
		return err
	}
	for _, cmd := range existing {
		if _, ours := commandKinds[cmd.Name]; !ours {
			continue
		}
		utils.DebugLog("Discord: removing stale command %s (%s)", cmd.Name, cmd.ID)
		if err := b.session.ApplicationCommandDelete(appID, b.devGuildID, cmd.ID); err != nil {
			utils.WarnLog("Discord: failed to remove stale command %s: %v", cmd.Name, err)
		}
	}
	return nil
}

// optString returns the value of a string option, or "" when absent.
func optString(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}
