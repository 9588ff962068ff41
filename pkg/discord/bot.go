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
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/lucasduport/requestarr/pkg/config"
	"github.com/lucasduport/requestarr/pkg/types"
	"github.com/lucasduport/requestarr/pkg/utils"
)

const msgUnexpectedError = "An error occurred. Please try again later."

// Bot connects the Discord gateway to the interaction controller.
type Bot struct {
	session    *discordgo.Session
	controller *Controller
	store      *SessionStore

	appID      string
	devGuildID string

	registeredCommands []*discordgo.ApplicationCommand

	cleanupInterval time.Duration
	sessionMaxAge   time.Duration
	stopCleanup     chan struct{}
}

// NewBot creates the Discord bot. The controller and store are injected so
// tests can drive the state machine without a gateway connection.
func NewBot(cfg *config.BotConfig, controller *Controller, store *SessionStore) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		session:         dg,
		controller:      controller,
		store:           store,
		appID:           cfg.AppID,
		devGuildID:      cfg.DevGuildID,
		cleanupInterval: 30 * time.Minute,
		sessionMaxAge:   1 * time.Hour,
		stopCleanup:     make(chan struct{}),
	}

	dg.AddHandler(bot.handleApplicationCommand)
	dg.AddHandler(bot.handleInteractionCreate)
	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		if s != nil && s.State != nil && s.State.User != nil {
			utils.InfoLog("Discord ready: %s (%s)", s.State.User.Username, s.State.User.ID)
		} else {
			utils.InfoLog("Discord ready: session state not populated yet")
		}
	})

	dg.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages |
		discordgo.IntentDirectMessages |
		discordgo.IntentMessageContent

	go bot.cleanupRoutine()

	return bot, nil
}

// Start opens the gateway connection and registers the slash commands.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return err
	}
	if err := b.cleanupExistingCommands(); err != nil {
		utils.WarnLog("Failed to cleanup existing commands: %v", err)
	}
	if err := b.registerSlashCommands(); err != nil {
		utils.ErrorLog("Failed to register slash commands: %v", err)
	}
	if b.devGuildID == "" {
		utils.WarnLog("Slash commands registered globally; this can take up to 1 hour to appear. Set a dev guild to register instantly during development.")
	}
	return nil
}

// Stop unregisters dev-guild commands and closes the gateway connection.
func (b *Bot) Stop() {
	utils.InfoLog("Stopping Discord bot")
	close(b.stopCleanup)
	if err := b.unregisterSlashCommands(); err != nil {
		utils.WarnLog("Failed to unregister slash commands: %v", err)
	}
	b.session.Close()
}

// Status reports the bot identity and live session counts per kind.
func (b *Bot) Status() types.BotStatus {
	status := types.BotStatus{Sessions: map[string]int{}}
	if b.session.State != nil && b.session.State.User != nil {
		status.User = b.session.State.User.Username
	}
	for _, kind := range []types.MediaKind{types.KindMovie, types.KindTV, types.KindBook} {
		status.Sessions[string(kind)] = b.store.Count(kind)
	}
	return status
}

// cleanupRoutine periodically drops abandoned sessions.
func (b *Bot) cleanupRoutine() {
	ticker := time.NewTicker(b.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := b.store.SweepExpired(b.sessionMaxAge); removed > 0 {
				utils.InfoLog("Discord: swept %d abandoned session(s)", removed)
			}
		case <-b.stopCleanup:
			return
		}
	}
}

// handleApplicationCommand routes the three search commands.
func (b *Bot) handleApplicationCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	kind, ok := commandKinds[i.ApplicationCommandData().Name]
	if !ok {
		return
	}

	r := newResponder(s, i)
	b.guard(r, func() {
		eventID := uuid.New().String()
		query := optString(i, "query")
		userID, username := interactionUser(i)
		utils.DebugLog("Discord: [%s] /%s %q from %s", eventID, i.ApplicationCommandData().Name, query, username)

		b.controller.HandleSearch(context.Background(), kind, i.ID, userID, username, query, r)
	})
}

// handleInteractionCreate routes button presses on selection messages.
func (b *Bot) handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	act, err := parseAction(i.MessageComponentData().CustomID)
	if err != nil {
		// Not one of ours.
		utils.DebugLog("Discord: ignoring component %q: %v", i.MessageComponentData().CustomID, err)
		return
	}

	r := newResponder(s, i)
	b.guard(r, func() {
		userID, _ := interactionUser(i)
		b.controller.HandleAction(context.Background(), act, userID, r)
	})
}

// guard is the per-event error barrier: whatever goes wrong inside a
// handler, the user gets an answer and the process stays up.
func (b *Bot) guard(r responder, fn func()) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		utils.ErrorLog("Discord: panic while handling interaction: %v", rec)
		var err error
		if r.Responded() {
			err = r.FollowUp(msgUnexpectedError)
		} else {
			err = r.Reply(msgUnexpectedError)
		}
		if err != nil {
			utils.ErrorLog("Discord: failed to report error to user: %v", err)
		}
	}()
	fn()
}

// interactionUser extracts the acting user from guild or DM interactions.
func interactionUser(i *discordgo.InteractionCreate) (id, name string) {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID, i.Member.User.Username
	}
	if i.User != nil {
		return i.User.ID, i.User.Username
	}
	return "", ""
}
