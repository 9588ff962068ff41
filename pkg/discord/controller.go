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
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/lucasduport/requestarr/pkg/arr"
	"github.com/lucasduport/requestarr/pkg/database"
	"github.com/lucasduport/requestarr/pkg/types"
	"github.com/lucasduport/requestarr/pkg/utils"
)

const maxCandidates = 3

const (
	msgSessionExpired = "Session expired."
	msgNotYourSession = "This selection is not for you."
	msgCancelled      = "🚫 Selection cancelled."
	msgAddFailed      = "❌ Error adding item."
	msgSearchFailed   = "❌ Search failed. Please try again later."
)

// Controller drives the selection workflow: search, pick one of the top
// results, confirm or cancel, and on confirm hand the candidate to the
// matching manager. It owns the session store; the bot shell only routes
// decoded events here.
type Controller struct {
	store    *SessionStore
	services map[types.MediaKind]arr.Service
	history  *database.DBManager // nil when request history is disabled
}

// NewController wires the store and the configured manager adapters.
func NewController(store *SessionStore, services map[types.MediaKind]arr.Service, history *database.DBManager) *Controller {
	return &Controller{store: store, services: services, history: history}
}

// HandleSearch runs one search command: lookup, then either a "no results"
// notice or a fresh session with up to three numbered candidates.
func (c *Controller) HandleSearch(ctx context.Context, kind types.MediaKind, sessionID, userID, username, query string, r responder) {
	svc, ok := c.services[kind]
	if !ok {
		if err := r.Reply(fmt.Sprintf("❌ %s requests are not configured.", kind.Label())); err != nil {
			utils.ErrorLog("Discord: failed to send unconfigured notice: %v", err)
		}
		return
	}

	// The lookup can take a while; ack first so the token doesn't lapse.
	if err := r.Ack(); err != nil {
		utils.ErrorLog("Discord: failed to ack %s search: %v", kind, err)
		return
	}

	results, err := svc.Lookup(ctx, query)
	if err != nil {
		utils.ErrorLog("Discord: %s lookup %q failed: %v", kind, query, utils.ErrorWithLocation(err))
		c.editContent(r, msgSearchFailed)
		return
	}
	if len(results) == 0 {
		c.editContent(r, fmt.Sprintf("❌ No %s results found.", kind.Label()))
		return
	}

	if len(results) > maxCandidates {
		results = results[:maxCandidates]
	}

	c.store.Put(&types.Session{
		Kind:    kind,
		ID:      sessionID,
		UserID:  userID,
		Results: results,
		Created: time.Now(),
	})
	utils.DebugLog("Discord: session %s/%s created for %s with %d candidate(s)", kind, sessionID, username, len(results))

	embeds := make([]*discordgo.MessageEmbed, 0, len(results))
	buttons := make([]discordgo.MessageComponent, 0, len(results))
	for i, item := range results {
		embeds = append(embeds, resultEmbed(item, i, kind))
		buttons = append(buttons, discordgo.Button{
			Style:    discordgo.PrimaryButton,
			Label:    strconv.Itoa(i + 1),
			CustomID: action{Kind: kind, Stage: stageSelect, SessionID: sessionID, Index: i}.CustomID(),
		})
	}
	components := []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}

	if err := r.Edit(&discordgo.WebhookEdit{Embeds: &embeds, Components: &components}); err != nil {
		utils.ErrorLog("Discord: failed to present %s results: %v", kind, err)
	}
}

// HandleAction routes a decoded component action to its stage handler. The
// ownership check runs here, before any stage- or kind-specific logic, so a
// foreign user can never see another session's candidates.
func (c *Controller) HandleAction(ctx context.Context, act action, userID string, r responder) {
	sess, ok := c.store.Get(act.Kind, act.SessionID)
	if !ok {
		// Deleted, never existed, or lost in a restart: all the same to the user.
		c.reply(r, msgSessionExpired)
		return
	}
	if sess.UserID != userID {
		c.reply(r, msgNotYourSession)
		return
	}

	switch act.Stage {
	case stageSelect:
		c.handleSelect(act, sess, r)
	case stageConfirm:
		c.handleConfirm(ctx, act, sess, r)
	case stageCancel:
		c.handleCancel(act, r)
	}
}

// handleSelect swaps the result list for a confirmation prompt naming the
// chosen candidate.
func (c *Controller) handleSelect(act action, sess *types.Session, r responder) {
	if act.Index >= len(sess.Results) {
		c.reply(r, msgSessionExpired)
		return
	}
	item := sess.Results[act.Index]

	confirm := action{Kind: act.Kind, Stage: stageConfirm, SessionID: act.SessionID, Index: act.Index}
	cancel := action{Kind: act.Kind, Stage: stageCancel, SessionID: act.SessionID, Index: act.Index}
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Style: discordgo.SuccessButton, Label: "Confirm", CustomID: confirm.CustomID()},
			discordgo.Button{Style: discordgo.DangerButton, Label: "Cancel", CustomID: cancel.CustomID()},
		}},
	}

	err := r.Update(&discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{confirmEmbed(item, act.Kind)},
		Components: components,
	})
	if err != nil {
		utils.ErrorLog("Discord: failed to show confirmation prompt: %v", err)
	}
}

// handleConfirm performs the add call. The buttons are cleared before the
// call so a double click cannot queue a second add, and the session is
// deleted whether the call succeeds or not — a failed add must not leave a
// session stuck in the store.
func (c *Controller) handleConfirm(ctx context.Context, act action, sess *types.Session, r responder) {
	if act.Index >= len(sess.Results) {
		c.reply(r, msgSessionExpired)
		return
	}
	item := sess.Results[act.Index]

	if err := r.Update(&discordgo.InteractionResponseData{Components: []discordgo.MessageComponent{}}); err != nil {
		utils.ErrorLog("Discord: failed to clear components: %v", err)
	}

	svc := c.services[act.Kind]
	addErr := svc.Add(ctx, item)
	c.store.Delete(act.Kind, act.SessionID)

	if addErr != nil {
		utils.ErrorLog("Discord: adding %s %q failed: %v", act.Kind, item.Title, utils.ErrorWithLocation(addErr))
		c.followUp(r, msgAddFailed)
		return
	}

	utils.InfoLog("Discord: %s %q requested by %s", act.Kind, item.Title, sess.UserID)
	c.recordRequest(sess, item)
	c.followUp(r, fmt.Sprintf("✅ %s **%s** added to %s and search started!",
		act.Kind.Label(), selectionLabel(item, act.Kind), managerName(act.Kind)))
}

// handleCancel tears the session down without touching the manager.
func (c *Controller) handleCancel(act action, r responder) {
	c.store.Delete(act.Kind, act.SessionID)

	err := r.Update(&discordgo.InteractionResponseData{
		Content:    msgCancelled,
		Embeds:     []*discordgo.MessageEmbed{},
		Components: []discordgo.MessageComponent{},
	})
	if err != nil {
		utils.ErrorLog("Discord: failed to show cancellation notice: %v", err)
	}
}

// recordRequest writes the request to the history table when a database is
// configured. History is best-effort: failures are logged, never surfaced.
func (c *Controller) recordRequest(sess *types.Session, item types.SearchResult) {
	if c.history == nil || !c.history.IsInitialized() {
		return
	}
	if err := c.history.RecordRequest(sess.UserID, string(sess.Kind), item.Title, item.Year); err != nil {
		utils.WarnLog("Discord: failed to record request history: %v", err)
	}
}

func (c *Controller) reply(r responder, content string) {
	if err := r.Reply(content); err != nil {
		utils.ErrorLog("Discord: failed to send reply: %v", err)
	}
}

func (c *Controller) followUp(r responder, content string) {
	if err := r.FollowUp(content); err != nil {
		utils.ErrorLog("Discord: failed to send follow-up: %v", err)
	}
}

func (c *Controller) editContent(r responder, content string) {
	if err := r.Edit(&discordgo.WebhookEdit{Content: &content}); err != nil {
		utils.ErrorLog("Discord: failed to edit response: %v", err)
	}
}

func managerName(kind types.MediaKind) string {
	switch kind {
	case types.KindMovie:
		return "Radarr"
	case types.KindTV:
		return "Sonarr"
	case types.KindBook:
		return "Readarr"
	}
	return "manager"
}
