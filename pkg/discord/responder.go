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
	"github.com/bwmarrin/discordgo"
)

// responder abstracts the ways a single interaction can be answered. Every
// inbound event gets exactly one responder, which remembers whether the
// interaction has been responded to — the error barrier uses that to decide
// between a reply and a follow-up. All output is ephemeral.
type responder interface {
	// Ack sends a deferred ephemeral reply; the visible content follows via Edit.
	Ack() error
	// Edit rewrites the deferred reply.
	Edit(edit *discordgo.WebhookEdit) error
	// Update rewrites the message whose component triggered the interaction.
	Update(data *discordgo.InteractionResponseData) error
	// Reply sends an immediate ephemeral reply.
	Reply(content string) error
	// FollowUp sends an ephemeral follow-up after a response has been sent.
	FollowUp(content string) error
	// Responded reports whether the interaction has been answered yet.
	Responded() bool
}

// interactionResponder is the discordgo-backed responder.
type interactionResponder struct {
	session   *discordgo.Session
	inter     *discordgo.Interaction
	responded bool
}

func newResponder(s *discordgo.Session, i *discordgo.InteractionCreate) *interactionResponder {
	return &interactionResponder{session: s, inter: i.Interaction}
}

func (r *interactionResponder) Ack() error {
	err := r.session.InteractionRespond(r.inter, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err == nil {
		r.responded = true
	}
	return err
}

func (r *interactionResponder) Edit(edit *discordgo.WebhookEdit) error {
	_, err := r.session.InteractionResponseEdit(r.inter, edit)
	return err
}

func (r *interactionResponder) Update(data *discordgo.InteractionResponseData) error {
	err := r.session.InteractionRespond(r.inter, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: data,
	})
	if err == nil {
		r.responded = true
	}
	return err
}

func (r *interactionResponder) Reply(content string) error {
	err := r.session.InteractionRespond(r.inter, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags:   discordgo.MessageFlagsEphemeral,
			Content: content,
		},
	})
	if err == nil {
		r.responded = true
	}
	return err
}

func (r *interactionResponder) FollowUp(content string) error {
	_, err := r.session.FollowupMessageCreate(r.inter, true, &discordgo.WebhookParams{
		Flags:   discordgo.MessageFlagsEphemeral,
		Content: content,
	})
	return err
}

func (r *interactionResponder) Responded() bool {
	return r.responded
}
