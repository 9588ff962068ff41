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
	"strconv"
	"strings"

	"github.com/lucasduport/requestarr/pkg/types"
)

// actionStage is the step of the selection workflow a button belongs to.
type actionStage string

const (
	stageSelect  actionStage = "select"
	stageConfirm actionStage = "confirm"
	stageCancel  actionStage = "cancel"
)

// action is the decoded form of a component custom ID. Custom IDs are
// "{kind}_{stage}:{sessionID}:{index}", e.g. "movie_confirm:12345:0".
// Decoding happens once at the interaction boundary; everything past that
// point works with this typed value.
type action struct {
	Kind      types.MediaKind
	Stage     actionStage
	SessionID string
	Index     int
}

// CustomID encodes the action back into its wire form.
func (a action) CustomID() string {
	return fmt.Sprintf("%s_%s:%s:%d", a.Kind, a.Stage, a.SessionID, a.Index)
}

// parseAction decodes a component custom ID. Custom IDs not produced by this
// bot fail to parse and are ignored by the caller.
func parseAction(customID string) (action, error) {
	parts := strings.Split(customID, ":")
	if len(parts) != 3 {
		return action{}, fmt.Errorf("malformed custom id %q", customID)
	}

	head := strings.SplitN(parts[0], "_", 2)
	if len(head) != 2 {
		return action{}, fmt.Errorf("malformed action tag %q", parts[0])
	}

	kind := types.MediaKind(head[0])
	if !kind.Valid() {
		return action{}, fmt.Errorf("unknown media kind %q", head[0])
	}

	stage := actionStage(head[1])
	switch stage {
	case stageSelect, stageConfirm, stageCancel:
	default:
		return action{}, fmt.Errorf("unknown action stage %q", head[1])
	}

	if parts[1] == "" {
		return action{}, fmt.Errorf("empty session id in %q", customID)
	}

	index, err := strconv.Atoi(parts[2])
	if err != nil || index < 0 {
		return action{}, fmt.Errorf("bad candidate index %q", parts[2])
	}

	return action{Kind: kind, Stage: stage, SessionID: parts[1], Index: index}, nil
}
