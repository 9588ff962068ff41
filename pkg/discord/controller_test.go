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
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/lucasduport/requestarr/pkg/arr"
	"github.com/lucasduport/requestarr/pkg/types"
)

// fakeService scripts the manager adapter for controller tests.
type fakeService struct {
	lookupResults []types.SearchResult
	lookupErr     error
	addErr        error
	added         []types.SearchResult
}

func (f *fakeService) Lookup(ctx context.Context, term string) ([]types.SearchResult, error) {
	return f.lookupResults, f.lookupErr
}

func (f *fakeService) Add(ctx context.Context, item types.SearchResult) error {
	f.added = append(f.added, item)
	return f.addErr
}

// fakeResponder records everything the controller sends back.
type fakeResponder struct {
	acked     bool
	edits     []*discordgo.WebhookEdit
	updates   []*discordgo.InteractionResponseData
	replies   []string
	followUps []string
}

func (f *fakeResponder) Ack() error { f.acked = true; return nil }

func (f *fakeResponder) Edit(edit *discordgo.WebhookEdit) error {
	f.edits = append(f.edits, edit)
	return nil
}

func (f *fakeResponder) Update(data *discordgo.InteractionResponseData) error {
	f.updates = append(f.updates, data)
	return nil
}

func (f *fakeResponder) Reply(content string) error {
	f.replies = append(f.replies, content)
	return nil
}

func (f *fakeResponder) FollowUp(content string) error {
	f.followUps = append(f.followUps, content)
	return nil
}

func (f *fakeResponder) Responded() bool {
	return f.acked || len(f.updates) > 0 || len(f.replies) > 0
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func results(n int) []types.SearchResult {
	out := make([]types.SearchResult, n)
	for i := range out {
		out[i] = types.SearchResult{Title: "Result", Year: 2000 + i, TitleSlug: "result"}
	}
	return out
}

func newTestController(svc arr.Service) (*Controller, *SessionStore) {
	store := NewSessionStore()
	services := map[types.MediaKind]arr.Service{types.KindMovie: svc}
	return NewController(store, services, nil), store
}

func TestHandleSearchNoResults(t *testing.T) {
	ctrl, store := newTestController(&fakeService{})
	r := &fakeResponder{}

	ctrl.HandleSearch(context.Background(), types.KindMovie, "s1", "u1", "alice", "nothing", r)

	if !r.acked {
		t.Error("search should ack before the lookup result arrives")
	}
	if len(r.edits) != 1 || r.edits[0].Content == nil || !strings.Contains(*r.edits[0].Content, "No Movie results") {
		t.Errorf("expected a no-results edit, got %+v", r.edits)
	}
	if _, ok := store.Get(types.KindMovie, "s1"); ok {
		t.Error("no session should be created for an empty result set")
	}
}

func TestHandleSearchLookupError(t *testing.T) {
	ctrl, store := newTestController(&fakeService{lookupErr: errors.New("connection refused")})
	r := &fakeResponder{}

	ctrl.HandleSearch(context.Background(), types.KindMovie, "s1", "u1", "alice", "matrix", r)

	if len(r.edits) != 1 || r.edits[0].Content == nil || *r.edits[0].Content != msgSearchFailed {
		t.Errorf("expected the search-failed notice, got %+v", r.edits)
	}
	if _, ok := store.Get(types.KindMovie, "s1"); ok {
		t.Error("no session should be created when the lookup fails")
	}
}

func TestHandleSearchCapsCandidates(t *testing.T) {
	ctrl, store := newTestController(&fakeService{lookupResults: results(7)})
	r := &fakeResponder{}

	ctrl.HandleSearch(context.Background(), types.KindMovie, "s1", "u1", "alice", "matrix", r)

	sess, ok := store.Get(types.KindMovie, "s1")
	if !ok {
		t.Fatal("expected a session")
	}
	if len(sess.Results) != 3 {
		t.Errorf("expected 3 stored candidates, got %d", len(sess.Results))
	}

	if len(r.edits) != 1 {
		t.Fatalf("expected one results edit, got %d", len(r.edits))
	}
	edit := r.edits[0]
	if edit.Embeds == nil || len(*edit.Embeds) != 3 {
		t.Fatalf("expected 3 embeds, got %+v", edit.Embeds)
	}
	if edit.Components == nil || len(*edit.Components) != 1 {
		t.Fatalf("expected one action row, got %+v", edit.Components)
	}
	row, ok := (*edit.Components)[0].(discordgo.ActionsRow)
	if !ok || len(row.Components) != 3 {
		t.Fatalf("expected 3 buttons, got %+v", (*edit.Components)[0])
	}
	for i, c := range row.Components {
		btn := c.(discordgo.Button)
		want := action{Kind: types.KindMovie, Stage: stageSelect, SessionID: "s1", Index: i}.CustomID()
		if btn.CustomID != want {
			t.Errorf("button %d custom ID = %q, want %q", i, btn.CustomID, want)
		}
	}
}

func TestHandleSearchUnconfiguredKind(t *testing.T) {
	ctrl, _ := newTestController(&fakeService{})
	r := &fakeResponder{}

	ctrl.HandleSearch(context.Background(), types.KindBook, "s1", "u1", "alice", "dune", r)

	if r.acked {
		t.Error("an unconfigured kind should not ack")
	}
	if len(r.replies) != 1 || !strings.Contains(r.replies[0], "not configured") {
		t.Errorf("expected an unconfigured notice, got %v", r.replies)
	}
}

func TestHandleActionUnknownSession(t *testing.T) {
	ctrl, _ := newTestController(&fakeService{})
	r := &fakeResponder{}

	act := action{Kind: types.KindMovie, Stage: stageSelect, SessionID: "gone", Index: 0}
	ctrl.HandleAction(context.Background(), act, "u1", r)

	if len(r.replies) != 1 || r.replies[0] != msgSessionExpired {
		t.Errorf("expected %q, got %v", msgSessionExpired, r.replies)
	}
}

func TestHandleActionOwnershipCheck(t *testing.T) {
	svc := &fakeService{lookupResults: results(2)}
	ctrl, _ := newTestController(svc)

	owner := &fakeResponder{}
	ctrl.HandleSearch(context.Background(), types.KindMovie, "s1", "u1", "alice", "matrix", owner)

	stranger := &fakeResponder{}
	act := action{Kind: types.KindMovie, Stage: stageConfirm, SessionID: "s1", Index: 0}
	ctrl.HandleAction(context.Background(), act, "u2", stranger)

	if len(stranger.replies) != 1 || stranger.replies[0] != msgNotYourSession {
		t.Errorf("expected %q, got %v", msgNotYourSession, stranger.replies)
	}
	if len(stranger.updates) != 0 || len(stranger.followUps) != 0 {
		t.Error("a foreign user must not see any session content")
	}
	if len(svc.added) != 0 {
		t.Error("a foreign user must not trigger an add")
	}
}

func TestHandleSelectShowsConfirmation(t *testing.T) {
	svc := &fakeService{lookupResults: results(3)}
	ctrl, _ := newTestController(svc)

	ctrl.HandleSearch(context.Background(), types.KindMovie, "s1", "u1", "alice", "matrix", &fakeResponder{})

	r := &fakeResponder{}
	act := action{Kind: types.KindMovie, Stage: stageSelect, SessionID: "s1", Index: 1}
	ctrl.HandleAction(context.Background(), act, "u1", r)

	if len(r.updates) != 1 {
		t.Fatalf("expected one message update, got %d", len(r.updates))
	}
	update := r.updates[0]
	if len(update.Embeds) != 1 || !strings.Contains(update.Embeds[0].Title, "You selected") {
		t.Errorf("expected a confirmation embed, got %+v", update.Embeds)
	}
	row := update.Components[0].(discordgo.ActionsRow)
	if len(row.Components) != 2 {
		t.Fatalf("expected confirm and cancel buttons, got %d", len(row.Components))
	}
	confirm := row.Components[0].(discordgo.Button)
	cancel := row.Components[1].(discordgo.Button)
	if confirm.Label != "Confirm" || cancel.Label != "Cancel" {
		t.Errorf("unexpected button labels %q / %q", confirm.Label, cancel.Label)
	}
	wantConfirm := action{Kind: types.KindMovie, Stage: stageConfirm, SessionID: "s1", Index: 1}.CustomID()
	if confirm.CustomID != wantConfirm {
		t.Errorf("confirm custom ID = %q, want %q", confirm.CustomID, wantConfirm)
	}
}

func TestHandleSelectOutOfRangeIndex(t *testing.T) {
	svc := &fakeService{lookupResults: results(1)}
	ctrl, _ := newTestController(svc)
	ctrl.HandleSearch(context.Background(), types.KindMovie, "s1", "u1", "alice", "matrix", &fakeResponder{})

	r := &fakeResponder{}
	act := action{Kind: types.KindMovie, Stage: stageSelect, SessionID: "s1", Index: 5}
	ctrl.HandleAction(context.Background(), act, "u1", r)

	if len(r.replies) != 1 || r.replies[0] != msgSessionExpired {
		t.Errorf("expected %q for an out-of-range index, got %v", msgSessionExpired, r.replies)
	}
}

func TestHandleConfirmAddsAndDeletesSession(t *testing.T) {
	svc := &fakeService{lookupResults: results(2)}
	ctrl, store := newTestController(svc)
	ctrl.HandleSearch(context.Background(), types.KindMovie, "s1", "u1", "alice", "matrix", &fakeResponder{})

	r := &fakeResponder{}
	act := action{Kind: types.KindMovie, Stage: stageConfirm, SessionID: "s1", Index: 1}
	ctrl.HandleAction(context.Background(), act, "u1", r)

	if len(svc.added) != 1 {
		t.Fatalf("expected one add call, got %d", len(svc.added))
	}
	if svc.added[0].Year != 2001 {
		t.Errorf("wrong candidate added: %+v", svc.added[0])
	}
	if _, ok := store.Get(types.KindMovie, "s1"); ok {
		t.Error("session should be deleted after a confirmed add")
	}

	// Buttons must be cleared before the add call resolves.
	if len(r.updates) != 1 || len(r.updates[0].Components) != 0 {
		t.Errorf("expected components cleared on confirm, got %+v", r.updates)
	}
	if len(r.followUps) != 1 || !containsAll(r.followUps[0], "✅", "Movie", "Radarr", "search started") {
		t.Errorf("unexpected success notice: %v", r.followUps)
	}
}

func TestHandleConfirmAddFailureStillDeletesSession(t *testing.T) {
	svc := &fakeService{lookupResults: results(1), addErr: errors.New("boom")}
	ctrl, store := newTestController(svc)
	ctrl.HandleSearch(context.Background(), types.KindMovie, "s1", "u1", "alice", "matrix", &fakeResponder{})

	r := &fakeResponder{}
	act := action{Kind: types.KindMovie, Stage: stageConfirm, SessionID: "s1", Index: 0}
	ctrl.HandleAction(context.Background(), act, "u1", r)

	if len(r.followUps) != 1 || r.followUps[0] != msgAddFailed {
		t.Errorf("expected %q, got %v", msgAddFailed, r.followUps)
	}
	if _, ok := store.Get(types.KindMovie, "s1"); ok {
		t.Error("session must be deleted even when the add fails")
	}
}

func TestHandleConfirmTwiceOnlyAddsOnce(t *testing.T) {
	svc := &fakeService{lookupResults: results(1)}
	ctrl, _ := newTestController(svc)
	ctrl.HandleSearch(context.Background(), types.KindMovie, "s1", "u1", "alice", "matrix", &fakeResponder{})

	act := action{Kind: types.KindMovie, Stage: stageConfirm, SessionID: "s1", Index: 0}
	ctrl.HandleAction(context.Background(), act, "u1", &fakeResponder{})

	second := &fakeResponder{}
	ctrl.HandleAction(context.Background(), act, "u1", second)

	if len(svc.added) != 1 {
		t.Errorf("expected exactly one add, got %d", len(svc.added))
	}
	if len(second.replies) != 1 || second.replies[0] != msgSessionExpired {
		t.Errorf("second confirm should see an expired session, got %v", second.replies)
	}
}

func TestHandleCancel(t *testing.T) {
	svc := &fakeService{lookupResults: results(1)}
	ctrl, store := newTestController(svc)
	ctrl.HandleSearch(context.Background(), types.KindMovie, "s1", "u1", "alice", "matrix", &fakeResponder{})

	r := &fakeResponder{}
	act := action{Kind: types.KindMovie, Stage: stageCancel, SessionID: "s1", Index: 0}
	ctrl.HandleAction(context.Background(), act, "u1", r)

	if len(svc.added) != 0 {
		t.Error("cancel must not call the manager")
	}
	if _, ok := store.Get(types.KindMovie, "s1"); ok {
		t.Error("session should be deleted on cancel")
	}
	if len(r.updates) != 1 || r.updates[0].Content != msgCancelled {
		t.Errorf("expected %q, got %+v", msgCancelled, r.updates)
	}
	if len(r.updates[0].Embeds) != 0 || len(r.updates[0].Components) != 0 {
		t.Error("cancel should clear embeds and components")
	}
}
