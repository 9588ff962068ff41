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
	"sync"
	"time"

	"github.com/lucasduport/requestarr/pkg/types"
)

// sessionKey scopes session IDs by media kind. The same interaction ID can
// never be live for two kinds at once, but scoping the key costs nothing and
// removes the ambiguity outright.
type sessionKey struct {
	kind types.MediaKind
	id   string
}

// SessionStore holds the in-flight selection workflows. Sessions live only
// in memory: a restart drops them all, which users see as "session expired"
// on their next click. discordgo delivers events on multiple goroutines, so
// access is mutex-guarded.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[sessionKey]*types.Session
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[sessionKey]*types.Session)}
}

// Put stores a session under its (kind, id) key.
func (st *SessionStore) Put(s *types.Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[sessionKey{kind: s.Kind, id: s.ID}] = s
}

// Get returns the session for (kind, id), or false if none exists.
func (st *SessionStore) Get(kind types.MediaKind, id string) (*types.Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[sessionKey{kind: kind, id: id}]
	return s, ok
}

// Delete removes the session for (kind, id). Deleting a missing session is
// a no-op, so confirm and cancel stay idempotent.
func (st *SessionStore) Delete(kind types.MediaKind, id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, sessionKey{kind: kind, id: id})
}

// Count returns the number of live sessions for a kind.
func (st *SessionStore) Count(kind types.MediaKind) int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	n := 0
	for k := range st.sessions {
		if k.kind == kind {
			n++
		}
	}
	return n
}

// SweepExpired removes sessions older than maxAge and returns how many were
// dropped. Abandoned selections would otherwise pile up until restart.
func (st *SessionStore) SweepExpired(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for k, s := range st.sessions {
		if s.Created.Before(cutoff) {
			delete(st.sessions, k)
			removed++
		}
	}
	return removed
}
