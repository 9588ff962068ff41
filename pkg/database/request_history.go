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

package database

import (
	"fmt"

	"github.com/lucasduport/requestarr/pkg/types"
	"github.com/lucasduport/requestarr/pkg/utils"
)

// RecordRequest stores one confirmed media request
func (m *DBManager) RecordRequest(discordID, kind, title string, year int) error {
	if !m.IsInitialized() {
		return fmt.Errorf("database not initialized")
	}

	utils.DebugLog("Recording request: user=%s kind=%s title=%q year=%d", discordID, kind, title, year)

	_, err := m.db.Exec(`
		INSERT INTO request_history (discord_id, media_kind, title, year)
		VALUES ($1, $2, $3, $4)
	`, discordID, kind, title, year)
	if err != nil {
		return fmt.Errorf("failed to record request: %w", err)
	}
	return nil
}

// RequestStats returns the number of recorded requests per media kind
func (m *DBManager) RequestStats() ([]types.RequestStat, error) {
	if !m.IsInitialized() {
		return nil, fmt.Errorf("database not initialized")
	}

	rows, err := m.db.Query(`
		SELECT media_kind, COUNT(*)
		FROM request_history
		GROUP BY media_kind
		ORDER BY media_kind
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query request stats: %w", err)
	}
	defer rows.Close()

	var stats []types.RequestStat
	for rows.Next() {
		var s types.RequestStat
		if err := rows.Scan(&s.Kind, &s.Count); err != nil {
			return nil, fmt.Errorf("failed to scan request stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
