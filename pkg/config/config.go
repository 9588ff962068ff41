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

package config

import (
	"fmt"
	"strings"
)

// ManagerConfig holds the connection settings for one downstream manager
// (Radarr, Sonarr or Readarr).
type ManagerConfig struct {
	BaseURL string
	APIKey  string
}

// Configured reports whether the manager has been set up at all.
func (m ManagerConfig) Configured() bool {
	return m.BaseURL != "" || m.APIKey != ""
}

// Validate checks that a configured manager has both a URL and a key.
func (m ManagerConfig) Validate(name string) error {
	if !m.Configured() {
		return nil
	}
	if m.BaseURL == "" {
		return fmt.Errorf("%s: api key set but base URL missing", name)
	}
	if m.APIKey == "" {
		return fmt.Errorf("%s: base URL set but api key missing", name)
	}
	return nil
}

// BotConfig is the full runtime configuration of the bot.
type BotConfig struct {
	// Discord
	Token      string
	AppID      string // optional; falls back to the session user
	DevGuildID string // optional; scopes slash commands to one guild

	// Downstream managers
	Radarr  ManagerConfig
	Sonarr  ManagerConfig
	Readarr ManagerConfig

	// Readarr add options
	BookQualityProfileID string // numeric string, defaults to "1" when unset or invalid
	BookRootFolder       string // defaults to "/books"

	// Optional status API; 0 disables it
	StatusPort int

	// Optional Postgres request history
	DBEnabled bool
}

// Normalize fills defaults and strips trailing slashes from manager URLs.
func (c *BotConfig) Normalize() {
	c.Radarr.BaseURL = strings.TrimSuffix(c.Radarr.BaseURL, "/")
	c.Sonarr.BaseURL = strings.TrimSuffix(c.Sonarr.BaseURL, "/")
	c.Readarr.BaseURL = strings.TrimSuffix(c.Readarr.BaseURL, "/")
	if c.BookRootFolder == "" {
		c.BookRootFolder = "/books"
	}
}

// Validate checks that the configuration is usable: a bot token and at
// least one fully configured manager.
func (c *BotConfig) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("discord bot token is required")
	}
	if err := c.Radarr.Validate("radarr"); err != nil {
		return err
	}
	if err := c.Sonarr.Validate("sonarr"); err != nil {
		return err
	}
	if err := c.Readarr.Validate("readarr"); err != nil {
		return err
	}
	if !c.Radarr.Configured() && !c.Sonarr.Configured() && !c.Readarr.Configured() {
		return fmt.Errorf("no manager configured: set at least one of radarr, sonarr or readarr")
	}
	return nil
}
