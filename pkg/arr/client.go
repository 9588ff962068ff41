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

// Package arr talks to the three downstream media managers (Radarr, Sonarr,
// Readarr). They share the same API shape: GET {base}/{resource}/lookup for
// searches and POST {base}/{resource} to add an item, authenticated with an
// X-Api-Key header.
package arr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/lucasduport/requestarr/pkg/types"
	"github.com/lucasduport/requestarr/pkg/utils"
)

// Service is what the interaction controller needs from a manager adapter.
type Service interface {
	Lookup(ctx context.Context, term string) ([]types.SearchResult, error)
	Add(ctx context.Context, item types.SearchResult) error
}

// Client is the HTTP plumbing shared by the three manager adapters.
type Client struct {
	name    string // "radarr", "sonarr", "readarr" — used in logs and errors
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a manager client for the given base URL and API key.
func NewClient(name, baseURL, apiKey string) *Client {
	utils.DebugLog("%s: client created for %s (key %s)", name, baseURL, utils.MaskString(apiKey))
	return &Client{
		name:    name,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// lookup performs GET {base}/{resource}/lookup?term={term}.
func (c *Client) lookup(ctx context.Context, resource, term string) ([]types.SearchResult, error) {
	u := fmt.Sprintf("%s/%s/lookup?term=%s", c.baseURL, resource, url.QueryEscape(term))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%s lookup: %w", c.name, err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s lookup: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.statusError("lookup", resp)
	}

	var results []types.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("%s lookup: decoding response: %w", c.name, err)
	}
	utils.DebugLog("%s: lookup %q returned %d result(s)", c.name, term, len(results))
	return results, nil
}

// post performs POST {base}/{resource} with a JSON payload.
func (c *Client) post(ctx context.Context, resource string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s add: encoding payload: %w", c.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+resource, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s add: %w", c.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s add: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError("add", resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// statusError turns a non-2xx response into an error carrying whatever
// message the manager put in its body.
func (c *Client) statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if msg := extractMessage(body); msg != "" {
		return fmt.Errorf("%s %s: status %d: %s", c.name, op, resp.StatusCode, msg)
	}
	return fmt.Errorf("%s %s: status %d", c.name, op, resp.StatusCode)
}

// extractMessage digs an error message out of a manager response body.
// The *arr APIs are inconsistent here: validation failures come back as an
// array of {errorMessage}, other errors as {message}.
func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if msg, err := jsonparser.GetString(body, "message"); err == nil {
		return msg
	}
	if msg, err := jsonparser.GetString(body, "[0]", "errorMessage"); err == nil {
		return msg
	}
	return ""
}
