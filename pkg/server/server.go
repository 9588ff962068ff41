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

// Package server exposes a small read-only HTTP API with the bot's health
// and request statistics. It is optional and only started when a port is
// configured.
package server

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lucasduport/requestarr/pkg/database"
	"github.com/lucasduport/requestarr/pkg/types"
	"github.com/lucasduport/requestarr/pkg/utils"
)

// StatusFunc supplies the current bot snapshot for /api/status.
type StatusFunc func() types.BotStatus

// Server is the optional status API.
type Server struct {
	port   int
	status StatusFunc
	db     *database.DBManager // nil when request history is disabled
}

// NewServer creates the status API listening on port.
func NewServer(port int, status StatusFunc, db *database.DBManager) *Server {
	return &Server{port: port, status: status, db: db}
}

// Serve blocks running the HTTP listener.
func (s *Server) Serve() error {
	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "ok")
	})
	router.GET("/api/status", s.handleStatus)

	utils.InfoLog("Status API listening on :%d", s.port)
	return router.Run(fmt.Sprintf(":%d", s.port))
}

func (s *Server) handleStatus(ctx *gin.Context) {
	payload := gin.H{"bot": s.status()}

	if s.db.IsInitialized() {
		stats, err := s.db.RequestStats()
		if err != nil {
			utils.WarnLog("Status API: failed to fetch request stats: %v", err)
			ctx.JSON(http.StatusInternalServerError, types.APIResponse{
				Success: false,
				Error:   "failed to fetch request stats",
			})
			return
		}
		payload["requests"] = stats
	}

	ctx.JSON(http.StatusOK, types.APIResponse{Success: true, Data: payload})
}
