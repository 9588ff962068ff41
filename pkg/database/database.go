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
	"database/sql"
	"fmt"
	"time"

	"github.com/lucasduport/requestarr/pkg/utils"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DBManager handles request history storage
type DBManager struct {
	db          *sql.DB
	initialized bool
}

// NewDBManager creates a new database manager
func NewDBManager() (*DBManager, error) {
	utils.InfoLog("Initializing PostgreSQL database connection")

	host := utils.GetEnvOrDefault("DB_HOST", "localhost")
	port := utils.GetEnvOrDefault("DB_PORT", "5432")
	dbName := utils.GetEnvOrDefault("DB_NAME", "requestarr")
	user := utils.GetEnvOrDefault("DB_USER", "postgres")
	password := utils.GetEnvOrDefault("DB_PASSWORD", "")

	connStr := fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbName, user, password,
	)

	utils.DebugLog("Connecting to PostgreSQL: host=%s port=%s dbname=%s user=%s", host, port, dbName, user)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		utils.ErrorLog("Failed to connect to database: %v", err)
		return nil, fmt.Errorf("database connection test failed: %w", err)
	}
	utils.InfoLog("Database connection successful")

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	manager := &DBManager{db: db}
	if err := manager.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	manager.initialized = true
	return manager, nil
}

// initSchema creates database tables if they don't exist
func (m *DBManager) initSchema() error {
	utils.InfoLog("Initializing database schema")

	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS request_history (
			id SERIAL PRIMARY KEY,
			discord_id TEXT NOT NULL,
			media_kind TEXT NOT NULL,
			title TEXT NOT NULL,
			year INTEGER,
			requested_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		utils.ErrorLog("Failed to create request_history table: %v", err)
		return fmt.Errorf("failed to create request_history table: %w", err)
	}

	utils.InfoLog("Database schema initialized successfully")
	return nil
}

// IsInitialized returns whether the manager is connected and ready
func (m *DBManager) IsInitialized() bool {
	return m != nil && m.initialized
}

// Close shuts down the database connection
func (m *DBManager) Close() {
	if m.db != nil {
		utils.InfoLog("Closing database connection")
		m.db.Close()
		m.initialized = false
	}
}
