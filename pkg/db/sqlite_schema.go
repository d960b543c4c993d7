package db

import (
	"context"
	"fmt"

	"github.com/angelmondragon/roomreserve-backend/pkg/config"
	"gorm.io/gorm"
)

// sqliteSchema mirrors the goose migrations for local SQLite mode. SQLite has no
// exclusion constraints, so slot conflicts rely on the single-writer transaction.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
  department TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'denied')),
  denial_reason TEXT,
  last_login DATETIME,
  created_at DATETIME,
  updated_at DATETIME
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (email)`,
	`CREATE TABLE IF NOT EXISTS rooms (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  capacity INTEGER NOT NULL CHECK (capacity > 0),
  floor INTEGER NOT NULL DEFAULT 0,
  building TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  amenities TEXT NOT NULL DEFAULT '[]',
  status TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available', 'maintenance')),
  created_at DATETIME,
  updated_at DATETIME
)`,
	`CREATE TABLE IF NOT EXISTS bookings (
  id TEXT PRIMARY KEY,
  room_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  start_time DATETIME NOT NULL,
  end_time DATETIME NOT NULL,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
  denial_reason TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  CHECK (end_time > start_time)
)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_room_start ON bookings (room_id, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings (user_id)`,
}

// EnsureSQLiteSchema creates the tables used in SQLite mode when they are missing.
func EnsureSQLiteSchema(ctx context.Context, conn *gorm.DB) error {
	for _, stmt := range sqliteSchema {
		if err := conn.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply sqlite schema: %w", err)
		}
	}
	return nil
}

// EnsureSchema applies the embedded schema when running on SQLite; Postgres
// deployments are migrated by goose instead.
func (c *Client) EnsureSchema(ctx context.Context) error {
	if c.driver != config.DriverSQLite {
		return nil
	}
	return EnsureSQLiteSchema(ctx, c.conn)
}
