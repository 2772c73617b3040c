package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"innkeeper/internal/models"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// DB wraps the SQLite connection.
type DB struct {
	*sql.DB
	path   string
	logger *zerolog.Logger
}

// New opens (or creates) the database and ensures the schema exists.
func New(path string, logger *zerolog.Logger) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL for concurrent readers, immediate transactions so the write
	// lock is taken before the conflict re-check inside booking writes.
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	instance := &DB{DB: db, path: path, logger: logger}
	if err := instance.createTables(); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("Database initialized")
	return instance, nil
}

func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			login TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS clients (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			document TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			phone TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS rooms (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			number TEXT UNIQUE NOT NULL,
			category TEXT NOT NULL,
			rate_cents INTEGER NOT NULL CHECK (rate_cents > 0),
			available BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS recipes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			ingredients TEXT,
			instructions TEXT,
			image TEXT,
			category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL
		)`,

		// Dates are stored as ISO YYYY-MM-DD text; lexicographic order
		// matches chronological order. Deleting a client cascades its
		// bookings; rooms with bookings cannot be deleted.
		`CREATE TABLE IF NOT EXISTS bookings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			client_id INTEGER NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			room_id INTEGER NOT NULL REFERENCES rooms(id),
			check_in TEXT NOT NULL,
			check_out TEXT NOT NULL,
			total_cents INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			CHECK (check_out > check_in)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_room ON bookings(room_id, check_in)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_client ON bookings(client_id)`,
		`CREATE INDEX IF NOT EXISTS idx_recipes_category ON recipes(category_id)`,

		// Backstop against double booking: even if the application-level
		// conflict check is raced, an overlapping write is rejected at
		// commit. Half-open semantics, so touching endpoints pass.
		`CREATE TRIGGER IF NOT EXISTS bookings_no_overlap_insert
		BEFORE INSERT ON bookings
		WHEN EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.room_id = NEW.room_id
			  AND b.check_in < NEW.check_out
			  AND NEW.check_in < b.check_out
		)
		BEGIN
			SELECT RAISE(ABORT, 'room unavailable');
		END`,

		`CREATE TRIGGER IF NOT EXISTS bookings_no_overlap_update
		BEFORE UPDATE OF room_id, check_in, check_out ON bookings
		WHEN EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.id != NEW.id
			  AND b.room_id = NEW.room_id
			  AND b.check_in < NEW.check_out
			  AND NEW.check_in < b.check_out
		)
		BEGIN
			SELECT RAISE(ABORT, 'room unavailable');
		END`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("executing query %s: %w", query, err)
		}
	}
	return nil
}

// Path returns the database file path (used by the backup service).
func (db *DB) Path() string {
	return db.path
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// translateErr maps driver-level failures to domain errors.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		if strings.Contains(err.Error(), "room unavailable") {
			return models.ErrRoomUnavailable
		}
		return fmt.Errorf("%w: %v", models.ErrDuplicate, err)
	}
	return err
}
