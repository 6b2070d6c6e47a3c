// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/revofoto/revofoto/internal/logging"
	"github.com/revofoto/revofoto/internal/media"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrDatabaseError = errors.New("database error")
	ErrSchemaTooNew  = errors.New("database schema is newer than this build")
)

// LegacyFileName is the flat-JSON store a prior version wrote next to
// the database. It is imported once and then deleted.
const LegacyFileName = "conversations.json"

const settingActiveConversation = "active_conversation_id"

// =============================================================================
// STORE
// =============================================================================

// Store is the durable snapshot store. Every save is a full snapshot:
// delete everything, insert everything, in one transaction, so a failed
// save leaves the previous snapshot intact.
type Store struct {
	db    *sql.DB
	media *media.Registry
	log   *slog.Logger

	// legacyPath is the flat-JSON file consulted on first empty load.
	legacyPath string
}

// Open opens (creating if needed) the database at dbPath. The registry
// is used to resolve media references on save and to mint fresh
// handles on load. A nil logger disables logging.
func Open(dbPath string, reg *media.Registry, logger *slog.Logger) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{
		db:         db,
		media:      reg,
		log:        logging.NewComponentLogger(logger, "storage"),
		legacyPath: filepath.Join(dir, LegacyFileName),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// initSchema creates tables and stamps the schema version.
func (s *Store) initSchema() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}
	if version > SchemaVersion {
		return fmt.Errorf("%w: found %d, support %d", ErrSchemaTooNew, version, SchemaVersion)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return err
	}
	if version < SchemaVersion {
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// SETTINGS
// =============================================================================

// SaveActiveConversationID persists the active conversation selection.
// An empty id clears it.
func (s *Store) SaveActiveConversationID(ctx context.Context, id string) error {
	if id == "" {
		_, err := s.db.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", settingActiveConversation)
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, settingActiveConversation, id)
	return err
}

// LoadActiveConversationID returns the stored selection, or "" when
// none is set.
func (s *Store) LoadActiveConversationID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?", settingActiveConversation).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// =============================================================================
// FULL WIPE
// =============================================================================

// ClearAllData wipes every store: all tables, the settings area, and
// any legacy flat file. Every store is attempted even when an earlier
// clear fails; the first error is returned.
func (s *Store) ClearAllData(ctx context.Context) error {
	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	tables := []string{"message_images", "messages", "conversations", "gallery_entries", "settings"}
	for _, table := range tables {
		_, err := s.db.ExecContext(ctx, "DELETE FROM "+table)
		record(err)
	}

	if err := os.Remove(s.legacyPath); err != nil && !os.IsNotExist(err) {
		record(err)
	}

	if firstErr != nil {
		s.log.Error("full wipe completed with errors", slog.Any("error", firstErr))
	}
	return firstErr
}
