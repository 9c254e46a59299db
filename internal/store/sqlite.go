package store

import (
	"context"
	"database/sql"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const sqliteFileName = "montage.sqlite"

func (s Store) sqlitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), sqliteFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers (TUI alongside scripted CLI
	// calls); busy_timeout avoids "database is locked" flakiness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tracks (
			id TEXT PRIMARY KEY,
			order_index INTEGER NOT NULL,
			hidden INTEGER NOT NULL DEFAULT 0,
			locked INTEGER NOT NULL DEFAULT 0,
			muted INTEGER NOT NULL DEFAULT 0,
			created_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS clips (
			id TEXT PRIMARY KEY,
			track_id TEXT NOT NULL,
			type TEXT NOT NULL,
			start_ms INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			source_start_ms INTEGER NOT NULL DEFAULT 0,
			origin_duration_ms INTEGER NOT NULL DEFAULT 0,
			speed REAL NOT NULL DEFAULT 1,
			volume REAL NOT NULL DEFAULT 1,
			muted INTEGER NOT NULL DEFAULT 0,
			fade_in_ms INTEGER NOT NULL DEFAULT 0,
			fade_out_ms INTEGER NOT NULL DEFAULT 0,
			label TEXT NOT NULL DEFAULT '',
			parent_clip_id TEXT NOT NULL DEFAULT '',
			metadata_json TEXT NOT NULL DEFAULT '{}',
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_clips_track ON clips(track_id, start_ms);`,
		`CREATE TABLE IF NOT EXISTS keyframes (
			id TEXT PRIMARY KEY,
			clip_id TEXT NOT NULL,
			property TEXT NOT NULL,
			offset REAL NOT NULL,
			value_json TEXT NOT NULL,
			easing TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_keyframes_clip ON keyframes(clip_id, property, offset);`,
		`CREATE TABLE IF NOT EXISTS events (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			ts_unixms INTEGER NOT NULL,
			type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			payload_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_entity ON events(entity_id);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}
