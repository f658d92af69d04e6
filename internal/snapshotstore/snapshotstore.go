// Package snapshotstore persists holdem.State snapshots to a sqlite
// database: a pure-Go modernc.org/sqlite connection opened with a single
// connection and WAL journaling, a create-if-missing schema, and
// upsert-by-key writes. It keeps one JSON blob per table snapshot,
// matching the persistence envelope { gameId, gameVersion, state }.
package snapshotstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"tablecore/errs"
	"tablecore/holdem"
)

// ErrNotFound is returned by Load when gameID has no saved snapshot.
var ErrNotFound = errors.New("snapshotstore: not found")

// Snapshot is the persistence envelope. GameID is the key the snapshot was
// saved under (cmd/tableserver uses the configured table name); GameVersion
// is the hand number the state was captured at.
type Snapshot struct {
	GameID      string       `json:"gameId"`
	GameVersion int64        `json:"gameVersion"`
	State       *holdem.State `json:"state"`
}

// Store is a sqlite-backed keeper of the most recent Snapshot per table.
type Store struct {
	db *sql.DB
}

// Open creates or opens the sqlite database at path, ensuring its schema
// exists. path may be ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("snapshotstore: empty database path")
	}
	if path != ":memory:" {
		if parent := filepath.Dir(path); parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS table_snapshots (
    game_id      TEXT PRIMARY KEY,
    game_version INTEGER NOT NULL,
    state_json   TEXT NOT NULL,
    updated_at_ms INTEGER NOT NULL
)`)
	return err
}

// Save upserts the current snapshot for gameID. It overwrites a prior
// snapshot unconditionally: the last Save for a gameID wins.
func (s *Store) Save(ctx context.Context, gameID string, state *holdem.State) error {
	if strings.TrimSpace(gameID) == "" {
		return errs.New(errs.InvalidInput, "snapshotstore: gameID is required")
	}
	if state == nil {
		return errs.New(errs.InvalidInput, "snapshotstore: state is required")
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("snapshotstore: marshal state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO table_snapshots (game_id, game_version, state_json, updated_at_ms)
VALUES (?, ?, ?, ?)
ON CONFLICT (game_id) DO UPDATE SET
    game_version = excluded.game_version,
    state_json   = excluded.state_json,
    updated_at_ms = excluded.updated_at_ms
`, gameID, state.HandNumber, string(raw), time.Now().UTC().UnixMilli())
	return err
}

// Load returns the most recently saved Snapshot for gameID, or
// ErrNotFound if none exists. The returned State is ready to pass
// directly back into holdem's view/apply functions.
func (s *Store) Load(ctx context.Context, gameID string) (Snapshot, error) {
	var version int64
	var raw string
	err := s.db.QueryRowContext(ctx, `
SELECT game_version, state_json FROM table_snapshots WHERE game_id = ?
`, gameID).Scan(&version, &raw)
	if err == sql.ErrNoRows {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, err
	}

	var state holdem.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return Snapshot{}, fmt.Errorf("snapshotstore: unmarshal state: %w", err)
	}
	return Snapshot{GameID: gameID, GameVersion: version, State: &state}, nil
}

// Delete removes any snapshot stored for gameID. Deleting an absent
// gameID is not an error.
func (s *Store) Delete(ctx context.Context, gameID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM table_snapshots WHERE game_id = ?`, gameID)
	return err
}
