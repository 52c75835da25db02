// Package snapshot persists the whole store state as a single JSON
// document in one SQLite row. Persistence is best-effort: loading
// falls back to the bundled defaults per collection, and saving never
// blocks or fails an in-memory transition.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"assetline/internal/store"
)

// EnsureSchema creates the snapshot table. The store is one document
// row, so there is nothing to version; schema changes are handled by
// Load's fallback to defaults on an unreadable document.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS snapshot (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			document TEXT NOT NULL,
			saved_at TEXT NOT NULL
		)`)
	return err
}

// Save upserts the snapshot document.
func Save(ctx context.Context, db *sql.DB, state store.State) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return err
	}
	savedAt := time.Now().UTC().Format(time.RFC3339)
	_, err = db.ExecContext(ctx, `
		INSERT INTO snapshot(id, document, saved_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET document=excluded.document, saved_at=excluded.saved_at`,
		string(doc), savedAt)
	return err
}

// Load reads the persisted snapshot and merges it with the defaults:
// each top-level collection falls back independently when absent or
// empty, and a missing or malformed document yields the defaults
// wholesale. The two are never merged field by field.
func Load(ctx context.Context, db *sql.DB, defaults store.State) (store.State, error) {
	var doc string
	err := db.QueryRowContext(ctx, `SELECT document FROM snapshot WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return defaults, nil
	}
	if err != nil {
		return defaults, err
	}
	var loaded store.State
	if err := json.Unmarshal([]byte(doc), &loaded); err != nil {
		return defaults, nil
	}
	if len(loaded.Assets) == 0 {
		loaded.Assets = defaults.Assets
	}
	if len(loaded.People) == 0 {
		loaded.People = defaults.People
	}
	if len(loaded.Locations) == 0 {
		loaded.Locations = defaults.Locations
	}
	if len(loaded.Activities) == 0 {
		loaded.Activities = defaults.Activities
	}
	if len(loaded.Tasks) == 0 {
		loaded.Tasks = defaults.Tasks
	}
	return loaded, nil
}
