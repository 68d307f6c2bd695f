package sink

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SchemaVersion is the current render database schema version.
const SchemaVersion = 1

const schemaV1 = `
CREATE TABLE IF NOT EXISTS neurons (
    idx INTEGER PRIMARY KEY,   -- render order
    id TEXT NOT NULL,          -- normalized id, unique within its type
    grp TEXT NOT NULL,
    type TEXT NOT NULL,
    x REAL,                    -- NULL when the input coordinate is nan
    y REAL,
    z REAL,
    polarity TEXT
);
CREATE INDEX IF NOT EXISTS idx_neurons_type ON neurons(grp, type);

CREATE TABLE IF NOT EXISTS legend (
    key TEXT PRIMARY KEY,      -- "group-type"
    grp TEXT NOT NULL,
    type TEXT NOT NULL,
    r REAL NOT NULL,
    g REAL NOT NULL,
    b REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS host_settings (
    key TEXT PRIMARY KEY,      -- "emission" or "resolution_scale"
    value REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS frames (
    frame INTEGER PRIMARY KEY,
    time REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS frame_states (
    frame INTEGER NOT NULL REFERENCES frames(frame) ON DELETE CASCADE,
    idx INTEGER NOT NULL REFERENCES neurons(idx),
    r REAL NOT NULL,
    g REAL NOT NULL,
    b REAL NOT NULL,
    alpha REAL NOT NULL,
    size REAL NOT NULL,
    PRIMARY KEY (frame, idx)
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL
);
`

// InitSchema creates the render tables and records the schema version.
func InitSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO schema_version (version, applied_at) VALUES (?, ?)`,
		SchemaVersion, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return tx.Commit()
}
