package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	objective TEXT NOT NULL,
	status TEXT NOT NULL,
	error TEXT NOT NULL,
	output_dir TEXT NOT NULL,
	started_at DATETIME NOT NULL,
	duration_ms INTEGER NOT NULL,
	segment_count INTEGER NOT NULL,
	kept_count INTEGER NOT NULL,
	group_count INTEGER NOT NULL,
	fallback_count INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

CREATE TABLE IF NOT EXISTS run_segments (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seg_id INTEGER NOT NULL,
	start_ns INTEGER NOT NULL,
	end_ns INTEGER NOT NULL,
	text TEXT NOT NULL,
	label TEXT NOT NULL,
	included INTEGER NOT NULL,
	drop_reason TEXT NOT NULL,
	duplicate_of INTEGER,
	group_id INTEGER,
	PRIMARY KEY (run_id, seg_id)
);

CREATE TABLE IF NOT EXISTS run_groups (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	group_id INTEGER NOT NULL,
	start_ns INTEGER NOT NULL,
	end_ns INTEGER NOT NULL,
	summary TEXT NOT NULL,
	source TEXT NOT NULL,
	PRIMARY KEY (run_id, group_id)
);
`

type implStore struct {
	db *sql.DB
}

// New opens (creating if needed) the SQLite database at path. ":memory:"
// gives a private in-memory store.
func New(path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite serializes writers; one connection also keeps ":memory:" shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &implStore{db: db}, nil
}

func (s *implStore) Close() error {
	return s.db.Close()
}
