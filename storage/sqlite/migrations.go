package sqlite

import "database/sql"

// schema keeps every collection in one table; domain fields are stored as a
// JSON object. Timestamps are fixed-width RFC 3339 UTC strings so they sort
// and compare lexically.
const schema = `
CREATE TABLE IF NOT EXISTS records (
    collection TEXT NOT NULL,
    id TEXT NOT NULL,
    fields TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT,
    PRIMARY KEY (collection, id)
);

CREATE INDEX IF NOT EXISTS idx_records_created_at ON records(collection, created_at);
`

func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
