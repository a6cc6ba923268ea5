package sqlite

import "database/sql"

// schema sets up the snapshot tables. It runs on every open.
// chan_id is TEXT because short channel IDs use the full uint64 range.
const schema = `
CREATE TABLE IF NOT EXISTS invoices (
    r_hash TEXT PRIMARY KEY,
    creation_date INTEGER NOT NULL,
    amt_paid_sat INTEGER NOT NULL DEFAULT 0,
    state TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS channels (
    chan_id TEXT PRIMARY KEY,
    capacity INTEGER NOT NULL DEFAULT 0,
    local_balance INTEGER NOT NULL DEFAULT 0,
    active INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_invoices_creation_date ON invoices(creation_date);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
