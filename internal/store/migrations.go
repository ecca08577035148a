package store

// schema is applied on startup. Statements are idempotent so reopening an
// existing database is safe.
const schema = `
CREATE TABLE IF NOT EXISTS records (
	id          TEXT PRIMARY KEY,
	provider_id TEXT NOT NULL,
	client_id   TEXT NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS intervals (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	record_id  TEXT NOT NULL REFERENCES records(id) ON DELETE CASCADE,
	date       TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time   TEXT NOT NULL,
	minutes    INTEGER NOT NULL,
	units      REAL NOT NULL,
	category   TEXT,
	invoiced   INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_records_subject ON records(provider_id, client_id);
CREATE INDEX IF NOT EXISTS idx_intervals_record ON intervals(record_id);
CREATE INDEX IF NOT EXISTS idx_intervals_date ON intervals(date);
`
