package store

const Schema = `
CREATE TABLE IF NOT EXISTS stations (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	daop INTEGER NOT NULL DEFAULT 0,
	fg_enable INTEGER NOT NULL DEFAULT 0,
	metadata TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS routemaps (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	daop INTEGER NOT NULL,
	permalink TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS schedules (
	id TEXT PRIMARY KEY,
	station_id TEXT NOT NULL REFERENCES stations(id),
	origin_id TEXT NOT NULL REFERENCES stations(id),
	destination_id TEXT NOT NULL REFERENCES stations(id),
	train_id TEXT NOT NULL,
	line TEXT NOT NULL,
	route TEXT NOT NULL,
	departs_at DATETIME NOT NULL,
	arrives_at DATETIME NOT NULL,
	metadata TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_schedules_station_departs ON schedules(station_id, departs_at);

-- Append-only status trail; the latest row by id is the current sync state.
CREATE TABLE IF NOT EXISTS sync_metadata (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts DATETIME NOT NULL,
	status TEXT NOT NULL,
	error TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
