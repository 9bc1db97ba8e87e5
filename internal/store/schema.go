package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS entries (
    vehicle              TEXT NOT NULL,
    entry_id             INTEGER NOT NULL,
    file_path            TEXT NOT NULL,
    date                 TEXT NOT NULL,
    drive_profile        TEXT,
    ac_mode              TEXT,
    liters_added         REAL NOT NULL,
    cost_per_liter       REAL NOT NULL,
    full_tank            INTEGER NOT NULL DEFAULT 0,
    odometer             REAL NOT NULL,
    state_toll           REAL NOT NULL DEFAULT 0,
    private_toll         REAL NOT NULL DEFAULT 0,
    service_cost         REAL NOT NULL DEFAULT 0,
    service_desc         TEXT,
    created_at           TEXT,
    edited_at            TEXT,
    PRIMARY KEY (vehicle, entry_id)
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    vehicle              TEXT NOT NULL,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    parsed_at            TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_file ON entries(file_path);
CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date);
`
