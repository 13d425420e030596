package store

const schema = `
CREATE TABLE IF NOT EXISTS install_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    request_id TEXT NOT NULL,
    source_path TEXT NOT NULL,
    format TEXT NOT NULL,
    status TEXT NOT NULL,
    message TEXT,
    sha256 TEXT,
    size_bytes INTEGER,
    submitted_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_sha256 ON install_history(sha256);
CREATE INDEX IF NOT EXISTS idx_history_finished ON install_history(finished_at);
`
