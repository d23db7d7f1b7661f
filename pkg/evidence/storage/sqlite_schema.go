package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the evidence database schema.
const Schema = `
-- Evidence records table
CREATE TABLE IF NOT EXISTS evidence (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    workload_id TEXT NOT NULL,
    evaluation_id TEXT,

    -- Timestamps
    observed_time TIMESTAMP NOT NULL,
    recorded_time TIMESTAMP NOT NULL,

    -- Decision fields
    sender_id TEXT,
    content_hash TEXT,
    admitted BOOLEAN,
    reason TEXT,
    sender_trust REAL,
    content_trust REAL,
    sender_agreement BOOLEAN,
    content_agreement BOOLEAN,
    broker_verdicts TEXT,

    -- Enforcement fields
    category TEXT,
    tier TEXT,
    observed_ratio REAL,
    terminated BOOLEAN,

    -- Lifecycle fields
    detail TEXT
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_evidence_observed_time ON evidence(observed_time);
CREATE INDEX IF NOT EXISTS idx_evidence_kind ON evidence(kind);
CREATE INDEX IF NOT EXISTS idx_evidence_workload_id ON evidence(workload_id);
CREATE INDEX IF NOT EXISTS idx_evidence_sender_id ON evidence(sender_id);
CREATE INDEX IF NOT EXISTS idx_evidence_reason ON evidence(reason);
CREATE INDEX IF NOT EXISTS idx_evidence_category ON evidence(category);
CREATE INDEX IF NOT EXISTS idx_evidence_tier ON evidence(tier);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
