package repository

// schema creates the tables on open. %s is the payload column type, which
// is JSONB on PostgreSQL and TEXT on SQLite. Timestamps are unix microseconds.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL DEFAULT '',
    company TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    doc_type TEXT NOT NULL,
    identifier TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT '',
    payload %s NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS document_sequences (
    owner_id TEXT NOT NULL,
    doc_type TEXT NOT NULL,
    last_number BIGINT NOT NULL,
    PRIMARY KEY (owner_id, doc_type)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_identifier
    ON documents(owner_id, doc_type, identifier) WHERE identifier <> '';
CREATE INDEX IF NOT EXISTS idx_documents_owner_type
    ON documents(owner_id, doc_type, created_at);
`

const (
	postgresPayloadType = "JSONB"
	sqlitePayloadType   = "TEXT"
)
