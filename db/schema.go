// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	schema, err := schemaFor(dbType)
	if err != nil {
		return err
	}

	_, err = db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func schemaFor(dbType string) (string, error) {
	switch dbType {
	case TypeSQLite:
		return strings.NewReplacer(
			"{{serial}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
			"{{ref}}", "INTEGER",
		).Replace(schema), nil
	case TypePostgres:
		return strings.NewReplacer(
			"{{serial}}", "BIGSERIAL PRIMARY KEY",
			"{{ref}}", "BIGINT",
		).Replace(schema), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, dbType)
}

const schema = `
-- Items
CREATE TABLE IF NOT EXISTS item (
    id {{serial}},
    title TEXT NOT NULL,
    body TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    decided_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_item_decided_at ON item(decided_at);

-- Voters
CREATE TABLE IF NOT EXISTS voter (
    id {{serial}},
    username TEXT NOT NULL UNIQUE,
    voter_token TEXT NOT NULL UNIQUE,
    is_approved BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Votes
CREATE TABLE IF NOT EXISTS vote (
    voter_id {{ref}} NOT NULL REFERENCES voter(id) ON DELETE CASCADE,
    item_id {{ref}} NOT NULL REFERENCES item(id) ON DELETE CASCADE,
    ordinal INTEGER NOT NULL CHECK (ordinal >= 0),
    PRIMARY KEY (voter_id, item_id),
    UNIQUE (voter_id, ordinal)
);

CREATE INDEX IF NOT EXISTS idx_vote_item_id ON vote(item_id);
`
