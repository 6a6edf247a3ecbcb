// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates its schema.

# Connections

Open supports SQLite (modernc.org/sqlite, no cgo) and PostgreSQL (lib/pq):

	conn, err := db.Open(db.TypeSQLite, "file:quickly-rank.db")
	conn, err := db.Open(db.TypePostgres, "postgres://...")

SQLite connections get foreign keys enabled and are limited to one open
connection.

# Schema Creation

CreateSchema initializes all required tables for the given database type:

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - item: candidates; decided_at is NULL while undecided
  - voter: username, voter token, approval flag
  - vote: (voter_id, item_id, ordinal), one row per ranked item

# Relationships

	voter 1──* vote *──1 item

Foreign keys use ON DELETE CASCADE. Ordinals are unique per voter.
*/
package db
