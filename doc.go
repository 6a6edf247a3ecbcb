// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Rank API server.

Quickly Rank is a small group voting service. Approved voters rank the open
items; on every results request an instant-runoff election picks the winner
and a runoff without the winner picks the second choice.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:quickly-rank.db ADMIN_KEY_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -admin-salt ...

Settings may also live in a .env file next to the binary.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - LOG_LEVEL (-log-level): debug, info, warn, error (default: info)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - election: instant-runoff tally, primary and runoff elections
  - store: items, voters and ballots over database/sql
  - handlers: HTTP request handlers (voters, items, ballots, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Token generation and validation
  - db: Connections and schema creation
  - cliparse: Configuration parsing

The rankctl command (cmd/rankctl) administers voters and items from the
terminal.

See package documentation for each component.
*/
package main
