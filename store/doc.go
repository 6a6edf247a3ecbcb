// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists items, voters and ranked ballots.

Store works on any *sql.DB opened by package db, SQLite or PostgreSQL, and
implements election.BallotStore:

	st := store.New(conn, logger)
	engine := election.New(st, logger)

# Ballots

A ballot is the set of vote rows of one voter, ordered by ordinal.
ReplaceBallot deletes and re-inserts them in one transaction, so readers see
either the old ballot or the new one. LoadBallots returns entries for decided
items too; the election ignores them.

# Errors

  - ErrNotFound: no such item or voter
  - ErrConflict: username already taken
  - ErrUnknownItem: a ballot names an item that does not exist, reported as
    an *election.ValidationError
  - ErrAlreadyDecided: DecideItem or UpdateItem on a decided item

Other failures are returned wrapped with the failing step.
*/
package store
