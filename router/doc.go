// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Rank API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Voters:

	POST   /voters              - Register (public, starts unapproved)
	GET    /voters              - List voters (admin)
	POST   /voters/{id}/approve - Approve voter (admin)
	DELETE /voters/{id}         - Reject voter and drop their ballot (admin)

Items:

	GET    /items              - Undecided items
	GET    /items/history      - Decided items
	POST   /items              - Add item (approved voter)
	GET    /items/{id}         - One item, decided or not
	PATCH  /items/{id}         - Edit title or body of an undecided item (approved voter)
	POST   /items/{id}/decide  - Mark decided (admin)
	DELETE /items/{id}         - Delete item and its votes (admin)

Ballots (X-Voter-Token):

	POST /ballots    - Submit ranking (approved voter)
	GET  /ballots/me - Items with the caller's ranks

Results (public):

	GET /results - Winner, second choice, tie, last decided item, round counts

Admin routes require the X-Admin-Key header.

# Handler Initialization

The router builds the store and election engine and hands them to the
handlers:

	st := store.New(db, slog.Default())
	engine := election.New(st, slog.Default())
	votingHandler := handlers.NewVotingHandler(st, engine)
*/
package router
