// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Rank API.

# Handler Types

Each handler is a struct with store and config dependencies:

  - VoterHandler: Registration, approval and rejection of voters
  - ItemHandler: Listing, adding, editing, deciding and deleting items
  - VotingHandler: Ballot submission and the caller's current ballot
  - ResultsHandler: Primary and runoff election results

Handlers are created via constructor functions:

	voterHandler := handlers.NewVoterHandler(st, cfg)
	votingHandler := handlers.NewVotingHandler(st, engine)

# Voter Lifecycle

	POST   /voters              → Register (returns voter_token, unapproved)
	POST   /voters/{id}/approve → Approve (admin)
	DELETE /voters/{id}         → Reject (admin, drops the ballot)

Only approved voters may submit ballots, add items or edit them. Voter operations
require the X-Voter-Token header; admin operations require X-Admin-Key.

# Ballots

A ballot is an ordered list of undecided item ids, most preferred first:

	POST /ballots {"votes": [3, 1, 7]}

Each submission replaces the previous ballot as a whole. Listing an item
twice, or an item that is decided or unknown, is rejected with 400 and the
stored ballot is left alone.

# Results

GET /results asks the election engine for the primary winner, then runs the
runoff without it to find the second choice. Nothing is cached; every request
sees the ballots as they are now.

# Item Lifecycle

	POST   /items             → AddItem (approved voter)
	GET    /items/{id}        → GetItem
	PATCH  /items/{id}        → UpdateItem (approved voter, undecided items only)
	POST   /items/{id}/decide → DecideItem (admin, leaves the candidate set)
	DELETE /items/{id}        → DeleteItem (admin, removes its votes)
*/
package handlers
