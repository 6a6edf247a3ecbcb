// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterVoterRequest: username
  - AddItemRequest: title, body
  - SubmitBallotRequest: votes (item ids, most preferred first)

# Response Types

Types for JSON responses:

  - RegisterVoterResponse: voter_id, voter_token, is_approved
  - SubmitBallotResponse: ranked, message
  - MyBallotResponse: items with the caller's rank
  - ItemsResponse, VotersResponse: listings
  - ResultsResponse: winner, second, outcome, tie, next, ballot_count, rounds
  - ErrorResponse: error, message

# Domain Types

  - Item: candidate to discuss; DecidedAt is nil while it is undecided
  - Voter: registered voter; only approved voters may vote or add items
  - RankedItem: an undecided item and the voter's rank for it (nil if unranked)
*/
package models
