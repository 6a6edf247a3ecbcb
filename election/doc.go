// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election implements the ranked-choice election behind the results page.

# Tally

Tally is a pure instant-runoff count:

	result := election.Tally(ballots, candidates)

Ballots map a voter id to item ids in preference order. Entries that are not
candidates (decided or unknown items) are skipped. Each round a ballot counts
for its first remaining candidate; a candidate with a strict majority of the
non-exhausted ballots wins. Otherwise the lowest-count candidate is
eliminated and the count repeats.

Ties are broken by item age, lower id first:

  - among several lowest-count candidates the newest (highest id) is eliminated
  - when all remaining candidates are tied the result is Tie with the ids
    ascending, and Result.Resolve picks the oldest (lowest id)

# Engine

The Engine loads ballots and undecided items from a BallotStore on every call:

	engine := election.New(store, logger)
	primary, err := engine.RunPrimary(ctx)
	runoff, err := engine.RunRunoff(ctx, &winnerID)

The runoff deletes every vote for the excluded item from the ballots before
counting, then tallies the remaining undecided items. Resolve runs both steps.

# Ballot Submission

	err := engine.SubmitBallot(ctx, voterID, []int64{3, 1, 2})

Ballots listing an item twice fail with *ValidationError (errors.Is
ErrDuplicateItem) before the store is called. A store that finds no such item
returns a *ValidationError matching ErrUnknownItem, which is passed through.
Other store failures wrap ErrStoreUnavailable. NoResult and Tie
are outcomes, never errors.
*/
package election
