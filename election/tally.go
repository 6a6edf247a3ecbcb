// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"slices"
)

// Round records the first-preference counts of one tally round
type Round struct {
	Counts     map[int64]int `json:"counts"`
	Exhausted  int           `json:"exhausted"`
	Eliminated *int64        `json:"eliminated,omitempty"`
}

// Tally runs an instant-runoff count over ballots restricted to candidates.
// Ballot entries outside the candidate set are skipped.
func Tally(ballots map[int64][]int64, candidates []int64) Result {
	result, _ := TallyRounds(ballots, candidates)
	return result
}

// TallyRounds is Tally that also returns the per-round counts.
//
// Each round every ballot counts for its first entry still in the active set.
// A candidate holding a majority of the non-exhausted ballots wins. When every
// active candidate shares the lowest count the round ends in a tie; otherwise
// one lowest-count candidate is eliminated. Among several lowest-count
// candidates the one with the highest id (the newest item) goes first.
func TallyRounds(ballots map[int64][]int64, candidates []int64) (Result, []Round) {
	active := make(map[int64]bool, len(candidates))
	for _, id := range candidates {
		active[id] = true
	}

	var rounds []Round
	for len(active) > 0 {
		counts := make(map[int64]int, len(active))
		for id := range active {
			counts[id] = 0
		}

		total := 0
		for _, ballot := range ballots {
			if top, ok := topPreference(ballot, active); ok {
				counts[top]++
				total++
			}
		}

		round := Round{Counts: counts, Exhausted: len(ballots) - total}
		if total == 0 {
			return Result{Kind: NoResult}, append(rounds, round)
		}

		// Strict majority of the remaining ballots. At most one candidate can reach it.
		threshold := total/2 + 1
		for id, n := range counts {
			if n >= threshold {
				return winnerResult(id), append(rounds, round)
			}
		}

		lowest := lowestCount(counts)
		if len(lowest) == len(active) {
			return tieResult(lowest), append(rounds, round)
		}

		eliminated := lowest[len(lowest)-1]
		delete(active, eliminated)
		round.Eliminated = &eliminated
		rounds = append(rounds, round)
	}

	return Result{Kind: NoResult}, rounds
}

// topPreference returns the first ballot entry that is still active
func topPreference(ballot []int64, active map[int64]bool) (int64, bool) {
	for _, id := range ballot {
		if active[id] {
			return id, true
		}
	}
	return 0, false
}

// lowestCount returns the ids sharing the smallest count, ascending
func lowestCount(counts map[int64]int) []int64 {
	var lowest []int64
	low := -1
	for id, n := range counts {
		switch {
		case low == -1 || n < low:
			low = n
			lowest = append(lowest[:0], id)
		case n == low:
			lowest = append(lowest, id)
		}
	}
	slices.Sort(lowest)
	return lowest
}
