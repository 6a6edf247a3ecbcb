// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// BallotStore is the persistence the engine reads ballots from and writes
// them to.
type BallotStore interface {
	// LoadBallots returns every voter's item ids in rank order. Entries for
	// decided items may be included.
	LoadBallots(ctx context.Context) (map[int64][]int64, error)
	LoadUndecidedItemIDs(ctx context.Context) ([]int64, error)
	// ReplaceBallot atomically swaps the voter's stored ballot for itemIDs,
	// ranked by position. An id with no item fails with a *ValidationError
	// wrapping ErrUnknownItem.
	ReplaceBallot(ctx context.Context, voterID int64, itemIDs []int64) error
}

// Engine runs elections against a BallotStore. Every call recomputes from
// the store; nothing is cached between calls.
type Engine struct {
	store  BallotStore
	logger *slog.Logger
}

func New(store BallotStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, logger: logger}
}

// Resolution is the primary and runoff outcome of one results request.
type Resolution struct {
	Primary Result
	Rounds  []Round
	Runoff  Result
	Winner  *int64
	Second  *int64
}

// RunPrimary tallies all ballots over the undecided items.
func (e *Engine) RunPrimary(ctx context.Context) (Result, error) {
	result, _, err := e.primary(ctx)
	return result, err
}

// RunRunoff tallies again with every vote for excluded removed from the
// ballots, so later preferences move up. A nil excluded means there is no
// primary winner to run off against.
func (e *Engine) RunRunoff(ctx context.Context, excluded *int64) (Result, error) {
	if excluded == nil {
		return Result{Kind: NoResult}, nil
	}

	ballots, candidates, err := e.load(ctx)
	if err != nil {
		return Result{}, err
	}

	candidates = slices.DeleteFunc(candidates, func(id int64) bool { return id == *excluded })
	result := Tally(excludeItem(ballots, *excluded), candidates)

	e.logger.Debug("runoff election resolved", "excluded", *excluded, "result", result.String())
	return result, nil
}

// Resolve runs the primary and, when it yields an item, the runoff
// excluding that item.
func (e *Engine) Resolve(ctx context.Context) (Resolution, error) {
	primary, rounds, err := e.primary(ctx)
	if err != nil {
		return Resolution{}, err
	}

	res := Resolution{Primary: primary, Rounds: rounds, Runoff: Result{Kind: NoResult}}
	if id, ok := primary.Resolve(); ok {
		res.Winner = &id
	}

	res.Runoff, err = e.RunRunoff(ctx, res.Winner)
	if err != nil {
		return Resolution{}, err
	}
	if id, ok := res.Runoff.Resolve(); ok {
		res.Second = &id
	}

	return res, nil
}

// SubmitBallot replaces the voter's ballot with itemIDs. A ballot listing an
// item twice is rejected with a *ValidationError before the store is touched.
// A *ValidationError from the store (an unknown item) is returned as is;
// any other store failure wraps ErrStoreUnavailable.
func (e *Engine) SubmitBallot(ctx context.Context, voterID int64, itemIDs []int64) error {
	seen := make(map[int64]bool, len(itemIDs))
	for _, id := range itemIDs {
		if seen[id] {
			return &ValidationError{VoterID: voterID, ItemID: id, Err: ErrDuplicateItem}
		}
		seen[id] = true
	}

	if err := e.store.ReplaceBallot(ctx, voterID, itemIDs); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return err
		}
		e.logger.Error("failed to replace ballot", "error", err, "voter_id", voterID)
		return fmt.Errorf("%w: replace ballot of voter %d: %w", ErrStoreUnavailable, voterID, err)
	}

	e.logger.Debug("ballot replaced", "voter_id", voterID, "items", len(itemIDs))
	return nil
}

func (e *Engine) primary(ctx context.Context) (Result, []Round, error) {
	ballots, candidates, err := e.load(ctx)
	if err != nil {
		return Result{}, nil, err
	}

	result, rounds := TallyRounds(ballots, candidates)
	e.logger.Debug("primary election resolved",
		"ballots", len(ballots),
		"candidates", len(candidates),
		"rounds", len(rounds),
		"result", result.String(),
	)
	return result, rounds, nil
}

func (e *Engine) load(ctx context.Context) (map[int64][]int64, []int64, error) {
	ballots, err := e.store.LoadBallots(ctx)
	if err != nil {
		e.logger.Error("failed to load ballots", "error", err)
		return nil, nil, fmt.Errorf("%w: load ballots: %w", ErrStoreUnavailable, err)
	}

	candidates, err := e.store.LoadUndecidedItemIDs(ctx)
	if err != nil {
		e.logger.Error("failed to load undecided items", "error", err)
		return nil, nil, fmt.Errorf("%w: load undecided items: %w", ErrStoreUnavailable, err)
	}

	return ballots, candidates, nil
}

// excludeItem copies ballots with every entry equal to id removed
func excludeItem(ballots map[int64][]int64, id int64) map[int64][]int64 {
	out := make(map[int64][]int64, len(ballots))
	for voterID, ballot := range ballots {
		kept := make([]int64, 0, len(ballot))
		for _, itemID := range ballot {
			if itemID != id {
				kept = append(kept, itemID)
			}
		}
		out[voterID] = kept
	}
	return out
}
