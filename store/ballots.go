// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/quickly-rank/election"
	"github.com/danielhkuo/quickly-rank/models"
)

// LoadBallots returns every voter's ballot, item ids in preference order.
// Entries for decided items are kept; the tally skips them.
func (s *Store) LoadBallots(ctx context.Context) (map[int64][]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT voter_id, item_id FROM vote
		ORDER BY voter_id, ordinal
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	ballots := make(map[int64][]int64)
	for rows.Next() {
		var voterID, itemID int64
		if err := rows.Scan(&voterID, &itemID); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		ballots[voterID] = append(ballots[voterID], itemID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate votes: %w", err)
	}

	return ballots, nil
}

func (s *Store) LoadUndecidedItemIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM item WHERE decided_at IS NULL ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan item id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return ids, nil
}

// ReplaceBallot swaps the voter's votes for itemIDs in a single transaction.
// An empty itemIDs clears the ballot. A reference to a nonexistent item
// fails with an *election.ValidationError wrapping ErrUnknownItem and leaves
// the previous ballot in place.
func (s *Store) ReplaceBallot(ctx context.Context, voterID int64, itemIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM vote WHERE voter_id = $1`, voterID); err != nil {
		return fmt.Errorf("failed to delete votes: %w", err)
	}

	for ordinal, itemID := range itemIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO vote (voter_id, item_id, ordinal)
			VALUES ($1, $2, $3)
		`, voterID, itemID, ordinal)
		if err != nil {
			if isForeignKeyViolation(err) {
				return &election.ValidationError{VoterID: voterID, ItemID: itemID, Err: ErrUnknownItem}
			}
			return fmt.Errorf("failed to insert vote: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ballot: %w", err)
	}

	s.logger.Debug("ballot replaced", "voter_id", voterID, "ranked", len(itemIDs))
	return nil
}

// BallotForVoter lists the undecided items with the voter's rank for each.
// Ranked items come first in preference order, then unranked items by id.
func (s *Store) BallotForVoter(ctx context.Context, voterID int64) ([]models.RankedItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.title, i.body, i.created_at, v.ordinal
		FROM item i
		LEFT JOIN vote v ON v.item_id = i.id AND v.voter_id = $1
		WHERE i.decided_at IS NULL
		ORDER BY CASE WHEN v.ordinal IS NULL THEN 1 ELSE 0 END, v.ordinal, i.id
	`, voterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ballot: %w", err)
	}
	defer rows.Close()

	items := []models.RankedItem{}
	for rows.Next() {
		var ri models.RankedItem
		var ordinal *int
		if err := rows.Scan(&ri.Item.ID, &ri.Item.Title, &ri.Item.Body, &ri.Item.CreatedAt, &ordinal); err != nil {
			return nil, fmt.Errorf("failed to scan ballot item: %w", err)
		}
		ri.Rank = ordinal
		items = append(items, ri)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ballot: %w", err)
	}

	return items, nil
}

// CountBallots returns how many voters have at least one vote on record
func (s *Store) CountBallots(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT voter_id) FROM vote`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count ballots: %w", err)
	}
	return n, nil
}
