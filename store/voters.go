// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-rank/models"
)

const voterColumns = `id, username, voter_token, is_approved, created_at`

func scanVoter(row rowScanner) (models.Voter, error) {
	var v models.Voter
	err := row.Scan(&v.ID, &v.Username, &v.VoterToken, &v.IsApproved, &v.CreatedAt)
	return v, err
}

// CreateVoter registers an unapproved voter. A taken username or token
// fails with ErrConflict.
func (s *Store) CreateVoter(ctx context.Context, username, voterToken string) (models.Voter, error) {
	v := models.Voter{
		Username:   username,
		VoterToken: voterToken,
		CreatedAt:  time.Now().UTC(),
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO voter (username, voter_token, is_approved, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, username, voterToken, false, v.CreatedAt).Scan(&v.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Voter{}, fmt.Errorf("%w: username %q", ErrConflict, username)
		}
		return models.Voter{}, fmt.Errorf("failed to insert voter: %w", err)
	}

	return v, nil
}

func (s *Store) VoterByToken(ctx context.Context, voterToken string) (models.Voter, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+voterColumns+` FROM voter WHERE voter_token = $1`, voterToken)
	v, err := scanVoter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Voter{}, ErrNotFound
	}
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to query voter: %w", err)
	}
	return v, nil
}

func (s *Store) GetVoter(ctx context.Context, id int64) (models.Voter, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+voterColumns+` FROM voter WHERE id = $1`, id)
	v, err := scanVoter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Voter{}, ErrNotFound
	}
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to query voter: %w", err)
	}
	return v, nil
}

func (s *Store) ListVoters(ctx context.Context) ([]models.Voter, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+voterColumns+` FROM voter ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query voters: %w", err)
	}
	defer rows.Close()

	voters := []models.Voter{}
	for rows.Next() {
		v, err := scanVoter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voter: %w", err)
		}
		voters = append(voters, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate voters: %w", err)
	}
	return voters, nil
}

// ApproveVoter lets the voter vote and add items. Approving twice is a no-op.
func (s *Store) ApproveVoter(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE voter SET is_approved = $1 WHERE id = $2`, true, id)
	if err != nil {
		return fmt.Errorf("failed to approve voter: %w", err)
	}
	return rowsAffected(res)
}

// DeleteVoter removes a voter and their ballot
func (s *Store) DeleteVoter(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM vote WHERE voter_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete votes: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM voter WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete voter: %w", err)
	}
	if err := rowsAffected(res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
