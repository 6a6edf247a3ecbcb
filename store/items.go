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

var ErrAlreadyDecided = errors.New("item already decided")

const itemColumns = `id, title, body, created_at, decided_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (models.Item, error) {
	var item models.Item
	var decidedAt sql.NullTime
	if err := row.Scan(&item.ID, &item.Title, &item.Body, &item.CreatedAt, &decidedAt); err != nil {
		return models.Item{}, err
	}
	if decidedAt.Valid {
		t := decidedAt.Time
		item.DecidedAt = &t
	}
	return item, nil
}

func (s *Store) queryItems(ctx context.Context, query string, args ...any) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

func (s *Store) AddItem(ctx context.Context, title, body string) (models.Item, error) {
	item := models.Item{Title: title, Body: body, CreatedAt: time.Now().UTC()}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO item (title, body, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, title, body, item.CreatedAt).Scan(&item.ID)
	if err != nil {
		return models.Item{}, fmt.Errorf("failed to insert item: %w", err)
	}

	return item, nil
}

func (s *Store) GetItem(ctx context.Context, id int64) (models.Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM item WHERE id = $1`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, ErrNotFound
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("failed to query item: %w", err)
	}
	return item, nil
}

// ListUndecidedItems returns the current candidates, oldest first
func (s *Store) ListUndecidedItems(ctx context.Context) ([]models.Item, error) {
	return s.queryItems(ctx, `
		SELECT `+itemColumns+` FROM item
		WHERE decided_at IS NULL
		ORDER BY id
	`)
}

// ListDecidedItems returns decided items, most recently decided first
func (s *Store) ListDecidedItems(ctx context.Context) ([]models.Item, error) {
	return s.queryItems(ctx, `
		SELECT `+itemColumns+` FROM item
		WHERE decided_at IS NOT NULL
		ORDER BY decided_at DESC, id DESC
	`)
}

func (s *Store) ListItems(ctx context.Context) ([]models.Item, error) {
	return s.queryItems(ctx, `SELECT `+itemColumns+` FROM item ORDER BY id`)
}

// LatestDecidedItem returns the most recently decided item, nil if none
func (s *Store) LatestDecidedItem(ctx context.Context) (*models.Item, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM item
		WHERE decided_at IS NOT NULL
		ORDER BY decided_at DESC, id DESC
		LIMIT 1
	`)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest decided item: %w", err)
	}
	return &item, nil
}

// UpdateItem replaces the title and body of an undecided item.
// Decided items are part of the history and fail with ErrAlreadyDecided.
func (s *Store) UpdateItem(ctx context.Context, id int64, title, body string) (models.Item, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE item SET title = $1, body = $2
		WHERE id = $3 AND decided_at IS NULL
	`, title, body, id)
	if err != nil {
		return models.Item{}, fmt.Errorf("failed to update item: %w", err)
	}

	err = rowsAffected(res)
	if errors.Is(err, ErrNotFound) {
		if _, getErr := s.GetItem(ctx, id); getErr != nil {
			return models.Item{}, getErr
		}
		return models.Item{}, ErrAlreadyDecided
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("failed to update item: %w", err)
	}

	return s.GetItem(ctx, id)
}

// DecideItem marks an undecided item as decided at the given time.
// Its votes stay on record and are ignored by later elections.
func (s *Store) DecideItem(ctx context.Context, id int64, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE item SET decided_at = $1
		WHERE id = $2 AND decided_at IS NULL
	`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to decide item: %w", err)
	}

	err = rowsAffected(res)
	if errors.Is(err, ErrNotFound) {
		// Distinguish a missing item from one that is already decided
		if _, getErr := s.GetItem(ctx, id); getErr != nil {
			return getErr
		}
		return ErrAlreadyDecided
	}
	if err != nil {
		return fmt.Errorf("failed to decide item: %w", err)
	}
	return nil
}

// DeleteItem removes an item together with every vote for it
func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM vote WHERE item_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete votes: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM item WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if err := rowsAffected(res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
