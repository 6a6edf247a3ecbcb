// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-rank/election"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/store"
)

type ResultsHandler struct {
	store  *store.Store
	engine *election.Engine
}

func NewResultsHandler(st *store.Store, engine *election.Engine) *ResultsHandler {
	return &ResultsHandler{store: st, engine: engine}
}

// GetResults handles GET /results
// Runs the primary and runoff elections over the current ballots
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := h.engine.Resolve(ctx)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute results")
		return
	}

	resp := models.ResultsResponse{
		Outcome: res.Primary.Kind,
		Rounds:  res.Rounds,
	}
	if resp.Rounds == nil {
		resp.Rounds = []election.Round{}
	}
	if res.Primary.Kind == election.Tie {
		resp.Tie = res.Primary.Tied
	}

	if resp.Winner, err = h.lookupItem(ctx, res.Winner); err != nil {
		slog.Error("failed to query winner", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if resp.Second, err = h.lookupItem(ctx, res.Second); err != nil {
		slog.Error("failed to query second choice", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if resp.Next, err = h.store.LatestDecidedItem(ctx); err != nil {
		slog.Error("failed to query latest decided item", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if resp.BallotCount, err = h.store.CountBallots(ctx); err != nil {
		slog.Error("failed to count ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// lookupItem loads a picked item. An item deleted after the election ran
// reads as no pick.
func (h *ResultsHandler) lookupItem(ctx context.Context, id *int64) (*models.Item, error) {
	if id == nil {
		return nil, nil
	}
	item, err := h.store.GetItem(ctx, *id)
	if errors.Is(err, store.ErrNotFound) {
		slog.Warn("picked item no longer exists", "item_id", *id)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
