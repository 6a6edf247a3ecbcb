// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-rank/election"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/store"
)

type VotingHandler struct {
	store  *store.Store
	engine *election.Engine
}

func NewVotingHandler(st *store.Store, engine *election.Engine) *VotingHandler {
	return &VotingHandler{store: st, engine: engine}
}

// SubmitBallot handles POST /ballots
// The submitted ranking replaces the voter's previous ballot; an empty list clears it
func (h *VotingHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	voter, ok := authenticateVoter(w, r, h.store, true)
	if !ok {
		return
	}

	// Parse request
	var req models.SubmitBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Only undecided items can be ranked
	undecided, err := h.store.LoadUndecidedItemIDs(r.Context())
	if err != nil {
		slog.Error("failed to query items", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	open := make(map[int64]bool, len(undecided))
	for _, id := range undecided {
		open[id] = true
	}
	for _, id := range req.Votes {
		if !open[id] {
			middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("item %d is not open for ranking", id))
			return
		}
	}

	err = h.engine.SubmitBallot(r.Context(), voter.ID, req.Votes)
	var verr *election.ValidationError
	switch {
	case errors.As(err, &verr) && errors.Is(verr, election.ErrDuplicateItem):
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("item %d is ranked more than once", verr.ItemID))
		return
	case errors.As(err, &verr):
		// Item deleted since the check above
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("item %d does not exist", verr.ItemID))
		return
	case err != nil:
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit ballot")
		return
	}

	slog.Info("ballot submitted", "voter_id", voter.ID, "ranked", len(req.Votes))

	middleware.JSONResponse(w, http.StatusOK, models.SubmitBallotResponse{
		Ranked:  len(req.Votes),
		Message: "Ballot saved",
	})
}

// GetMyBallot handles GET /ballots/me
// Lists every undecided item with the caller's rank, ranked items first
func (h *VotingHandler) GetMyBallot(w http.ResponseWriter, r *http.Request) {
	voter, ok := authenticateVoter(w, r, h.store, false)
	if !ok {
		return
	}

	items, err := h.store.BallotForVoter(r.Context(), voter.ID)
	if err != nil {
		slog.Error("failed to query ballot", "error", err, "voter_id", voter.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MyBallotResponse{Items: items})
}
