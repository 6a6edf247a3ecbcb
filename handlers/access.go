// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-rank/auth"
	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/store"
)

// requireAdmin validates the X-Admin-Key header and writes 401 when it is wrong
func requireAdmin(w http.ResponseWriter, r *http.Request, cfg cliparse.Config) bool {
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(auth.AdminScope, adminKey, cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return false
	}
	return true
}

// authenticateVoter resolves the X-Voter-Token header to a voter.
// With approvedOnly set, voters still waiting for approval get 403.
func authenticateVoter(w http.ResponseWriter, r *http.Request, st *store.Store, approvedOnly bool) (models.Voter, bool) {
	voterToken, err := auth.VoterToken(r.Header.Get("X-Voter-Token"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Voter-Token header required")
		return models.Voter{}, false
	}

	voter, err := st.VoterByToken(r.Context(), voterToken)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid voter token")
		return models.Voter{}, false
	}
	if err != nil {
		slog.Error("failed to verify voter token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Voter{}, false
	}

	if approvedOnly && !voter.IsApproved {
		middleware.ErrorResponse(w, http.StatusForbidden, "Voter is not approved yet")
		return models.Voter{}, false
	}

	return voter, true
}

// pathID parses a positive integer path value
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
