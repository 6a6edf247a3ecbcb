// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/store"
)

const maxTitleLength = 200

type ItemHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewItemHandler(st *store.Store, cfg cliparse.Config) *ItemHandler {
	return &ItemHandler{store: st, cfg: cfg}
}

// ListItems handles GET /items
// Returns the undecided items, oldest first
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListUndecidedItems(r.Context())
	if err != nil {
		slog.Error("failed to list items", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ItemsResponse{Items: items})
}

// ListHistory handles GET /items/history
// Returns decided items, most recently decided first
func (h *ItemHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListDecidedItems(r.Context())
	if err != nil {
		slog.Error("failed to list decided items", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ItemsResponse{Items: items})
}

// AddItem handles POST /items
func (h *ItemHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	voter, ok := authenticateVoter(w, r, h.store, true)
	if !ok {
		return
	}

	var req models.AddItemRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if msg := validateTitle(req.Title); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	item, err := h.store.AddItem(r.Context(), req.Title, req.Body)
	if err != nil {
		slog.Error("failed to insert item", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add item")
		return
	}

	slog.Info("item added", "item_id", item.ID, "voter_id", voter.ID)

	middleware.JSONResponse(w, http.StatusCreated, item)
}

// GetItem handles GET /items/:id
// Decided items are returned too, with decided_at set
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.store.GetItem(r.Context(), itemID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		slog.Error("failed to query item", "error", err, "item_id", itemID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, item)
}

// UpdateItem handles PATCH /items/:id
// Any approved voter may edit an undecided item; ballots ranking it are untouched
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	voter, ok := authenticateVoter(w, r, h.store, true)
	if !ok {
		return
	}

	itemID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateItemRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	current, err := h.store.GetItem(r.Context(), itemID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		slog.Error("failed to query item", "error", err, "item_id", itemID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	title, body := current.Title, current.Body
	if req.Title != nil {
		title = *req.Title
	}
	if req.Body != nil {
		body = *req.Body
	}
	if msg := validateTitle(title); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	item, err := h.store.UpdateItem(r.Context(), itemID, title, body)
	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Item not found")
		return
	case errors.Is(err, store.ErrAlreadyDecided):
		middleware.ErrorResponse(w, http.StatusConflict, "Decided items cannot be edited")
		return
	case err != nil:
		slog.Error("failed to update item", "error", err, "item_id", itemID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("item updated", "item_id", itemID, "voter_id", voter.ID)

	middleware.JSONResponse(w, http.StatusOK, item)
}

// DecideItem handles POST /items/:id/decide
// A decided item leaves the candidate set; its votes are kept but ignored
func (h *ItemHandler) DecideItem(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	itemID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	err := h.store.DecideItem(r.Context(), itemID, time.Now())
	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Item not found")
		return
	case errors.Is(err, store.ErrAlreadyDecided):
		middleware.ErrorResponse(w, http.StatusConflict, "Item already decided")
		return
	case err != nil:
		slog.Error("failed to decide item", "error", err, "item_id", itemID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	item, err := h.store.GetItem(r.Context(), itemID)
	if err != nil {
		slog.Error("failed to query item", "error", err, "item_id", itemID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("item decided", "item_id", itemID)

	middleware.JSONResponse(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /items/:id
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	itemID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	err := h.store.DeleteItem(r.Context(), itemID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete item", "error", err, "item_id", itemID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("item deleted", "item_id", itemID)

	w.WriteHeader(http.StatusNoContent)
}

// validateTitle returns the client message for a bad title, or ""
func validateTitle(title string) string {
	if title == "" {
		return "title is required"
	}
	if len(title) > maxTitleLength {
		return "title must be at most 200 characters"
	}
	return ""
}
