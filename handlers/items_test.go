// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/testutil"
)

func TestAddItem(t *testing.T) {
	db, st, _, cfg := setupTest(t)
	handler := NewItemHandler(st, cfg)

	_, approvedToken := testutil.CreateTestVoter(t, db, "alice", true)
	_, pendingToken := testutil.CreateTestVoter(t, db, "bob", false)

	tests := []struct {
		name           string
		voterToken     string
		requestBody    interface{}
		expectedStatus int
	}{
		{"valid item", approvedToken, models.AddItemRequest{Title: "Standup time", Body: "Move it to 10am?"}, http.StatusCreated},
		{"title only", approvedToken, models.AddItemRequest{Title: "Snacks"}, http.StatusCreated},
		{"missing title", approvedToken, models.AddItemRequest{Body: "no title"}, http.StatusBadRequest},
		{"title too long", approvedToken, models.AddItemRequest{Title: strings.Repeat("t", 201)}, http.StatusBadRequest},
		{"missing token", "", models.AddItemRequest{Title: "Anon"}, http.StatusUnauthorized},
		{"invalid token", "not-a-token", models.AddItemRequest{Title: "Forged"}, http.StatusUnauthorized},
		{"unapproved voter", pendingToken, models.AddItemRequest{Title: "Early"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/items", tt.requestBody, map[string]string{
				"X-Voter-Token": tt.voterToken,
			})
			w := httptest.NewRecorder()

			handler.AddItem(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM item`).Scan(&count); err != nil {
		t.Fatalf("Failed to count items: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 items, got %d", count)
	}
}

func TestListItemsAndHistory(t *testing.T) {
	db, st, _, cfg := setupTest(t)
	handler := NewItemHandler(st, cfg)

	first := testutil.CreateTestItem(t, db, "First")
	second := testutil.CreateTestItem(t, db, "Second")
	third := testutil.CreateTestItem(t, db, "Third")
	testutil.DecideTestItem(t, db, first, time.Now().Add(-2*time.Hour))
	testutil.DecideTestItem(t, db, third, time.Now().Add(-time.Hour))

	t.Run("undecided", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ListItems(w, testutil.MakeRequest("GET", "/items", nil, nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.ItemsResponse
		testutil.AssertJSON(t, w, &resp)

		if len(resp.Items) != 1 || resp.Items[0].ID != second {
			t.Errorf("Expected only item %d, got %+v", second, resp.Items)
		}
	})

	t.Run("history", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ListHistory(w, testutil.MakeRequest("GET", "/items/history", nil, nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.ItemsResponse
		testutil.AssertJSON(t, w, &resp)

		if len(resp.Items) != 2 {
			t.Fatalf("Expected 2 decided items, got %d", len(resp.Items))
		}
		if resp.Items[0].ID != third || resp.Items[1].ID != first {
			t.Errorf("Expected most recently decided first, got %d then %d", resp.Items[0].ID, resp.Items[1].ID)
		}
	})
}

func TestListItems_Empty(t *testing.T) {
	_, st, _, cfg := setupTest(t)
	handler := NewItemHandler(st, cfg)

	w := httptest.NewRecorder()
	handler.ListItems(w, testutil.MakeRequest("GET", "/items", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), `"items":[]`) {
		t.Errorf("Expected empty items array, got %s", w.Body.String())
	}
}

func TestGetItem(t *testing.T) {
	db, st, _, cfg := setupTest(t)
	handler := NewItemHandler(st, cfg)

	open := testutil.CreateTestItem(t, db, "Open")
	decided := testutil.CreateTestItem(t, db, "Closed")
	testutil.DecideTestItem(t, db, decided, time.Now())

	tests := []struct {
		name           string
		id             string
		expectedStatus int
		expectDecided  bool
	}{
		{"undecided item", idString(open), http.StatusOK, false},
		{"decided item", idString(decided), http.StatusOK, true},
		{"unknown item", "9999", http.StatusNotFound, false},
		{"invalid id", "abc", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/items/"+tt.id, nil, nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			handler.GetItem(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var item models.Item
			testutil.AssertJSON(t, w, &item)
			if idString(item.ID) != tt.id {
				t.Errorf("Expected item %s, got %d", tt.id, item.ID)
			}
			if (item.DecidedAt != nil) != tt.expectDecided {
				t.Errorf("Expected decided=%v, got decided_at %v", tt.expectDecided, item.DecidedAt)
			}
		})
	}
}

func TestUpdateItem(t *testing.T) {
	db, st, _, cfg := setupTest(t)
	handler := NewItemHandler(st, cfg)

	itemID := testutil.CreateTestItem(t, db, "Standup time")
	decided := testutil.CreateTestItem(t, db, "Old news")
	testutil.DecideTestItem(t, db, decided, time.Now())
	_, approvedToken := testutil.CreateTestVoter(t, db, "alice", true)
	_, pendingToken := testutil.CreateTestVoter(t, db, "bob", false)

	newTitle := "Standup at 10"
	newBody := "Later standups, fewer interruptions"
	empty := ""
	long := strings.Repeat("t", 201)

	tests := []struct {
		name           string
		id             string
		voterToken     string
		requestBody    interface{}
		expectedStatus int
	}{
		{"missing token", idString(itemID), "", models.UpdateItemRequest{Title: &newTitle}, http.StatusUnauthorized},
		{"unapproved voter", idString(itemID), pendingToken, models.UpdateItemRequest{Title: &newTitle}, http.StatusForbidden},
		{"invalid id", "abc", approvedToken, models.UpdateItemRequest{Title: &newTitle}, http.StatusBadRequest},
		{"unknown item", "9999", approvedToken, models.UpdateItemRequest{Title: &newTitle}, http.StatusNotFound},
		{"decided item", idString(decided), approvedToken, models.UpdateItemRequest{Title: &newTitle}, http.StatusConflict},
		{"empty title", idString(itemID), approvedToken, models.UpdateItemRequest{Title: &empty}, http.StatusBadRequest},
		{"title too long", idString(itemID), approvedToken, models.UpdateItemRequest{Title: &long}, http.StatusBadRequest},
		{"invalid JSON", idString(itemID), approvedToken, "not an object", http.StatusBadRequest},
		{"title", idString(itemID), approvedToken, models.UpdateItemRequest{Title: &newTitle}, http.StatusOK},
		{"body only", idString(itemID), approvedToken, models.UpdateItemRequest{Body: &newBody}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("PATCH", "/items/"+tt.id, tt.requestBody, map[string]string{
				"X-Voter-Token": tt.voterToken,
			})
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			handler.UpdateItem(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	item, err := st.GetItem(context.Background(), itemID)
	if err != nil {
		t.Fatalf("Failed to load item: %v", err)
	}
	// The body-only edit kept the earlier title
	if item.Title != newTitle || item.Body != newBody {
		t.Errorf("Expected %q / %q, got %q / %q", newTitle, newBody, item.Title, item.Body)
	}

	old, err := st.GetItem(context.Background(), decided)
	if err != nil {
		t.Fatalf("Failed to load decided item: %v", err)
	}
	if old.Title != "Old news" {
		t.Errorf("Expected decided item unchanged, got title %q", old.Title)
	}
}

func TestDecideItem(t *testing.T) {
	db, st, _, cfg := setupTest(t)
	handler := NewItemHandler(st, cfg)
	adminKey := testutil.AdminKey(cfg)

	itemID := testutil.CreateTestItem(t, db, "Decide me")

	tests := []struct {
		name           string
		id             string
		adminKey       string
		expectedStatus int
	}{
		{"wrong admin key", idString(itemID), "wrong", http.StatusUnauthorized},
		{"invalid id", "-3", adminKey, http.StatusBadRequest},
		{"unknown item", "9999", adminKey, http.StatusNotFound},
		{"decide", idString(itemID), adminKey, http.StatusOK},
		{"already decided", idString(itemID), adminKey, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/items/"+tt.id+"/decide", nil, map[string]string{
				"X-Admin-Key": tt.adminKey,
			})
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			handler.DecideItem(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestDeleteItem(t *testing.T) {
	db, st, _, cfg := setupTest(t)
	handler := NewItemHandler(st, cfg)

	itemID := testutil.CreateTestItem(t, db, "Delete me")
	keep := testutil.CreateTestItem(t, db, "Keep me")
	voterID, _ := testutil.CreateTestVoter(t, db, "alice", true)
	testutil.SubmitTestBallot(t, db, voterID, itemID, keep)

	req := testutil.MakeRequest("DELETE", "/items/"+idString(itemID), nil, map[string]string{
		"X-Admin-Key": testutil.AdminKey(cfg),
	})
	req.SetPathValue("id", idString(itemID))
	w := httptest.NewRecorder()

	handler.DeleteItem(w, req)

	testutil.AssertStatus(t, w, http.StatusNoContent)

	var votes int
	if err := db.QueryRow(`SELECT COUNT(*) FROM vote WHERE item_id = $1`, itemID).Scan(&votes); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if votes != 0 {
		t.Errorf("Expected votes for deleted item to be removed, found %d", votes)
	}

	w = httptest.NewRecorder()
	handler.DeleteItem(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
