// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/testutil"
)

func TestRoutes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	testCases := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"health", "GET", "/health", nil, http.StatusOK},
		{"banner", "GET", "/", nil, http.StatusOK},
		{"unknown path", "GET", "/nope", nil, http.StatusNotFound},
		{"unknown nested path", "GET", "/items/1/votes", nil, http.StatusNotFound},

		{"register needs a username", "POST", "/voters", models.RegisterVoterRequest{}, http.StatusBadRequest},
		{"voter list is admin only", "GET", "/voters", nil, http.StatusUnauthorized},
		{"approve is admin only", "POST", "/voters/1/approve", nil, http.StatusUnauthorized},
		{"reject is admin only", "DELETE", "/voters/1", nil, http.StatusUnauthorized},

		{"open items", "GET", "/items", nil, http.StatusOK},
		{"history is not an item id", "GET", "/items/history", nil, http.StatusOK},
		{"missing item", "GET", "/items/42", nil, http.StatusNotFound},
		{"add needs a voter", "POST", "/items", models.AddItemRequest{Title: "Tacos"}, http.StatusUnauthorized},
		{"edit needs a voter", "PATCH", "/items/1", models.UpdateItemRequest{}, http.StatusUnauthorized},
		{"decide is admin only", "POST", "/items/1/decide", nil, http.StatusUnauthorized},
		{"delete is admin only", "DELETE", "/items/1", nil, http.StatusUnauthorized},

		{"ballot needs a voter", "POST", "/ballots", models.SubmitBallotRequest{Votes: []int64{1}}, http.StatusUnauthorized},
		{"own ballot needs a voter", "GET", "/ballots/me", nil, http.StatusUnauthorized},
		{"results", "GET", "/results", nil, http.StatusOK},

		{"POST health", "POST", "/health", nil, http.StatusMethodNotAllowed},
		{"GET approve", "GET", "/voters/1/approve", nil, http.StatusMethodNotAllowed},
		{"PATCH voter", "PATCH", "/voters/1", nil, http.StatusMethodNotAllowed},
		{"PUT item", "PUT", "/items/1", nil, http.StatusMethodNotAllowed},
		{"GET decide", "GET", "/items/1/decide", nil, http.StatusMethodNotAllowed},
		{"DELETE results", "DELETE", "/results", nil, http.StatusMethodNotAllowed},
		{"DELETE ballots", "DELETE", "/ballots", nil, http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, testutil.MakeRequest(tc.method, tc.path, tc.body, nil))

			if w.Code != tc.want {
				t.Errorf("Expected %d for %s %s, got %d. Body: %s", tc.want, tc.method, tc.path, w.Code, w.Body.String())
			}
		})
	}
}

func TestRootBannerIsExactMatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if got := w.Body.String(); got != "quickly-rank API v1" {
		t.Errorf("Expected banner, got '%s'", got)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/ballot", nil))
	if w.Body.String() == "quickly-rank API v1" {
		t.Error("Expected banner only at the root path")
	}
}

// Drives one item through the router: approve a voter, add, edit, decide
func TestItemFlowThroughRouter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)
	admin := map[string]string{"X-Admin-Key": testutil.AdminKey(cfg)}

	do := func(method, path string, body interface{}, headers map[string]string, want int) *httptest.ResponseRecorder {
		t.Helper()
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest(method, path, body, headers))
		if w.Code != want {
			t.Fatalf("%s %s: expected %d, got %d. Body: %s", method, path, want, w.Code, w.Body.String())
		}
		return w
	}

	var reg models.RegisterVoterResponse
	w := do("POST", "/voters", models.RegisterVoterRequest{Username: "alice"}, nil, http.StatusCreated)
	if err := json.NewDecoder(w.Body).Decode(&reg); err != nil {
		t.Fatalf("Failed to decode registration: %v", err)
	}
	voter := map[string]string{"X-Voter-Token": reg.VoterToken}

	do("POST", "/items", models.AddItemRequest{Title: "Tacos"}, voter, http.StatusForbidden)
	do("POST", "/voters/"+strconv.FormatInt(reg.VoterID, 10)+"/approve", nil, admin, http.StatusOK)

	var item models.Item
	w = do("POST", "/items", models.AddItemRequest{Title: "Tacos"}, voter, http.StatusCreated)
	if err := json.NewDecoder(w.Body).Decode(&item); err != nil {
		t.Fatalf("Failed to decode item: %v", err)
	}
	itemPath := "/items/" + strconv.FormatInt(item.ID, 10)

	body := "Friday lunch"
	do("PATCH", itemPath, models.UpdateItemRequest{Body: &body}, voter, http.StatusOK)

	var got models.Item
	w = do("GET", itemPath, nil, nil, http.StatusOK)
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode item: %v", err)
	}
	if got.Title != "Tacos" || got.Body != "Friday lunch" {
		t.Errorf("Expected edited item, got %+v", got)
	}

	do("POST", itemPath+"/decide", nil, admin, http.StatusOK)
	do("PATCH", itemPath, models.UpdateItemRequest{Body: &body}, voter, http.StatusConflict)
	do("POST", "/items/abc/decide", nil, admin, http.StatusBadRequest)
}

func TestRequestIDHeader(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	for _, path := range []string{"/results", "/items"} {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest("GET", path, nil))

		if w.Header().Get("X-Request-ID") == "" {
			t.Errorf("Expected X-Request-ID header on %s", path)
		}
	}
}
