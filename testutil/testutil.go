// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-rank/auth"
	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/db"
)

// SetupTestDB creates a fresh SQLite database file with the full schema.
// The file lives in the test's temp dir and is closed on cleanup.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := "file:" + filepath.Join(t.TempDir(), "test.db")
	conn, err := db.Open(db.TypeSQLite, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "file:test.db",
		DatabaseType: db.TypeSQLite,
		AdminKeySalt: "test-admin-salt",
	}
}

// AdminKey returns the admin key for the config's salt
func AdminKey(cfg cliparse.Config) string {
	return auth.GenerateAdminKey(auth.AdminScope, cfg.AdminKeySalt)
}

// CreateTestItem inserts an undecided item and returns its ID
func CreateTestItem(t *testing.T, db *sql.DB, title string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(`
		INSERT INTO item (title, body, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, title, "About "+title, time.Now().UTC()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test item: %v", err)
	}

	return id
}

// DecideTestItem marks an item as decided at the given time
func DecideTestItem(t *testing.T, db *sql.DB, itemID int64, at time.Time) {
	t.Helper()

	_, err := db.Exec(`UPDATE item SET decided_at = $1 WHERE id = $2`, at.UTC(), itemID)
	if err != nil {
		t.Fatalf("Failed to decide test item: %v", err)
	}
}

// CreateTestVoter registers a voter and returns its ID and voter token
func CreateTestVoter(t *testing.T, db *sql.DB, username string, approved bool) (int64, string) {
	t.Helper()

	voterToken, _ := auth.GenerateVoterToken()

	var id int64
	err := db.QueryRow(`
		INSERT INTO voter (username, voter_token, is_approved, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, username, voterToken, approved, time.Now().UTC()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	return id, voterToken
}

// SubmitTestBallot stores a ballot, item ids in preference order
func SubmitTestBallot(t *testing.T, db *sql.DB, voterID int64, itemIDs ...int64) {
	t.Helper()

	for ordinal, itemID := range itemIDs {
		_, err := db.Exec(`
			INSERT INTO vote (voter_id, item_id, ordinal)
			VALUES ($1, $2, $3)
		`, voterID, itemID, ordinal)
		if err != nil {
			t.Fatalf("Failed to create test vote: %v", err)
		}
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
