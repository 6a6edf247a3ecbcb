// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/testutil"
)

// TestConcurrentBallotSubmissions verifies that multiple simultaneous ballot
// submissions from different voters all land, each intact
func TestConcurrentBallotSubmissions(t *testing.T) {
	db, st, engine, _ := setupTest(t)
	votingHandler := NewVotingHandler(st, engine)

	a := testutil.CreateTestItem(t, db, "Option A")
	b := testutil.CreateTestItem(t, db, "Option B")
	c := testutil.CreateTestItem(t, db, "Option C")
	rotations := [][]int64{{a, b, c}, {b, c, a}, {c, a, b}}

	numVoters := 10
	voterIDs := make([]int64, numVoters)
	voterTokens := make([]string, numVoters)

	// Pre-create all voters
	for i := 0; i < numVoters; i++ {
		username := "ConcurrentVoter" + string(rune('A'+i))
		voterIDs[i], voterTokens[i] = testutil.CreateTestVoter(t, db, username, true)
	}

	// Track results
	var successCount atomic.Int32
	var wg sync.WaitGroup

	// Submit all ballots concurrently
	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()

			ballotReq := models.SubmitBallotRequest{Votes: rotations[voterIdx%len(rotations)]}
			req := testutil.MakeRequest("POST", "/ballots", ballotReq, map[string]string{
				"X-Voter-Token": voterTokens[voterIdx],
			})
			w := httptest.NewRecorder()

			votingHandler.SubmitBallot(w, req)

			if w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	// All submissions should succeed
	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful submissions, got %d", numVoters, successCount.Load())
	}

	ballots, err := st.LoadBallots(context.Background())
	if err != nil {
		t.Fatalf("Failed to load ballots: %v", err)
	}
	if len(ballots) != numVoters {
		t.Errorf("Expected %d ballots in database, got %d", numVoters, len(ballots))
	}
	for i, voterID := range voterIDs {
		want := rotations[i%len(rotations)]
		if !reflect.DeepEqual(ballots[voterID], want) {
			t.Errorf("Voter %d: expected ballot %v, got %v", voterID, want, ballots[voterID])
		}
	}
}

// TestConcurrentRegistrations verifies that when several goroutines try to
// register the same username, exactly one succeeds
func TestConcurrentRegistrations(t *testing.T) {
	db, st, _, cfg := setupTest(t)
	voterHandler := NewVoterHandler(st, cfg)

	contestedUsername := "RaceConditionUser"
	numAttempts := 5 // Multiple goroutines trying same username

	var successCount, conflictCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/voters", models.RegisterVoterRequest{Username: contestedUsername}, nil)
			w := httptest.NewRecorder()

			voterHandler.Register(w, req)

			switch w.Code {
			case http.StatusCreated:
				successCount.Add(1)
			case http.StatusConflict:
				conflictCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful registration, got %d", successCount.Load())
	}
	if conflictCount.Load() != int32(numAttempts-1) {
		t.Errorf("Expected %d conflicts, got %d", numAttempts-1, conflictCount.Load())
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM voter WHERE username = $1", contestedUsername).Scan(&count); err != nil {
		t.Fatalf("Failed to count voters: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 voter row, got %d", count)
	}
}

// TestConcurrentBallotUpdates verifies that one voter racing against
// themselves ends with one of their submissions, never a blend
func TestConcurrentBallotUpdates(t *testing.T) {
	db, st, engine, _ := setupTest(t)
	votingHandler := NewVotingHandler(st, engine)

	a := testutil.CreateTestItem(t, db, "A")
	b := testutil.CreateTestItem(t, db, "B")
	c := testutil.CreateTestItem(t, db, "C")
	voterID, token := testutil.CreateTestVoter(t, db, "Indecisive", true)

	submissions := [][]int64{{a, b, c}, {c, b}, {b}, {a, c}}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/ballots", models.SubmitBallotRequest{Votes: submissions[i%len(submissions)]}, map[string]string{
				"X-Voter-Token": token,
			})
			w := httptest.NewRecorder()

			votingHandler.SubmitBallot(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Submission %d failed: %d - %s", i, w.Code, w.Body.String())
			}
		}(i)
	}
	wg.Wait()

	ballots, err := st.LoadBallots(context.Background())
	if err != nil {
		t.Fatalf("Failed to load ballots: %v", err)
	}

	found := false
	for _, s := range submissions {
		if reflect.DeepEqual(ballots[voterID], s) {
			found = true
		}
	}
	if !found {
		t.Errorf("Stored ballot %v matches none of the submissions", ballots[voterID])
	}
}

// TestResultsDuringSubmissions reads results while ballots change underneath
func TestResultsDuringSubmissions(t *testing.T) {
	db, st, engine, _ := setupTest(t)
	votingHandler := NewVotingHandler(st, engine)
	resultsHandler := NewResultsHandler(st, engine)

	a := testutil.CreateTestItem(t, db, "A")
	b := testutil.CreateTestItem(t, db, "B")

	// Three fixed voters keep a in the lead whatever the others do
	for i := 0; i < 3; i++ {
		voterID, _ := testutil.CreateTestVoter(t, db, "Loyal"+idString(int64(i)), true)
		testutil.SubmitTestBallot(t, db, voterID, a, b)
	}
	tokens := make([]string, 2)
	for i := range tokens {
		_, tokens[i] = testutil.CreateTestVoter(t, db, "Fickle"+idString(int64(i)), true)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			votes := []int64{b}
			if i%2 == 0 {
				votes = []int64{b, a}
			}
			req := testutil.MakeRequest("POST", "/ballots", models.SubmitBallotRequest{Votes: votes}, map[string]string{
				"X-Voter-Token": tokens[i%len(tokens)],
			})
			votingHandler.SubmitBallot(httptest.NewRecorder(), req)
		}(i)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			resultsHandler.GetResults(w, testutil.MakeRequest("GET", "/results", nil, nil))
			if w.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", w.Code)
				return
			}
			var resp models.ResultsResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Errorf("Failed to decode results: %v", err)
				return
			}
			if resp.Winner == nil || resp.Winner.ID != a {
				t.Errorf("Expected winner %d throughout, got %+v", a, resp.Winner)
			}
		}()
	}
	wg.Wait()
}
