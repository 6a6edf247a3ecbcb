// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/election"
	"github.com/danielhkuo/quickly-rank/handlers"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/store"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	st := store.New(db, slog.Default())
	engine := election.New(st, slog.Default())

	// Initialize handlers
	voterHandler := handlers.NewVoterHandler(st, cfg)
	itemHandler := handlers.NewItemHandler(st, cfg)
	votingHandler := handlers.NewVotingHandler(st, engine)
	resultsHandler := handlers.NewResultsHandler(st, engine)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Voter registration (public) and approval (admin)
	mux.HandleFunc("POST /voters", middleware.WithLogging(voterHandler.Register))
	mux.HandleFunc("GET /voters", middleware.WithLogging(voterHandler.ListVoters))
	mux.HandleFunc("POST /voters/{id}/approve", middleware.WithLogging(voterHandler.Approve))
	mux.HandleFunc("DELETE /voters/{id}", middleware.WithLogging(voterHandler.Reject))

	// Items
	mux.HandleFunc("GET /items", middleware.WithLogging(itemHandler.ListItems))
	mux.HandleFunc("GET /items/history", middleware.WithLogging(itemHandler.ListHistory))
	mux.HandleFunc("POST /items", middleware.WithLogging(itemHandler.AddItem))
	mux.HandleFunc("GET /items/{id}", middleware.WithLogging(itemHandler.GetItem))
	mux.HandleFunc("PATCH /items/{id}", middleware.WithLogging(itemHandler.UpdateItem))
	mux.HandleFunc("POST /items/{id}/decide", middleware.WithLogging(itemHandler.DecideItem))
	mux.HandleFunc("DELETE /items/{id}", middleware.WithLogging(itemHandler.DeleteItem))

	// Ballots (voter token)
	mux.HandleFunc("POST /ballots", middleware.WithLogging(votingHandler.SubmitBallot))
	mux.HandleFunc("GET /ballots/me", middleware.WithLogging(votingHandler.GetMyBallot))

	// Results (public, recomputed on every request)
	mux.HandleFunc("GET /results", middleware.WithLogging(resultsHandler.GetResults))

	// Root endpoint, exact match only
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-rank API v1"))
	})

	return mux
}
