// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/danielhkuo/quickly-rank/election"
)

// Request types

type RegisterVoterRequest struct {
	Username string `json:"username"`
}

type AddItemRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Omitted fields keep their current value
type UpdateItemRequest struct {
	Title *string `json:"title,omitempty"`
	Body  *string `json:"body,omitempty"`
}

// item ids in preference order, most preferred first
type SubmitBallotRequest struct {
	Votes []int64 `json:"votes"`
}

// Response types

type RegisterVoterResponse struct {
	VoterID    int64  `json:"voter_id"`
	VoterToken string `json:"voter_token"`
	IsApproved bool   `json:"is_approved"`
}

type SubmitBallotResponse struct {
	Ranked  int    `json:"ranked"`
	Message string `json:"message"`
}

type MyBallotResponse struct {
	Items []RankedItem `json:"items"`
}

type ItemsResponse struct {
	Items []Item `json:"items"`
}

type VotersResponse struct {
	Voters []Voter `json:"voters"`
}

type ResultsResponse struct {
	Winner      *Item            `json:"winner"`
	Second      *Item            `json:"second"`
	Outcome     election.Kind    `json:"outcome"`
	Tie         []int64          `json:"tie,omitempty"`
	Next        *Item            `json:"next"`
	BallotCount int              `json:"ballot_count"`
	Rounds      []election.Round `json:"rounds"`
}

// Domain types

type Item struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"created_at"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
}

// Undecided reports whether the item is still an election candidate
func (i Item) Undecided() bool {
	return i.DecidedAt == nil
}

type Voter struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	VoterToken string    `json:"-"` // Never expose in JSON
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// RankedItem is an undecided item with the voter's rank, nil when unranked
type RankedItem struct {
	Item Item `json:"item"`
	Rank *int `json:"rank"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
