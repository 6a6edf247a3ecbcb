// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"fmt"
	"slices"
)

// Kind tags the outcome of a tally.
type Kind int

const (
	NoResult Kind = iota
	Winner
	Tie
)

func (k Kind) String() string {
	switch k {
	case Winner:
		return "winner"
	case Tie:
		return "tie"
	default:
		return "no_result"
	}
}

// MarshalText lets Kind appear as a string in JSON payloads.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "no_result":
		*k = NoResult
	case "winner":
		*k = Winner
	case "tie":
		*k = Tie
	default:
		return fmt.Errorf("unknown result kind %q", text)
	}
	return nil
}

// Result is the outcome of one election. Winner is only meaningful for Kind
// Winner; Tied holds at least two ids in ascending order for Kind Tie.
type Result struct {
	Kind   Kind    `json:"kind"`
	Winner int64   `json:"winner,omitempty"`
	Tied   []int64 `json:"tied,omitempty"`
}

func winnerResult(id int64) Result {
	return Result{Kind: Winner, Winner: id}
}

func tieResult(ids []int64) Result {
	tied := slices.Clone(ids)
	slices.Sort(tied)
	return Result{Kind: Tie, Tied: tied}
}

// Resolve reduces the result to a single item id. A tie resolves to its
// lowest id, i.e. the oldest tied item.
func (r Result) Resolve() (int64, bool) {
	switch r.Kind {
	case Winner:
		return r.Winner, true
	case Tie:
		return r.Tied[0], true
	}
	return 0, false
}

func (r Result) String() string {
	switch r.Kind {
	case Winner:
		return fmt.Sprintf("winner(%d)", r.Winner)
	case Tie:
		return fmt.Sprintf("tie(%v)", r.Tied)
	}
	return "no_result"
}
