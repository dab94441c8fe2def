package model

import "github.com/google/uuid"

type BoardState int

const (
	BoardIdle BoardState = iota
	BoardOneFound
	BoardBothFound
	BoardClaimed
)

func (s BoardState) String() string {
	switch s {
	case BoardIdle:
		return "idle"
	case BoardOneFound:
		return "one_found"
	case BoardBothFound:
		return "both_found"
	case BoardClaimed:
		return "claimed"
	default:
		return "unknown"
	}
}

type StarMarker struct {
	ID    int
	Top   float64
	Left  float64
	Found bool
}

// BoardSnapshot is a copy of a board taken under its lock.
type BoardSnapshot struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	Stars     []StarMarker
	State     BoardState
	Found     int
	Notice    string
	Reward    *OwnedCoupon
}
