package models

import "time"

type Tier string

const (
	TierPrimary   Tier = "primary"
	TierSecondary Tier = "secondary"
)

// Tiers lists tiers in presentation order.
var Tiers = []Tier{TierPrimary, TierSecondary}

func (t Tier) Valid() bool {
	return t == TierPrimary || t == TierSecondary
}

// Shape is the ordered list of match capacities of one tier.
type Shape []int

// Capacity is the total number of slots in the shape.
func (s Shape) Capacity() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// Match is one heat. Slot order equals starting-gate order.
type Match struct {
	Ordinal     int   `json:"ordinal"`
	Capacity    int   `json:"capacity"`
	Competitors []int `json:"competitors"`
}

type Round struct {
	Number int              `json:"number"`
	Tiers  map[Tier][]Match `json:"tiers"`
}

type RoundPhase string

const (
	PhaseSeeded          RoundPhase = "seeded"
	PhaseAwaitingResults RoundPhase = "awaiting_results"
	PhaseFinalized       RoundPhase = "finalized"
	PhaseComplete        RoundPhase = "complete"
)

// RoundFinalization marks a round whose results are closed.
type RoundFinalization struct {
	EventID     int       `json:"event_id" db:"event_id"`
	Round       int       `json:"round" db:"round"`
	FinalizedAt time.Time `json:"finalized_at" db:"finalized_at"`
}
