package models

import "time"

// FinishRecord is one competitor's result for one round, keyed by
// (CompetitorID, Round). A nil Placement means the rider has no finish yet.
type FinishRecord struct {
	ID           int       `json:"id" db:"id"`
	EventID      int       `json:"event_id" db:"event_id"`
	CompetitorID int       `json:"competitor_id" db:"competitor_id"`
	Round        int       `json:"round" db:"round"`
	Placement    *int      `json:"placement" db:"placement"`
	Penalty      int       `json:"penalty" db:"penalty"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Points is the record's contribution to the cumulative score.
func (f FinishRecord) Points() int {
	p := f.Penalty
	if f.Placement != nil {
		p += *f.Placement
	}
	return p
}
