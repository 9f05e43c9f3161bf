package models

// BatchSlot is one competitor's seat in a batch. Gate2 is nil for a batch of one.
type BatchSlot struct {
	CompetitorID int  `json:"competitor_id" db:"competitor_id"`
	Position     int  `json:"position" db:"position"`
	Gate1        int  `json:"gate1" db:"gate1"`
	Gate2        *int `json:"gate2,omitempty" db:"gate2"`
}

type Batch struct {
	Index int         `json:"index" db:"batch_index"`
	Slots []BatchSlot `json:"slots"`
}

// Members returns the competitor ids in slot order.
func (b Batch) Members() []int {
	ids := make([]int, len(b.Slots))
	for i, s := range b.Slots {
		ids[i] = s.CompetitorID
	}
	return ids
}
