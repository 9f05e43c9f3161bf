package models

import "time"

// Event is a single push-bike race day. Events are created by an external
// administration tool; this service only reads them.
type Event struct {
	ID         int       `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Category   string    `json:"category" db:"category"`
	BatchCount int       `json:"batch_count" db:"batch_count"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
