package models

import "time"

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Competitor is a registered rider. Registration order (RegisteredAt, then ID)
// is the roster order used for batch assignment.
type Competitor struct {
	ID            int           `json:"id" db:"id"`
	EventID       int           `json:"event_id" db:"event_id"`
	Name          string        `json:"name" db:"name"`
	PlateNumber   string        `json:"plate_number" db:"plate_number"`
	Team          string        `json:"team" db:"team"`
	Category      string        `json:"category" db:"category"`
	BatchIndex    *int          `json:"batch_index,omitempty" db:"-"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	RegisteredAt  time.Time     `json:"registered_at" db:"registered_at"`
}
