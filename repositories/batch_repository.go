package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/pushbike-heats/models"
)

var ErrBatchCompetitorInvalid = errors.New("batch slot references an unknown competitor")

type BatchRepository interface {
	// ReplaceForEvent drops the event's current batches and stores the given ones.
	ReplaceForEvent(ctx context.Context, exec SQLExecutor, eventID int, batches []models.Batch) error
	ListByEvent(ctx context.Context, eventID int) ([]models.Batch, error)
}

type postgresBatchRepository struct {
	db *sql.DB
}

func NewPostgresBatchRepository(db *sql.DB) BatchRepository {
	return &postgresBatchRepository{db: db}
}

func (r *postgresBatchRepository) ReplaceForEvent(ctx context.Context, exec SQLExecutor, eventID int, batches []models.Batch) error {
	executor := pickExecutor(r.db, exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM batch_slots WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("failed to clear batches for event %d: %w", eventID, err)
	}
	if _, err := executor.ExecContext(ctx, `UPDATE competitors SET batch_index = NULL WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("failed to reset batch index for event %d: %w", eventID, err)
	}

	insert := `
		INSERT INTO batch_slots (event_id, batch_index, position, competitor_id, gate1, gate2)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, b := range batches {
		for _, s := range b.Slots {
			if _, err := executor.ExecContext(ctx, insert, eventID, b.Index, s.Position, s.CompetitorID, s.Gate1, s.Gate2); err != nil {
				if code, constraint := pqCode(err); code == "23503" && constraint == "batch_slots_competitor_id_fkey" {
					return fmt.Errorf("%w: competitor %d", ErrBatchCompetitorInvalid, s.CompetitorID)
				}
				return fmt.Errorf("failed to insert batch slot (batch %d, competitor %d): %w", b.Index, s.CompetitorID, err)
			}
		}
		if _, err := executor.ExecContext(ctx,
			`UPDATE competitors SET batch_index = $1 WHERE event_id = $2 AND id IN (
				SELECT competitor_id FROM batch_slots WHERE event_id = $2 AND batch_index = $1)`,
			b.Index, eventID); err != nil {
			return fmt.Errorf("failed to set batch index %d for event %d: %w", b.Index, eventID, err)
		}
	}
	return nil
}

func (r *postgresBatchRepository) ListByEvent(ctx context.Context, eventID int) ([]models.Batch, error) {
	query := `
		SELECT batch_index, position, competitor_id, gate1, gate2
		FROM batch_slots
		WHERE event_id = $1
		ORDER BY batch_index ASC, position ASC`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches for event %d: %w", eventID, err)
	}
	defer rows.Close()

	batches := make([]models.Batch, 0)
	for rows.Next() {
		var index int
		var slot models.BatchSlot
		var gate2 sql.NullInt64
		if err := rows.Scan(&index, &slot.Position, &slot.CompetitorID, &slot.Gate1, &gate2); err != nil {
			return nil, fmt.Errorf("failed to scan batch slot: %w", err)
		}
		if gate2.Valid {
			g := int(gate2.Int64)
			slot.Gate2 = &g
		}
		if n := len(batches); n == 0 || batches[n-1].Index != index {
			batches = append(batches, models.Batch{Index: index})
		}
		last := &batches[len(batches)-1]
		last.Slots = append(last.Slots, slot)
	}
	return batches, rows.Err()
}
