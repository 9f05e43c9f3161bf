package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/pushbike-heats/models"
)

type CompetitorRepository interface {
	// ListByEvent returns the event's roster in registration order.
	ListByEvent(ctx context.Context, eventID int) ([]models.Competitor, error)
}

type postgresCompetitorRepository struct {
	db *sql.DB
}

func NewPostgresCompetitorRepository(db *sql.DB) CompetitorRepository {
	return &postgresCompetitorRepository{db: db}
}

func (r *postgresCompetitorRepository) ListByEvent(ctx context.Context, eventID int) ([]models.Competitor, error) {
	query := `
		SELECT id, event_id, name, plate_number, team, category, batch_index, payment_status, registered_at
		FROM competitors
		WHERE event_id = $1
		ORDER BY registered_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitors for event %d: %w", eventID, err)
	}
	defer rows.Close()

	competitors := make([]models.Competitor, 0)
	for rows.Next() {
		var c models.Competitor
		var batchIndex sql.NullInt64
		if err := rows.Scan(
			&c.ID,
			&c.EventID,
			&c.Name,
			&c.PlateNumber,
			&c.Team,
			&c.Category,
			&batchIndex,
			&c.PaymentStatus,
			&c.RegisteredAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan competitor: %w", err)
		}
		if batchIndex.Valid {
			idx := int(batchIndex.Int64)
			c.BatchIndex = &idx
		}
		competitors = append(competitors, c)
	}
	return competitors, rows.Err()
}
