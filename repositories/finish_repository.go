package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/pushbike-heats/models"
)

var ErrFinishCompetitorInvalid = errors.New("finish record references an unknown competitor")

type FinishRecordRepository interface {
	// Upsert stores rec keyed by (competitor, round) and fills ID and UpdatedAt.
	Upsert(ctx context.Context, exec SQLExecutor, rec *models.FinishRecord) error
	ListByEvent(ctx context.Context, eventID int) ([]models.FinishRecord, error)
	CountByEvent(ctx context.Context, eventID int) (int, error)
}

type postgresFinishRecordRepository struct {
	db *sql.DB
}

func NewPostgresFinishRecordRepository(db *sql.DB) FinishRecordRepository {
	return &postgresFinishRecordRepository{db: db}
}

func (r *postgresFinishRecordRepository) Upsert(ctx context.Context, exec SQLExecutor, rec *models.FinishRecord) error {
	executor := pickExecutor(r.db, exec)
	query := `
		INSERT INTO finish_records (event_id, competitor_id, round, placement, penalty, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (competitor_id, round)
		DO UPDATE SET placement = EXCLUDED.placement, penalty = EXCLUDED.penalty, updated_at = NOW()
		RETURNING id, updated_at`

	err := executor.QueryRowContext(ctx, query,
		rec.EventID,
		rec.CompetitorID,
		rec.Round,
		rec.Placement,
		rec.Penalty,
	).Scan(&rec.ID, &rec.UpdatedAt)
	if err != nil {
		if code, constraint := pqCode(err); code == "23503" && constraint == "finish_records_competitor_id_fkey" {
			return fmt.Errorf("%w: competitor %d", ErrFinishCompetitorInvalid, rec.CompetitorID)
		}
		return fmt.Errorf("failed to upsert finish record (competitor %d, round %d): %w", rec.CompetitorID, rec.Round, err)
	}
	return nil
}

func (r *postgresFinishRecordRepository) ListByEvent(ctx context.Context, eventID int) ([]models.FinishRecord, error) {
	query := `
		SELECT id, event_id, competitor_id, round, placement, penalty, updated_at
		FROM finish_records
		WHERE event_id = $1
		ORDER BY round ASC, competitor_id ASC`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list finish records for event %d: %w", eventID, err)
	}
	defer rows.Close()

	records := make([]models.FinishRecord, 0)
	for rows.Next() {
		var rec models.FinishRecord
		var placement sql.NullInt64
		if err := rows.Scan(&rec.ID, &rec.EventID, &rec.CompetitorID, &rec.Round, &placement, &rec.Penalty, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan finish record: %w", err)
		}
		if placement.Valid {
			p := int(placement.Int64)
			rec.Placement = &p
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *postgresFinishRecordRepository) CountByEvent(ctx context.Context, eventID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM finish_records WHERE event_id = $1`, eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count finish records for event %d: %w", eventID, err)
	}
	return count, nil
}
