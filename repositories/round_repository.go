package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/pushbike-heats/models"
)

var ErrRoundAlreadyFinalized = errors.New("round already finalized")

// RoundRepository stores finalization markers. Rounds themselves are derived.
type RoundRepository interface {
	ListFinalized(ctx context.Context, eventID int) ([]models.RoundFinalization, error)
	MarkFinalized(ctx context.Context, exec SQLExecutor, eventID, round int) (*models.RoundFinalization, error)
	// DeleteFinalizedAfter removes markers of every round greater than round.
	DeleteFinalizedAfter(ctx context.Context, exec SQLExecutor, eventID, round int) (int64, error)
}

type postgresRoundRepository struct {
	db *sql.DB
}

func NewPostgresRoundRepository(db *sql.DB) RoundRepository {
	return &postgresRoundRepository{db: db}
}

func (r *postgresRoundRepository) ListFinalized(ctx context.Context, eventID int) ([]models.RoundFinalization, error) {
	query := `
		SELECT event_id, round, finalized_at
		FROM round_finalizations
		WHERE event_id = $1
		ORDER BY round ASC`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list finalized rounds for event %d: %w", eventID, err)
	}
	defer rows.Close()

	out := make([]models.RoundFinalization, 0)
	for rows.Next() {
		var f models.RoundFinalization
		if err := rows.Scan(&f.EventID, &f.Round, &f.FinalizedAt); err != nil {
			return nil, fmt.Errorf("failed to scan round finalization: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *postgresRoundRepository) MarkFinalized(ctx context.Context, exec SQLExecutor, eventID, round int) (*models.RoundFinalization, error) {
	executor := pickExecutor(r.db, exec)
	f := &models.RoundFinalization{EventID: eventID, Round: round}
	err := executor.QueryRowContext(ctx,
		`INSERT INTO round_finalizations (event_id, round) VALUES ($1, $2) RETURNING finalized_at`,
		eventID, round,
	).Scan(&f.FinalizedAt)
	if err != nil {
		if code, _ := pqCode(err); code == "23505" {
			return nil, ErrRoundAlreadyFinalized
		}
		return nil, fmt.Errorf("failed to finalize round %d of event %d: %w", round, eventID, err)
	}
	return f, nil
}

func (r *postgresRoundRepository) DeleteFinalizedAfter(ctx context.Context, exec SQLExecutor, eventID, round int) (int64, error) {
	executor := pickExecutor(r.db, exec)
	result, err := executor.ExecContext(ctx,
		`DELETE FROM round_finalizations WHERE event_id = $1 AND round > $2`, eventID, round)
	if err != nil {
		return 0, fmt.Errorf("failed to reopen rounds after %d for event %d: %w", round, eventID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return n, nil
}
