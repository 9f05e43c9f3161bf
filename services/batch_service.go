package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/pushbike-heats/brackets"
	"github.com/Dosada05/pushbike-heats/models"
	"github.com/Dosada05/pushbike-heats/repositories"
)

type BatchService interface {
	// AssignBatches splits the registered roster into the event's configured
	// number of batches and replaces any previous assignment.
	AssignBatches(ctx context.Context, eventID int) ([]models.Batch, error)
	GetBatches(ctx context.Context, eventID int) ([]models.Batch, error)
	ListCompetitors(ctx context.Context, eventID int) ([]models.Competitor, error)
}

type batchService struct {
	store    *Store
	notifier Notifier
	logger   *slog.Logger
}

func NewBatchService(store *Store, notifier Notifier, logger *slog.Logger) BatchService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &batchService{store: store, notifier: notifier, logger: logger}
}

func (s *batchService) AssignBatches(ctx context.Context, eventID int) ([]models.Batch, error) {
	event, err := s.store.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, handleRepositoryError(err, "load event %d", eventID)
	}

	recorded, err := s.store.Finishes.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, handleRepositoryError(err, "count finish records of event %d", eventID)
	}
	if recorded > 0 {
		return nil, ErrResultsRecorded
	}

	competitors, err := s.store.Competitors.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, handleRepositoryError(err, "load roster of event %d", eventID)
	}
	if len(competitors) == 0 {
		return nil, ErrEmptyRoster
	}
	roster := make([]int, len(competitors))
	for i, c := range competitors {
		roster[i] = c.ID
	}

	batches, err := brackets.AssignBatches(roster, event.BatchCount)
	if err != nil {
		return nil, err
	}

	err = s.store.Tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.store.Batches.ReplaceForEvent(ctx, exec, eventID, batches)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "store batches of event %d", eventID)
	}

	s.logger.Info("batches assigned",
		slog.Int("event_id", eventID),
		slog.Int("competitors", len(roster)),
		slog.Int("batches", len(batches)),
	)
	s.notifier.Notify(eventID, brackets.MessageBatchesAssigned, batches)
	return batches, nil
}

func (s *batchService) GetBatches(ctx context.Context, eventID int) ([]models.Batch, error) {
	if _, err := s.store.Events.GetByID(ctx, eventID); err != nil {
		return nil, handleRepositoryError(err, "load event %d", eventID)
	}
	batches, err := s.store.Batches.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, handleRepositoryError(err, "load batches of event %d", eventID)
	}
	return batches, nil
}

func (s *batchService) ListCompetitors(ctx context.Context, eventID int) ([]models.Competitor, error) {
	if _, err := s.store.Events.GetByID(ctx, eventID); err != nil {
		return nil, handleRepositoryError(err, "load event %d", eventID)
	}
	competitors, err := s.store.Competitors.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, handleRepositoryError(err, "load roster of event %d", eventID)
	}
	return competitors, nil
}
