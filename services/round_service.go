package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/pushbike-heats/brackets"
	"github.com/Dosada05/pushbike-heats/models"
	"github.com/Dosada05/pushbike-heats/repositories"
	"github.com/Dosada05/pushbike-heats/storage"
)

type FinalizeResult struct {
	Finalization models.RoundFinalization `json:"finalization"`
	Status       brackets.Status          `json:"status"`
	// ResultsURL is set when the event completed and the results were exported.
	ResultsURL string `json:"results_url,omitempty"`
}

type RoundService interface {
	FinalizeRound(ctx context.Context, eventID, round int) (*FinalizeResult, error)
	GetFinalStandings(ctx context.Context, eventID int) ([]models.FinalPlacing, error)
}

type roundService struct {
	store      *Store
	controller *brackets.Controller
	notifier   Notifier
	results    *resultsPublisher
	logger     *slog.Logger
}

// NewRoundService builds the round lifecycle service. uploader may be nil, in
// which case completed results are not exported.
func NewRoundService(store *Store, controller *brackets.Controller, notifier Notifier, uploader storage.FileUploader, logger *slog.Logger) RoundService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &roundService{
		store:      store,
		controller: controller,
		notifier:   notifier,
		results:    &resultsPublisher{controller: controller, notifier: notifier, uploader: uploader, logger: logger},
		logger:     logger,
	}
}

func (s *roundService) FinalizeRound(ctx context.Context, eventID, round int) (*FinalizeResult, error) {
	st, err := s.store.loadState(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.controller.CheckFinalize(st.snap, round); err != nil {
		return nil, err
	}

	var marker *models.RoundFinalization
	err = s.store.Tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.store.Rounds.MarkFinalized(ctx, exec, eventID, round)
		if err != nil {
			return err
		}
		marker = m
		return nil
	})
	if err != nil {
		return nil, handleRepositoryError(err, "finalize round %d of event %d", round, eventID)
	}

	snap := st.snap
	snap.FinalizedThrough = round
	status, err := s.controller.Status(snap)
	if err != nil {
		return nil, err
	}

	res := &FinalizeResult{Finalization: *marker, Status: status}
	s.logger.Info("round finalized",
		slog.Int("event_id", eventID),
		slog.Int("round", round),
		slog.String("phase", string(status.Phase)),
	)
	s.notifier.Notify(eventID, brackets.MessageRoundFinalized, res)

	if status.Complete() {
		url, err := s.results.publish(ctx, st.event, snap)
		if err != nil {
			return nil, err
		}
		res.ResultsURL = url
	}
	return res, nil
}

func (s *roundService) GetFinalStandings(ctx context.Context, eventID int) ([]models.FinalPlacing, error) {
	st, err := s.store.loadState(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.controller.FinalStandings(st.snap)
}
