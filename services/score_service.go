package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/pushbike-heats/brackets"
	"github.com/Dosada05/pushbike-heats/models"
	"github.com/Dosada05/pushbike-heats/repositories"
	"github.com/Dosada05/pushbike-heats/storage"
)

// FinishInput is an admin's result entry for one rider in one round.
// A nil Placement clears the placement and keeps only the penalty.
type FinishInput struct {
	CompetitorID int  `json:"competitor_id"`
	Round        int  `json:"round"`
	Placement    *int `json:"placement"`
	Penalty      int  `json:"penalty"`
}

type FinishResult struct {
	Record models.FinishRecord `json:"record"`
	Tier   models.Tier         `json:"tier"`
	Match  int                 `json:"match"`
	// ReopenedRounds counts later rounds whose finalization was revoked by this amendment.
	ReopenedRounds int64 `json:"reopened_rounds"`
	// ResultsURL is set when an amendment left the event complete and the
	// results were exported again.
	ResultsURL string `json:"results_url,omitempty"`
	amended    bool
}

// BulkItemResult reports the outcome of one entry of a bulk upload.
type BulkItemResult struct {
	Index  int           `json:"index"`
	Input  FinishInput   `json:"input"`
	Result *FinishResult `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
	err    error
}

// Err returns the failure of this entry, nil on success.
func (b BulkItemResult) Err() error { return b.err }

type ScoreService interface {
	RecordFinish(ctx context.Context, eventID int, input FinishInput) (*FinishResult, error)
	// RecordFinishBulk applies every entry on its own. A failing entry does not
	// affect the others; later entries are validated against earlier applied ones.
	RecordFinishBulk(ctx context.Context, eventID int, inputs []FinishInput) ([]BulkItemResult, error)
	GetStandings(ctx context.Context, eventID int) ([]models.Standing, error)
}

type scoreService struct {
	store      *Store
	controller *brackets.Controller
	notifier   Notifier
	results    *resultsPublisher
	logger     *slog.Logger
}

// NewScoreService builds the result entry service. uploader may be nil; when set,
// amendments to a completed event export its results again.
func NewScoreService(store *Store, controller *brackets.Controller, notifier Notifier, uploader storage.FileUploader, logger *slog.Logger) ScoreService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &scoreService{
		store:      store,
		controller: controller,
		notifier:   notifier,
		results:    &resultsPublisher{controller: controller, notifier: notifier, uploader: uploader, logger: logger},
		logger:     logger,
	}
}

func (s *scoreService) RecordFinish(ctx context.Context, eventID int, input FinishInput) (*FinishResult, error) {
	st, err := s.store.loadState(ctx, eventID)
	if err != nil {
		return nil, err
	}
	res, next, err := s.apply(ctx, eventID, st.snap, input)
	if err != nil {
		return nil, err
	}
	if res.amended {
		res.ResultsURL = s.republish(ctx, st.event, next)
	}
	return res, nil
}

func (s *scoreService) RecordFinishBulk(ctx context.Context, eventID int, inputs []FinishInput) ([]BulkItemResult, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no finish records supplied", brackets.ErrValidation)
	}
	st, err := s.store.loadState(ctx, eventID)
	if err != nil {
		return nil, err
	}

	snap := st.snap
	results := make([]BulkItemResult, len(inputs))
	failed := 0
	lastAmended := -1
	for i, in := range inputs {
		results[i] = BulkItemResult{Index: i, Input: in}
		res, next, err := s.apply(ctx, eventID, snap, in)
		if err != nil {
			results[i].err = err
			results[i].Error = err.Error()
			failed++
			continue
		}
		results[i].Result = res
		snap = next
		if res.amended {
			lastAmended = i
		}
	}
	if lastAmended >= 0 {
		results[lastAmended].Result.ResultsURL = s.republish(ctx, st.event, snap)
	}

	s.logger.Info("bulk finish upload processed",
		slog.Int("event_id", eventID),
		slog.Int("entries", len(inputs)),
		slog.Int("failed", failed),
	)
	return results, nil
}

// apply validates input against snap, stores it and returns the snapshot as it
// stands after the write.
func (s *scoreService) apply(ctx context.Context, eventID int, snap brackets.Snapshot, input FinishInput) (*FinishResult, brackets.Snapshot, error) {
	rec := models.FinishRecord{
		EventID:      eventID,
		CompetitorID: input.CompetitorID,
		Round:        input.Round,
		Placement:    input.Placement,
		Penalty:      input.Penalty,
	}
	seat, err := s.controller.CheckRecord(snap, rec)
	if err != nil {
		return nil, snap, err
	}

	amendment := rec.Round <= snap.FinalizedThrough
	var reopened int64
	err = s.store.Tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.store.Finishes.Upsert(ctx, exec, &rec); err != nil {
			return err
		}
		if amendment {
			n, err := s.store.Rounds.DeleteFinalizedAfter(ctx, exec, eventID, rec.Round)
			if err != nil {
				return err
			}
			reopened = n
		}
		return nil
	})
	if err != nil {
		return nil, snap, handleRepositoryError(err, "record finish of competitor %d in round %d", rec.CompetitorID, rec.Round)
	}

	next := brackets.Snapshot{
		Batches:          snap.Batches,
		Ledger:           snap.Ledger.With(rec),
		FinalizedThrough: snap.FinalizedThrough,
	}
	if amendment {
		next.FinalizedThrough = rec.Round
	}

	res := &FinishResult{Record: rec, Tier: seat.Tier, Match: seat.Match.Ordinal, ReopenedRounds: reopened, amended: amendment}
	s.notifier.Notify(eventID, brackets.MessageFinishRecorded, res)
	if reopened > 0 {
		s.logger.Warn("amendment reopened later rounds",
			slog.Int("event_id", eventID),
			slog.Int("amended_round", rec.Round),
			slog.Int64("reopened", reopened),
		)
		s.notifier.Notify(eventID, brackets.MessageRoundsReopened, map[string]int{"after_round": rec.Round})
	}
	return res, next, nil
}

// republish exports the results again when an amendment left the event complete.
// The write already stands, so failures are only logged.
func (s *scoreService) republish(ctx context.Context, event *models.Event, snap brackets.Snapshot) string {
	status, err := s.controller.Status(snap)
	if err != nil {
		s.logger.Error("failed to derive status after amendment", slog.Int("event_id", event.ID), slog.Any("error", err))
		return ""
	}
	if !status.Complete() {
		return ""
	}
	url, err := s.results.publish(ctx, event, snap)
	if err != nil {
		s.logger.Error("failed to republish results", slog.Int("event_id", event.ID), slog.Any("error", err))
		return ""
	}
	return url
}

func (s *scoreService) GetStandings(ctx context.Context, eventID int) ([]models.Standing, error) {
	st, err := s.store.loadState(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.controller.Standings(st.snap), nil
}
