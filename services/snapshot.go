package services

import (
	"context"

	"github.com/Dosada05/pushbike-heats/brackets"
	"github.com/Dosada05/pushbike-heats/models"
	"github.com/Dosada05/pushbike-heats/repositories"
	"golang.org/x/sync/errgroup"
)

// Notifier pushes change notifications to live viewers of an event.
type Notifier interface {
	Notify(eventID int, msgType string, payload interface{})
}

type nopNotifier struct{}

func (nopNotifier) Notify(int, string, interface{}) {}

// Store groups the repositories every heat service reads from.
type Store struct {
	Events      repositories.EventRepository
	Competitors repositories.CompetitorRepository
	Batches     repositories.BatchRepository
	Finishes    repositories.FinishRecordRepository
	Rounds      repositories.RoundRepository
	Tx          repositories.TxRunner
}

type eventState struct {
	event     *models.Event
	snap      brackets.Snapshot
	finalized []models.RoundFinalization
}

// loadState reads everything needed to derive an event's rounds. Each read
// builds a fresh snapshot, so derived brackets always reflect stored results.
func (s *Store) loadState(ctx context.Context, eventID int) (*eventState, error) {
	st := &eventState{}
	var records []models.FinishRecord

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		event, err := s.Events.GetByID(gCtx, eventID)
		if err != nil {
			return handleRepositoryError(err, "load event %d", eventID)
		}
		st.event = event
		return nil
	})

	g.Go(func() error {
		batches, err := s.Batches.ListByEvent(gCtx, eventID)
		if err != nil {
			return handleRepositoryError(err, "load batches of event %d", eventID)
		}
		st.snap.Batches = batches
		return nil
	})

	g.Go(func() error {
		recs, err := s.Finishes.ListByEvent(gCtx, eventID)
		if err != nil {
			return handleRepositoryError(err, "load finish records of event %d", eventID)
		}
		records = recs
		return nil
	})

	g.Go(func() error {
		finalized, err := s.Rounds.ListFinalized(gCtx, eventID)
		if err != nil {
			return handleRepositoryError(err, "load finalized rounds of event %d", eventID)
		}
		st.finalized = finalized
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	rounds := make([]int, len(st.finalized))
	for i, f := range st.finalized {
		rounds[i] = f.Round
	}
	st.snap.Ledger = brackets.NewLedger(records)
	st.snap.FinalizedThrough = brackets.FinalizedPrefix(rounds)
	return st, nil
}
