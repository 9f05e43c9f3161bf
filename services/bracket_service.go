package services

import (
	"context"

	"github.com/Dosada05/pushbike-heats/brackets"
	"github.com/Dosada05/pushbike-heats/models"
)

// RoundView is a derived round together with its lifecycle phase.
type RoundView struct {
	EventID int               `json:"event_id"`
	Round   *models.Round     `json:"round"`
	Phase   models.RoundPhase `json:"phase"`
}

type BracketService interface {
	GetBracket(ctx context.Context, eventID, round int, tier models.Tier) ([]models.Match, error)
	GetRound(ctx context.Context, eventID, round int) (*RoundView, error)
	GetStatus(ctx context.Context, eventID int) (brackets.Status, error)
}

type bracketService struct {
	store      *Store
	controller *brackets.Controller
}

func NewBracketService(store *Store, controller *brackets.Controller) BracketService {
	return &bracketService{store: store, controller: controller}
}

func (s *bracketService) GetBracket(ctx context.Context, eventID, round int, tier models.Tier) ([]models.Match, error) {
	st, err := s.store.loadState(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.controller.Bracket(st.snap, round, tier)
}

func (s *bracketService) GetRound(ctx context.Context, eventID, round int) (*RoundView, error) {
	st, err := s.store.loadState(ctx, eventID)
	if err != nil {
		return nil, err
	}
	r, err := s.controller.Round(st.snap, round)
	if err != nil {
		return nil, err
	}
	phase, err := s.controller.RoundPhase(st.snap, round)
	if err != nil {
		return nil, err
	}
	return &RoundView{EventID: eventID, Round: r, Phase: phase}, nil
}

func (s *bracketService) GetStatus(ctx context.Context, eventID int) (brackets.Status, error) {
	st, err := s.store.loadState(ctx, eventID)
	if err != nil {
		return brackets.Status{}, err
	}
	return s.controller.Status(st.snap)
}
