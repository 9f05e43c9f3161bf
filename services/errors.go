package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/pushbike-heats/brackets"
	"github.com/Dosada05/pushbike-heats/repositories"
)

// Errors returned by services wrap one of the brackets error classes so that
// handlers only need to branch on four kinds.
var (
	ErrEventNotFound     = fmt.Errorf("%w: event", brackets.ErrNotFound)
	ErrCompetitorUnknown = fmt.Errorf("%w: competitor", brackets.ErrNotFound)
	ErrEmptyRoster       = fmt.Errorf("%w: event has no registered competitors", brackets.ErrValidation)
	ErrResultsRecorded   = fmt.Errorf("%w: batches cannot be reassigned once results are recorded", brackets.ErrState)
	ErrAlreadyFinalized  = fmt.Errorf("%w: round already finalized", brackets.ErrState)
)

// handleRepositoryError translates repository sentinels into service errors.
func handleRepositoryError(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, repositories.ErrEventNotFound):
		return fmt.Errorf("%w (%s)", ErrEventNotFound, msg)
	case errors.Is(err, repositories.ErrFinishCompetitorInvalid),
		errors.Is(err, repositories.ErrBatchCompetitorInvalid):
		return fmt.Errorf("%w (%s): %v", ErrCompetitorUnknown, msg, err)
	case errors.Is(err, repositories.ErrRoundAlreadyFinalized):
		return fmt.Errorf("%w (%s)", ErrAlreadyFinalized, msg)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
