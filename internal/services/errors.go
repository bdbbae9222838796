package services

import (
	"errors"
	"fmt"

	"calmd/internal/models"
)

var (
	ErrInvalidScore   = errors.New("invalid mood entry")
	ErrInvalidRange   = errors.New("invalid calendar range")
	ErrUnknownPattern = errors.New("unknown breathing pattern")
	ErrNoSession      = errors.New("no guided session selected")
)

// StreakConflictError is returned when the streak could not be updated after
// all retries. The mood event itself was saved and must not be resubmitted.
type StreakConflictError struct {
	Event    models.MoodEvent
	Attempts int
	Err      error
}

func (e *StreakConflictError) Error() string {
	return fmt.Sprintf("mood saved, streak of %s not updated after %d attempts: %s", e.Event.UserID, e.Attempts, e.Err)
}

func (e *StreakConflictError) Unwrap() error { return e.Err }
