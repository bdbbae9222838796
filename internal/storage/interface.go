package storage

import (
	"context"
	"errors"

	"calmd/internal/models"
)

var (
	// ErrConflict means the stored streak no longer matches the state the
	// caller read; the caller should re-read and recompute.
	ErrConflict     = errors.New("streak state changed concurrently")
	ErrInvalidEvent = errors.New("invalid mood event")
)

type Store interface {
	FindStreakState(ctx context.Context, userID string) (*models.StreakState, error)
	// SaveStreakState stores next only if the current value still equals prev
	// (nil meaning no state yet). Otherwise it returns ErrConflict.
	SaveStreakState(ctx context.Context, userID string, prev *models.StreakState, next models.StreakState) error
	SaveMoodEvent(ctx context.Context, event models.MoodEvent) error
	// ActivityDays lists the days in [from, to] on which the user logged a mood.
	ActivityDays(ctx context.Context, userID string, from, to models.CalendarDay) ([]models.CalendarDay, error)
	SaveAssessmentResult(ctx context.Context, userID string, result models.AssessmentResult) error
	// ListAssessmentResults returns up to limit results, newest first. limit <= 0 means all.
	ListAssessmentResults(ctx context.Context, userID string, limit int) ([]models.AssessmentResult, error)
	Close() error
}

// Snapshotter is implemented by stores that keep their data in memory and
// rely on periodic snapshots for durability.
type Snapshotter interface {
	Snapshot() *models.Storage
	Restore(snapshot *models.Storage) error
}
