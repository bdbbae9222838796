package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gookit/validate"

	"calmd/internal/engagement"
	"calmd/internal/models"
	"calmd/internal/providers"
	"calmd/internal/storage"
	"calmd/internal/structures"
)

// MaxCalendarDays caps the span of a single calendar query.
const MaxCalendarDays = 366

type MoodInput struct {
	Score int    `json:"score" validate:"required|int|min:1|max:5"`
	Note  string `json:"note" validate:"maxLen:1000"`
}

// MoodResult reports the saved event and what it did to the streak.
type MoodResult struct {
	Event            models.MoodEvent         `json:"event"`
	Streak           models.StreakState       `json:"streak"`
	Outcome          engagement.StreakOutcome `json:"outcome,omitempty"`
	MilestoneCrossed bool                     `json:"milestone_crossed"`
	Milestone        int                      `json:"milestone,omitempty"`
	NextMilestone    int                      `json:"next_milestone,omitempty"`
	OutOfOrder       bool                     `json:"out_of_order,omitempty"`
}

type StreakView struct {
	models.StreakState
	NextMilestone int `json:"next_milestone,omitempty"`
}

type MoodServiceInterface interface {
	Record(ctx context.Context, userID string, in MoodInput) (*MoodResult, error)
	Streak(ctx context.Context, userID string) (*StreakView, error)
	Calendar(ctx context.Context, userID string, from, to models.CalendarDay) ([]models.CalendarDay, error)
}

type MoodService struct {
	store      storage.Store
	tracker    *engagement.StreakTracker
	clock      providers.ClockInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	maxRetries int
}

func NewMoodService(conf *structures.Config, store storage.Store, tracker *engagement.StreakTracker, clock providers.ClockInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) MoodServiceInterface {
	return &MoodService{
		store:      store,
		tracker:    tracker,
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
		maxRetries: max(conf.Engagement.MaxStreakRetries, 0),
	}
}

// Record saves a mood entry for today and folds it into the user's streak.
// The streak is written with compare-and-swap and recomputed from a fresh
// read when another request got there first.
func (s *MoodService) Record(ctx context.Context, userID string, in MoodInput) (*MoodResult, error) {
	v := validate.Struct(&in)
	if !v.Validate() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidScore, v.Errors.One())
	}

	now := s.clock.Now()
	event := models.MoodEvent{
		UserID:    userID,
		Timestamp: now,
		Day:       models.DayOf(now),
		Score:     in.Score,
		Note:      in.Note,
	}
	if err := s.store.SaveMoodEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("save mood event: %w", err)
	}

	for attempt := 0; ; attempt++ {
		prior, err := s.store.FindStreakState(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load streak: %w", err)
		}

		update, err := s.tracker.RecordEvent(prior, userID, event.Day)
		if errors.Is(err, engagement.ErrOutOfOrder) {
			// The clock went backwards relative to the stored streak. The entry
			// is kept, the streak is left alone.
			s.logger.Warnf(providers.TypeApp, "Mood event for %s on %s predates last event %s, streak unchanged",
				userID, event.Day, prior.LastEventDate)
			s.metrics.IncMoodLogs("out_of_order")
			return &MoodResult{Event: event, Streak: *prior, OutOfOrder: true}, nil
		}
		if err != nil {
			return nil, err
		}

		if update.Changed() {
			err = s.store.SaveStreakState(ctx, userID, prior, update.State)
			if errors.Is(err, storage.ErrConflict) {
				s.metrics.IncStreakConflicts()
				if attempt < s.maxRetries {
					s.logger.Debugf(providers.TypeApp, "Streak of %s changed concurrently, retry %d", userID, attempt+1)
					continue
				}
				return nil, &StreakConflictError{Event: event, Attempts: attempt + 1, Err: err}
			}
			if err != nil {
				return nil, fmt.Errorf("save streak: %w", err)
			}
		}

		s.metrics.IncMoodLogs(string(update.Outcome))
		if update.MilestoneCrossed {
			s.metrics.IncMilestones(update.Milestone)
			s.logger.Infof(providers.TypeApp, "User %s reached a %d day streak", userID, update.Milestone)
		}
		return &MoodResult{
			Event:            event,
			Streak:           update.State,
			Outcome:          update.Outcome,
			MilestoneCrossed: update.MilestoneCrossed,
			Milestone:        update.Milestone,
			NextMilestone:    s.tracker.NextMilestone(update.State.CurrentCount),
		}, nil
	}
}

// Streak returns the stored streak. A user without events has a zero streak.
func (s *MoodService) Streak(ctx context.Context, userID string) (*StreakView, error) {
	state, err := s.store.FindStreakState(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load streak: %w", err)
	}
	view := &StreakView{StreakState: models.StreakState{UserID: userID}}
	if state != nil {
		view.StreakState = *state
	}
	view.NextMilestone = s.tracker.NextMilestone(view.CurrentCount)
	return view, nil
}

func (s *MoodService) Calendar(ctx context.Context, userID string, from, to models.CalendarDay) ([]models.CalendarDay, error) {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, fmt.Errorf("%w: from %s to %s", ErrInvalidRange, from, to)
	}
	if from.DaysUntil(to) >= MaxCalendarDays {
		return nil, fmt.Errorf("%w: more than %d days", ErrInvalidRange, MaxCalendarDays)
	}
	return s.store.ActivityDays(ctx, userID, from, to)
}
