package engagement

import (
	"fmt"
	"slices"

	"calmd/internal/models"
)

type StreakOutcome string

const (
	OutcomeStarted   StreakOutcome = "started"
	OutcomeRepeated  StreakOutcome = "repeated"
	OutcomeContinued StreakOutcome = "continued"
	OutcomeReset     StreakOutcome = "reset"
)

var DefaultMilestones = []int{3, 7, 14, 30, 60, 100}

// StreakUpdate is the result of applying one mood event to a streak.
type StreakUpdate struct {
	State            models.StreakState
	Outcome          StreakOutcome
	MilestoneCrossed bool
	Milestone        int
}

// Changed reports whether State differs from the prior state.
func (u StreakUpdate) Changed() bool {
	return u.Outcome != OutcomeRepeated
}

// StreakTracker turns a stream of calendar days into streak counts.
// It holds no per-user state and is safe for concurrent use.
type StreakTracker struct {
	milestones []int
}

func NewStreakTracker(milestones []int) (*StreakTracker, error) {
	for i, m := range milestones {
		if m < 1 {
			return nil, fmt.Errorf("%w: milestone %d is not positive", ErrInvalidMilestones, m)
		}
		if i > 0 && m <= milestones[i-1] {
			return nil, fmt.Errorf("%w: %v is not strictly ascending", ErrInvalidMilestones, milestones)
		}
	}
	return &StreakTracker{milestones: slices.Clone(milestones)}, nil
}

func (t *StreakTracker) Milestones() []int {
	return slices.Clone(t.milestones)
}

// NextMilestone returns the smallest milestone above count, or 0 when none is left.
func (t *StreakTracker) NextMilestone(count int) int {
	for _, m := range t.milestones {
		if m > count {
			return m
		}
	}
	return 0
}

// RecordEvent applies a mood event logged on day to prior. A nil prior means
// the user has never logged before. prior is never modified.
//
// Milestones are tracked per streak, not per user lifetime: within one run of
// consecutive days each milestone is crossed at most once, but after a reset
// the new streak counts up from zero and crosses the same milestones again.
// Callers that want a once-ever reward must record that themselves.
func (t *StreakTracker) RecordEvent(prior *models.StreakState, userID string, day models.CalendarDay) (StreakUpdate, error) {
	if day.IsZero() {
		return StreakUpdate{}, ErrInvalidDay
	}

	if prior == nil {
		return t.apply(models.StreakState{UserID: userID}, 0, day, OutcomeStarted), nil
	}

	gap := prior.LastEventDate.DaysUntil(day)
	switch {
	case gap < 0:
		return StreakUpdate{}, fmt.Errorf("%w: %s < %s", ErrOutOfOrder, day, prior.LastEventDate)
	case gap == 0:
		return StreakUpdate{State: *prior, Outcome: OutcomeRepeated}, nil
	case gap == 1:
		return t.apply(*prior, prior.CurrentCount, day, OutcomeContinued), nil
	default:
		return t.apply(*prior, 0, day, OutcomeReset), nil
	}
}

// apply grows the streak by one from base. base is 0 for a fresh streak.
func (t *StreakTracker) apply(state models.StreakState, base int, day models.CalendarDay, outcome StreakOutcome) StreakUpdate {
	state.CurrentCount = base + 1
	state.LongestCount = max(state.LongestCount, state.CurrentCount)
	state.LastEventDate = day

	update := StreakUpdate{State: state, Outcome: outcome}
	for _, m := range t.milestones {
		if base < m && state.CurrentCount == m {
			update.MilestoneCrossed = true
			update.Milestone = m
			break
		}
	}
	return update
}
