package models

import "time"

// MoodEvent is one mood log submission. It is never mutated after creation.
type MoodEvent struct {
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Day       CalendarDay `json:"day"`
	Score     int         `json:"score"`
	Note      string      `json:"note,omitempty"`
}

// StreakState is the persisted streak of a single user.
type StreakState struct {
	UserID        string      `json:"user_id"`
	CurrentCount  int         `json:"current_count"`
	LongestCount  int         `json:"longest_count"`
	LastEventDate CalendarDay `json:"last_event_date"`
}

// SameAs reports whether two states describe the same stored value.
// A nil receiver only matches a nil argument.
func (s *StreakState) SameAs(other *StreakState) bool {
	if s == nil || other == nil {
		return s == nil && other == nil
	}
	return *s == *other
}
