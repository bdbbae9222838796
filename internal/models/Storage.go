package models

const SnapshotVersion = 1

// UserSnapshot is the persisted form of everything stored for one user.
// Activity holds the portable roaring serialization of active day ordinals.
type UserSnapshot struct {
	Streak      *StreakState       `json:"streak,omitempty"`
	Moods       []MoodEvent        `json:"moods,omitempty"`
	Activity    []byte             `json:"activity,omitempty"`
	Assessments []AssessmentResult `json:"assessments,omitempty"`
}

// Storage is the snapshot envelope written by the file driver.
type Storage struct {
	Version int                      `json:"version"`
	Users   map[string]*UserSnapshot `json:"users"`
}
