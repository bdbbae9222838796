package engagement

import "errors"

var (
	// ErrOutOfOrder is returned when an event is dated before the stored last event.
	ErrOutOfOrder = errors.New("event dated before last recorded event")
	ErrInvalidDay = errors.New("invalid calendar day")

	ErrInvalidMilestones = errors.New("invalid milestone list")
	ErrInvalidPattern    = errors.New("invalid breathing pattern")
	ErrDuplicatePattern  = errors.New("duplicate breathing pattern")
	ErrInvalidQuiz       = errors.New("invalid quiz")
	ErrInvalidBands      = errors.New("invalid score bands")
	ErrNoMatchingBand    = errors.New("score matches no band")
	ErrUnknownOption     = errors.New("answer is not an option of the question")
)
