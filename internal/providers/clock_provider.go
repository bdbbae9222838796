package providers

import (
	"fmt"
	"time"

	"calmd/internal/structures"
)

// ClockInterface abstracts the wall clock so "today" can be pinned in tests.
type ClockInterface interface {
	Now() time.Time
}

type zoneClock struct {
	loc *time.Location
}

func (c *zoneClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// NewClockProvider returns a clock in engagement.timezone. An empty zone means
// the server's local zone, so calendar days follow the server's midnight.
func NewClockProvider(conf *structures.Config) (ClockInterface, error) {
	if conf.Engagement.Timezone == "" {
		return &zoneClock{loc: time.Local}, nil
	}
	loc, err := time.LoadLocation(conf.Engagement.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", conf.Engagement.Timezone, err)
	}
	return &zoneClock{loc: loc}, nil
}
