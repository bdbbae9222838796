package models

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// CalendarDay is a date with no time-of-day component. Which wall clock and
// time zone define "today" is decided by whoever builds the value.
type CalendarDay struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day of t in t's own location.
func DayOf(t time.Time) CalendarDay {
	y, m, d := t.Date()
	return CalendarDay{Year: y, Month: m, Day: d}
}

func NewCalendarDay(year int, month time.Month, day int) CalendarDay {
	return DayOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func ParseDay(s string) (CalendarDay, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return CalendarDay{}, fmt.Errorf("invalid calendar day %q: %w", s, err)
	}
	return DayOf(t), nil
}

// DayFromOrdinal is the inverse of Ordinal.
func DayFromOrdinal(n uint32) CalendarDay {
	return DayOf(time.Unix(0, 0).UTC().AddDate(0, 0, int(n)))
}

func (d CalendarDay) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d CalendarDay) IsZero() bool {
	return d == CalendarDay{}
}

// DaysUntil returns the signed number of whole days from d to other.
// Both sides are anchored at UTC midnight so DST never skews the result.
func (d CalendarDay) DaysUntil(other CalendarDay) int {
	return int(other.midnight().Sub(d.midnight()) / (24 * time.Hour))
}

func (d CalendarDay) AddDays(n int) CalendarDay {
	return DayOf(d.midnight().AddDate(0, 0, n))
}

func (d CalendarDay) Before(other CalendarDay) bool {
	return d.DaysUntil(other) > 0
}

// Ordinal is the number of days since 1970-01-01, clamped at zero.
func (d CalendarDay) Ordinal() uint32 {
	n := DayOf(time.Unix(0, 0).UTC()).DaysUntil(d)
	if n < 0 {
		return 0
	}
	return uint32(n)
}

func (d CalendarDay) String() string {
	return d.midnight().Format(dayLayout)
}

func (d CalendarDay) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

func (d *CalendarDay) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = CalendarDay{}
		return nil
	}
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
