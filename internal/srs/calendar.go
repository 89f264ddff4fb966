package srs

import (
	"time"

	"github.com/vytor/studycoach/internal/models"
)

// Calendar maps instants onto calendar dates in a fixed reference timezone.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// NewCalendar returns a Calendar for loc (UTC when nil) that reads the wall clock.
func NewCalendar(loc *time.Location) Calendar {
	return NewCalendarWithClock(loc, time.Now)
}

// NewCalendarWithClock is NewCalendar with an explicit clock, used by tests.
func NewCalendarWithClock(loc *time.Location, now func() time.Time) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return Calendar{loc: loc, now: now}
}

// Now returns the current instant.
func (c Calendar) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// Today returns the current calendar date.
func (c Calendar) Today() models.Date {
	return c.DateOf(c.Now())
}

// DateOf returns the calendar date of t.
func (c Calendar) DateOf(t time.Time) models.Date {
	return models.DateOf(t, c.Location())
}

func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}
