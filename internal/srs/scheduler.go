// Package srs implements SM-2 style spaced repetition scheduling and the
// due-card selection built on top of it. Everything here is pure: callers
// supply the review history and the current date.
package srs

import (
	"math"

	"github.com/vytor/studycoach/internal/models"
)

const (
	// DefaultEasiness is the easiness assumed for a card's first review.
	DefaultEasiness = 2.5
	// MinEasiness is the floor applied to every computed easiness.
	MinEasiness = 1.3

	// PassingRating is the lowest rating that counts as a successful recall.
	PassingRating = 3
	MinRating     = 0
	MaxRating     = 5

	graduationInterval = 6
)

// State is the part of a review record the scheduler reads.
type State struct {
	IntervalDays int
	Easiness     float64
}

// StateOf returns the scheduling state carried by r, or nil for a card that
// has never been reviewed.
func StateOf(r *models.ReviewRecord) *State {
	if r == nil {
		return nil
	}
	return &State{IntervalDays: r.IntervalDays, Easiness: r.Easiness}
}

// Result is the outcome of scheduling one review.
type Result struct {
	IntervalDays int         `json:"interval_days"`
	Easiness     float64     `json:"easiness"`
	DueDate      models.Date `json:"due_date"`
}

// Next computes the schedule following a review rated rating, given the
// previous state (nil when the card was never reviewed) and today's date.
//
// rating is expected in [0, 5] but is not validated; values outside that
// range yield a mathematically derived result.
func Next(prev *State, rating int, today models.Date) Result {
	e := Easiness(prev, rating)
	interval := Interval(prev, rating, e)
	return Result{
		IntervalDays: interval,
		Easiness:     e,
		DueDate:      today.AddDays(interval),
	}
}

// Easiness returns the updated easiness factor, clamped to MinEasiness.
func Easiness(prev *State, rating int) float64 {
	e := DefaultEasiness
	if prev != nil {
		e = prev.Easiness
	}
	q := float64(rating)
	e = e - 0.8 + 0.28*q - 0.02*q*q
	if e < MinEasiness {
		e = MinEasiness
	}
	return e
}

// Interval returns the number of days until the next review.
func Interval(prev *State, rating int, easiness float64) int {
	switch {
	case rating < PassingRating:
		return 1
	case prev == nil:
		return 1
	case prev.IntervalDays <= 1:
		return graduationInterval
	}
	return int(math.Round(float64(prev.IntervalDays) * easiness))
}

// ValidRating reports whether rating lies in the documented [0, 5] domain.
func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}
