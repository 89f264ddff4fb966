package srs

import (
	"time"

	"github.com/vytor/studycoach/internal/models"
)

// LatestByCard reduces records to the most recent one per card id. Records
// sharing the same reviewed_at are ordered by id; the highest id wins.
func LatestByCard(records []models.ReviewRecord) map[string]models.ReviewRecord {
	latest := make(map[string]models.ReviewRecord, len(records))
	for _, r := range records {
		cur, ok := latest[r.CardID]
		if !ok || newer(r, cur) {
			latest[r.CardID] = r
		}
	}
	return latest
}

func newer(a, b models.ReviewRecord) bool {
	if a.ReviewedAt.Equal(b.ReviewedAt) {
		return a.ID > b.ID
	}
	return a.ReviewedAt.After(b.ReviewedAt)
}

// IsDue reports whether a card whose latest review is latest belongs in the
// study queue on today. Never-reviewed cards are always due and the due date
// itself is inclusive.
func IsDue(latest *models.ReviewRecord, today models.Date) bool {
	if latest == nil {
		return true
	}
	return !latest.DueDate.After(today)
}

// SelectDue returns the due subset of cards in input order, truncated to
// limit entries. A limit <= 0 disables truncation.
func SelectDue(cards []models.Card, latest map[string]models.ReviewRecord, today models.Date, limit int) []models.StudyCard {
	due := make([]models.StudyCard, 0)
	for _, c := range cards {
		if limit > 0 && len(due) >= limit {
			break
		}
		var last *models.ReviewRecord
		if r, ok := latest[c.ID]; ok {
			last = &r
		}
		if !IsDue(last, today) {
			continue
		}
		due = append(due, models.StudyCard{Card: c, LastReview: last})
	}
	return due
}

// CountDue returns how many cards are due on today.
func CountDue(cards []models.Card, latest map[string]models.ReviewRecord, today models.Date) int {
	return len(SelectDue(cards, latest, today, 0))
}

// Streak counts consecutive calendar days, walking back from today, with at
// least one review. A day without reviews ends the walk, so no review today
// means a streak of 0.
func Streak(reviewedAt []time.Time, today models.Date, cal Calendar) int {
	days := make(map[string]struct{}, len(reviewedAt))
	for _, t := range reviewedAt {
		days[cal.DateOf(t).String()] = struct{}{}
	}
	streak := 0
	for d := today; ; d = d.AddDays(-1) {
		if _, ok := days[d.String()]; !ok {
			return streak
		}
		streak++
	}
}
