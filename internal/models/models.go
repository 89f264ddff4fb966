package models

import "time"

type Goal struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TargetDate  Date      `json:"target_date"`
	CreatedAt   time.Time `json:"created_at"`
}

type Deck struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Card struct {
	ID        string    `json:"id"`
	DeckID    string    `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	Embedding []float32 `json:"embedding,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewRecord is written once per review submission and never modified.
type ReviewRecord struct {
	ID           int64     `json:"id"`
	CardID       string    `json:"card_id"`
	UserID       string    `json:"user_id"`
	Rating       int       `json:"rating"`
	IntervalDays int       `json:"interval_days"`
	Easiness     float64   `json:"easiness"`
	DueDate      Date      `json:"due_date"`
	ReviewedAt   time.Time `json:"reviewed_at"`
}

// StudyCard is a card in a study queue together with its scheduling state.
type StudyCard struct {
	Card
	LastReview *ReviewRecord `json:"last_review,omitempty"`
}

type DeckStats struct {
	DeckID       string  `json:"deck_id"`
	TotalCards   int     `json:"total_cards"`
	DueCards     int     `json:"due_cards"`
	NewCards     int     `json:"new_cards"`
	ReviewsToday int     `json:"reviews_today"`
	TotalReviews int     `json:"total_reviews"`
	StreakDays   int     `json:"streak_days"`
	AvgEasiness  float64 `json:"avg_easiness"`
	Today        Date    `json:"today"`
}
