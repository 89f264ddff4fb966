package services

import (
	"context"
	"fmt"

	"github.com/vytor/studycoach/internal/errors"
	"github.com/vytor/studycoach/internal/logger"
	"github.com/vytor/studycoach/internal/models"
	"github.com/vytor/studycoach/internal/repository"
	"github.com/vytor/studycoach/internal/srs"
)

const (
	DefaultStudyQueueLimit = 10
	MaxStudyQueueLimit     = 100
)

// ReviewService records reviews and builds study queues
type ReviewService interface {
	SubmitReview(ctx context.Context, userID, cardID string, rating int) (*models.ReviewRecord, error)
	// GetStudyQueue returns the due cards of a deck in creation order. A
	// limit <= 0 selects the configured default; larger limits are capped at
	// MaxStudyQueueLimit.
	GetStudyQueue(ctx context.Context, userID, deckID string, limit int) ([]models.StudyCard, error)
	GetStats(ctx context.Context, userID, deckID string) (*models.DeckStats, error)
}

type reviewService struct {
	deckRepo     repository.DeckRepository
	cardRepo     repository.CardRepository
	reviewRepo   repository.ReviewRepository
	cal          srs.Calendar
	defaultLimit int
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	deckRepo repository.DeckRepository,
	cardRepo repository.CardRepository,
	reviewRepo repository.ReviewRepository,
	cal srs.Calendar,
	defaultLimit int,
) ReviewService {
	if defaultLimit <= 0 {
		defaultLimit = DefaultStudyQueueLimit
	}
	if defaultLimit > MaxStudyQueueLimit {
		defaultLimit = MaxStudyQueueLimit
	}
	return &reviewService{
		deckRepo:     deckRepo,
		cardRepo:     cardRepo,
		reviewRepo:   reviewRepo,
		cal:          cal,
		defaultLimit: defaultLimit,
	}
}

func (s *reviewService) SubmitReview(ctx context.Context, userID, cardID string, rating int) (*models.ReviewRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting review: user_id=%s, card_id=%s, rating=%d", userID, cardID, rating)

	if !srs.ValidRating(rating) {
		return nil, errors.NewValidationError("rating", fmt.Sprintf("must be between %d and %d", srs.MinRating, srs.MaxRating))
	}
	if cardID == "" {
		return nil, errors.NewValidationError("cardId", "cannot be empty")
	}

	card, err := s.cardRepo.Get(ctx, cardID)
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", cardID)
	}
	if _, err := ownedDeck(ctx, s.deckRepo, userID, card.DeckID); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewNotFoundError("card", cardID)
		}
		return nil, err
	}

	latest, err := s.reviewRepo.Latest(ctx, userID, cardID)
	if err != nil {
		log.Error("failed to load latest review: %v", err)
		return nil, errors.NewInternalError(err)
	}

	now := s.cal.Now()
	next := srs.Next(srs.StateOf(latest), rating, s.cal.DateOf(now))
	record := models.ReviewRecord{
		CardID:       cardID,
		UserID:       userID,
		Rating:       rating,
		IntervalDays: next.IntervalDays,
		Easiness:     next.Easiness,
		DueDate:      next.DueDate,
		ReviewedAt:   now.UTC(),
	}
	id, err := s.reviewRepo.Insert(ctx, record)
	if err != nil {
		log.Error("failed to insert review: %v", err)
		return nil, errors.NewInternalError(err)
	}
	record.ID = id

	log.Info("review recorded: card_id=%s, rating=%d, interval=%d, easiness=%.2f, due=%s",
		cardID, rating, record.IntervalDays, record.Easiness, record.DueDate)
	return &record, nil
}

func (s *reviewService) GetStudyQueue(ctx context.Context, userID, deckID string, limit int) ([]models.StudyCard, error) {
	log := logger.FromContext(ctx)
	log.Debug("building study queue: user_id=%s, deck_id=%s, limit=%d", userID, deckID, limit)

	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > MaxStudyQueueLimit {
		limit = MaxStudyQueueLimit
	}

	cards, latest, err := s.deckState(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	queue := srs.SelectDue(cards, latest, s.cal.Today(), limit)
	log.Debug("study queue built: %d of %d cards due", len(queue), len(cards))
	return queue, nil
}

func (s *reviewService) GetStats(ctx context.Context, userID, deckID string) (*models.DeckStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing deck stats: user_id=%s, deck_id=%s", userID, deckID)

	cards, latest, err := s.deckState(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	total, err := s.reviewRepo.CountForDeck(ctx, userID, deckID)
	if err != nil {
		log.Error("failed to count reviews: %v", err)
		return nil, errors.NewInternalError(err)
	}
	times, err := s.reviewRepo.ReviewTimesForDeck(ctx, userID, deckID)
	if err != nil {
		log.Error("failed to load review times: %v", err)
		return nil, errors.NewInternalError(err)
	}

	today := s.cal.Today()
	stats := &models.DeckStats{
		DeckID:       deckID,
		TotalCards:   len(cards),
		DueCards:     srs.CountDue(cards, latest, today),
		NewCards:     len(cards) - len(latest),
		TotalReviews: total,
		StreakDays:   srs.Streak(times, today, s.cal),
		Today:        today,
	}
	for _, t := range times {
		if s.cal.DateOf(t).Equal(today) {
			stats.ReviewsToday++
		}
	}
	if len(latest) > 0 {
		var sum float64
		for _, rec := range latest {
			sum += rec.Easiness
		}
		stats.AvgEasiness = sum / float64(len(latest))
	}
	return stats, nil
}

// deckState loads a deck's cards in creation order together with the
// user's latest review of each.
func (s *reviewService) deckState(ctx context.Context, userID, deckID string) ([]models.Card, map[string]models.ReviewRecord, error) {
	log := logger.FromContext(ctx)

	if _, err := ownedDeck(ctx, s.deckRepo, userID, deckID); err != nil {
		return nil, nil, err
	}
	cards, err := s.cardRepo.ListByDeck(ctx, deckID)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, nil, errors.NewInternalError(err)
	}

	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	latest, err := s.reviewRepo.LatestForCards(ctx, userID, ids)
	if err != nil {
		log.Error("failed to load latest reviews: %v", err)
		return nil, nil, errors.NewInternalError(err)
	}
	return cards, latest, nil
}
