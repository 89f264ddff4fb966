package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/studycoach/internal/models"
)

// MockReviewRepository is a mock implementation of repository.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Insert(ctx context.Context, record models.ReviewRecord) (int64, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) Latest(ctx context.Context, userID, cardID string) (*models.ReviewRecord, error) {
	args := m.Called(ctx, userID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewRecord), args.Error(1)
}

func (m *MockReviewRepository) LatestForCards(ctx context.Context, userID string, cardIDs []string) (map[string]models.ReviewRecord, error) {
	args := m.Called(ctx, userID, cardIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.ReviewRecord), args.Error(1)
}

func (m *MockReviewRepository) ReviewTimesForDeck(ctx context.Context, userID, deckID string) ([]time.Time, error) {
	args := m.Called(ctx, userID, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *MockReviewRepository) CountForDeck(ctx context.Context, userID, deckID string) (int, error) {
	args := m.Called(ctx, userID, deckID)
	return args.Int(0), args.Error(1)
}
