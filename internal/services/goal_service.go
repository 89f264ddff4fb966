package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/vytor/studycoach/internal/errors"
	"github.com/vytor/studycoach/internal/logger"
	"github.com/vytor/studycoach/internal/models"
	"github.com/vytor/studycoach/internal/repository"
	"github.com/vytor/studycoach/internal/srs"
)

// GoalService handles learning goals
type GoalService interface {
	CreateGoal(ctx context.Context, userID, title, description string, targetDate models.Date) (*models.Goal, error)
	ListGoals(ctx context.Context, userID string) ([]models.Goal, error)
}

type goalService struct {
	goalRepo repository.GoalRepository
	cal      srs.Calendar
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo repository.GoalRepository, cal srs.Calendar) GoalService {
	return &goalService{goalRepo: goalRepo, cal: cal}
}

func (s *goalService) CreateGoal(ctx context.Context, userID, title, description string, targetDate models.Date) (*models.Goal, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating goal: user_id=%s, title=%s", userID, title)

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.NewValidationError("title", "cannot be empty")
	}

	goal := models.Goal{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: description,
		TargetDate:  targetDate,
		CreatedAt:   s.cal.Now().UTC(),
	}
	if err := s.goalRepo.Insert(ctx, goal); err != nil {
		log.Error("failed to insert goal: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("goal created: id=%s, user_id=%s", goal.ID, userID)
	return &goal, nil
}

func (s *goalService) ListGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing goals: user_id=%s", userID)

	goals, err := s.goalRepo.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list goals: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return goals, nil
}
