package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/vytor/studycoach/internal/logger"
	"github.com/vytor/studycoach/internal/models"
	"github.com/vytor/studycoach/internal/repository"
)

type goalRepository struct {
	db *sql.DB
}

// NewGoalRepository creates a new GoalRepository implementation
func NewGoalRepository(db *sql.DB) repository.GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Insert(ctx context.Context, g models.Goal) error {
	log := logger.FromContext(ctx).WithPrefix("goal_repo")
	log.Debug("inserting goal: id=%s, user_id=%s", g.ID, g.UserID)

	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO goals (id, user_id, title, description, target_date, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`, g.ID, g.UserID, g.Title, g.Description, g.TargetDate, g.CreatedAt.UTC())
	if err != nil {
		log.Error("failed to insert goal: %v", err)
	}
	return err
}

func (r *goalRepository) ListByUser(ctx context.Context, userID string) ([]models.Goal, error) {
	log := logger.FromContext(ctx).WithPrefix("goal_repo")
	log.Debug("listing goals: user_id=%s", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, title, description, target_date, created_at
FROM goals
WHERE user_id = ?
ORDER BY created_at DESC, rowid DESC
`, userID)
	if err != nil {
		log.Error("failed to list goals: %v", err)
		return nil, err
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		var g models.Goal
		var created timestamp
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &g.TargetDate, &created); err != nil {
			log.Error("failed to scan goal row: %v", err)
			return nil, err
		}
		g.CreatedAt = created.Time
		goals = append(goals, g)
	}
	log.Debug("found %d goals", len(goals))
	return goals, rows.Err()
}
