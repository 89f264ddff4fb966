package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vytor/studycoach/internal/logger"
	"github.com/vytor/studycoach/internal/models"
	"github.com/vytor/studycoach/internal/repository"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) Insert(ctx context.Context, d models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: id=%s, user_id=%s", d.ID, d.UserID)

	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO decks (id, user_id, title, description, created_at)
VALUES (?, ?, ?, ?, ?)
`, d.ID, d.UserID, d.Title, d.Description, d.CreatedAt.UTC())
	if err != nil {
		log.Error("failed to insert deck: %v", err)
	}
	return err
}

func (r *deckRepository) Get(ctx context.Context, id string) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: id=%s", id)

	var d models.Deck
	var created timestamp
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, title, description, created_at
FROM decks
WHERE id = ?
`, id).Scan(&d.ID, &d.UserID, &d.Title, &d.Description, &created)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}
	d.CreatedAt = created.Time
	return &d, nil
}

func (r *deckRepository) ListByUser(ctx context.Context, userID string) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks: user_id=%s", userID)

	query, args, err := sqlBuilder.
		Select("id", "user_id", "title", "description", "created_at").
		From("decks").
		Where("user_id = ?", userID).
		OrderBy("created_at DESC", "rowid DESC").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	decks := []models.Deck{}
	for rows.Next() {
		var d models.Deck
		var created timestamp
		if err := rows.Scan(&d.ID, &d.UserID, &d.Title, &d.Description, &created); err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		d.CreatedAt = created.Time
		decks = append(decks, d)
	}
	log.Debug("found %d decks", len(decks))
	return decks, rows.Err()
}

// Delete removes the deck; its cards and their review history cascade.
func (r *deckRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck: id=%s", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete deck: %v", err)
	}
	return err
}
