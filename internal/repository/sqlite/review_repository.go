package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/studycoach/internal/logger"
	"github.com/vytor/studycoach/internal/models"
	"github.com/vytor/studycoach/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new ReviewRepository implementation
func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

var reviewColumns = []string{"id", "card_id", "user_id", "rating", "interval_days", "easiness", "due_date", "reviewed_at"}

func (r *reviewRepository) Insert(ctx context.Context, rec models.ReviewRecord) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("inserting review: card_id=%s, user_id=%s, rating=%d, interval=%d, easiness=%.2f",
		rec.CardID, rec.UserID, rec.Rating, rec.IntervalDays, rec.Easiness)

	if rec.ReviewedAt.IsZero() {
		rec.ReviewedAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO reviews (card_id, user_id, rating, interval_days, easiness, due_date, reviewed_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, rec.CardID, rec.UserID, rec.Rating, rec.IntervalDays, rec.Easiness, rec.DueDate, rec.ReviewedAt.UTC())
	if err != nil {
		log.Error("failed to insert review: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get review id: %v", err)
		return 0, err
	}
	log.Debug("review inserted: id=%d", id)
	return id, nil
}

func (r *reviewRepository) Latest(ctx context.Context, userID, cardID string) (*models.ReviewRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("fetching latest review: user_id=%s, card_id=%s", userID, cardID)

	query, args, err := sqlBuilder.
		Select(reviewColumns...).
		From("reviews").
		Where(squirrel.Eq{"user_id": userID, "card_id": cardID}).
		OrderBy("reviewed_at DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rec, err := scanReview(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card has never been reviewed")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get latest review: %v", err)
		return nil, err
	}
	return rec, nil
}

// LatestForCards picks one row per card with a window function so the
// reduction happens in the database instead of over the full history.
func (r *reviewRepository) LatestForCards(ctx context.Context, userID string, cardIDs []string) (map[string]models.ReviewRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("fetching latest reviews: user_id=%s, cards=%d", userID, len(cardIDs))

	latest := make(map[string]models.ReviewRecord, len(cardIDs))
	if len(cardIDs) == 0 {
		return latest, nil
	}

	ranked := sqlBuilder.
		Select(reviewColumns...).
		Column("ROW_NUMBER() OVER (PARTITION BY card_id ORDER BY reviewed_at DESC, id DESC) AS rn").
		From("reviews").
		Where(squirrel.Eq{"user_id": userID, "card_id": cardIDs})

	query, args, err := sqlBuilder.
		Select(reviewColumns...).
		FromSelect(ranked, "ranked").
		Where("rn = 1").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query latest reviews: %v", err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanReview(rows)
		if err != nil {
			log.Error("failed to scan review row: %v", err)
			return nil, err
		}
		latest[rec.CardID] = *rec
	}
	log.Debug("found latest reviews for %d cards", len(latest))
	return latest, rows.Err()
}

func (r *reviewRepository) ReviewTimesForDeck(ctx context.Context, userID, deckID string) ([]time.Time, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("fetching review times: user_id=%s, deck_id=%s", userID, deckID)

	sqlStr, args, err := sqlBuilder.
		Select("r.reviewed_at").
		From("reviews r").
		Join("cards c ON c.id = r.card_id").
		Where(squirrel.Eq{"r.user_id": userID, "c.deck_id": deckID}).
		OrderBy("r.reviewed_at DESC").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query review times: %v", err)
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var ts timestamp
		if err := rows.Scan(&ts); err != nil {
			log.Error("failed to scan review time: %v", err)
			return nil, err
		}
		times = append(times, ts.Time)
	}
	return times, rows.Err()
}

func (r *reviewRepository) CountForDeck(ctx context.Context, userID, deckID string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")

	sqlStr, args, err := sqlBuilder.
		Select("COUNT(*)").
		From("reviews r").
		Join("cards c ON c.id = r.card_id").
		Where(squirrel.Eq{"r.user_id": userID, "c.deck_id": deckID}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count reviews: %v", err)
		return 0, err
	}
	return count, nil
}

func scanReview(row rowScanner) (*models.ReviewRecord, error) {
	var rec models.ReviewRecord
	var reviewed timestamp
	if err := row.Scan(&rec.ID, &rec.CardID, &rec.UserID, &rec.Rating, &rec.IntervalDays, &rec.Easiness, &rec.DueDate, &reviewed); err != nil {
		return nil, err
	}
	rec.ReviewedAt = reviewed.Time
	return &rec, nil
}
