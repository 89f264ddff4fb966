package repository

import (
	"context"
	"time"

	"github.com/vytor/studycoach/internal/models"
)

// GoalRepository handles goal data access
type GoalRepository interface {
	Insert(ctx context.Context, goal models.Goal) error
	ListByUser(ctx context.Context, userID string) ([]models.Goal, error)
}

// DeckRepository handles deck data access
type DeckRepository interface {
	Insert(ctx context.Context, deck models.Deck) error
	// Get returns nil, nil when the deck does not exist.
	Get(ctx context.Context, id string) (*models.Deck, error)
	ListByUser(ctx context.Context, userID string) ([]models.Deck, error)
	Delete(ctx context.Context, id string) error
}

// CardRepository handles card data access
type CardRepository interface {
	Insert(ctx context.Context, card models.Card) error
	// Get returns nil, nil when the card does not exist.
	Get(ctx context.Context, id string) (*models.Card, error)
	// ListByDeck returns the deck's cards in creation order.
	ListByDeck(ctx context.Context, deckID string) ([]models.Card, error)
}

// ReviewRepository handles review history. Records are append-only.
type ReviewRepository interface {
	Insert(ctx context.Context, record models.ReviewRecord) (int64, error)
	// Latest returns the most recent record for (user, card), or nil, nil.
	Latest(ctx context.Context, userID, cardID string) (*models.ReviewRecord, error)
	// LatestForCards returns the most recent record per card, keyed by card id.
	// Ties on reviewed_at go to the highest record id.
	LatestForCards(ctx context.Context, userID string, cardIDs []string) (map[string]models.ReviewRecord, error)
	// ReviewTimesForDeck returns reviewed_at of every record the user made in
	// the deck, newest first.
	ReviewTimesForDeck(ctx context.Context, userID, deckID string) ([]time.Time, error)
	CountForDeck(ctx context.Context, userID, deckID string) (int, error)
}

// ConversationStore is a key-value store of chat buckets, one per client.
type ConversationStore interface {
	// Load returns the client's bucket, or an empty bucket when none exists.
	Load(ctx context.Context, clientID string) (*models.ChatBucket, error)
	// Update runs fn on the client's bucket and persists the result
	// atomically. If fn returns an error nothing is written. fn may run more
	// than once, each time on a freshly loaded bucket, so it must not carry
	// state between calls.
	Update(ctx context.Context, clientID string, fn func(*models.ChatBucket) error) error
}
