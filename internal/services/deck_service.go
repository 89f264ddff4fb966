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

// DeckService handles flashcard decks
type DeckService interface {
	CreateDeck(ctx context.Context, userID, title, description string) (*models.Deck, error)
	ListDecks(ctx context.Context, userID string) ([]models.Deck, error)
	GetDeck(ctx context.Context, userID, deckID string) (*models.Deck, error)
	DeleteDeck(ctx context.Context, userID, deckID string) error
}

// CardService handles the cards inside a deck
type CardService interface {
	CreateCard(ctx context.Context, userID, deckID, front, back string) (*models.Card, error)
	ListCards(ctx context.Context, userID, deckID string) ([]models.Card, error)
}

type deckService struct {
	deckRepo repository.DeckRepository
	cal      srs.Calendar
}

// NewDeckService creates a new DeckService
func NewDeckService(deckRepo repository.DeckRepository, cal srs.Calendar) DeckService {
	return &deckService{deckRepo: deckRepo, cal: cal}
}

func (s *deckService) CreateDeck(ctx context.Context, userID, title, description string) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating deck: user_id=%s, title=%s", userID, title)

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.NewValidationError("title", "cannot be empty")
	}

	deck := models.Deck{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: description,
		CreatedAt:   s.cal.Now().UTC(),
	}
	if err := s.deckRepo.Insert(ctx, deck); err != nil {
		log.Error("failed to insert deck: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("deck created: id=%s, user_id=%s", deck.ID, userID)
	return &deck, nil
}

func (s *deckService) ListDecks(ctx context.Context, userID string) ([]models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing decks: user_id=%s", userID)

	decks, err := s.deckRepo.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return decks, nil
}

func (s *deckService) GetDeck(ctx context.Context, userID, deckID string) (*models.Deck, error) {
	return ownedDeck(ctx, s.deckRepo, userID, deckID)
}

func (s *deckService) DeleteDeck(ctx context.Context, userID, deckID string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting deck: user_id=%s, deck_id=%s", userID, deckID)

	if _, err := ownedDeck(ctx, s.deckRepo, userID, deckID); err != nil {
		return err
	}
	if err := s.deckRepo.Delete(ctx, deckID); err != nil {
		log.Error("failed to delete deck: %v", err)
		return errors.NewInternalError(err)
	}

	log.Info("deck deleted: id=%s", deckID)
	return nil
}

type cardService struct {
	deckRepo repository.DeckRepository
	cardRepo repository.CardRepository
	cal      srs.Calendar
}

// NewCardService creates a new CardService
func NewCardService(deckRepo repository.DeckRepository, cardRepo repository.CardRepository, cal srs.Calendar) CardService {
	return &cardService{deckRepo: deckRepo, cardRepo: cardRepo, cal: cal}
}

func (s *cardService) CreateCard(ctx context.Context, userID, deckID, front, back string) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating card: user_id=%s, deck_id=%s", userID, deckID)

	if strings.TrimSpace(front) == "" {
		return nil, errors.NewValidationError("front", "cannot be empty")
	}
	if strings.TrimSpace(back) == "" {
		return nil, errors.NewValidationError("back", "cannot be empty")
	}
	if _, err := ownedDeck(ctx, s.deckRepo, userID, deckID); err != nil {
		return nil, err
	}

	card := models.Card{
		ID:        uuid.NewString(),
		DeckID:    deckID,
		Front:     front,
		Back:      back,
		CreatedAt: s.cal.Now().UTC(),
	}
	if err := s.cardRepo.Insert(ctx, card); err != nil {
		log.Error("failed to insert card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &card, nil
}

func (s *cardService) ListCards(ctx context.Context, userID, deckID string) ([]models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing cards: user_id=%s, deck_id=%s", userID, deckID)

	if _, err := ownedDeck(ctx, s.deckRepo, userID, deckID); err != nil {
		return nil, err
	}
	cards, err := s.cardRepo.ListByDeck(ctx, deckID)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

// ownedDeck loads a deck and hides decks owned by other users behind NOT_FOUND.
func ownedDeck(ctx context.Context, deckRepo repository.DeckRepository, userID, deckID string) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	if deckID == "" {
		return nil, errors.NewValidationError("deckId", "cannot be empty")
	}
	deck, err := deckRepo.Get(ctx, deckID)
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if deck == nil || deck.UserID != userID {
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	return deck, nil
}
