package api

import (
	"context"
	"time"

	"github.com/vytor/studycoach/internal/services"
	"github.com/vytor/studycoach/internal/srs"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	GoalService         services.GoalService
	DeckService         services.DeckService
	CardService         services.CardService
	ReviewService       services.ReviewService
	ConversationService services.ConversationService
	Calendar            srs.Calendar
	DB                  Pinger
	RequestTimeout      time.Duration
}
