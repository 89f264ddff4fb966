package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/studycoach/internal/models"
)

type createGoalRequest struct {
	Title       string      `json:"title" validate:"required,max=200"`
	Description string      `json:"description" validate:"max=2000"`
	TargetDate  models.Date `json:"targetDate"`
}

type createDeckRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type createCardRequest struct {
	DeckID string `json:"deckId" validate:"required"`
	Front  string `json:"front" validate:"required,max=4000"`
	Back   string `json:"back" validate:"required,max=4000"`
}

// Rating is a pointer so that a rating of 0 is distinguishable from a
// missing field. Its range is checked by the review service.
type submitReviewRequest struct {
	CardID string `json:"cardId" validate:"required"`
	Rating *int   `json:"rating" validate:"required"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	goal, err := s.GoalService.CreateGoal(r.Context(), userFromContext(r.Context()), req.Title, req.Description, req.TargetDate)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"goal": goal})
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.GoalService.ListGoals(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"goals": goals})
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var req createDeckRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	deck, err := s.DeckService.CreateDeck(r.Context(), userFromContext(r.Context()), req.Title, req.Description)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"deck": deck})
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.DeckService.ListDecks(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"decks": decks})
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := s.DeckService.GetDeck(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "deckID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deck": deck})
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := s.DeckService.DeleteDeck(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "deckID")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.CardService.ListCards(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "deckID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cards": cards})
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	card, err := s.CardService.CreateCard(r.Context(), userFromContext(r.Context()), req.DeckID, req.Front, req.Back)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"card": card})
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req submitReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	review, err := s.ReviewService.SubmitReview(r.Context(), userFromContext(r.Context()), req.CardID, *req.Rating)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"review": review})
}

func (s *Server) handleStudyQueue(w http.ResponseWriter, r *http.Request) {
	deckID, err := requiredQuery(r, "deckId")
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(w, r, err)
		return
	}
	due, err := s.ReviewService.GetStudyQueue(r.Context(), userFromContext(r.Context()), deckID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"due":   due,
		"today": s.Calendar.Today(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	deckID, err := requiredQuery(r, "deckId")
	if err != nil {
		handleError(w, r, err)
		return
	}
	stats, err := s.ReviewService.GetStats(r.Context(), userFromContext(r.Context()), deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}
