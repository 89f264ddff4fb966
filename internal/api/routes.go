package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	if s.RequestTimeout > 0 {
		r.Use(timeoutMiddleware(s.RequestTimeout))
	}
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errNotFoundRoute(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errMethodNotAllowed(r))
	})

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/coach", func(r chi.Router) {
		r.Use(userMiddleware)
		r.Post("/goal", s.handleCreateGoal)
		r.Get("/goals", s.handleListGoals)
		r.Post("/deck", s.handleCreateDeck)
		r.Get("/decks", s.handleListDecks)
		r.Get("/decks/{deckID}", s.handleGetDeck)
		r.Delete("/decks/{deckID}", s.handleDeleteDeck)
		r.Get("/decks/{deckID}/cards", s.handleListCards)
		r.Post("/card", s.handleCreateCard)
		r.Post("/review", s.handleSubmitReview)
		r.Get("/study", s.handleStudyQueue)
		r.Get("/stats", s.handleStats)
	})

	r.Post("/newSession", s.handleNewSession)
	r.Get("/history", s.handleHistory)
	r.Get("/conversation", s.handleConversation)
	r.Post("/renameChat", s.handleRenameChat)
	r.Post("/deleteChat", s.handleDeleteChat)
	r.Post("/messages", s.handleAppendMessage)
	return r
}
