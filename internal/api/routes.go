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

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/decks", s.handleListDecks)
		r.Post("/decks", s.handleCreateDeck)
		r.Get("/decks/{id}", s.handleGetDeck)
		r.Patch("/decks/{id}", s.handleUpdateDeck)
		r.Delete("/decks/{id}", s.handleDeleteDeck)

		r.Post("/decks/{id}/cards", s.handleAddCards)
		r.Patch("/decks/{id}/cards/{cardId}", s.handleUpdateCard)
		r.Delete("/decks/{id}/cards/{cardId}", s.handleDeleteCard)
		r.Post("/decks/{id}/cards/{cardId}/review", s.handleReviewCard)
		r.Get("/decks/{id}/due", s.handleDueCards)
		r.Get("/due-count", s.handleDueCount)

		r.Get("/stats", s.handleStats)
		r.Post("/sessions", s.handleStartSession)
		r.Post("/sessions/{id}/reviews", s.handleSessionReview)
		r.Post("/sessions/{id}/end", s.handleEndSession)

		r.Get("/storage", s.handleStorageUsage)
		r.Post("/storage/evict", s.handleStorageEvict)
		r.Post("/storage/wipe", s.handleStorageWipe)

		r.Post("/generate", s.handleGenerate)

		r.Get("/theme", s.handleGetTheme)
		r.Put("/theme", s.handleSetTheme)
	})

	return r
}

// handleHealth is the liveness probe; the process answering is the signal.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
