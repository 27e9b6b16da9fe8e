package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meera/leitbox/internal/logger"
	"github.com/meera/leitbox/internal/models"
)

type createDeckRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Decks.ListDecks(r.Context()))
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var req createDeckRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.validateStruct(req); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.Decks.CreateDeck(r.Context(), req.Name, req.Description)
	if err != nil {
		// On a quota rejection the deck still exists in memory; report the
		// error, the client decides whether to prompt for cleanup.
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, deck)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := s.Decks.GetDeck(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, deck)
}

func (s *Server) handleUpdateDeck(w http.ResponseWriter, r *http.Request) {
	var updates models.DeckUpdate
	if err := decodeJSON(r, &updates); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.Decks.UpdateDeck(r.Context(), chi.URLParam(r, "id"), updates)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, deck)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Decks.DeleteDeck(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("deck deleted: %s", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDueCards(w http.ResponseWriter, r *http.Request) {
	due := s.Decks.GetDueCards(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, r, http.StatusOK, due)
}

func (s *Server) handleDueCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]int{"dueCount": s.Decks.TotalDueCards(r.Context())})
}
