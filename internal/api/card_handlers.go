package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meera/leitbox/internal/errors"
	"github.com/meera/leitbox/internal/logger"
	"github.com/meera/leitbox/internal/models"
)

// handleAddCards accepts either a single card object or {"cards": [...]}.
func (s *Server) handleAddCards(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("unreadable body"))
		return
	}

	var batch struct {
		Cards []models.CardFields `json:"cards"`
	}
	if err := json.Unmarshal(body, &batch); err != nil || batch.Cards == nil {
		var single models.CardFields
		if err := json.Unmarshal(body, &single); err != nil {
			handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
			return
		}
		batch.Cards = []models.CardFields{single}
	}
	if len(batch.Cards) == 0 {
		handleError(w, r, errors.NewBadRequestError("no cards provided"))
		return
	}
	for _, fields := range batch.Cards {
		if err := s.validateStruct(fields); err != nil {
			handleError(w, r, err)
			return
		}
	}

	cards, err := s.Decks.AddCards(r.Context(), deckID, batch.Cards)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Stats.TrackAddedCards(r.Context(), len(cards)); err != nil {
		logger.FromContext(r.Context()).Warn("failed to track added cards: %v", err)
	}
	writeJSON(w, r, http.StatusCreated, cards)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	var updates models.CardUpdate
	if err := decodeJSON(r, &updates); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Decks.UpdateCard(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "cardId"), updates)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := s.Decks.DeleteCard(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "cardId")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reviewRequest struct {
	Action models.ReviewAction `json:"action" validate:"required,oneof=know dontKnow"`
}

func (s *Server) handleReviewCard(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.validateStruct(req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Decks.ReviewCard(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "cardId"), req.Action)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}
