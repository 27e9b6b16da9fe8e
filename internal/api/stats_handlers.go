package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meera/leitbox/internal/logger"
	"github.com/meera/leitbox/internal/models"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Stats.Stats(r.Context()))
}

type startSessionRequest struct {
	DeckID string `json:"deckId" validate:"required"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.validateStruct(req); err != nil {
		handleError(w, r, err)
		return
	}

	id := s.Stats.StartStudySession(r.Context(), req.DeckID)
	writeJSON(w, r, http.StatusCreated, map[string]string{"sessionId": id})
}

type sessionReviewRequest struct {
	CardID  string              `json:"cardId" validate:"required"`
	Action  models.ReviewAction `json:"action" validate:"required,oneof=know dontKnow"`
	Correct bool                `json:"correct"`
}

// handleSessionReview records the stats side of one review: daily score,
// session counters, and the first-time card accounting.
func (s *Server) handleSessionReview(w http.ResponseWriter, r *http.Request) {
	var req sessionReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.validateStruct(req); err != nil {
		handleError(w, r, err)
		return
	}

	sessionID := chi.URLParam(r, "id")
	if err := s.Stats.RecordReview(r.Context(), sessionID, req.Action); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Stats.IncrementCardStudied(r.Context(), req.CardID, req.Correct); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s.Stats.Stats(r.Context()))
}

type endSessionRequest struct {
	CardsStudied int `json:"cardsStudied" validate:"min=0"`
	CardsCorrect int `json:"cardsCorrect" validate:"min=0"`
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	var req endSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.validateStruct(req); err != nil {
		handleError(w, r, err)
		return
	}

	sessionID := chi.URLParam(r, "id")
	badges, err := s.Stats.EndStudySession(r.Context(), sessionID, req.CardsStudied, req.CardsCorrect)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if len(badges) > 0 {
		logger.FromContext(r.Context()).Info("session %s unlocked %d badges", sessionID, len(badges))
	}

	if badges == nil {
		badges = []models.Badge{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"newBadges": badges})
}
