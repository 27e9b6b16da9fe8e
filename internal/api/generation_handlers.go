package api

import (
	"net/http"

	"github.com/meera/leitbox/internal/logger"
	"github.com/meera/leitbox/internal/models"
)

type generateRequest struct {
	models.GenerationParams
	DeckID string `json:"deckId"`
}

// handleGenerate produces cards for a topic. When deckId is set the cards are
// also added to that deck; otherwise they are returned for the client to
// place.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.validateStruct(req.GenerationParams); err != nil {
		handleError(w, r, err)
		return
	}

	log := logger.FromContext(r.Context())
	log.Info("generating %d cards for topic %q", req.Count, req.Topic)

	generated, err := s.Generator.GenerateCards(r.Context(), req.GenerationParams)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var added []models.Card
	if req.DeckID != "" {
		fields := make([]models.CardFields, len(generated))
		for i, g := range generated {
			fields[i] = g.Fields()
		}
		added, err = s.Decks.AddCards(r.Context(), req.DeckID, fields)
		if err != nil {
			handleError(w, r, err)
			return
		}
		if err := s.Stats.TrackAddedCards(r.Context(), len(added)); err != nil {
			log.Warn("failed to track generated cards: %v", err)
		}
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"cards": generated,
		"added": added,
	})
}
