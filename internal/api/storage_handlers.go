package api

import (
	"net/http"

	"github.com/meera/leitbox/internal/logger"
)

type storageUsageResponse struct {
	TotalKB        float64             `json:"totalKb"`
	QuotaKB        int                 `json:"quotaKb"`
	WarnKB         int                 `json:"warnKb"`
	NearCapacity   bool                `json:"nearCapacity"`
	WarningPending bool                `json:"warningPending"`
	Entries        []storageEntryJSON  `json:"entries"`
	OldestDecks    []oldestDeckSummary `json:"oldestDecks"`
}

type storageEntryJSON struct {
	Key string  `json:"key"`
	KB  float64 `json:"kb"`
}

type oldestDeckSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Cards     int    `json:"cards"`
	UpdatedAt string `json:"updatedAt"`
}

func (s *Server) handleStorageUsage(w http.ResponseWriter, r *http.Request) {
	usage, err := s.Guardian.Snapshot(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := storageUsageResponse{
		TotalKB:        usage.TotalKB,
		QuotaKB:        usage.QuotaKB,
		WarnKB:         usage.WarnKB,
		NearCapacity:   usage.NearCapacity,
		WarningPending: s.Guardian.WarningPending(r.Context()),
		Entries:        make([]storageEntryJSON, 0, len(usage.Entries)),
	}
	for _, e := range usage.Entries {
		resp.Entries = append(resp.Entries, storageEntryJSON{Key: e.Key, KB: e.KB})
	}
	for _, deck := range s.Guardian.OldestDecks(r.Context(), 3) {
		resp.OldestDecks = append(resp.OldestDecks, oldestDeckSummary{
			ID:        deck.ID,
			Name:      deck.Name,
			Cards:     len(deck.Cards),
			UpdatedAt: deck.UpdatedAt.Format("2006-01-02"),
		})
	}
	writeJSON(w, r, http.StatusOK, resp)
}

type evictRequest struct {
	Count int `json:"count" validate:"required,min=1,max=50"`
}

func (s *Server) handleStorageEvict(w http.ResponseWriter, r *http.Request) {
	var req evictRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.validateStruct(req); err != nil {
		handleError(w, r, err)
		return
	}

	evicted, err := s.Guardian.EvictOldestDecks(r.Context(), req.Count)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if evicted == nil {
		evicted = []string{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"evicted": evicted})
}

func (s *Server) handleStorageWipe(w http.ResponseWriter, r *http.Request) {
	if err := s.Guardian.WipeAll(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}

	// Reload the services so their caches match the now-empty store.
	if err := s.Decks.Load(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Stats.Load(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Warn("storage wiped on request")
	w.WriteHeader(http.StatusNoContent)
}
