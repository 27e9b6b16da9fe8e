package api

import (
	"net/http"

	"github.com/meera/leitbox/internal/models"
)

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Theme.Theme(r.Context()))
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var theme models.ThemeConfig
	if err := decodeJSON(r, &theme); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Theme.SetTheme(r.Context(), theme); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, theme)
}
