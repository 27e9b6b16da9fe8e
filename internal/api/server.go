package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/meera/leitbox/internal/errors"
	"github.com/meera/leitbox/internal/generation"
	"github.com/meera/leitbox/internal/logger"
	"github.com/meera/leitbox/internal/services"
)

type Server struct {
	Decks     services.DeckService
	Stats     services.StatsService
	Guardian  services.GuardianService
	Theme     services.ThemeService
	Generator generation.Generator

	validate *validator.Validate
}

func NewServer(decks services.DeckService, stats services.StatsService, guardian services.GuardianService, theme services.ThemeService, generator generation.Generator) *Server {
	return &Server{
		Decks:     decks,
		Stats:     stats,
		Guardian:  guardian,
		Theme:     theme,
		Generator: generator,
		validate:  validator.New(),
	}
}

// writeJSON encodes v with the given status. Encoding failures are logged,
// not surfaced; headers are already gone by then.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// decodeJSON decodes the request body into v, mapping malformed payloads to
// BAD_REQUEST.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.NewBadRequestError("invalid JSON body")
	}
	return nil
}

// validateStruct runs the DTO validation tags, mapping failures to a
// VALIDATION_ERROR on the first offending field.
func (s *Server) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	if fields, ok := err.(validator.ValidationErrors); ok && len(fields) > 0 {
		return errors.NewValidationError(fields[0].Field(), "failed on "+fields[0].Tag())
	}
	return errors.NewBadRequestError("invalid request")
}
