package api

import (
	"encoding/json"
	"net/http"

	"github.com/meera/leitbox/internal/errors"
	"github.com/meera/leitbox/internal/logger"
)

// handleError centralizes error responses. Every error leaves as JSON with a
// stable code; unknown errors are wrapped as INTERNAL_ERROR.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr, ok := err.(*errors.AppError)
	if !ok {
		appErr = errors.NewInternalError(err)
	}

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else {
		log.Warn("client error: %v", appErr)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
