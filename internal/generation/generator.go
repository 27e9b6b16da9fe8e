// Package generation produces flashcards from a topic description, either
// through the Gemini API or a deterministic offline fallback.
package generation

import (
	"context"
	"errors"

	"github.com/meera/leitbox/internal/models"
)

var (
	// ErrInvalidConfig means the generator cannot be constructed as configured.
	ErrInvalidConfig = errors.New("generation: invalid configuration")
	// ErrInvalidResponse means the model answered with something unusable.
	ErrInvalidResponse = errors.New("generation: invalid model response")
	// ErrContentBlocked means safety filters rejected the prompt or answer.
	ErrContentBlocked = errors.New("generation: content blocked")
	// ErrTransientFailure means the call failed in a retryable way and all
	// retries were exhausted.
	ErrTransientFailure = errors.New("generation: transient failure")
)

// Generator turns generation parameters into ready-to-add cards.
type Generator interface {
	GenerateCards(ctx context.Context, params models.GenerationParams) ([]models.GeneratedCard, error)
}
