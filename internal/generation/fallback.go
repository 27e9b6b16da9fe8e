package generation

import (
	"context"

	"github.com/meera/leitbox/internal/logger"
	"github.com/meera/leitbox/internal/models"
)

// FallbackGenerator tries a primary generator and, when it fails, serves
// cards from a secondary one. Generation then degrades instead of failing
// when the model API is unreachable or returns garbage.
type FallbackGenerator struct {
	primary  Generator
	fallback Generator
}

func WithFallback(primary, fallback Generator) *FallbackGenerator {
	return &FallbackGenerator{primary: primary, fallback: fallback}
}

func (g *FallbackGenerator) GenerateCards(ctx context.Context, params models.GenerationParams) ([]models.GeneratedCard, error) {
	cards, err := g.primary.GenerateCards(ctx, params)
	if err == nil {
		return cards, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	logger.FromContext(ctx).Warn("primary generator failed, using fallback: %v", err)
	return g.fallback.GenerateCards(ctx, params)
}
