package repository

import (
	"context"

	"github.com/meera/leitbox/internal/models"
)

// DeckRepository persists the whole deck collection as one snapshot.
type DeckRepository interface {
	Load(ctx context.Context) ([]models.Deck, error)
	Save(ctx context.Context, decks []models.Deck) error
}

// StatsRepository persists the single user stats record.
type StatsRepository interface {
	Load(ctx context.Context) (models.UserStats, error)
	Save(ctx context.Context, stats models.UserStats) error
}

// ThemeRepository persists the presentation config under its own key.
// Load returns nil when no theme has been saved yet.
type ThemeRepository interface {
	Load(ctx context.Context) (*models.ThemeConfig, error)
	Save(ctx context.Context, theme models.ThemeConfig) error
}
