package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/meera/leitbox/internal/models"
)

// MockDeckRepository is a mock implementation of repository.DeckRepository
type MockDeckRepository struct {
	mock.Mock
}

func (m *MockDeckRepository) Load(ctx context.Context) ([]models.Deck, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Deck), args.Error(1)
}

func (m *MockDeckRepository) Save(ctx context.Context, decks []models.Deck) error {
	args := m.Called(ctx, decks)
	return args.Error(0)
}

// MockStatsRepository is a mock implementation of repository.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Load(ctx context.Context) (models.UserStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.UserStats), args.Error(1)
}

func (m *MockStatsRepository) Save(ctx context.Context, stats models.UserStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

// MockThemeRepository is a mock implementation of repository.ThemeRepository
type MockThemeRepository struct {
	mock.Mock
}

func (m *MockThemeRepository) Load(ctx context.Context) (*models.ThemeConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ThemeConfig), args.Error(1)
}

func (m *MockThemeRepository) Save(ctx context.Context, theme models.ThemeConfig) error {
	args := m.Called(ctx, theme)
	return args.Error(0)
}
