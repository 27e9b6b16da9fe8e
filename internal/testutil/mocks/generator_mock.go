package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/meera/leitbox/internal/models"
)

// MockGenerator is a mock implementation of generation.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateCards(ctx context.Context, params models.GenerationParams) ([]models.GeneratedCard, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GeneratedCard), args.Error(1)
}
