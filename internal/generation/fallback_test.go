package generation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meera/leitbox/internal/generation"
	"github.com/meera/leitbox/internal/models"
	"github.com/meera/leitbox/internal/testutil/mocks"
)

func TestWithFallback_PrimarySucceeds(t *testing.T) {
	params := models.GenerationParams{Topic: "rivers", Count: 1}
	want := []models.GeneratedCard{{Question: "q", Answer: "a"}}

	primary := new(mocks.MockGenerator)
	primary.On("GenerateCards", mock.Anything, params).Return(want, nil)
	fallback := new(mocks.MockGenerator)

	gen := generation.WithFallback(primary, fallback)
	cards, err := gen.GenerateCards(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, want, cards)
	fallback.AssertNotCalled(t, "GenerateCards", mock.Anything, mock.Anything)
}

func TestWithFallback_PrimaryFailureUsesFallback(t *testing.T) {
	params := models.GenerationParams{Topic: "rivers", Count: 2}

	primary := new(mocks.MockGenerator)
	primary.On("GenerateCards", mock.Anything, params).
		Return(nil, generation.ErrTransientFailure)

	gen := generation.WithFallback(primary, generation.NewMockGenerator())
	cards, err := gen.GenerateCards(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, cards, 2)
}

func TestWithFallback_CanceledContextDoesNotFallBack(t *testing.T) {
	params := models.GenerationParams{Topic: "rivers", Count: 1}

	primary := new(mocks.MockGenerator)
	primary.On("GenerateCards", mock.Anything, params).
		Return(nil, context.Canceled)
	fallback := new(mocks.MockGenerator)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := generation.WithFallback(primary, fallback)
	_, err := gen.GenerateCards(ctx, params)
	require.Error(t, err)
	fallback.AssertNotCalled(t, "GenerateCards", mock.Anything, mock.Anything)
}
