package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meera/leitbox/internal/errors"
	"github.com/meera/leitbox/internal/models"
	"github.com/meera/leitbox/internal/services"
	"github.com/meera/leitbox/internal/testutil/mocks"
)

func TestDeckServiceLoadFailure(t *testing.T) {
	repo := new(mocks.MockDeckRepository)
	repo.On("Load", mock.Anything).Return(nil, fmt.Errorf("disk on fire"))

	svc := services.NewDeckService(repo)
	err := svc.Load(context.Background())
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInternal, appErr.Code)
	repo.AssertExpectations(t)
}

func TestDeckServiceSaveFailureIsInternal(t *testing.T) {
	repo := new(mocks.MockDeckRepository)
	repo.On("Load", mock.Anything).Return([]models.Deck{}, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(fmt.Errorf("io error"))

	svc := services.NewDeckService(repo)
	require.NoError(t, svc.Load(context.Background()))

	deck, err := svc.CreateDeck(context.Background(), "x", "")
	require.Error(t, err)
	assert.False(t, errors.IsStorageFull(err), "plain io errors are not quota errors")
	require.NotNil(t, deck, "the in-memory deck is still returned")
	repo.AssertExpectations(t)
}

func TestStatsServiceSaveFailureIsInternal(t *testing.T) {
	repo := new(mocks.MockStatsRepository)
	repo.On("Load", mock.Anything).Return(models.DefaultStats(), nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(fmt.Errorf("io error"))

	svc := services.NewStatsService(repo, 12*time.Hour)
	require.NoError(t, svc.Load(context.Background()))

	err := svc.TrackAddedCards(context.Background(), 1)
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInternal, appErr.Code)
	assert.Equal(t, 1, svc.Stats(context.Background()).TotalCardsAdded,
		"the counter update is kept despite the failed save")
}

func TestThemeServiceDefaultsOnLoadFailure(t *testing.T) {
	repo := new(mocks.MockThemeRepository)
	repo.On("Load", mock.Anything).Return(nil, fmt.Errorf("io error"))

	svc := services.NewThemeService(repo)
	theme := svc.Theme(context.Background())
	assert.Equal(t, "light", theme.Mode)
}
