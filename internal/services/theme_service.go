package services

import (
	"context"

	"github.com/meera/leitbox/internal/errors"
	"github.com/meera/leitbox/internal/models"
	"github.com/meera/leitbox/internal/repository"
)

// ThemeService round-trips the presentation config. Reads go straight to
// storage so a wipe is immediately visible.
type ThemeService interface {
	Theme(ctx context.Context) models.ThemeConfig
	SetTheme(ctx context.Context, theme models.ThemeConfig) error
}

type themeService struct {
	repo repository.ThemeRepository
}

func NewThemeService(repo repository.ThemeRepository) ThemeService {
	return &themeService{repo: repo}
}

func (s *themeService) Theme(ctx context.Context) models.ThemeConfig {
	stored, err := s.repo.Load(ctx)
	if err != nil || stored == nil {
		return models.ThemeConfig{Mode: "light"}
	}
	return *stored
}

func (s *themeService) SetTheme(ctx context.Context, theme models.ThemeConfig) error {
	if theme.Mode != "" && theme.Mode != "light" && theme.Mode != "dark" {
		return errors.NewValidationError("mode", "must be light or dark")
	}
	if err := s.repo.Save(ctx, theme); err != nil {
		if isQuotaErr(err) {
			return errors.NewStorageFullError(err)
		}
		return errors.NewInternalError(err)
	}
	return nil
}
