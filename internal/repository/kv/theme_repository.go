package kv

import (
	"context"
	"encoding/json"

	"github.com/meera/leitbox/internal/logger"
	"github.com/meera/leitbox/internal/models"
	"github.com/meera/leitbox/internal/repository"
	"github.com/meera/leitbox/internal/storage"
)

type themeRepository struct {
	store storage.Store
}

// NewThemeRepository creates a ThemeRepository persisting to the given store.
func NewThemeRepository(store storage.Store) repository.ThemeRepository {
	return &themeRepository{store: store}
}

func (r *themeRepository) Load(ctx context.Context) (*models.ThemeConfig, error) {
	log := logger.FromContext(ctx).WithPrefix("theme_repo")

	raw, ok, err := r.store.Get(ctx, ThemeKey)
	if err != nil {
		log.Error("failed to read theme: %v", err)
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var theme models.ThemeConfig
	if err := json.Unmarshal([]byte(raw), &theme); err != nil {
		log.Warn("persisted theme is malformed, discarding: %v", err)
		return nil, nil
	}
	return &theme, nil
}

func (r *themeRepository) Save(ctx context.Context, theme models.ThemeConfig) error {
	raw, err := json.Marshal(theme)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, ThemeKey, string(raw))
}
