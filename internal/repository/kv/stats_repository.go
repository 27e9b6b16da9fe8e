package kv

import (
	"context"
	"encoding/json"

	"github.com/meera/leitbox/internal/logger"
	"github.com/meera/leitbox/internal/models"
	"github.com/meera/leitbox/internal/repository"
	"github.com/meera/leitbox/internal/storage"
)

type statsRepository struct {
	store storage.Store
}

// NewStatsRepository creates a StatsRepository persisting to the given store.
func NewStatsRepository(store storage.Store) repository.StatsRepository {
	return &statsRepository{store: store}
}

func (r *statsRepository) Load(ctx context.Context) (models.UserStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	raw, ok, err := r.store.Get(ctx, StatsKey)
	if err != nil {
		log.Error("failed to read stats: %v", err)
		return models.UserStats{}, err
	}
	if !ok {
		log.Debug("no persisted stats, starting with defaults")
		return models.DefaultStats(), nil
	}

	var stats models.UserStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		log.Warn("persisted stats are malformed, resetting to defaults: %v", err)
		return models.DefaultStats(), nil
	}

	// Older snapshots may predate some fields or badge entries.
	if stats.StudySessions == nil {
		stats.StudySessions = []models.StudySession{}
	}
	if stats.StudiedCardIDs == nil {
		stats.StudiedCardIDs = []string{}
	}
	for _, badge := range models.DefaultBadges() {
		if stats.FindBadge(badge.ID) == -1 {
			stats.Badges = append(stats.Badges, badge)
		}
	}
	return stats, nil
}

func (r *statsRepository) Save(ctx context.Context, stats models.UserStats) error {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	raw, err := json.Marshal(stats)
	if err != nil {
		log.Error("failed to serialize stats: %v", err)
		return err
	}

	if err := r.store.Set(ctx, StatsKey, string(raw)); err != nil {
		log.Error("failed to persist stats: %v", err)
		return err
	}
	log.Debug("persisted stats (%d sessions, %d chars)", len(stats.StudySessions), len(raw))
	return nil
}
