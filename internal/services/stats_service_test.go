package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meera/leitbox/internal/models"
	"github.com/meera/leitbox/internal/repository"
	"github.com/meera/leitbox/internal/repository/kv"
	"github.com/meera/leitbox/internal/services"
	"github.com/meera/leitbox/internal/storage"
)

func newStatsService(t *testing.T) (services.StatsService, repository.StatsRepository) {
	t.Helper()
	repo := kv.NewStatsRepository(storage.NewMemoryStore(0))
	svc := services.NewStatsService(repo, 12*time.Hour)
	require.NoError(t, svc.Load(context.Background()))
	return svc, repo
}

func seedStats(t *testing.T, repo repository.StatsRepository, svc services.StatsService, stats models.UserStats) {
	t.Helper()
	require.NoError(t, repo.Save(context.Background(), stats))
	require.NoError(t, svc.Load(context.Background()))
}

func TestStatsServiceSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newStatsService(t)

	id := svc.StartStudySession(ctx, "deck-1")
	require.NotEmpty(t, id)
	assert.Equal(t, 1, svc.ActiveSessions(ctx))

	_, err := svc.EndStudySession(ctx, id, 5, 4)
	require.NoError(t, err)
	assert.Zero(t, svc.ActiveSessions(ctx))

	stats := svc.Stats(ctx)
	require.Len(t, stats.StudySessions, 1)
	session := stats.StudySessions[0]
	assert.Equal(t, "deck-1", session.DeckID)
	assert.Equal(t, 5, session.CardsStudied)
	assert.Equal(t, 4, session.CardsCorrect)
	require.NotNil(t, session.EndTime)
	assert.Equal(t, 1, stats.Streak, "first session of the day advances the streak")
	require.NotNil(t, stats.LastStudyDate)
	assert.Equal(t, 4, stats.DailyScore)
}

func TestStatsServiceEndUnknownSessionIsNoop(t *testing.T) {
	ctx := context.Background()
	svc, _ := newStatsService(t)

	unlocked, err := svc.EndStudySession(ctx, "ghost", 10, 10)
	require.NoError(t, err)
	assert.Nil(t, unlocked)
	assert.Empty(t, svc.Stats(ctx).StudySessions)
	assert.Zero(t, svc.Stats(ctx).Streak)
}

func TestStatsServiceSameDaySessionsKeepStreak(t *testing.T) {
	ctx := context.Background()
	svc, _ := newStatsService(t)

	for i := 0; i < 3; i++ {
		id := svc.StartStudySession(ctx, "deck-1")
		_, err := svc.EndStudySession(ctx, id, 2, 1)
		require.NoError(t, err)
	}

	stats := svc.Stats(ctx)
	assert.Equal(t, 1, stats.Streak, "repeat sessions on the same day do not stack the streak")
	assert.Equal(t, 3, stats.DailyScore, "same-day scores accumulate")
	assert.Len(t, stats.StudySessions, 3)
}

func TestStatsServiceStreakAdvancesOnNewDay(t *testing.T) {
	ctx := context.Background()
	svc, repo := newStatsService(t)

	yesterday := time.Now().AddDate(0, 0, -1)
	seeded := models.DefaultStats()
	seeded.Streak = 4
	seeded.LastStudyDate = &yesterday
	seedStats(t, repo, svc, seeded)

	id := svc.StartStudySession(ctx, "deck-1")
	_, err := svc.EndStudySession(ctx, id, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, 5, svc.Stats(ctx).Streak)
}

func TestStatsServiceHousekeepingBreaksStaleStreak(t *testing.T) {
	ctx := context.Background()
	svc, repo := newStatsService(t)

	threeDaysAgo := time.Now().AddDate(0, 0, -3)
	seeded := models.DefaultStats()
	seeded.Streak = 9
	seeded.LastStudyDate = &threeDaysAgo
	seedStats(t, repo, svc, seeded)

	require.NoError(t, svc.RunHousekeeping(ctx, time.Now()))
	assert.Zero(t, svc.Stats(ctx).Streak)

	// A one-day gap is still within the streak window.
	yesterday := time.Now().AddDate(0, 0, -1)
	seeded.Streak = 9
	seeded.LastStudyDate = &yesterday
	seedStats(t, repo, svc, seeded)

	require.NoError(t, svc.RunHousekeeping(ctx, time.Now()))
	assert.Equal(t, 9, svc.Stats(ctx).Streak)
}

func TestStatsServiceHousekeepingResetsDailyScore(t *testing.T) {
	ctx := context.Background()
	svc, repo := newStatsService(t)

	seeded := models.DefaultStats()
	seeded.DailyScore = 42
	seeded.LastScoreDate = time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	seedStats(t, repo, svc, seeded)

	require.NoError(t, svc.RunHousekeeping(ctx, time.Now()))
	stats := svc.Stats(ctx)
	assert.Zero(t, stats.DailyScore)
	assert.Equal(t, time.Now().Format("2006-01-02"), stats.LastScoreDate)
}

func TestStatsServiceHousekeepingClosesAbandonedSessions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newStatsService(t)

	id := svc.StartStudySession(ctx, "deck-1")
	require.NoError(t, svc.RecordReview(ctx, id, models.ActionKnow))
	require.NoError(t, svc.RecordReview(ctx, id, models.ActionDontKnow))

	// Still fresh: the hourly pass leaves it alone.
	require.NoError(t, svc.RunHousekeeping(ctx, time.Now()))
	assert.Equal(t, 1, svc.ActiveSessions(ctx))

	// Past the max age it gets force-closed with its partial counts.
	require.NoError(t, svc.RunHousekeeping(ctx, time.Now().Add(13*time.Hour)))
	assert.Zero(t, svc.ActiveSessions(ctx))

	stats := svc.Stats(ctx)
	require.Len(t, stats.StudySessions, 1)
	assert.Equal(t, 2, stats.StudySessions[0].CardsStudied)
	assert.Equal(t, 1, stats.StudySessions[0].CardsCorrect)
}

func TestStatsServiceRecordReviewScoresKnows(t *testing.T) {
	ctx := context.Background()
	svc, _ := newStatsService(t)

	id := svc.StartStudySession(ctx, "deck-1")
	require.NoError(t, svc.RecordReview(ctx, id, models.ActionKnow))
	require.NoError(t, svc.RecordReview(ctx, id, models.ActionKnow))
	require.NoError(t, svc.RecordReview(ctx, id, models.ActionDontKnow))

	assert.Equal(t, 2, svc.Stats(ctx).DailyScore, "only correct answers score")
}

func TestStatsServiceIncrementCardStudiedCountsOnce(t *testing.T) {
	ctx := context.Background()
	svc, _ := newStatsService(t)

	require.NoError(t, svc.IncrementCardStudied(ctx, "card-1", true))
	require.NoError(t, svc.IncrementCardStudied(ctx, "card-1", true))
	require.NoError(t, svc.IncrementCardStudied(ctx, "card-2", false))

	stats := svc.Stats(ctx)
	assert.Equal(t, 2, stats.TotalCardsStudied, "a card is counted the first time only")
	assert.Equal(t, 2, stats.TotalCorrect, "correct answers keep counting on repeats")
	assert.ElementsMatch(t, []string{"card-1", "card-2"}, stats.StudiedCardIDs)
}

func TestStatsServiceBadgeUnlocks(t *testing.T) {
	ctx := context.Background()
	svc, _ := newStatsService(t)

	require.NoError(t, svc.IncrementCardStudied(ctx, "card-1", true))
	unlocked, err := svc.CheckForBadges(ctx)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "first-review", unlocked[0].ID)
	require.NotNil(t, unlocked[0].UnlockedAt)

	// Monotonic: a second check reports nothing new.
	unlocked, err = svc.CheckForBadges(ctx)
	require.NoError(t, err)
	assert.Empty(t, unlocked)

	idx := svc.Stats(ctx).FindBadge("first-review")
	require.NotEqual(t, -1, idx)
	assert.True(t, svc.Stats(ctx).Badges[idx].Unlocked)
}

func TestStatsServiceStreakBadgeAtSessionEnd(t *testing.T) {
	ctx := context.Background()
	svc, repo := newStatsService(t)

	yesterday := time.Now().AddDate(0, 0, -1)
	seeded := models.DefaultStats()
	seeded.Streak = 2
	seeded.LastStudyDate = &yesterday
	seedStats(t, repo, svc, seeded)

	id := svc.StartStudySession(ctx, "deck-1")
	unlocked, err := svc.EndStudySession(ctx, id, 1, 1)
	require.NoError(t, err)

	ids := make([]string, len(unlocked))
	for i, b := range unlocked {
		ids[i] = b.ID
	}
	assert.Contains(t, ids, "study-streak-3")
}

func TestStatsServiceAccuracyBadgeNeedsVolume(t *testing.T) {
	ctx := context.Background()
	svc, repo := newStatsService(t)

	seeded := models.DefaultStats()
	seeded.TotalCardsStudied = 49
	seeded.TotalCorrect = 49
	seedStats(t, repo, svc, seeded)

	unlocked, err := svc.CheckForBadges(ctx)
	require.NoError(t, err)
	for _, b := range unlocked {
		assert.NotEqual(t, "accuracy-80", b.ID, "accuracy badge needs 50+ studied cards")
	}

	seeded.TotalCardsStudied = 50
	seeded.TotalCorrect = 41
	seedStats(t, repo, svc, seeded)

	unlocked, err = svc.CheckForBadges(ctx)
	require.NoError(t, err)
	ids := make([]string, len(unlocked))
	for i, b := range unlocked {
		ids[i] = b.ID
	}
	assert.Contains(t, ids, "accuracy-80")
}

func TestStatsServiceTrackAddedCards(t *testing.T) {
	ctx := context.Background()
	svc, _ := newStatsService(t)

	require.NoError(t, svc.TrackAddedCards(ctx, 3))
	require.NoError(t, svc.TrackAddedCards(ctx, 2))
	assert.Equal(t, 5, svc.Stats(ctx).TotalCardsAdded)
}

func TestStatsServicePersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	svc, repo := newStatsService(t)

	id := svc.StartStudySession(ctx, "deck-1")
	_, err := svc.EndStudySession(ctx, id, 3, 2)
	require.NoError(t, err)

	reloaded := services.NewStatsService(repo, 12*time.Hour)
	require.NoError(t, reloaded.Load(ctx))
	stats := reloaded.Stats(ctx)
	assert.Equal(t, 1, stats.Streak)
	assert.Len(t, stats.StudySessions, 1)
	assert.Equal(t, 2, stats.DailyScore)
}
