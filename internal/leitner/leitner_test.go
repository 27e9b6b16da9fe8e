package leitner_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meera/leitbox/internal/leitner"
	"github.com/meera/leitbox/internal/models"
)

func TestNextLevel_Know(t *testing.T) {
	for level := 1; level <= 10; level++ {
		got := leitner.NextLevel(level, models.ActionKnow)
		want := level + 1
		if want > 10 {
			want = 10
		}
		assert.Equal(t, want, got, "level %d + know", level)
	}
}

func TestNextLevel_DontKnow(t *testing.T) {
	for level := 1; level <= 10; level++ {
		got := leitner.NextLevel(level, models.ActionDontKnow)
		want := level - 1
		if want < 1 {
			want = 1
		}
		assert.Equal(t, want, got, "level %d + dontKnow", level)
	}
}

func TestNextLevel_ClampsOutOfRangeInput(t *testing.T) {
	assert.Equal(t, 1, leitner.NextLevel(0, models.ActionDontKnow))
	assert.Equal(t, 1, leitner.NextLevel(-5, models.ActionDontKnow))
	assert.Equal(t, 10, leitner.NextLevel(42, models.ActionKnow))
}

func TestNextReviewAt_FollowsIntervalTable(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	intervals := []int{0, 1, 2, 4, 7, 14, 30, 60, 120, 180, 365}

	for level := 1; level <= 10; level++ {
		next := leitner.NextReviewAt(level, now)
		assert.Equal(t, now.AddDate(0, 0, intervals[level]), next, "level %d", level)
	}

	// Levels past the table clamp to the last entry.
	assert.Equal(t, now.AddDate(0, 0, 365), leitner.NextReviewAt(99, now))
}

func TestApplyReview_Know(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	card := models.Card{ID: "c1", Level: 1, NextReview: now}

	updated := leitner.ApplyReview(card, models.ActionKnow, now)

	assert.Equal(t, 2, updated.Level)
	require.NotNil(t, updated.LastReviewed)
	assert.Equal(t, now, *updated.LastReviewed)
	assert.Equal(t, now.AddDate(0, 0, 2), updated.NextReview, "level 2 schedules 2 days out")
}

func TestApplyReview_DontKnowFromFloor(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	card := models.Card{ID: "c1", Level: 1, NextReview: now}

	updated := leitner.ApplyReview(card, models.ActionDontKnow, now)

	assert.Equal(t, 1, updated.Level, "level must not drop below 1")
	assert.Equal(t, now.AddDate(0, 0, 1), updated.NextReview, "level 1 comes back the next day")
}

func TestApplyReview_KnowAtCeiling(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	card := models.Card{ID: "c1", Level: 10, NextReview: now}

	updated := leitner.ApplyReview(card, models.ActionKnow, now)

	assert.Equal(t, 10, updated.Level, "level must not exceed 10")
	assert.Equal(t, now.AddDate(0, 0, 365), updated.NextReview)
}

func TestApplyReview_DoesNotTouchContent(t *testing.T) {
	now := time.Now()
	card := models.Card{
		ID:       "c1",
		Question: "q",
		Answer:   "a",
		Hint:     "h",
		Tags:     []string{"t"},
		Level:    3,
	}

	updated := leitner.ApplyReview(card, models.ActionKnow, now)

	assert.Equal(t, card.Question, updated.Question)
	assert.Equal(t, card.Answer, updated.Answer)
	assert.Equal(t, card.Hint, updated.Hint)
	assert.Equal(t, card.Tags, updated.Tags)
}

func TestIsDue(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		card models.Card
		want bool
	}{
		{"zero next review is due", models.Card{}, true},
		{"exactly now is due", models.Card{NextReview: now}, true},
		{"past is due", models.Card{NextReview: now.Add(-time.Minute)}, true},
		{"future is not due", models.Card{NextReview: now.Add(time.Minute)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, leitner.IsDue(tt.card, now))
		})
	}
}

func TestIsDue_Idempotent(t *testing.T) {
	now := time.Now()
	card := models.Card{NextReview: now.Add(-time.Hour)}

	first := leitner.IsDue(card, now)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, leitner.IsDue(card, now))
	}
}
