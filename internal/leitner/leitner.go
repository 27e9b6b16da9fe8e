package leitner

import (
	"time"

	"github.com/meera/leitbox/internal/models"
)

// Box levels run 1-10. intervalDays is indexed by level and clamped to its
// length, so level 1 comes back in a day and level 10 in a year. New cards
// are due immediately because they are created with nextReview = now.
var intervalDays = [...]int{0, 1, 2, 4, 7, 14, 30, 60, 120, 180, 365}

const (
	MinLevel = 1
	MaxLevel = 10
)

// NextLevel maps the current level and a review outcome to the new level,
// saturating at the box bounds. Out-of-range input is clamped, not rejected.
func NextLevel(level int, action models.ReviewAction) int {
	if action == models.ActionKnow {
		level++
	} else {
		level--
	}
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// NextReviewAt returns now plus the interval for the given level.
func NextReviewAt(level int, now time.Time) time.Time {
	idx := level
	if idx < 0 {
		idx = 0
	}
	if idx >= len(intervalDays) {
		idx = len(intervalDays) - 1
	}
	return now.AddDate(0, 0, intervalDays[idx])
}

// ApplyReview returns the card with its scheduling state advanced for the
// given outcome. This is the only code that writes level and nextReview.
func ApplyReview(card models.Card, action models.ReviewAction, now time.Time) models.Card {
	level := NextLevel(card.Level, action)
	reviewed := now
	card.Level = level
	card.LastReviewed = &reviewed
	card.NextReview = NextReviewAt(level, now)
	return card
}

// IsDue reports whether the card is due at the given instant. The boundary is
// inclusive, and a zero nextReview counts as due.
func IsDue(card models.Card, now time.Time) bool {
	if card.NextReview.IsZero() {
		return true
	}
	return !card.NextReview.After(now)
}

// Interval exposes the schedule table entry for a level, clamped like
// NextReviewAt. Used by stats displays and tests.
func Interval(level int) int {
	if level < 0 {
		level = 0
	}
	if level >= len(intervalDays) {
		level = len(intervalDays) - 1
	}
	return intervalDays[level]
}
