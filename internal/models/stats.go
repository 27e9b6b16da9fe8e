package models

import "time"

type StudySession struct {
	DeckID       string     `json:"deckId"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	CardsStudied int        `json:"cardsStudied"`
	CardsCorrect int        `json:"cardsCorrect"`
}

type Badge struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

// UserStats is the single durable stats record. LastScoreDate is a
// YYYY-MM-DD date-string key used for the daily reset, not a timestamp.
type UserStats struct {
	Streak            int            `json:"streak"`
	LastStudyDate     *time.Time     `json:"lastStudyDate,omitempty"`
	TotalCardsStudied int            `json:"totalCardsStudied"`
	TotalCorrect      int            `json:"totalCorrect"`
	StudySessions     []StudySession `json:"studySessions"`
	DailyScore        int            `json:"dailyScore"`
	LastScoreDate     string         `json:"lastScoreDate"`
	StudiedCardIDs    []string       `json:"studiedCardIds"`
	Badges            []Badge        `json:"badges"`
	TotalCardsAdded   int            `json:"totalCardsAdded"`
}

// Accuracy returns the overall correct ratio in [0,1], or 0 before any study.
func (s UserStats) Accuracy() float64 {
	if s.TotalCardsStudied == 0 {
		return 0
	}
	return float64(s.TotalCorrect) / float64(s.TotalCardsStudied)
}

// HasStudied reports whether the card id has already been counted.
func (s UserStats) HasStudied(cardID string) bool {
	for _, id := range s.StudiedCardIDs {
		if id == cardID {
			return true
		}
	}
	return false
}

// FindBadge returns the index of the badge with the given id, or -1.
func (s UserStats) FindBadge(badgeID string) int {
	for i := range s.Badges {
		if s.Badges[i].ID == badgeID {
			return i
		}
	}
	return -1
}

// DefaultBadges returns the fixed badge catalog in its locked state.
func DefaultBadges() []Badge {
	return []Badge{
		{ID: "first-review", Name: "First Step", Description: "Review your first flashcard", Icon: "🎯"},
		{ID: "first-deck", Name: "Collector", Description: "Create your first deck", Icon: "📚"},
		{ID: "study-streak-3", Name: "Consistent", Description: "Study 3 days in a row", Icon: "🔥"},
		{ID: "study-streak-7", Name: "Dedicated", Description: "Study 7 days in a row", Icon: "🔥🔥"},
		{ID: "study-streak-30", Name: "Unstoppable", Description: "Study 30 days in a row", Icon: "🔥🔥🔥"},
		{ID: "cards-100", Name: "Scholar", Description: "Study 100 cards total", Icon: "🧠"},
		{ID: "accuracy-80", Name: "Expert", Description: "Achieve 80% accuracy on 50+ cards", Icon: "🏆"},
	}
}

// DefaultStats returns zeroed stats with the badge catalog installed.
func DefaultStats() UserStats {
	return UserStats{
		StudySessions:  []StudySession{},
		StudiedCardIDs: []string{},
		Badges:         DefaultBadges(),
	}
}
