package models

import "time"

// ReviewAction is the outcome of a single card review.
type ReviewAction string

const (
	ActionKnow     ReviewAction = "know"
	ActionDontKnow ReviewAction = "dontKnow"
)

// Valid reports whether the action is one of the two review outcomes.
func (a ReviewAction) Valid() bool {
	return a == ActionKnow || a == ActionDontKnow
}

type Card struct {
	ID           string     `json:"id"`
	Question     string     `json:"question"`
	Answer       string     `json:"answer"`
	Hint         string     `json:"hint,omitempty"`
	Options      []string   `json:"options,omitempty"`
	Level        int        `json:"level"` // 1-10, Leitner box
	NextReview   time.Time  `json:"nextReview"`
	LastReviewed *time.Time `json:"lastReviewed,omitempty"`
	Tags         []string   `json:"tags"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// CardUpdate carries the editable card fields. Scheduling state (level,
// nextReview) is deliberately absent: reviews go through DeckService.ReviewCard.
type CardUpdate struct {
	Question *string   `json:"question,omitempty"`
	Answer   *string   `json:"answer,omitempty"`
	Hint     *string   `json:"hint,omitempty"`
	Options  *[]string `json:"options,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
}

// CardFields is the caller-supplied portion of a new card.
type CardFields struct {
	Question string   `json:"question" validate:"required"`
	Answer   string   `json:"answer" validate:"required"`
	Hint     string   `json:"hint,omitempty"`
	Options  []string `json:"options,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}
