package models

import "time"

type Deck struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Cards       []Card    `json:"cards"`
	Color       string    `json:"color"`
	Emoji       string    `json:"emoji,omitempty"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DeckUpdate carries the editable deck fields for partial updates.
type DeckUpdate struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Color       *string   `json:"color,omitempty"`
	Emoji       *string   `json:"emoji,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// FindCard returns the index of the card with the given id, or -1.
func (d *Deck) FindCard(cardID string) int {
	for i := range d.Cards {
		if d.Cards[i].ID == cardID {
			return i
		}
	}
	return -1
}
