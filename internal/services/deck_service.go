package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meera/leitbox/internal/errors"
	"github.com/meera/leitbox/internal/leitner"
	"github.com/meera/leitbox/internal/logger"
	"github.com/meera/leitbox/internal/models"
	"github.com/meera/leitbox/internal/repository"
)

// DeckService owns the deck collection. Every mutation updates the in-memory
// state and immediately persists the whole collection as one snapshot, so a
// restart never observes a half-applied change.
type DeckService interface {
	Load(ctx context.Context) error
	ListDecks(ctx context.Context) []models.Deck
	GetDeck(ctx context.Context, deckID string) (*models.Deck, error)
	CreateDeck(ctx context.Context, name, description string) (*models.Deck, error)
	UpdateDeck(ctx context.Context, deckID string, updates models.DeckUpdate) (*models.Deck, error)
	DeleteDeck(ctx context.Context, deckID string) error
	DeleteDecks(ctx context.Context, deckIDs []string) error
	AddCard(ctx context.Context, deckID string, fields models.CardFields) (*models.Card, error)
	AddCards(ctx context.Context, deckID string, fields []models.CardFields) ([]models.Card, error)
	UpdateCard(ctx context.Context, deckID, cardID string, updates models.CardUpdate) (*models.Card, error)
	DeleteCard(ctx context.Context, deckID, cardID string) error
	ReviewCard(ctx context.Context, deckID, cardID string, action models.ReviewAction) (*models.Card, error)
	GetDueCards(ctx context.Context, deckID string) []models.Card
	TotalDueCards(ctx context.Context) int
	OnPersist(fn func(ctx context.Context, quotaErr bool))
}

type deckService struct {
	repo repository.DeckRepository

	mu      sync.Mutex
	decks   []models.Deck
	observe func(ctx context.Context, quotaErr bool)
	now     func() time.Time
}

// NewDeckService creates a DeckService. Call Load before serving traffic.
func NewDeckService(repo repository.DeckRepository) DeckService {
	return &deckService{
		repo: repo,
		now:  time.Now,
	}
}

// OnPersist registers a hook invoked after every persist attempt; quotaErr is
// true when the write was rejected for capacity. Used by the storage guardian.
func (s *deckService) OnPersist(fn func(ctx context.Context, quotaErr bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observe = fn
}

func (s *deckService) Load(ctx context.Context) error {
	log := logger.FromContext(ctx)

	decks, err := s.repo.Load(ctx)
	if err != nil {
		return errors.NewInternalError(err)
	}

	s.mu.Lock()
	s.decks = decks
	s.mu.Unlock()

	log.Info("deck collection loaded: %d decks", len(decks))
	return nil
}

// persistLocked writes the whole collection. The caller holds s.mu. On a
// quota rejection the in-memory mutation is kept; the caller surfaces the
// STORAGE_FULL error so the user can free space before the next reload.
func (s *deckService) persistLocked(ctx context.Context) error {
	err := s.repo.Save(ctx, s.decks)
	quotaErr := isQuotaErr(err)
	if s.observe != nil {
		s.observe(ctx, quotaErr)
	}
	if quotaErr {
		logger.FromContext(ctx).Warn("deck snapshot rejected by storage quota; keeping in-memory state")
		return errors.NewStorageFullError(err)
	}
	if err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *deckService) ListDecks(ctx context.Context) []models.Deck {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Deck, len(s.decks))
	copy(out, s.decks)
	return out
}

// GetDeck is the on-demand selector for a single deck; there is no separate
// "current deck" state to keep in sync.
func (s *deckService) GetDeck(ctx context.Context, deckID string) (*models.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findDeckLocked(deckID)
	if idx == -1 {
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	deck := s.decks[idx]
	return &deck, nil
}

func (s *deckService) CreateDeck(ctx context.Context, name, description string) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	if name == "" {
		return nil, errors.NewValidationError("name", "must not be empty")
	}

	now := s.now()
	deck := models.Deck{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Cards:       []models.Card{},
		Color:       randomColor(),
		Tags:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.decks = append(s.decks, deck)

	log.Info("deck created: id=%s name=%q", deck.ID, deck.Name)
	if err := s.persistLocked(ctx); err != nil {
		return &deck, err
	}
	return &deck, nil
}

func (s *deckService) UpdateDeck(ctx context.Context, deckID string, updates models.DeckUpdate) (*models.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findDeckLocked(deckID)
	if idx == -1 {
		return nil, errors.NewNotFoundError("deck", deckID)
	}

	deck := &s.decks[idx]
	if updates.Name != nil {
		deck.Name = *updates.Name
	}
	if updates.Description != nil {
		deck.Description = *updates.Description
	}
	if updates.Color != nil {
		deck.Color = *updates.Color
	}
	if updates.Emoji != nil {
		deck.Emoji = *updates.Emoji
	}
	if updates.Tags != nil {
		deck.Tags = *updates.Tags
	}
	deck.UpdatedAt = s.now()

	out := *deck
	if err := s.persistLocked(ctx); err != nil {
		return &out, err
	}
	return &out, nil
}

func (s *deckService) DeleteDeck(ctx context.Context, deckID string) error {
	return s.DeleteDecks(ctx, []string{deckID})
}

// DeleteDecks removes decks and all their cards in one snapshot write. The
// guardian's eviction flow reuses this path.
func (s *deckService) DeleteDecks(ctx context.Context, deckIDs []string) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	toDelete := map[string]bool{}
	for _, id := range deckIDs {
		if s.findDeckLocked(id) == -1 {
			return errors.NewNotFoundError("deck", id)
		}
		toDelete[id] = true
	}

	kept := s.decks[:0]
	for _, d := range s.decks {
		if !toDelete[d.ID] {
			kept = append(kept, d)
		}
	}
	s.decks = kept

	log.Info("deleted %d decks", len(toDelete))
	return s.persistLocked(ctx)
}

func (s *deckService) AddCard(ctx context.Context, deckID string, fields models.CardFields) (*models.Card, error) {
	cards, err := s.AddCards(ctx, deckID, []models.CardFields{fields})
	if err != nil {
		return nil, err
	}
	return &cards[0], nil
}

func (s *deckService) AddCards(ctx context.Context, deckID string, fields []models.CardFields) ([]models.Card, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findDeckLocked(deckID)
	if idx == -1 {
		return nil, errors.NewNotFoundError("deck", deckID)
	}

	now := s.now()
	added := make([]models.Card, 0, len(fields))
	for _, f := range fields {
		tags := f.Tags
		if tags == nil {
			tags = []string{}
		}
		added = append(added, models.Card{
			ID:         uuid.NewString(),
			Question:   f.Question,
			Answer:     f.Answer,
			Hint:       f.Hint,
			Options:    f.Options,
			Level:      leitner.MinLevel, // new cards start in box 1, due now
			NextReview: now,
			Tags:       tags,
			CreatedAt:  now,
		})
	}

	deck := &s.decks[idx]
	deck.Cards = append(deck.Cards, added...)
	deck.UpdatedAt = now

	log.Info("added %d cards to deck %s", len(added), deckID)
	if err := s.persistLocked(ctx); err != nil {
		return added, err
	}
	return added, nil
}

func (s *deckService) UpdateCard(ctx context.Context, deckID, cardID string, updates models.CardUpdate) (*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deck, card, err := s.findCardLocked(deckID, cardID)
	if err != nil {
		return nil, err
	}

	if updates.Question != nil {
		card.Question = *updates.Question
	}
	if updates.Answer != nil {
		card.Answer = *updates.Answer
	}
	if updates.Hint != nil {
		card.Hint = *updates.Hint
	}
	if updates.Options != nil {
		card.Options = *updates.Options
	}
	if updates.Tags != nil {
		card.Tags = *updates.Tags
	}
	deck.UpdatedAt = s.now()

	out := *card
	if err := s.persistLocked(ctx); err != nil {
		return &out, err
	}
	return &out, nil
}

func (s *deckService) DeleteCard(ctx context.Context, deckID, cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findDeckLocked(deckID)
	if idx == -1 {
		return errors.NewNotFoundError("deck", deckID)
	}
	deck := &s.decks[idx]

	cardIdx := deck.FindCard(cardID)
	if cardIdx == -1 {
		return errors.NewNotFoundError("card", cardID)
	}

	deck.Cards = append(deck.Cards[:cardIdx], deck.Cards[cardIdx+1:]...)
	deck.UpdatedAt = s.now()

	return s.persistLocked(ctx)
}

// ReviewCard is the single entry point that advances a card's scheduling
// state; generic card updates deliberately cannot touch level or nextReview.
func (s *deckService) ReviewCard(ctx context.Context, deckID, cardID string, action models.ReviewAction) (*models.Card, error) {
	log := logger.FromContext(ctx)

	if !action.Valid() {
		return nil, errors.NewValidationError("action", fmt.Sprintf("unknown review action %q", action))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deck, card, err := s.findCardLocked(deckID, cardID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	*card = leitner.ApplyReview(*card, action, now)
	deck.UpdatedAt = now

	log.Debug("card reviewed: deck=%s card=%s action=%s level=%d", deckID, cardID, action, card.Level)

	out := *card
	if err := s.persistLocked(ctx); err != nil {
		return &out, err
	}
	return &out, nil
}

func (s *deckService) GetDueCards(ctx context.Context, deckID string) []models.Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	due := []models.Card{}
	idx := s.findDeckLocked(deckID)
	if idx == -1 {
		// An unknown deck yields no due cards rather than an error.
		return due
	}

	now := s.now()
	for _, card := range s.decks[idx].Cards {
		if leitner.IsDue(card, now) {
			due = append(due, card)
		}
	}
	return due
}

func (s *deckService) TotalDueCards(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	total := 0
	for _, deck := range s.decks {
		for _, card := range deck.Cards {
			if leitner.IsDue(card, now) {
				total++
			}
		}
	}
	return total
}

func (s *deckService) findDeckLocked(deckID string) int {
	for i := range s.decks {
		if s.decks[i].ID == deckID {
			return i
		}
	}
	return -1
}

func (s *deckService) findCardLocked(deckID, cardID string) (*models.Deck, *models.Card, error) {
	idx := s.findDeckLocked(deckID)
	if idx == -1 {
		return nil, nil, errors.NewNotFoundError("deck", deckID)
	}
	deck := &s.decks[idx]

	cardIdx := deck.FindCard(cardID)
	if cardIdx == -1 {
		return nil, nil, errors.NewNotFoundError("card", cardID)
	}
	return deck, &deck.Cards[cardIdx], nil
}

func randomColor() string {
	return fmt.Sprintf("#%06x", rand.Intn(0x1000000))
}
