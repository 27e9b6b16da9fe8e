package kv

import (
	"context"
	"encoding/json"

	"github.com/meera/leitbox/internal/logger"
	"github.com/meera/leitbox/internal/models"
	"github.com/meera/leitbox/internal/repository"
	"github.com/meera/leitbox/internal/storage"
)

type deckRepository struct {
	store storage.Store
}

// NewDeckRepository creates a DeckRepository persisting to the given store.
func NewDeckRepository(store storage.Store) repository.DeckRepository {
	return &deckRepository{store: store}
}

func (r *deckRepository) Load(ctx context.Context) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")

	raw, ok, err := r.store.Get(ctx, DecksKey)
	if err != nil {
		log.Error("failed to read decks: %v", err)
		return nil, err
	}
	if !ok {
		log.Debug("no persisted decks, starting empty")
		return []models.Deck{}, nil
	}

	var decks []models.Deck
	if err := json.Unmarshal([]byte(raw), &decks); err != nil {
		// Corrupt data degrades to an empty collection rather than crashing.
		log.Warn("persisted decks are malformed, discarding: %v", err)
		return []models.Deck{}, nil
	}
	log.Debug("loaded %d decks", len(decks))
	return decks, nil
}

func (r *deckRepository) Save(ctx context.Context, decks []models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")

	if decks == nil {
		decks = []models.Deck{}
	}
	raw, err := json.Marshal(decks)
	if err != nil {
		log.Error("failed to serialize decks: %v", err)
		return err
	}

	if err := r.store.Set(ctx, DecksKey, string(raw)); err != nil {
		log.Error("failed to persist decks: %v", err)
		return err
	}
	log.Debug("persisted %d decks (%d chars)", len(decks), len(raw))
	return nil
}
