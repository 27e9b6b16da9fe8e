package services

import (
	"context"
	"sort"
	"sync"

	"github.com/meera/leitbox/internal/errors"
	"github.com/meera/leitbox/internal/logger"
	"github.com/meera/leitbox/internal/models"
	"github.com/meera/leitbox/internal/repository/kv"
	"github.com/meera/leitbox/internal/storage"
)

// GuardianService watches the storage footprint of the app namespace: it
// measures usage, flags when the quota is close, and frees space by evicting
// the stalest decks when a write gets rejected.
type GuardianService interface {
	Snapshot(ctx context.Context) (models.StorageUsage, error)
	IsNearCapacity(ctx context.Context) (bool, error)
	OldestDecks(ctx context.Context, n int) []models.Deck
	EvictOldestDecks(ctx context.Context, n int) ([]string, error)
	WipeAll(ctx context.Context) error
	Observe(ctx context.Context, quotaErr bool)
	WarningPending(ctx context.Context) bool
	AcknowledgeWarning(ctx context.Context)
}

type guardianService struct {
	store   storage.Store
	decks   DeckService
	quotaKB int
	warnKB  int

	mu      sync.Mutex
	warning bool
}

func NewGuardianService(store storage.Store, decks DeckService, quotaKB, warnKB int) GuardianService {
	return &guardianService{
		store:   store,
		decks:   decks,
		quotaKB: quotaKB,
		warnKB:  warnKB,
	}
}

func (g *guardianService) Snapshot(ctx context.Context) (models.StorageUsage, error) {
	keys, err := g.store.Keys(ctx, kv.Namespace)
	if err != nil {
		return models.StorageUsage{}, errors.NewInternalError(err)
	}

	usage := models.StorageUsage{
		QuotaKB: g.quotaKB,
		WarnKB:  g.warnKB,
		Entries: make([]models.StorageEntry, 0, len(keys)),
	}
	for _, key := range keys {
		value, ok, err := g.store.Get(ctx, key)
		if err != nil {
			return models.StorageUsage{}, errors.NewInternalError(err)
		}
		if !ok {
			continue
		}
		entryKB := float64(storage.EntrySize(key, value)) / 1024
		usage.Entries = append(usage.Entries, models.StorageEntry{Key: key, KB: entryKB})
		usage.TotalKB += entryKB
	}
	usage.NearCapacity = usage.TotalKB > float64(g.warnKB)
	return usage, nil
}

func (g *guardianService) IsNearCapacity(ctx context.Context) (bool, error) {
	usage, err := g.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	return usage.NearCapacity, nil
}

// OldestDecks returns up to n decks ordered by last update, stalest first.
// These are the eviction candidates shown to the user before freeing space.
func (g *guardianService) OldestDecks(ctx context.Context, n int) []models.Deck {
	decks := g.decks.ListDecks(ctx)
	sort.SliceStable(decks, func(i, j int) bool {
		return decks[i].UpdatedAt.Before(decks[j].UpdatedAt)
	})
	if n >= 0 && n < len(decks) {
		decks = decks[:n]
	}
	return decks
}

func (g *guardianService) EvictOldestDecks(ctx context.Context, n int) ([]string, error) {
	log := logger.FromContext(ctx)

	victims := g.OldestDecks(ctx, n)
	if len(victims) == 0 {
		return nil, nil
	}

	ids := make([]string, len(victims))
	for i, deck := range victims {
		ids[i] = deck.ID
		log.Info("evicting deck %q (%s, last updated %s)", deck.Name, deck.ID, deck.UpdatedAt)
	}
	if err := g.decks.DeleteDecks(ctx, ids); err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.warning = false
	g.mu.Unlock()
	return ids, nil
}

// WipeAll removes every key in the app namespace. Stats, decks and theme are
// all gone afterwards; services must Load again to pick up the empty state.
func (g *guardianService) WipeAll(ctx context.Context) error {
	keys, err := g.store.Keys(ctx, kv.Namespace)
	if err != nil {
		return errors.NewInternalError(err)
	}
	for _, key := range keys {
		if err := g.store.Remove(ctx, key); err != nil {
			return errors.NewInternalError(err)
		}
	}

	g.mu.Lock()
	g.warning = false
	g.mu.Unlock()

	logger.FromContext(ctx).Warn("storage wiped: %d keys removed", len(keys))
	return nil
}

// Observe is the persistence hook the other services call after every save
// attempt. A quota rejection raises the pending warning; a clean save clears
// it.
func (g *guardianService) Observe(ctx context.Context, quotaErr bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if quotaErr && !g.warning {
		logger.FromContext(ctx).Warn("storage quota hit; flagging warning for the client")
	}
	g.warning = quotaErr
}

func (g *guardianService) WarningPending(ctx context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.warning
}

func (g *guardianService) AcknowledgeWarning(ctx context.Context) {
	g.mu.Lock()
	g.warning = false
	g.mu.Unlock()
}
