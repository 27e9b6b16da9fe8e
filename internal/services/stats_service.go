package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meera/leitbox/internal/errors"
	"github.com/meera/leitbox/internal/logger"
	"github.com/meera/leitbox/internal/models"
	"github.com/meera/leitbox/internal/repository"
)

// StatsService tracks ephemeral study sessions and rolls them into the
// durable cumulative stats record. Sessions live only in memory until ended;
// ended sessions are append-only history.
type StatsService interface {
	Load(ctx context.Context) error
	Stats(ctx context.Context) models.UserStats
	StartStudySession(ctx context.Context, deckID string) string
	EndStudySession(ctx context.Context, sessionID string, cardsStudied, cardsCorrect int) ([]models.Badge, error)
	RecordReview(ctx context.Context, sessionID string, action models.ReviewAction) error
	IncrementCardStudied(ctx context.Context, cardID string, correct bool) error
	AddDailyScore(ctx context.Context, points int) error
	TrackAddedCards(ctx context.Context, count int) error
	CheckForBadges(ctx context.Context) ([]models.Badge, error)
	RunHousekeeping(ctx context.Context, now time.Time) error
	ActiveSessions(ctx context.Context) int
	OnPersist(fn func(ctx context.Context, quotaErr bool))
}

type activeSession struct {
	deckID       string
	startTime    time.Time
	cardsStudied int
	cardsCorrect int
}

type statsService struct {
	repo          repository.StatsRepository
	sessionMaxAge time.Duration

	mu       sync.Mutex
	stats    models.UserStats
	sessions map[string]*activeSession
	observe  func(ctx context.Context, quotaErr bool)
}

// NewStatsService creates a StatsService. Sessions older than sessionMaxAge
// are force-closed by housekeeping with whatever counts they accumulated.
func NewStatsService(repo repository.StatsRepository, sessionMaxAge time.Duration) StatsService {
	return &statsService{
		repo:          repo,
		sessionMaxAge: sessionMaxAge,
		stats:         models.DefaultStats(),
		sessions:      map[string]*activeSession{},
	}
}

func (s *statsService) OnPersist(fn func(ctx context.Context, quotaErr bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observe = fn
}

func (s *statsService) Load(ctx context.Context) error {
	stats, err := s.repo.Load(ctx)
	if err != nil {
		return errors.NewInternalError(err)
	}

	s.mu.Lock()
	s.stats = stats
	s.mu.Unlock()

	logger.FromContext(ctx).Info("stats loaded: streak=%d studied=%d sessions=%d",
		stats.Streak, stats.TotalCardsStudied, len(stats.StudySessions))
	return nil
}

func (s *statsService) persistLocked(ctx context.Context) error {
	err := s.repo.Save(ctx, s.stats)
	quotaErr := isQuotaErr(err)
	if s.observe != nil {
		s.observe(ctx, quotaErr)
	}
	if quotaErr {
		logger.FromContext(ctx).Warn("stats snapshot rejected by storage quota; keeping in-memory state")
		return errors.NewStorageFullError(err)
	}
	if err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *statsService) Stats(ctx context.Context) models.UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *statsService) ActiveSessions(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *statsService) StartStudySession(ctx context.Context, deckID string) string {
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = &activeSession{deckID: deckID, startTime: time.Now()}
	s.mu.Unlock()

	logger.FromContext(ctx).Debug("study session started: id=%s deck=%s", id, deckID)
	return id
}

func (s *statsService) EndStudySession(ctx context.Context, sessionID string, cardsStudied, cardsCorrect int) ([]models.Badge, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		// Ending a session twice (or a bogus id) changes nothing.
		log.Warn("end of unknown study session ignored: id=%s", sessionID)
		return nil, nil
	}
	delete(s.sessions, sessionID)

	now := time.Now()
	s.closeSessionLocked(ctx, session, now, cardsStudied, cardsCorrect)

	unlocked := s.checkForBadgesLocked(now)
	if err := s.persistLocked(ctx); err != nil {
		return unlocked, err
	}
	return unlocked, nil
}

// closeSessionLocked appends the archived session record and folds it into
// the cumulative stats: streak, lastStudyDate, daily score.
func (s *statsService) closeSessionLocked(ctx context.Context, session *activeSession, now time.Time, cardsStudied, cardsCorrect int) {
	log := logger.FromContext(ctx)

	endTime := now
	s.stats.StudySessions = append(s.stats.StudySessions, models.StudySession{
		DeckID:       session.deckID,
		StartTime:    session.startTime,
		EndTime:      &endTime,
		CardsStudied: cardsStudied,
		CardsCorrect: cardsCorrect,
	})

	// The streak grows once per calendar day, on the first session ended
	// that day. Same-day repeats only refresh lastStudyDate.
	if s.stats.LastStudyDate == nil || dayStart(now).After(dayStart(*s.stats.LastStudyDate)) {
		s.stats.Streak++
		log.Info("streak advanced to %d", s.stats.Streak)
	}
	lastStudy := now
	s.stats.LastStudyDate = &lastStudy

	today := dayKey(now)
	if s.stats.LastScoreDate == today {
		s.stats.DailyScore += cardsCorrect
	} else {
		s.stats.DailyScore = cardsCorrect
		s.stats.LastScoreDate = today
	}

	log.Debug("study session closed: deck=%s studied=%d correct=%d", session.deckID, cardsStudied, cardsCorrect)
}

// RecordReview scores a single review and, when the session is known, bumps
// its running counters so an abandoned session can still be closed with
// partial counts.
func (s *statsService) RecordReview(ctx context.Context, sessionID string, action models.ReviewAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[sessionID]; ok {
		session.cardsStudied++
		if action == models.ActionKnow {
			session.cardsCorrect++
		}
	}

	if action != models.ActionKnow {
		return nil
	}
	s.addDailyScoreLocked(1)
	return s.persistLocked(ctx)
}

func (s *statsService) IncrementCardStudied(ctx context.Context, cardID string, correct bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stats.HasStudied(cardID) {
		// Already counted; only a correct answer still moves the needle.
		if !correct {
			return nil
		}
		s.stats.TotalCorrect++
		return s.persistLocked(ctx)
	}

	s.stats.TotalCardsStudied++
	if correct {
		s.stats.TotalCorrect++
	}
	s.stats.StudiedCardIDs = append(s.stats.StudiedCardIDs, cardID)
	return s.persistLocked(ctx)
}

func (s *statsService) AddDailyScore(ctx context.Context, points int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addDailyScoreLocked(points)
	return s.persistLocked(ctx)
}

func (s *statsService) addDailyScoreLocked(points int) {
	today := dayKey(time.Now())
	if s.stats.LastScoreDate == today {
		s.stats.DailyScore += points
	} else {
		s.stats.DailyScore = points
		s.stats.LastScoreDate = today
	}
}

func (s *statsService) TrackAddedCards(ctx context.Context, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.TotalCardsAdded += count
	return s.persistLocked(ctx)
}

func (s *statsService) CheckForBadges(ctx context.Context) ([]models.Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlocked := s.checkForBadgesLocked(time.Now())
	if len(unlocked) == 0 {
		return nil, nil
	}
	if err := s.persistLocked(ctx); err != nil {
		return unlocked, err
	}
	return unlocked, nil
}

// checkForBadgesLocked evaluates badge predicates against the current stats.
// Unlocking is monotonic: an unlocked badge is never re-evaluated.
func (s *statsService) checkForBadgesLocked(now time.Time) []models.Badge {
	conditions := map[string]bool{
		"first-review":    s.stats.TotalCardsStudied > 0,
		"study-streak-3":  s.stats.Streak >= 3,
		"study-streak-7":  s.stats.Streak >= 7,
		"study-streak-30": s.stats.Streak >= 30,
		"cards-100":       s.stats.TotalCardsStudied >= 100,
		"accuracy-80":     s.stats.TotalCardsStudied >= 50 && s.stats.Accuracy() >= 0.80,
	}

	var unlocked []models.Badge
	for i := range s.stats.Badges {
		badge := &s.stats.Badges[i]
		if badge.Unlocked || !conditions[badge.ID] {
			continue
		}
		at := now
		badge.Unlocked = true
		badge.UnlockedAt = &at
		unlocked = append(unlocked, *badge)
	}
	return unlocked
}

// RunHousekeeping applies the time-driven maintenance rules for the given
// instant: streak decay after a missed day, the daily score reset, and
// force-closing sessions abandoned past the max age. The caller decides when
// to invoke it (startup, hourly tick, local midnight).
func (s *statsService) RunHousekeeping(ctx context.Context, now time.Time) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false

	if s.stats.LastStudyDate != nil && s.stats.Streak != 0 {
		idle := int(dayStart(now).Sub(dayStart(*s.stats.LastStudyDate)).Hours() / 24)
		if idle > 1 {
			log.Info("streak of %d broken after %d idle days", s.stats.Streak, idle)
			s.stats.Streak = 0
			changed = true
		}
	}

	if today := dayKey(now); s.stats.LastScoreDate != today {
		if s.stats.DailyScore != 0 || s.stats.LastScoreDate != "" {
			log.Debug("daily score reset for %s", today)
		}
		s.stats.DailyScore = 0
		s.stats.LastScoreDate = today
		changed = true
	}

	for id, session := range s.sessions {
		if now.Sub(session.startTime) <= s.sessionMaxAge {
			continue
		}
		log.Warn("closing abandoned study session %s (deck=%s, started %s)",
			id, session.deckID, session.startTime.Format(time.RFC3339))
		delete(s.sessions, id)
		s.closeSessionLocked(ctx, session, now, session.cardsStudied, session.cardsCorrect)
		changed = true
	}

	if !changed {
		return nil
	}
	return s.persistLocked(ctx)
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dayKey renders the YYYY-MM-DD date-string used for the daily score reset.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
