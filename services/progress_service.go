package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"journowlAPI/internal/achievement"
	"journowlAPI/internal/cache"
	"journowlAPI/internal/entry"
	"journowlAPI/internal/events"
	"journowlAPI/internal/goal"
	"journowlAPI/internal/stats"
	"journowlAPI/internal/streak"
	"journowlAPI/internal/xp"
)

// How many times a stats update retries after losing the version race.
const maxStatsRetries = 3

// ProgressService owns the per-user writing aggregate and orchestrates the
// evaluators and the XP ledger around it.
type ProgressService struct {
	db           *pgxpool.Pool
	achievements *AchievementService
	goals        *GoalService
	xp           *XPService
	dispatcher   *events.Dispatcher
	cache        *cache.Cache

	// injectable clock for streak-boundary tests
	now func() time.Time
}

func NewProgressService(db *pgxpool.Pool, achievements *AchievementService, goals *GoalService, xpService *XPService, dispatcher *events.Dispatcher, c *cache.Cache) *ProgressService {
	return &ProgressService{
		db:           db,
		achievements: achievements,
		goals:        goals,
		xp:           xpService,
		dispatcher:   dispatcher,
		cache:        c,
		now:          time.Now,
	}
}

// InitializeUserProgress creates the zero-valued stats and XP rows plus all
// 24 achievement and 24 goal instances for a new user. Safe to call twice:
// every insert is ON CONFLICT DO NOTHING.
func (s *ProgressService) InitializeUserProgress(ctx context.Context, userID uuid.UUID) error {
	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO user_stats (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
	batch.Queue(`INSERT INTO user_xp (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
	for _, def := range achievement.Catalog() {
		batch.Queue(`
		INSERT INTO user_achievements (user_id, achievement_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, achievement_id) DO NOTHING
		`, userID, def.ID)
	}
	for _, def := range goal.Catalog() {
		batch.Queue(`
		INSERT INTO user_goals (user_id, goal_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, goal_id) DO NOTHING
		`, userID, def.ID)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to initialize user progress: %w", err)
		}
	}
	return nil
}

// RecordEntry is the single write entry point: it folds one entry-created
// event into the aggregate, then runs the evaluators and the ledger against
// the fresh snapshot. The stats write is the source of truth; evaluator and
// ledger failures are logged, never propagated, and heal on the next entry
// or reconciliation pass.
func (s *ProgressService) RecordEntry(ctx context.Context, ev *entry.JournalEntryEvent) (*stats.UserStats, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.applyEntry(ctx, ev)
	if err != nil {
		return nil, err
	}
	entriesRecorded.Inc()

	s.evaluate(ctx, updated, ev)
	s.cache.InvalidateUser(ctx, ev.UserID)

	return updated, nil
}

// applyEntry folds the entry into user_stats with optimistic concurrency.
// The totals use in-database increments; the version column catches
// concurrent submissions from a second device, and the streak is recomputed
// from the re-read row on retry.
func (s *ProgressService) applyEntry(ctx context.Context, ev *entry.JournalEntryEvent) (*stats.UserStats, error) {
	for attempt := 0; attempt < maxStatsRetries; attempt++ {
		current, err := s.loadOrCreateStats(ctx, ev.UserID)
		if err != nil {
			return nil, err
		}

		newStreak := streak.Compute(current.LastEntryDate, ev.CreatedAt, current.CurrentStreak)

		query := `
		UPDATE user_stats
		SET total_entries = total_entries + 1,
		    total_words = total_words + $3,
		    current_streak = $4,
		    longest_streak = GREATEST(longest_streak, $4),
		    last_entry_date = $5,
		    version = version + 1,
		    updated_at = NOW()
		WHERE user_id = $1 AND version = $2
		RETURNING user_id, total_entries, total_words, current_streak, longest_streak, last_entry_date, version, updated_at
		`

		updated := &stats.UserStats{}
		err = s.db.QueryRow(ctx, query,
			ev.UserID, current.Version, ev.WordCount, newStreak, ev.CreatedAt,
		).Scan(
			&updated.UserID,
			&updated.TotalEntries,
			&updated.TotalWords,
			&updated.CurrentStreak,
			&updated.LongestStreak,
			&updated.LastEntryDate,
			&updated.Version,
			&updated.UpdatedAt,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			// lost the version race, re-read and retry
			statsConflicts.Inc()
			time.Sleep(time.Duration(attempt+1) * 25 * time.Millisecond)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to update user stats: %w", err)
		}
		return updated, nil
	}
	return nil, fmt.Errorf("user %s: %w", ev.UserID, ErrConflict)
}

func (s *ProgressService) loadOrCreateStats(ctx context.Context, userID uuid.UUID) (*stats.UserStats, error) {
	_, err := s.db.Exec(ctx,
		`INSERT INTO user_stats (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init user stats: %w", err)
	}

	query := `
	SELECT user_id, total_entries, total_words, current_streak, longest_streak, last_entry_date, version, updated_at
	FROM user_stats
	WHERE user_id = $1
	`

	current := &stats.UserStats{}
	err = s.db.QueryRow(ctx, query, userID).Scan(
		&current.UserID,
		&current.TotalEntries,
		&current.TotalWords,
		&current.CurrentStreak,
		&current.LongestStreak,
		&current.LastEntryDate,
		&current.Version,
		&current.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load user stats: %w", err)
	}
	return current, nil
}

// evaluate runs goals first (their completions feed the goal_crusher
// metric), then achievements, then the ledger awards. Everything here is
// best-effort relative to the stats write.
func (s *ProgressService) evaluate(ctx context.Context, st *stats.UserStats, ev *entry.JournalEntryEvent) {
	now := s.now()
	metricEntry := ev.Metric()

	completions, err := s.goals.Evaluate(ctx, ev.UserID, st.Snapshot(0), metricEntry, now)
	if err != nil {
		log.Printf("RecordEntry: goal evaluation failed for user %s: %v", ev.UserID, err)
	}

	goalsDone, err := s.goals.CompletedCount(ctx, ev.UserID)
	if err != nil {
		log.Printf("RecordEntry: completed-goal count failed for user %s: %v", ev.UserID, err)
	}

	unlocks, err := s.achievements.Evaluate(ctx, ev.UserID, st.Snapshot(goalsDone), metricEntry, now)
	if err != nil {
		log.Printf("RecordEntry: achievement evaluation failed for user %s: %v", ev.UserID, err)
	}

	// Base award for the entry itself, then transition-gated awards only.
	if _, err := s.xp.Award(ctx, ev.UserID, xp.BaseEntryAward(ev.WordCount), xp.ReasonEntryCreated); err != nil {
		log.Printf("RecordEntry: base xp award failed for user %s: %v", ev.UserID, err)
	}
	for _, u := range unlocks {
		if _, err := s.xp.Award(ctx, ev.UserID, u.Rarity.XP(), xp.ReasonAchievementUnlocked); err != nil {
			log.Printf("RecordEntry: unlock xp award failed for user %s: %v", ev.UserID, err)
		}
		s.dispatcher.Emit(events.Event{
			Type:       events.TypeAchievementUnlocked,
			UserID:     ev.UserID,
			Payload:    u,
			OccurredAt: now,
		})
	}
	for _, c := range completions {
		if _, err := s.xp.Award(ctx, ev.UserID, c.Difficulty.XP(), xp.ReasonGoalCompleted); err != nil {
			log.Printf("RecordEntry: goal xp award failed for user %s: %v", ev.UserID, err)
		}
		s.dispatcher.Emit(events.Event{
			Type:       events.TypeGoalCompleted,
			UserID:     ev.UserID,
			Payload:    c,
			OccurredAt: now,
		})
	}
}

// GetStats returns the aggregate for a user, zero-valued when the user has
// no entries yet. Reads go through the cache when redis is configured.
func (s *ProgressService) GetStats(ctx context.Context, userID uuid.UUID) (*stats.UserStats, error) {
	cached := &stats.UserStats{}
	if err := s.cache.GetStats(ctx, userID, cached); err == nil {
		return cached, nil
	}

	query := `
	SELECT user_id, total_entries, total_words, current_streak, longest_streak, last_entry_date, version, updated_at
	FROM user_stats
	WHERE user_id = $1
	`

	st := &stats.UserStats{}
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&st.UserID,
		&st.TotalEntries,
		&st.TotalWords,
		&st.CurrentStreak,
		&st.LongestStreak,
		&st.LastEntryDate,
		&st.Version,
		&st.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return stats.Zero(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	if err := s.cache.SetStats(ctx, userID, st); err != nil {
		log.Printf("GetStats: cache write failed for user %s: %v", userID, err)
	}
	return st, nil
}
