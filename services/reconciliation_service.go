package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"journowlAPI/internal/cache"
	"journowlAPI/internal/stats"
	"journowlAPI/internal/streak"
)

// ReconciliationService recomputes the writing aggregate from the full
// entry history. The entries table is the durable source of truth, so a
// stats write lost to an outage is recoverable here, and the job is safe to
// run any number of times.
type ReconciliationService struct {
	db    *pgxpool.Pool
	cache *cache.Cache
}

func NewReconciliationService(db *pgxpool.Pool, c *cache.Cache) *ReconciliationService {
	return &ReconciliationService{db: db, cache: c}
}

// RebuildUserStats replays every journal entry for a user and overwrites
// the aggregate with the recomputed totals and streaks.
func (s *ReconciliationService) RebuildUserStats(ctx context.Context, userID uuid.UUID) (*stats.UserStats, error) {
	query := `
	SELECT word_count, created_at
	FROM journal_entries
	WHERE user_id = $1
	ORDER BY created_at ASC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read entry history: %w", err)
	}
	defer rows.Close()

	var (
		totalEntries  int64
		totalWords    int64
		currentStreak int
		longestStreak int
		lastEntryDate *time.Time
	)
	for rows.Next() {
		var wordCount int
		var createdAt time.Time
		if err := rows.Scan(&wordCount, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan entry history: %w", err)
		}

		totalEntries++
		totalWords += int64(wordCount)
		currentStreak = streak.Compute(lastEntryDate, createdAt, currentStreak)
		if currentStreak > longestStreak {
			longestStreak = currentStreak
		}
		ts := createdAt
		lastEntryDate = &ts
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entry history: %w", err)
	}

	update := `
	INSERT INTO user_stats (user_id, total_entries, total_words, current_streak, longest_streak, last_entry_date, version, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, 0, NOW())
	ON CONFLICT (user_id) DO UPDATE
		SET total_entries = EXCLUDED.total_entries,
		    total_words = EXCLUDED.total_words,
		    current_streak = EXCLUDED.current_streak,
		    longest_streak = GREATEST(user_stats.longest_streak, EXCLUDED.longest_streak),
		    last_entry_date = EXCLUDED.last_entry_date,
		    version = user_stats.version + 1,
		    updated_at = NOW()
	RETURNING user_id, total_entries, total_words, current_streak, longest_streak, last_entry_date, version, updated_at
	`

	rebuilt := &stats.UserStats{}
	err = s.db.QueryRow(ctx, update,
		userID, totalEntries, totalWords, currentStreak, longestStreak, lastEntryDate,
	).Scan(
		&rebuilt.UserID,
		&rebuilt.TotalEntries,
		&rebuilt.TotalWords,
		&rebuilt.CurrentStreak,
		&rebuilt.LongestStreak,
		&rebuilt.LastEntryDate,
		&rebuilt.Version,
		&rebuilt.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to write rebuilt stats: %w", err)
	}

	s.cache.InvalidateUser(ctx, userID)
	return rebuilt, nil
}

// StartReconciliationJob periodically rebuilds stats for recently active
// users so transient evaluation failures self-heal.
func (s *ReconciliationService) StartReconciliationJob(interval time.Duration, stop <-chan struct{}) {
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.reconcileActiveUsers()
			case <-stop:
				return
			}
		}
	}()
}

func (s *ReconciliationService) reconcileActiveUsers() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Println("Starting stats reconciliation pass...")

	rows, err := s.db.Query(ctx,
		`SELECT user_id FROM user_stats WHERE updated_at > NOW() - INTERVAL '48 hours'`,
	)
	if err != nil {
		log.Printf("Reconciliation: failed to list active users: %v", err)
		return
	}
	defer rows.Close()

	var userIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			continue
		}
		userIDs = append(userIDs, id)
	}

	rebuilt := 0
	for _, id := range userIDs {
		if _, err := s.RebuildUserStats(ctx, id); err != nil {
			log.Printf("Reconciliation: rebuild failed for user %s: %v", id, err)
			continue
		}
		rebuilt++
	}
	log.Printf("Reconciliation pass complete: %d/%d users rebuilt", rebuilt, len(userIDs))
}
