package services

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"journowlAPI/internal/cache"
	"journowlAPI/internal/leaderboard"
)

// LeaderboardService is the read-only cross-user aggregation: top writers
// by XP. It never mutates per-user state.
type LeaderboardService struct {
	db    *pgxpool.Pool
	cache *cache.Cache
}

func NewLeaderboardService(db *pgxpool.Pool, c *cache.Cache) *LeaderboardService {
	return &LeaderboardService{db: db, cache: c}
}

// GetLeaderboard returns the top users ranked by XP, with streaks joined in
// for display. Served from cache when redis is configured.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, limit int) (*leaderboard.Leaderboard, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	board := &leaderboard.Leaderboard{}
	if err := s.cache.GetLeaderboard(ctx, board); err == nil && len(board.Entries) >= limit {
		board.Entries = board.Entries[:limit]
		return board, nil
	}

	query := `
	SELECT x.user_id,
	       x.xp,
	       COALESCE(s.current_streak, 0) AS current_streak,
	       COALESCE(s.longest_streak, 0) AS longest_streak,
	       COALESCE(s.total_entries, 0) AS total_entries,
	       RANK() OVER (ORDER BY x.xp DESC) AS rank
	FROM user_xp x
	LEFT JOIN user_stats s ON s.user_id = x.user_id
	ORDER BY x.xp DESC, x.user_id
	LIMIT $1
	`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	board = &leaderboard.Leaderboard{}
	for rows.Next() {
		e := &leaderboard.Entry{}
		if err := rows.Scan(
			&e.UserID,
			&e.XP,
			&e.CurrentStreak,
			&e.LongestStreak,
			&e.TotalEntries,
			&e.Rank,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		e.Derive()
		board.Entries = append(board.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	board.TotalUsers = len(board.Entries)

	if err := s.cache.SetLeaderboard(ctx, board); err != nil {
		log.Printf("GetLeaderboard: cache write failed: %v", err)
	}
	return board, nil
}
