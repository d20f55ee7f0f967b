package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Progress-core tables. journal_entries belongs to the entry-creation path
// and is only read here (reconciliation).
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS user_stats (
		user_id UUID PRIMARY KEY,
		total_entries BIGINT NOT NULL DEFAULT 0,
		total_words BIGINT NOT NULL DEFAULT 0,
		current_streak INT NOT NULL DEFAULT 0,
		longest_streak INT NOT NULL DEFAULT 0,
		last_entry_date TIMESTAMPTZ,
		version BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS user_achievements (
		user_id UUID NOT NULL,
		achievement_id TEXT NOT NULL,
		current_value BIGINT NOT NULL DEFAULT 0,
		last_entry_seen BIGINT NOT NULL DEFAULT 0,
		unlocked_at TIMESTAMPTZ,
		PRIMARY KEY (user_id, achievement_id)
	)`,
	`CREATE TABLE IF NOT EXISTS user_goals (
		user_id UUID NOT NULL,
		goal_id TEXT NOT NULL,
		current_value BIGINT NOT NULL DEFAULT 0,
		last_entry_seen BIGINT NOT NULL DEFAULT 0,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at TIMESTAMPTZ,
		PRIMARY KEY (user_id, goal_id)
	)`,
	`CREATE TABLE IF NOT EXISTS user_xp (
		user_id UUID PRIMARY KEY,
		xp BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_xp_xp ON user_xp (xp DESC)`,
}

// EnsureSchema creates the progress tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
