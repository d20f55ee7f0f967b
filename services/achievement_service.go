package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"journowlAPI/internal/achievement"
	"journowlAPI/internal/metric"
)

// AchievementService loads per-user instances, runs the pure evaluator and
// persists the result.
type AchievementService struct {
	db *pgxpool.Pool
}

func NewAchievementService(db *pgxpool.Pool) *AchievementService {
	return &AchievementService{db: db}
}

func (s *AchievementService) loadInstances(ctx context.Context, userID uuid.UUID) (map[string]*achievement.Instance, error) {
	query := `
	SELECT user_id, achievement_id, current_value, last_entry_seen, unlocked_at
	FROM user_achievements
	WHERE user_id = $1
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}
	defer rows.Close()

	instances := make(map[string]*achievement.Instance, 24)
	for rows.Next() {
		inst := &achievement.Instance{}
		if err := rows.Scan(
			&inst.UserID,
			&inst.AchievementID,
			&inst.CurrentValue,
			&inst.LastEntrySeen,
			&inst.UnlockedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		instances[inst.AchievementID] = inst
	}
	return instances, rows.Err()
}

func (s *AchievementService) saveInstances(ctx context.Context, instances map[string]*achievement.Instance) error {
	batch := &pgx.Batch{}
	for _, inst := range instances {
		batch.Queue(`
		INSERT INTO user_achievements (user_id, achievement_id, current_value, last_entry_seen, unlocked_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, achievement_id) DO UPDATE
			SET current_value = EXCLUDED.current_value,
			    last_entry_seen = EXCLUDED.last_entry_seen,
			    unlocked_at = COALESCE(user_achievements.unlocked_at, EXCLUDED.unlocked_at)
		`, inst.UserID, inst.AchievementID, inst.CurrentValue, inst.LastEntrySeen, inst.UnlockedAt)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()
	for range instances {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save achievements: %w", err)
		}
	}
	return nil
}

// Evaluate runs the catalog against the new snapshot and entry, persists
// progress (also for still-locked badges, the dashboard shows it) and
// returns the fresh unlocks. unlocked_at is guarded by COALESCE in SQL as
// well, so it can never be overwritten.
func (s *AchievementService) Evaluate(ctx context.Context, userID uuid.UUID, snap metric.Snapshot, e metric.Entry, now time.Time) ([]achievement.UnlockedEvent, error) {
	instances, err := s.loadInstances(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlocked := achievement.Evaluate(instances, userID, snap, e, now)

	if err := s.saveInstances(ctx, instances); err != nil {
		return nil, err
	}

	for _, ev := range unlocked {
		achievementsUnlocked.WithLabelValues(string(ev.Rarity)).Inc()
	}
	return unlocked, nil
}

// GetAchievements returns the full catalog joined with the user's progress,
// unlocked badges first.
func (s *AchievementService) GetAchievements(ctx context.Context, userID uuid.UUID) ([]*achievement.WithStatus, error) {
	instances, err := s.loadInstances(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]*achievement.WithStatus, 0, len(achievement.Catalog()))
	for _, def := range achievement.Catalog() {
		ws := &achievement.WithStatus{Definition: def}
		if inst, ok := instances[def.ID]; ok {
			ws.CurrentValue = inst.CurrentValue
			ws.Unlocked = inst.UnlockedAt != nil
			ws.UnlockedAt = inst.UnlockedAt
		}
		result = append(result, ws)
	}

	// unlocked first, then by threshold ascending, same order the app shows
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Unlocked != result[j].Unlocked {
			return result[i].Unlocked
		}
		return result[i].Threshold < result[j].Threshold
	})
	return result, nil
}
