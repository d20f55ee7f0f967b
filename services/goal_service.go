package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"journowlAPI/internal/goal"
	"journowlAPI/internal/metric"
)

// GoalService loads per-user goal instances, runs the pure evaluator and
// persists the result.
type GoalService struct {
	db *pgxpool.Pool
}

func NewGoalService(db *pgxpool.Pool) *GoalService {
	return &GoalService{db: db}
}

func (s *GoalService) loadInstances(ctx context.Context, userID uuid.UUID) (map[string]*goal.Instance, error) {
	query := `
	SELECT user_id, goal_id, current_value, last_entry_seen, completed, completed_at
	FROM user_goals
	WHERE user_id = $1
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}
	defer rows.Close()

	instances := make(map[string]*goal.Instance, 24)
	for rows.Next() {
		inst := &goal.Instance{}
		if err := rows.Scan(
			&inst.UserID,
			&inst.GoalID,
			&inst.CurrentValue,
			&inst.LastEntrySeen,
			&inst.Completed,
			&inst.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		instances[inst.GoalID] = inst
	}
	return instances, rows.Err()
}

func (s *GoalService) saveInstances(ctx context.Context, instances map[string]*goal.Instance) error {
	batch := &pgx.Batch{}
	for _, inst := range instances {
		batch.Queue(`
		INSERT INTO user_goals (user_id, goal_id, current_value, last_entry_seen, completed, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, goal_id) DO UPDATE
			SET current_value = EXCLUDED.current_value,
			    last_entry_seen = EXCLUDED.last_entry_seen,
			    completed = user_goals.completed OR EXCLUDED.completed,
			    completed_at = COALESCE(user_goals.completed_at, EXCLUDED.completed_at)
		`, inst.UserID, inst.GoalID, inst.CurrentValue, inst.LastEntrySeen, inst.Completed, inst.CompletedAt)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()
	for range instances {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save goals: %w", err)
		}
	}
	return nil
}

// Evaluate runs the catalog against the new snapshot and entry, persists
// updated progress and returns fresh completions. The OR/COALESCE guards in
// SQL make completion permanent even under racing evaluations.
func (s *GoalService) Evaluate(ctx context.Context, userID uuid.UUID, snap metric.Snapshot, e metric.Entry, now time.Time) ([]goal.CompletedEvent, error) {
	instances, err := s.loadInstances(ctx, userID)
	if err != nil {
		return nil, err
	}

	completed := goal.Evaluate(instances, userID, snap, e, now)

	if err := s.saveInstances(ctx, instances); err != nil {
		return nil, err
	}

	for _, ev := range completed {
		goalsCompleted.WithLabelValues(string(ev.Difficulty)).Inc()
	}
	return completed, nil
}

// CompletedCount returns how many goals the user has finished. Feeds the
// goal_crusher achievement metric.
func (s *GoalService) CompletedCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_goals WHERE user_id = $1 AND completed`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed goals: %w", err)
	}
	return count, nil
}

// GetGoals returns the full catalog joined with the user's progress.
func (s *GoalService) GetGoals(ctx context.Context, userID uuid.UUID) ([]*goal.WithProgress, error) {
	instances, err := s.loadInstances(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]*goal.WithProgress, 0, len(goal.Catalog()))
	for _, def := range goal.Catalog() {
		wp := &goal.WithProgress{Definition: def}
		if inst, ok := instances[def.ID]; ok {
			wp.CurrentValue = inst.CurrentValue
			wp.Completed = inst.Completed
			wp.CompletedAt = inst.CompletedAt
		}
		wp.Progress = goal.Progress(wp.CurrentValue, def.Target)
		result = append(result, wp)
	}
	return result, nil
}
