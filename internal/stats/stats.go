package stats

import (
	"time"

	"github.com/google/uuid"

	"journowlAPI/internal/metric"
)

// UserStats is the per-user writing aggregate that drives every evaluator.
// longest_streak >= current_streak always; totals only ever grow.
type UserStats struct {
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	TotalEntries  int64      `json:"total_entries" db:"total_entries"`
	TotalWords    int64      `json:"total_words" db:"total_words"`
	CurrentStreak int        `json:"current_streak" db:"current_streak"`
	LongestStreak int        `json:"longest_streak" db:"longest_streak"`
	LastEntryDate *time.Time `json:"last_entry_date" db:"last_entry_date"`
	Version       int64      `json:"-" db:"version"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// Zero returns the lazily-initialized aggregate for a user with no entries.
func Zero(userID uuid.UUID) *UserStats {
	return &UserStats{UserID: userID}
}

// Snapshot adapts the aggregate for metric evaluation. The completed-goal
// count lives in its own table and is passed in by the caller.
func (s *UserStats) Snapshot(goalsCompleted int64) metric.Snapshot {
	return metric.Snapshot{
		TotalEntries:   s.TotalEntries,
		TotalWords:     s.TotalWords,
		CurrentStreak:  s.CurrentStreak,
		GoalsCompleted: goalsCompleted,
	}
}
