package leaderboard

import (
	"github.com/google/uuid"

	"journowlAPI/internal/xp"
)

// Entry is one row of the XP leaderboard.
type Entry struct {
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	XP            int64     `json:"xp" db:"xp"`
	Level         int       `json:"level"`
	CurrentStreak int       `json:"current_streak" db:"current_streak"`
	LongestStreak int       `json:"longest_streak" db:"longest_streak"`
	TotalEntries  int64     `json:"total_entries" db:"total_entries"`
	Rank          int64     `json:"rank" db:"rank"`
}

// Derive fills the level, which is never stored.
func (e *Entry) Derive() {
	e.Level = xp.LevelForXP(e.XP)
}

type Leaderboard struct {
	Entries    []*Entry `json:"entries"`
	TotalUsers int      `json:"total_users"`
}
