package xp

import (
	"time"

	"github.com/google/uuid"
)

// Reason tags why XP was granted. Awards are tied to state transitions, not
// to evaluation calls, so re-evaluating never trickles extra XP.
type Reason string

const (
	ReasonEntryCreated        Reason = "entry_created"
	ReasonAchievementUnlocked Reason = "achievement_unlocked"
	ReasonGoalCompleted       Reason = "goal_completed"
)

const xpPerLevel = 1000

// Progress is the per-user ledger row. Level is always derived from XP and
// never stored on its own.
type Progress struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	XP        int64     `json:"xp" db:"xp"`
	Level     int       `json:"level"`
	LevelName string    `json:"level_name"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Derive fills the computed fields from the stored XP value.
func (p *Progress) Derive() {
	p.Level = LevelForXP(p.XP)
	p.LevelName = LevelName(p.Level)
}

// LevelForXP maps accumulated XP to a level: every 1000 XP is one level,
// starting at level 1.
func LevelForXP(points int64) int {
	if points < 0 {
		return 1
	}
	return int(points/xpPerLevel) + 1
}

var levelNames = []string{
	"Novice", "Beginner", "Explorer", "Journaler",
	"Dedicated", "Passionate", "Master", "Legend",
}

// LevelName returns the display tier for a level. Levels past the table all
// read Legend.
func LevelName(level int) string {
	if level < 1 {
		level = 1
	}
	if level > len(levelNames) {
		level = len(levelNames)
	}
	return levelNames[level-1]
}

// BaseEntryAward is the XP granted for writing an entry: a flat 50 plus one
// point per ten words.
func BaseEntryAward(wordCount int) int64 {
	if wordCount < 0 {
		wordCount = 0
	}
	return 50 + int64(wordCount/10)
}
