package achievement

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"journowlAPI/internal/metric"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// XP awarded once, when the badge transitions from locked to unlocked.
func (r Rarity) XP() int64 {
	switch r {
	case RarityCommon:
		return 50
	case RarityRare:
		return 100
	case RarityEpic:
		return 250
	case RarityLegendary:
		return 500
	}
	return 0
}

// Definition is one immutable catalog entry. The catalog is fixed at build
// time; per-user state lives in Instance rows.
type Definition struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Rarity      Rarity        `json:"rarity"`
	Metric      metric.Metric `json:"-"`
	Threshold   int64         `json:"threshold"`
}

// Instance is the per-user progress row for one definition. unlocked_at is
// set at most once and never cleared. last_entry_seen records the aggregate
// entry count at the last evaluation, so replaying an already-processed
// entry never accumulates counter progress twice.
type Instance struct {
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	AchievementID string     `json:"achievement_id" db:"achievement_id"`
	CurrentValue  int64      `json:"current_value" db:"current_value"`
	LastEntrySeen int64      `json:"-" db:"last_entry_seen"`
	UnlockedAt    *time.Time `json:"unlocked_at,omitempty" db:"unlocked_at"`
}

// WithStatus is the read-model shape for the dashboard: the catalog entry
// joined with the user's progress.
type WithStatus struct {
	Definition
	CurrentValue int64      `json:"current_value"`
	Unlocked     bool       `json:"unlocked"`
	UnlockedAt   *time.Time `json:"unlocked_at,omitempty"`
}

// UnlockedEvent is emitted exactly once per user and definition.
type UnlockedEvent struct {
	UserID        uuid.UUID `json:"user_id"`
	AchievementID string    `json:"achievement_id"`
	Title         string    `json:"title"`
	Rarity        Rarity    `json:"rarity"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

var catalog = []Definition{
	// Common
	{ID: "first_steps", Title: "First Steps", Description: "Write your first journal entry", Icon: "📝", Rarity: RarityCommon, Metric: metric.Entries(), Threshold: 1},
	{ID: "daily_writer", Title: "Daily Writer", Description: "Write for 3 consecutive days", Icon: "📅", Rarity: RarityCommon, Metric: metric.Streak(), Threshold: 3},
	{ID: "word_explorer", Title: "Word Explorer", Description: "Write 100 words in a single entry", Icon: "📚", Rarity: RarityCommon, Metric: metric.EntryWords(), Threshold: 100},
	{ID: "mood_tracker", Title: "Mood Tracker", Description: "Track your mood for 5 days", Icon: "😊", Rarity: RarityCommon, Metric: metric.Mood(), Threshold: 5},
	{ID: "early_bird", Title: "Early Bird", Description: "Write an entry before 9 AM", Icon: "🌅", Rarity: RarityCommon, Metric: metric.TimeBefore(9), Threshold: 1},
	{ID: "night_owl", Title: "Night Owl", Description: "Write an entry after 10 PM", Icon: "🌙", Rarity: RarityCommon, Metric: metric.TimeAfter(22), Threshold: 1},
	{ID: "grateful_heart", Title: "Grateful Heart", Description: "Write about gratitude 3 times", Icon: "🙏", Rarity: RarityCommon, Metric: metric.Keyword("grateful", "thankful", "appreciate"), Threshold: 3},
	{ID: "weather_reporter", Title: "Weather Reporter", Description: "Mention weather in 5 entries", Icon: "🌤️", Rarity: RarityCommon, Metric: metric.Keyword("weather", "sunny", "rain", "cloud"), Threshold: 5},

	// Rare
	{ID: "weekly_warrior", Title: "Weekly Warrior", Description: "Write every day for a week", Icon: "⚔️", Rarity: RarityRare, Metric: metric.Streak(), Threshold: 7},
	{ID: "storyteller", Title: "Storyteller", Description: "Write 500 words in one entry", Icon: "📖", Rarity: RarityRare, Metric: metric.EntryWords(), Threshold: 500},
	{ID: "photo_memory", Title: "Photo Memory", Description: "Add photos to 10 of your entries", Icon: "📸", Rarity: RarityRare, Metric: metric.Photos(), Threshold: 10},
	{ID: "emoji_master", Title: "Emoji Master", Description: "Use 50 different emojis", Icon: "🎭", Rarity: RarityRare, Metric: metric.Emoji(), Threshold: 50},
	{ID: "deep_thinker", Title: "Deep Thinker", Description: "Write reflective entries for 10 days", Icon: "🤔", Rarity: RarityRare, Metric: metric.Keyword("reflect", "realize", "understand", "learned"), Threshold: 10},
	{ID: "adventure_logger", Title: "Adventure Logger", Description: "Document 15 different activities", Icon: "🗺️", Rarity: RarityRare, Metric: metric.Keyword("adventure", "trip", "explore", "visited", "tried"), Threshold: 15},
	{ID: "mood_rainbow", Title: "Mood Rainbow", Description: "Experience all 7 mood types", Icon: "🌈", Rarity: RarityRare, Metric: metric.Mood("happy", "sad", "excited", "calm", "anxious", "grateful", "frustrated"), Threshold: 7},
	{ID: "time_traveler", Title: "Time Traveler", Description: "Write about past memories 20 times", Icon: "⏰", Rarity: RarityRare, Metric: metric.Keyword("remember", "childhood", "memory", "back then"), Threshold: 20},

	// Epic
	{ID: "monthly_champion", Title: "Monthly Champion", Description: "Write every day for 30 days", Icon: "🏆", Rarity: RarityEpic, Metric: metric.Streak(), Threshold: 30},
	{ID: "novel_writer", Title: "Novel Writer", Description: "Write 5,000 words total", Icon: "📜", Rarity: RarityEpic, Metric: metric.TotalWords(), Threshold: 5000},
	{ID: "memory_keeper", Title: "Memory Keeper", Description: "Create 100 journal entries", Icon: "🗂️", Rarity: RarityEpic, Metric: metric.Entries(), Threshold: 100},
	{ID: "artist", Title: "Artist", Description: "Add drawings to 20 entries", Icon: "🎨", Rarity: RarityEpic, Metric: metric.Drawings(), Threshold: 20},
	{ID: "wisdom_seeker", Title: "Wisdom Seeker", Description: "Write philosophical thoughts 25 times", Icon: "🧠", Rarity: RarityEpic, Metric: metric.Keyword("wisdom", "philosophy", "meaning", "purpose"), Threshold: 25},
	{ID: "social_butterfly", Title: "Social Butterfly", Description: "Write about relationships 30 times", Icon: "🦋", Rarity: RarityEpic, Metric: metric.Keyword("friend", "family", "together", "love"), Threshold: 30},
	{ID: "goal_crusher", Title: "Goal Crusher", Description: "Complete 50 personal goals", Icon: "💪", Rarity: RarityEpic, Metric: metric.GoalsCompleted(), Threshold: 50},

	// Legendary
	{ID: "master_chronicler", Title: "Master Chronicler", Description: "Write 10,000 words lifetime", Icon: "👑", Rarity: RarityLegendary, Metric: metric.TotalWords(), Threshold: 10000},
}

func init() {
	if err := validateCatalog(catalog); err != nil {
		panic(err)
	}
}

func validateCatalog(defs []Definition) error {
	if len(defs) != 24 {
		return fmt.Errorf("achievement catalog: expected 24 definitions, got %d", len(defs))
	}
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if d.ID == "" || seen[d.ID] {
			return fmt.Errorf("achievement catalog: missing or duplicate id %q", d.ID)
		}
		seen[d.ID] = true
		if d.Threshold <= 0 {
			return fmt.Errorf("achievement %s: non-positive threshold %d", d.ID, d.Threshold)
		}
		if err := d.Metric.Validate(); err != nil {
			return fmt.Errorf("achievement %s: %w", d.ID, err)
		}
		switch d.Rarity {
		case RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		default:
			return fmt.Errorf("achievement %s: unknown rarity %q", d.ID, d.Rarity)
		}
	}
	return nil
}

// Catalog returns the immutable achievement definitions.
func Catalog() []Definition {
	return catalog
}

// Lookup returns the definition for an id, if it exists.
func Lookup(id string) (Definition, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// Evaluate advances every instance against the new aggregate snapshot and
// entry, unlocking definitions whose metric reached the threshold. Instances
// missing from the map are created locked at zero. Already-unlocked
// instances are left untouched, so re-running with unchanged input emits
// nothing.
func Evaluate(instances map[string]*Instance, userID uuid.UUID, snap metric.Snapshot, e metric.Entry, now time.Time) []UnlockedEvent {
	var unlocked []UnlockedEvent
	for _, def := range catalog {
		inst, ok := instances[def.ID]
		if !ok {
			inst = &Instance{UserID: userID, AchievementID: def.ID}
			instances[def.ID] = inst
		}
		if inst.UnlockedAt != nil {
			continue
		}

		if def.Metric.Counter() {
			if snap.TotalEntries > inst.LastEntrySeen {
				inst.CurrentValue += def.Metric.Increment(e)
			}
		} else {
			inst.CurrentValue = def.Metric.Gauge(snap, e)
		}
		inst.LastEntrySeen = snap.TotalEntries

		if inst.CurrentValue >= def.Threshold {
			ts := now
			inst.UnlockedAt = &ts
			unlocked = append(unlocked, UnlockedEvent{
				UserID:        userID,
				AchievementID: def.ID,
				Title:         def.Title,
				Rarity:        def.Rarity,
				UnlockedAt:    ts,
			})
		}
	}
	return unlocked
}
