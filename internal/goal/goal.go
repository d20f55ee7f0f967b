package goal

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"journowlAPI/internal/metric"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// XP awarded once, when the goal transitions from incomplete to complete.
func (d Difficulty) XP() int64 {
	switch d {
	case DifficultyBeginner:
		return 25
	case DifficultyIntermediate:
		return 50
	case DifficultyAdvanced:
		return 100
	}
	return 0
}

// Definition is one immutable catalog entry.
type Definition struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Metric      metric.Metric `json:"-"`
	Target      int64         `json:"target_value"`
	Difficulty  Difficulty    `json:"difficulty"`
}

// Instance is the per-user progress row. completed flips false->true only.
type Instance struct {
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	GoalID        string     `json:"goal_id" db:"goal_id"`
	CurrentValue  int64      `json:"current_value" db:"current_value"`
	LastEntrySeen int64      `json:"-" db:"last_entry_seen"`
	Completed     bool       `json:"is_completed" db:"completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// WithProgress is the dashboard read shape: catalog entry + instance +
// clamped completion percentage.
type WithProgress struct {
	Definition
	CurrentValue int64      `json:"current_value"`
	Progress     int        `json:"progress"`
	Completed    bool       `json:"is_completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// CompletedEvent is emitted exactly once per user and goal.
type CompletedEvent struct {
	UserID      uuid.UUID  `json:"user_id"`
	GoalID      string     `json:"goal_id"`
	Title       string     `json:"title"`
	Difficulty  Difficulty `json:"difficulty"`
	CompletedAt time.Time  `json:"completed_at"`
}

// Progress returns the completion percentage, clamped to [0,100] even when
// the current value has overshot the target.
func Progress(current, target int64) int {
	if target <= 0 {
		return 0
	}
	p := int(math.Round(float64(current) / float64(target) * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

var catalog = []Definition{
	// Beginner
	{ID: "daily_writing", Title: "Daily Writing", Description: "Write at least one journal entry every day", Metric: metric.Streak(), Target: 7, Difficulty: DifficultyBeginner},
	{ID: "word_count_goal", Title: "Word Count Goal", Description: "Write at least 100 words per entry", Metric: metric.EntryWords(), Target: 100, Difficulty: DifficultyBeginner},
	{ID: "mood_tracking", Title: "Mood Tracking", Description: "Track your mood for 5 consecutive days", Metric: metric.Mood(), Target: 5, Difficulty: DifficultyBeginner},
	{ID: "photo_memories", Title: "Photo Memories", Description: "Add photos to 3 journal entries", Metric: metric.Photos(), Target: 3, Difficulty: DifficultyBeginner},
	{ID: "morning_pages", Title: "Morning Pages", Description: "Write 3 morning entries this week", Metric: metric.TimeBefore(9), Target: 3, Difficulty: DifficultyBeginner},
	{ID: "gratitude_practice", Title: "Gratitude Practice", Description: "List 3 things you're grateful for daily", Metric: metric.Keyword("grateful", "thankful", "appreciate"), Target: 3, Difficulty: DifficultyBeginner},
	{ID: "emotion_explorer", Title: "Emotion Explorer", Description: "Use 10 different emotion words", Metric: metric.Keyword("happy", "sad", "excited", "calm", "anxious", "angry", "peaceful", "worried", "joyful", "content"), Target: 10, Difficulty: DifficultyBeginner},
	{ID: "weekend_warrior", Title: "Weekend Warrior", Description: "Write on both weekend days", Metric: metric.Weekend(), Target: 2, Difficulty: DifficultyBeginner},

	// Intermediate
	{ID: "weekly_consistency", Title: "Weekly Consistency", Description: "Maintain a 7-day writing streak", Metric: metric.Streak(), Target: 7, Difficulty: DifficultyIntermediate},
	{ID: "detailed_entries", Title: "Detailed Entries", Description: "Write entries with at least 300 words", Metric: metric.EntryWords(), Target: 300, Difficulty: DifficultyIntermediate},
	{ID: "creative_expression", Title: "Creative Expression", Description: "Use drawings in 5 journal entries", Metric: metric.Drawings(), Target: 5, Difficulty: DifficultyIntermediate},
	{ID: "reflection_master", Title: "Reflection Master", Description: "Write about gratitude for 7 days", Metric: metric.Keyword("grateful", "thankful", "appreciate"), Target: 7, Difficulty: DifficultyIntermediate},
	{ID: "memory_lane", Title: "Memory Lane", Description: "Write about 10 childhood memories", Metric: metric.Keyword("childhood", "remember", "memory", "grew up"), Target: 10, Difficulty: DifficultyIntermediate},
	{ID: "dream_journal", Title: "Dream Journal", Description: "Record 15 dreams or aspirations", Metric: metric.Keyword("dream", "hope", "aspire", "wish"), Target: 15, Difficulty: DifficultyIntermediate},
	{ID: "adventure_seeker", Title: "Adventure Seeker", Description: "Document 12 new experiences", Metric: metric.Keyword("adventure", "trip", "explore", "visited", "tried"), Target: 12, Difficulty: DifficultyIntermediate},
	{ID: "social_stories", Title: "Social Stories", Description: "Write about relationships 20 times", Metric: metric.Keyword("friend", "family", "together", "love"), Target: 20, Difficulty: DifficultyIntermediate},

	// Advanced
	{ID: "monthly_champion", Title: "Monthly Champion", Description: "Write every day for 30 days", Metric: metric.Streak(), Target: 30, Difficulty: DifficultyAdvanced},
	{ID: "novel_writer", Title: "Novel Writer", Description: "Write a total of 5,000 words", Metric: metric.TotalWords(), Target: 5000, Difficulty: DifficultyAdvanced},
	{ID: "memory_keeper", Title: "Memory Keeper", Description: "Create 50 journal entries", Metric: metric.Entries(), Target: 50, Difficulty: DifficultyAdvanced},
	{ID: "mindfulness_journey", Title: "Mindfulness Journey", Description: "Practice mindful writing for 21 days", Metric: metric.Keyword("mindful", "present", "breathe", "aware"), Target: 21, Difficulty: DifficultyAdvanced},
	{ID: "wisdom_collector", Title: "Wisdom Collector", Description: "Write 100 life lessons learned", Metric: metric.Keyword("lesson", "learned", "wisdom", "insight"), Target: 100, Difficulty: DifficultyAdvanced},
	{ID: "year_of_growth", Title: "Year of Growth", Description: "Maintain 100-day writing streak", Metric: metric.Streak(), Target: 100, Difficulty: DifficultyAdvanced},
	{ID: "master_storyteller", Title: "Master Storyteller", Description: "Write 8,000 words total", Metric: metric.TotalWords(), Target: 8000, Difficulty: DifficultyAdvanced},
	{ID: "life_chronicler", Title: "Life Chronicler", Description: "Document 150 significant moments", Metric: metric.Entries(), Target: 150, Difficulty: DifficultyAdvanced},
}

func init() {
	if err := validateCatalog(catalog); err != nil {
		panic(err)
	}
}

func validateCatalog(defs []Definition) error {
	if len(defs) != 24 {
		return fmt.Errorf("goal catalog: expected 24 definitions, got %d", len(defs))
	}
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if d.ID == "" || seen[d.ID] {
			return fmt.Errorf("goal catalog: missing or duplicate id %q", d.ID)
		}
		seen[d.ID] = true
		if d.Target <= 0 {
			return fmt.Errorf("goal %s: non-positive target %d", d.ID, d.Target)
		}
		if err := d.Metric.Validate(); err != nil {
			return fmt.Errorf("goal %s: %w", d.ID, err)
		}
		switch d.Difficulty {
		case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		default:
			return fmt.Errorf("goal %s: unknown difficulty %q", d.ID, d.Difficulty)
		}
	}
	return nil
}

// Catalog returns the immutable goal definitions.
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

// Evaluate advances every instance and marks goals complete when the target
// is reached. Completion is permanent: a completed instance is never
// touched again, so a shrinking metric can never revert it, and re-running
// with unchanged input emits nothing.
func Evaluate(instances map[string]*Instance, userID uuid.UUID, snap metric.Snapshot, e metric.Entry, now time.Time) []CompletedEvent {
	var completed []CompletedEvent
	for _, def := range catalog {
		inst, ok := instances[def.ID]
		if !ok {
			inst = &Instance{UserID: userID, GoalID: def.ID}
			instances[def.ID] = inst
		}
		if inst.Completed {
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

		if inst.CurrentValue >= def.Target {
			ts := now
			inst.Completed = true
			inst.CompletedAt = &ts
			completed = append(completed, CompletedEvent{
				UserID:      userID,
				GoalID:      def.ID,
				Title:       def.Title,
				Difficulty:  def.Difficulty,
				CompletedAt: ts,
			})
		}
	}
	return completed
}
