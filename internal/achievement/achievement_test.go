package achievement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journowlAPI/internal/metric"
)

var noon = time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC) // a Monday

func TestCatalogIsValid(t *testing.T) {
	require.NoError(t, validateCatalog(Catalog()))
	assert.Len(t, Catalog(), 24)

	byRarity := map[Rarity]int{}
	for _, d := range Catalog() {
		byRarity[d.Rarity]++
	}
	assert.Equal(t, 8, byRarity[RarityCommon])
	assert.Equal(t, 8, byRarity[RarityRare])
	assert.Equal(t, 7, byRarity[RarityEpic])
	assert.Equal(t, 1, byRarity[RarityLegendary])
}

func TestLookup(t *testing.T) {
	def, ok := Lookup("word_explorer")
	require.True(t, ok)
	assert.Equal(t, int64(100), def.Threshold)

	_, ok = Lookup("no_such_badge")
	assert.False(t, ok)
}

func TestRarityXP(t *testing.T) {
	assert.Equal(t, int64(50), RarityCommon.XP())
	assert.Equal(t, int64(100), RarityRare.XP())
	assert.Equal(t, int64(250), RarityEpic.XP())
	assert.Equal(t, int64(500), RarityLegendary.XP())
}

func unlockedIDs(events []UnlockedEvent) []string {
	ids := make([]string, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.AchievementID)
	}
	return ids
}

func TestEvaluateFirstEntry(t *testing.T) {
	userID := uuid.New()
	instances := map[string]*Instance{}

	snap := metric.Snapshot{TotalEntries: 1, TotalWords: 120, CurrentStreak: 1}
	e := metric.Entry{WordCount: 120, CreatedAt: noon}

	events := Evaluate(instances, userID, snap, e, noon)

	ids := unlockedIDs(events)
	assert.Contains(t, ids, "first_steps")
	assert.Contains(t, ids, "word_explorer", "120 words crosses the 100 threshold")
	assert.NotContains(t, ids, "storyteller", "500 threshold not reached")
	assert.NotContains(t, ids, "daily_writer")

	require.NotNil(t, instances["storyteller"])
	assert.Equal(t, int64(120), instances["storyteller"].CurrentValue, "progress persists on locked badges")
	assert.Nil(t, instances["storyteller"].UnlockedAt)
}

func TestEvaluateThresholdBoundary(t *testing.T) {
	userID := uuid.New()
	instances := map[string]*Instance{}

	// 99 words: one short of word_explorer
	events := Evaluate(instances, userID,
		metric.Snapshot{TotalEntries: 1, TotalWords: 99, CurrentStreak: 1},
		metric.Entry{WordCount: 99, CreatedAt: noon}, noon)
	assert.NotContains(t, unlockedIDs(events), "word_explorer")
	assert.Equal(t, int64(99), instances["word_explorer"].CurrentValue)

	// 100 words exactly: unlocks
	events = Evaluate(instances, userID,
		metric.Snapshot{TotalEntries: 2, TotalWords: 199, CurrentStreak: 1},
		metric.Entry{WordCount: 100, CreatedAt: noon}, noon)
	assert.Contains(t, unlockedIDs(events), "word_explorer")
}

func TestEvaluateOvershootUnlocks(t *testing.T) {
	userID := uuid.New()
	instances := map[string]*Instance{
		"novel_writer": {UserID: userID, AchievementID: "novel_writer", CurrentValue: 4080, LastEntrySeen: 17},
	}

	// total words jump from 4080 past the 5000 threshold without landing on it
	events := Evaluate(instances, userID,
		metric.Snapshot{TotalEntries: 18, TotalWords: 5120, CurrentStreak: 2},
		metric.Entry{WordCount: 1040, CreatedAt: noon}, noon)
	assert.Contains(t, unlockedIDs(events), "novel_writer")
}

func TestEvaluateIdempotent(t *testing.T) {
	userID := uuid.New()
	instances := map[string]*Instance{}

	snap := metric.Snapshot{TotalEntries: 1, TotalWords: 120, CurrentStreak: 1}
	e := metric.Entry{WordCount: 120, Content: "so grateful today", Mood: "happy", CreatedAt: noon}

	first := Evaluate(instances, userID, snap, e, noon)
	require.NotEmpty(t, first)
	gratefulBefore := instances["grateful_heart"].CurrentValue
	unlockedAt := instances["word_explorer"].UnlockedAt
	require.NotNil(t, unlockedAt)

	second := Evaluate(instances, userID, snap, e, noon.Add(time.Hour))
	assert.Empty(t, second, "re-evaluating unchanged input must emit nothing")
	assert.Equal(t, gratefulBefore, instances["grateful_heart"].CurrentValue, "counters must not re-accumulate")
	assert.Equal(t, unlockedAt, instances["word_explorer"].UnlockedAt, "unlock timestamp is permanent")
}

func TestEvaluateKeywordAccumulation(t *testing.T) {
	userID := uuid.New()
	instances := map[string]*Instance{}

	for i := 1; i <= 3; i++ {
		snap := metric.Snapshot{TotalEntries: int64(i), TotalWords: int64(i * 10), CurrentStreak: 1}
		e := metric.Entry{WordCount: 10, Content: "thankful for everything", CreatedAt: noon}
		events := Evaluate(instances, userID, snap, e, noon)
		if i < 3 {
			assert.NotContains(t, unlockedIDs(events), "grateful_heart")
		} else {
			assert.Contains(t, unlockedIDs(events), "grateful_heart", "third gratitude entry reaches the threshold")
		}
	}
}

func TestEvaluateGoalCrusher(t *testing.T) {
	userID := uuid.New()
	instances := map[string]*Instance{}

	events := Evaluate(instances, userID,
		metric.Snapshot{TotalEntries: 200, TotalWords: 100, CurrentStreak: 1, GoalsCompleted: 50},
		metric.Entry{WordCount: 10, CreatedAt: noon}, noon)
	assert.Contains(t, unlockedIDs(events), "goal_crusher")
}
