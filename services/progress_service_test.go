package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journowlAPI/internal/entry"
	"journowlAPI/internal/events"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL or DATABASE_URL must be set for integration tests")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, pool.Ping(ctx), "failed to ping test database")
	require.NoError(t, EnsureSchema(ctx, pool))

	return pool
}

func cleanupTestUser(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) {
	ctx := context.Background()
	for _, table := range []string{"user_stats", "user_achievements", "user_goals", "user_xp"} {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table+" WHERE user_id = $1", userID); err != nil {
			t.Logf("Warning: failed to cleanup %s: %v", table, err)
		}
	}
	pool.Close()
}

func newTestProgressService(pool *pgxpool.Pool) (*ProgressService, *XPService) {
	achievementService := NewAchievementService(pool)
	goalService := NewGoalService(pool)
	xpService := NewXPService(pool)
	dispatcher := events.NewDispatcher(1)
	return NewProgressService(pool, achievementService, goalService, xpService, dispatcher, nil), xpService
}

func TestInitializeUserProgress_Idempotent(t *testing.T) {
	pool := setupTestDB(t)
	userID := uuid.New()
	defer cleanupTestUser(t, pool, userID)

	service, _ := newTestProgressService(pool)
	ctx := context.Background()

	require.NoError(t, service.InitializeUserProgress(ctx, userID))
	require.NoError(t, service.InitializeUserProgress(ctx, userID))

	var achievementRows, goalRows int
	require.NoError(t, pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM user_achievements WHERE user_id = $1", userID).Scan(&achievementRows))
	require.NoError(t, pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM user_goals WHERE user_id = $1", userID).Scan(&goalRows))

	assert.Equal(t, 24, achievementRows)
	assert.Equal(t, 24, goalRows)

	st, err := service.GetStats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), st.TotalEntries)
	assert.Equal(t, 0, st.CurrentStreak)
}

func TestRecordEntry_FullFlow(t *testing.T) {
	pool := setupTestDB(t)
	userID := uuid.New()
	defer cleanupTestUser(t, pool, userID)

	service, xpService := newTestProgressService(pool)
	ctx := context.Background()

	require.NoError(t, service.InitializeUserProgress(ctx, userID))

	// Monday noon, so no early-bird/night-owl/weekend noise in the XP math.
	day1 := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return day1 }

	st, err := service.RecordEntry(ctx, &entry.JournalEntryEvent{
		UserID:    userID,
		WordCount: 120,
		CreatedAt: day1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.TotalEntries)
	assert.Equal(t, int64(120), st.TotalWords)
	assert.Equal(t, 1, st.CurrentStreak)
	assert.Equal(t, 1, st.LongestStreak)

	unlocked := unlockedIDs(t, ctx, pool, userID)
	assert.Contains(t, unlocked, "first_steps")
	assert.Contains(t, unlocked, "word_explorer")
	assert.NotContains(t, unlocked, "daily_writer")
	assert.NotContains(t, unlocked, "storyteller")

	// base 50+120/10, two common unlocks at 50 each, one beginner goal at 25
	progress, err := xpService.GetProgress(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(187), progress.XP)
	assert.Equal(t, 1, progress.Level)
	assert.Equal(t, "Novice", progress.LevelName)

	goals, err := service.goals.GetGoals(ctx, userID)
	require.NoError(t, err)
	for _, g := range goals {
		if g.ID == "word_count_goal" {
			assert.True(t, g.Completed)
			assert.Equal(t, 100, g.Progress)
		}
		if g.ID == "daily_writing" {
			assert.False(t, g.Completed)
		}
	}

	// consecutive day extends the streak
	day2 := time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return day2 }

	st, err = service.RecordEntry(ctx, &entry.JournalEntryEvent{
		UserID:    userID,
		WordCount: 80,
		CreatedAt: day2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.TotalEntries)
	assert.Equal(t, int64(200), st.TotalWords)
	assert.Equal(t, 2, st.CurrentStreak)
	assert.Equal(t, 2, st.LongestStreak)

	// skipping a day resets the current streak but keeps the longest
	day4 := time.Date(2025, time.March, 6, 18, 30, 0, 0, time.UTC)
	service.now = func() time.Time { return day4 }

	st, err = service.RecordEntry(ctx, &entry.JournalEntryEvent{
		UserID:    userID,
		WordCount: 60,
		CreatedAt: day4,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.TotalEntries)
	assert.Equal(t, 1, st.CurrentStreak)
	assert.Equal(t, 2, st.LongestStreak)
}

func TestRecordEntry_RejectsInvalidEvent(t *testing.T) {
	pool := setupTestDB(t)
	userID := uuid.New()
	defer cleanupTestUser(t, pool, userID)

	service, _ := newTestProgressService(pool)
	ctx := context.Background()

	_, err := service.RecordEntry(ctx, &entry.JournalEntryEvent{
		UserID:    userID,
		WordCount: -5,
		CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, entry.ErrNegativeWords)

	st, err := service.GetStats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), st.TotalEntries)
}

func unlockedIDs(t *testing.T, ctx context.Context, pool *pgxpool.Pool, userID uuid.UUID) []string {
	t.Helper()
	rows, err := pool.Query(ctx,
		"SELECT achievement_id FROM user_achievements WHERE user_id = $1 AND unlocked_at IS NOT NULL", userID)
	require.NoError(t, err)
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		ids = append(ids, id)
	}
	require.NoError(t, rows.Err())
	return ids
}
