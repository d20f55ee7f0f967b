package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestComputeFirstEntry(t *testing.T) {
	got := Compute(nil, date(2025, time.March, 1, 10), 0)
	assert.Equal(t, 1, got)
}

func TestComputeSameDay(t *testing.T) {
	last := date(2025, time.March, 1, 10)
	got := Compute(&last, date(2025, time.March, 1, 22), 4)
	assert.Equal(t, 4, got, "second entry on the same day must not double count")
}

func TestComputeConsecutiveDay(t *testing.T) {
	last := date(2025, time.March, 1, 10)
	got := Compute(&last, date(2025, time.March, 2, 9), 1)
	assert.Equal(t, 2, got)
}

func TestComputeNearMidnight(t *testing.T) {
	// 20 minutes apart but on different calendar days -> streak extends
	last := time.Date(2025, time.March, 1, 23, 50, 0, 0, time.UTC)
	now := time.Date(2025, time.March, 2, 0, 10, 0, 0, time.UTC)
	got := Compute(&last, now, 3)
	assert.Equal(t, 4, got)
}

func TestComputeBrokenStreak(t *testing.T) {
	last := date(2025, time.March, 1, 10)
	got := Compute(&last, date(2025, time.March, 3, 10), 7)
	assert.Equal(t, 1, got, "skipping a day restarts the streak")
}

func TestComputeMonthBoundary(t *testing.T) {
	last := date(2025, time.January, 31, 18)
	got := Compute(&last, date(2025, time.February, 1, 8), 5)
	assert.Equal(t, 6, got)
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"same instant", date(2025, time.March, 1, 10), date(2025, time.March, 1, 10), 0},
		{"same day", date(2025, time.March, 1, 0), date(2025, time.March, 1, 23), 0},
		{"next day", date(2025, time.March, 1, 23), date(2025, time.March, 2, 0), 1},
		{"two days", date(2025, time.March, 1, 12), date(2025, time.March, 3, 12), 2},
		{"year boundary", date(2024, time.December, 31, 23), date(2025, time.January, 1, 1), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.from, tt.to))
		})
	}
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Sofia")
	if err != nil {
		t.Skip("tzdata not available")
	}

	// DST starts on the night between these two entries; the wall-clock gap
	// is 23 hours but they are still adjacent calendar days.
	from := time.Date(2025, time.March, 29, 22, 0, 0, 0, loc)
	to := time.Date(2025, time.March, 30, 22, 0, 0, 0, loc)
	assert.Equal(t, 1, DaysBetween(from, to))
}
