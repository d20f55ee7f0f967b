package xp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		points int64
		want   int
	}{
		{0, 1},
		{999, 1},
		{1000, 2},
		{1999, 2},
		{2000, 3},
		{-50, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForXP(tt.points), "level for %d xp", tt.points)
	}
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "Novice", LevelName(1))
	assert.Equal(t, "Legend", LevelName(8))
	assert.Equal(t, "Legend", LevelName(40), "levels past the table read Legend")
	assert.Equal(t, "Novice", LevelName(0))
}

func TestBaseEntryAward(t *testing.T) {
	assert.Equal(t, int64(50), BaseEntryAward(0))
	assert.Equal(t, int64(50), BaseEntryAward(9))
	assert.Equal(t, int64(62), BaseEntryAward(120))
	assert.Equal(t, int64(50), BaseEntryAward(-3))
}

func TestDerive(t *testing.T) {
	p := Progress{XP: 2150}
	p.Derive()
	assert.Equal(t, 3, p.Level)
	assert.Equal(t, "Explorer", p.LevelName)
}
