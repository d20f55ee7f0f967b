package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsAnyWord(t *testing.T) {
	words := []string{"grateful", "thankful", "appreciate"}

	assert.True(t, ContainsAnyWord("I am so Grateful today", words))
	assert.True(t, ContainsAnyWord("THANKFUL for everything", words))
	assert.False(t, ContainsAnyWord("an ordinary tuesday", words))
	assert.False(t, ContainsAnyWord("", words))
}

func TestCountUniqueEmojis(t *testing.T) {
	assert.Equal(t, 0, CountUniqueEmojis("no emojis here"))
	assert.Equal(t, 1, CountUniqueEmojis("sunny 🌞 and 🌞 again"))
	assert.Equal(t, 3, CountUniqueEmojis("🌞🎉🔥"))
}

func TestNormalizeMood(t *testing.T) {
	assert.Equal(t, "happy", NormalizeMood("  Happy "))
	assert.Equal(t, "", NormalizeMood("   "))
}
