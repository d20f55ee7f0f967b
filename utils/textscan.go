package utils

import (
	"strings"
	"unicode"
)

// ContainsAnyWord reports whether the content mentions at least one of the
// given words. Matching is case-insensitive substring matching, same as the
// keyword detection on the dashboard side.
func ContainsAnyWord(content string, words []string) bool {
	lower := strings.ToLower(content)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// CountUniqueEmojis counts distinct emoji runes in the content. Covers the
// common emoji blocks plus misc symbols/dingbats, which is what journaling
// entries actually contain.
func CountUniqueEmojis(content string) int {
	seen := make(map[rune]bool)
	for _, r := range content {
		if isEmoji(r) {
			seen[r] = true
		}
	}
	return len(seen)
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // emoji, pictographs, symbols
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols and dingbats
		return true
	}
	return false
}

// NormalizeMood lowercases and trims a mood label for comparisons.
func NormalizeMood(mood string) string {
	return strings.ToLower(strings.TrimFunc(mood, unicode.IsSpace))
}
