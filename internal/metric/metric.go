package metric

import (
	"fmt"
	"time"

	"journowlAPI/utils"
)

// Kind identifies which underlying measurement a definition tracks.
type Kind int

const (
	KindEntries Kind = iota // lifetime entry count
	KindTotalWords
	KindEntryWords // word count of a single entry
	KindStreak
	KindTimeBefore // entry written before Hour (local time)
	KindTimeAfter  // entry written at or after Hour (local time)
	KindWeekend
	KindMood
	KindKeyword
	KindPhotos
	KindDrawings
	KindEmoji
	KindGoalsCompleted
)

func (k Kind) String() string {
	switch k {
	case KindEntries:
		return "entries"
	case KindTotalWords:
		return "total_words"
	case KindEntryWords:
		return "entry_words"
	case KindStreak:
		return "streak"
	case KindTimeBefore:
		return "time_before"
	case KindTimeAfter:
		return "time_after"
	case KindWeekend:
		return "weekend"
	case KindMood:
		return "mood"
	case KindKeyword:
		return "keyword"
	case KindPhotos:
		return "photos"
	case KindDrawings:
		return "drawings"
	case KindEmoji:
		return "emoji"
	case KindGoalsCompleted:
		return "goals_completed"
	}
	return "unknown"
}

// Metric is a validated tagged union. Hour is only meaningful for the
// time-of-day kinds, Keywords for KindKeyword and (as an allowed mood set)
// for KindMood.
type Metric struct {
	Kind     Kind
	Hour     int
	Keywords []string
}

func Entries() Metric                { return Metric{Kind: KindEntries} }
func TotalWords() Metric             { return Metric{Kind: KindTotalWords} }
func EntryWords() Metric             { return Metric{Kind: KindEntryWords} }
func Streak() Metric                 { return Metric{Kind: KindStreak} }
func TimeBefore(h int) Metric        { return Metric{Kind: KindTimeBefore, Hour: h} }
func TimeAfter(h int) Metric         { return Metric{Kind: KindTimeAfter, Hour: h} }
func Weekend() Metric                { return Metric{Kind: KindWeekend} }
func Mood(allowed ...string) Metric  { return Metric{Kind: KindMood, Keywords: allowed} }
func Keyword(words ...string) Metric { return Metric{Kind: KindKeyword, Keywords: words} }
func Photos() Metric                 { return Metric{Kind: KindPhotos} }
func Drawings() Metric               { return Metric{Kind: KindDrawings} }
func Emoji() Metric                  { return Metric{Kind: KindEmoji} }
func GoalsCompleted() Metric         { return Metric{Kind: KindGoalsCompleted} }

// Counter reports whether the metric accumulates per-entry occurrences.
// Gauge metrics instead track the current value of an aggregate.
func (m Metric) Counter() bool {
	switch m.Kind {
	case KindTimeBefore, KindTimeAfter, KindWeekend, KindMood, KindKeyword,
		KindPhotos, KindDrawings, KindEmoji:
		return true
	}
	return false
}

// Validate checks the union at catalog load time so evaluation never has to
// deal with malformed definitions.
func (m Metric) Validate() error {
	switch m.Kind {
	case KindEntries, KindTotalWords, KindEntryWords, KindStreak, KindWeekend,
		KindMood, KindPhotos, KindDrawings, KindEmoji, KindGoalsCompleted:
		return nil
	case KindTimeBefore, KindTimeAfter:
		if m.Hour < 0 || m.Hour > 23 {
			return fmt.Errorf("metric %s: hour %d out of range", m.Kind, m.Hour)
		}
		return nil
	case KindKeyword:
		if len(m.Keywords) == 0 {
			return fmt.Errorf("metric keyword: empty keyword set")
		}
		return nil
	}
	return fmt.Errorf("metric: unknown kind %d", m.Kind)
}

// Snapshot is the per-user aggregate view the gauge metrics read from.
type Snapshot struct {
	TotalEntries   int64
	TotalWords     int64
	CurrentStreak  int
	GoalsCompleted int64
}

// Entry is the slice of a journal entry the counter metrics read from.
type Entry struct {
	WordCount   int
	Mood        string
	Content     string
	CreatedAt   time.Time
	HasPhotos   bool
	HasDrawings bool
}

// Gauge returns the absolute value for gauge kinds. Zero for counter kinds.
func (m Metric) Gauge(s Snapshot, e Entry) int64 {
	switch m.Kind {
	case KindEntries:
		return s.TotalEntries
	case KindTotalWords:
		return s.TotalWords
	case KindEntryWords:
		return int64(e.WordCount)
	case KindStreak:
		return int64(s.CurrentStreak)
	case KindGoalsCompleted:
		return s.GoalsCompleted
	}
	return 0
}

// Increment returns how much a single entry advances a counter metric.
// Zero for gauge kinds.
func (m Metric) Increment(e Entry) int64 {
	switch m.Kind {
	case KindTimeBefore:
		if e.CreatedAt.Hour() < m.Hour {
			return 1
		}
	case KindTimeAfter:
		if e.CreatedAt.Hour() >= m.Hour {
			return 1
		}
	case KindWeekend:
		wd := e.CreatedAt.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			return 1
		}
	case KindMood:
		mood := utils.NormalizeMood(e.Mood)
		if mood == "" {
			return 0
		}
		if len(m.Keywords) == 0 {
			return 1
		}
		for _, allowed := range m.Keywords {
			if mood == allowed {
				return 1
			}
		}
	case KindKeyword:
		if utils.ContainsAnyWord(e.Content, m.Keywords) {
			return 1
		}
	case KindPhotos:
		if e.HasPhotos {
			return 1
		}
	case KindDrawings:
		if e.HasDrawings {
			return 1
		}
	case KindEmoji:
		return int64(utils.CountUniqueEmojis(e.Content))
	}
	return 0
}
