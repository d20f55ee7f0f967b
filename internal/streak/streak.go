package streak

import "time"

// Compute returns the new streak value after an entry written at now.
// A nil lastEntryDate means this is the first entry ever. Same calendar day
// keeps the streak, the next day extends it, anything longer resets to 1.
func Compute(lastEntryDate *time.Time, now time.Time, priorStreak int) int {
	if lastEntryDate == nil {
		return 1
	}
	switch d := DaysBetween(*lastEntryDate, now); {
	case d <= 0:
		return priorStreak
	case d == 1:
		return priorStreak + 1
	default:
		return 1
	}
}

// DaysBetween returns the number of calendar days between two instants,
// using each instant's own calendar date. Anchoring the dates at UTC
// midnight keeps the difference exact across DST transitions, which a raw
// 24h division would get wrong.
func DaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
