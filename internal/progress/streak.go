package progress

import (
	"slices"
	"time"

	"github.com/ourclass/readlog/internal/readinglog"
	"github.com/ourclass/readlog/internal/week"
)

// readingDays returns the distinct calendar days, in loc, that have at least
// one log, most recent first.
func readingDays(logs []readinglog.LogEntry, loc *time.Location) []time.Time {
	seen := make(map[string]bool, len(logs))
	var days []time.Time
	for _, e := range logs {
		d := week.StartOfDay(e.Timestamp.In(loc))
		if key := d.Format(time.DateOnly); !seen[key] {
			seen[key] = true
			days = append(days, d)
		}
	}
	slices.SortFunc(days, func(a, b time.Time) int { return b.Compare(a) })
	return days
}

// consecutive reports whether a is the calendar day right after b.
func consecutive(a, b time.Time) bool {
	y, m, d := b.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, b.Location()).Equal(a)
}

// Streak returns the current run of consecutive reading days. The run only
// counts when the most recent reading day is today or yesterday relative to
// now; a broken streak is 0.
func Streak(logs []readinglog.LogEntry, now time.Time) int {
	days := readingDays(logs, now.Location())
	if len(days) == 0 {
		return 0
	}

	today := week.StartOfDay(now)
	if !days[0].Equal(today) && !consecutive(today, days[0]) {
		return 0
	}

	streak := 1
	for i := 0; i < len(days)-1; i++ {
		if !consecutive(days[i], days[i+1]) {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak returns the longest run of consecutive reading days in the
// history, in loc. It is informational and never stands in for Streak.
func LongestStreak(logs []readinglog.LogEntry, loc *time.Location) int {
	days := readingDays(logs, loc)
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 0; i < len(days)-1; i++ {
		if consecutive(days[i], days[i+1]) {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}
