// Package week buckets instants into ISO-8601 calendar weeks.
package week

import (
	"fmt"
	"time"
)

// ID returns the ISO week key "{isoYear}-{week}" for the calendar date of t
// in t's own location, e.g. "2024-29". The week number is not zero-padded.
func ID(t time.Time) string {
	year, wk := StartOfDay(t).ISOWeek()
	return fmt.Sprintf("%d-%d", year, wk)
}

// StartOfDay returns midnight of t's calendar date in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns Monday 00:00 of the ISO week containing t.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// Contains reports whether t falls in the week identified by id.
func Contains(id string, t time.Time) bool {
	return ID(t) == id
}
