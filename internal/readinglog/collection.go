package readinglog

import (
	"errors"
	"slices"
	"time"
)

var (
	// ErrDuplicateTimestamp is returned when an entry's timestamp is already
	// used by another entry in the collection.
	ErrDuplicateTimestamp = errors.New("an entry with this timestamp already exists")

	// ErrEntryNotFound is returned when no entry has the requested timestamp.
	ErrEntryNotFound = errors.New("log entry not found")
)

// Prepend returns a new collection with e in front of logs.
func Prepend(logs []LogEntry, e LogEntry) ([]LogEntry, error) {
	if _, ok := Find(logs, e.Timestamp); ok {
		return nil, ErrDuplicateTimestamp
	}
	out := make([]LogEntry, 0, len(logs)+1)
	out = append(out, e)
	return append(out, logs...), nil
}

// Find returns the entry with timestamp ts.
func Find(logs []LogEntry, ts time.Time) (LogEntry, bool) {
	for _, e := range logs {
		if e.Timestamp.Equal(ts) {
			return e, true
		}
	}
	return LogEntry{}, false
}

// Replace returns a copy of logs where the entry sharing e's timestamp is
// replaced by e.
func Replace(logs []LogEntry, e LogEntry) ([]LogEntry, error) {
	out := slices.Clone(logs)
	for i := range out {
		if out[i].Timestamp.Equal(e.Timestamp) {
			out[i] = e
			return out, nil
		}
	}
	return nil, ErrEntryNotFound
}

// SetFeedback returns a copy of logs with the teacher feedback of the entry
// at ts set to text.
func SetFeedback(logs []LogEntry, ts time.Time, text string) ([]LogEntry, error) {
	e, ok := Find(logs, ts)
	if !ok {
		return nil, ErrEntryNotFound
	}
	e.TeacherFeedback = text
	return Replace(logs, e)
}

// ForStudent returns the entries written by studentID, preserving order.
func ForStudent(logs []LogEntry, studentID string) []LogEntry {
	var out []LogEntry
	for _, e := range logs {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	return out
}

// SortNewestFirst sorts logs in place by descending timestamp.
func SortNewestFirst(logs []LogEntry) {
	slices.SortStableFunc(logs, func(a, b LogEntry) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
}
