package progress

import (
	"fmt"
	"time"

	"github.com/ourclass/readlog/internal/readinglog"
)

func day(month time.Month, d, hour int) time.Time {
	return time.Date(2024, month, d, hour, 0, 0, 0, time.UTC)
}

func quickLog(ts time.Time, minutes int) readinglog.LogEntry {
	return readinglog.LogEntry{
		Timestamp:  ts,
		StudentID:  "s1",
		BookTitle:  "Hatchet",
		Genre:      "Realistic fiction",
		Reflection: readinglog.QuickThought{Thought: "Brian is so brave out there.", MinutesRead: minutes},
	}
}

func finishedLog(ts time.Time, title string) readinglog.LogEntry {
	return readinglog.LogEntry{
		Timestamp:    ts,
		StudentID:    "s1",
		BookTitle:    title,
		Genre:        "Fantasy",
		FinishedBook: true,
		Reflection:   readinglog.DeepDive{Focus: readinglog.FocusTheme, Analysis: "analysis"},
	}
}

func logsOnDays(month time.Month, days ...int) []readinglog.LogEntry {
	var logs []readinglog.LogEntry
	for i, d := range days {
		logs = append(logs, quickLog(day(month, d, 8+i%10), 10))
	}
	return logs
}

func titles(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Book %d", i+1)
	}
	return out
}
