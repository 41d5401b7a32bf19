// Package dashboard holds the signed-in screens: the student's progress
// page, the teacher's class page and the forms they push.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/ourclass/readlog/internal/classroom"
	"github.com/ourclass/readlog/internal/coach"
	"github.com/ourclass/readlog/internal/readinglog"
	"github.com/ourclass/readlog/internal/screen"
	"github.com/ourclass/readlog/internal/ui/theme"
)

// Deps are shared by every dashboard screen.
type Deps struct {
	Service *classroom.Service
	Coach   *coach.Coach
	// Logout builds the screen shown after signing out.
	Logout func() screen.Screen
}

// LogSavedMsg tells the dashboard underneath a form to reload.
type LogSavedMsg struct {
	Entry        readinglog.LogEntry
	GoalCredited bool
}

// FeedbackSavedMsg is sent after the teacher stores feedback.
type FeedbackSavedMsg struct {
	Entry readinglog.LogEntry
}

type analysisMsg struct {
	Text string
	Err  error
}

const recentLogs = 5

func stars(n int) string {
	n = min(max(n, 0), 5)
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func renderEntry(e readinglog.LogEntry, withName bool) string {
	head := fmt.Sprintf("%s  %s by %s  %s",
		e.Timestamp.Local().Format(time.DateOnly), e.BookTitle, e.Author, stars(e.Rating))
	if withName {
		head = e.StudentName + "  " + head
	}
	if e.FinishedBook {
		head += "  " + theme.Reward.Render("finished")
	}
	lines := []string{theme.Body.Render(head)}
	if text := e.ReflectionText(); text != "" {
		lines = append(lines, theme.Subtitle.Render("  "+truncate(text, 70)))
	}
	if e.TeacherFeedback != "" {
		lines = append(lines, theme.Hint.Render("  Teacher: "+truncate(e.TeacherFeedback, 60)))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
