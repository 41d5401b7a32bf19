package progress

import (
	"time"

	"github.com/ourclass/readlog/internal/readinglog"
	"github.com/ourclass/readlog/internal/week"
)

// GoalStatus is the progress of a student towards their goal this week.
type GoalStatus struct {
	Goal     readinglog.ReadingGoal
	WeekID   string
	Current  int
	Target   int
	Met      bool
	Credited bool
}

// Percent returns progress towards the target, capped at 100.
func (s GoalStatus) Percent() float64 {
	if s.Target <= 0 {
		return 0
	}
	return min(float64(s.Current)/float64(s.Target)*100, 100)
}

// ThisWeek returns the logs written in the ISO week of now, using now's
// location for calendar dates.
func ThisWeek(logs []readinglog.LogEntry, now time.Time) []readinglog.LogEntry {
	current := week.ID(now)
	var out []readinglog.LogEntry
	for _, e := range logs {
		if week.ID(e.Timestamp.In(now.Location())) == current {
			out = append(out, e)
		}
	}
	return out
}

// WeekMetric measures the logs of now's week against a goal type. Books
// counts distinct finished titles; minutes sums the minutes of quick
// thoughts.
func WeekMetric(goalType readinglog.GoalType, logs []readinglog.LogEntry, now time.Time) int {
	thisWeek := ThisWeek(logs, now)
	switch goalType {
	case readinglog.GoalBooks:
		return FinishedTitles(thisWeek)
	case readinglog.GoalMinutes:
		sum := 0
		for _, e := range thisWeek {
			sum += e.MinutesRead()
		}
		return sum
	}
	return 0
}

// GoalProgress reports the user's progress towards the goal active at now.
// ok is false when the user has no goal for the current week.
func GoalProgress(user readinglog.User, logs []readinglog.LogEntry, now time.Time) (status GoalStatus, ok bool) {
	current := week.ID(now)
	if !user.Goal.ActiveIn(current) {
		return GoalStatus{}, false
	}
	metric := WeekMetric(user.Goal.Type, logs, now)
	return GoalStatus{
		Goal:     *user.Goal,
		WeekID:   current,
		Current:  metric,
		Target:   user.Goal.Value,
		Met:      metric >= user.Goal.Value,
		Credited: user.HasCreditedWeek(current),
	}, true
}

// IsGoalNewlyCompleted reports whether the user's goal for the week of now
// has been met and not yet credited. It does not modify user; crediting the
// week is up to the caller.
func IsGoalNewlyCompleted(user readinglog.User, logs []readinglog.LogEntry, now time.Time) bool {
	status, ok := GoalProgress(user, logs, now)
	if !ok || status.Credited {
		return false
	}
	return status.Met
}
