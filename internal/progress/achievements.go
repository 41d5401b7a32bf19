package progress

import "github.com/ourclass/readlog/internal/readinglog"

// AchievementID identifies a badge.
type AchievementID string

const (
	AchStreak3   AchievementID = "streak3"
	AchStreak7   AchievementID = "streak7"
	AchBook1     AchievementID = "book1"
	AchBook5     AchievementID = "book5"
	AchBook10    AchievementID = "book10"
	AchGenre3    AchievementID = "genre3"
	AchGenre5    AchievementID = "genre5"
	AchDeepDive1 AchievementID = "deepdive1"
)

// Achievement is a badge a student can earn.
type Achievement struct {
	ID          AchievementID
	Name        string
	Description string
	Icon        string
}

var catalog = []Achievement{
	{AchStreak3, "On a Roll", "Maintain a 3-day reading streak.", "⚡"},
	{AchStreak7, "Dedicated Reader", "Maintain a 7-day reading streak!", "⚡"},
	{AchBook1, "Page Turner", "Finish your first book.", "📖"},
	{AchBook5, "Bookworm", "Finish 5 different books.", "📖"},
	{AchBook10, "Librarian in Training", "Finish 10 different books!", "📖"},
	{AchGenre3, "Genre Explorer", "Read books from 3 different genres.", "🧭"},
	{AchGenre5, "Genre Master", "Read books from 5 different genres.", "🧭"},
	{AchDeepDive1, "Deep Thinker", "Complete your first Deep Dive reflection.", "💡"},
}

// AllAchievements returns the full badge catalog in display order.
func AllAchievements() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog)
	return out
}

// FinishedTitles returns the number of distinct titles marked finished.
func FinishedTitles(logs []readinglog.LogEntry) int {
	titles := make(map[string]bool)
	for _, e := range logs {
		if e.FinishedBook {
			titles[e.BookTitle] = true
		}
	}
	return len(titles)
}

// DistinctGenres returns the number of distinct genres across logs.
func DistinctGenres(logs []readinglog.LogEntry) int {
	genres := make(map[string]bool)
	for _, e := range logs {
		genres[e.Genre] = true
	}
	return len(genres)
}

// EarnedAchievements derives the badges earned from logs and the current
// streak, in catalog order. Tiers are independent; earning a higher tier
// never removes a lower one.
func EarnedAchievements(logs []readinglog.LogEntry, streak int) []Achievement {
	books := FinishedTitles(logs)
	genres := DistinctGenres(logs)
	deepDive := false
	for _, e := range logs {
		if e.IsDeepDive() {
			deepDive = true
			break
		}
	}

	earned := map[AchievementID]bool{
		AchStreak3:   streak >= 3,
		AchStreak7:   streak >= 7,
		AchBook1:     books >= 1,
		AchBook5:     books >= 5,
		AchBook10:    books >= 10,
		AchGenre3:    genres >= 3,
		AchGenre5:    genres >= 5,
		AchDeepDive1: deepDive,
	}

	var out []Achievement
	for _, a := range catalog {
		if earned[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

// HasAchievement reports whether id is among earned.
func HasAchievement(earned []Achievement, id AchievementID) bool {
	for _, a := range earned {
		if a.ID == id {
			return true
		}
	}
	return false
}
