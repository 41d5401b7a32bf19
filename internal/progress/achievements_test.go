package progress

import (
	"testing"
	"time"

	"github.com/ourclass/readlog/internal/readinglog"
)

func ids(achs []Achievement) []AchievementID {
	out := make([]AchievementID, len(achs))
	for i, a := range achs {
		out[i] = a.ID
	}
	return out
}

func TestEarnedAchievements_Thresholds(t *testing.T) {
	var logs []readinglog.LogEntry
	for i, title := range titles(5) {
		logs = append(logs, finishedLog(day(time.July, i+1, 9), title))
	}
	for i := 0; i < 5; i++ {
		logs = append(logs, quickLog(day(time.July, i+1, 15), 20))
	}

	earned := EarnedAchievements(logs, 7)

	for _, want := range []AchievementID{AchStreak3, AchStreak7, AchBook1, AchBook5} {
		if !HasAchievement(earned, want) {
			t.Errorf("expected %s in %v", want, ids(earned))
		}
	}
	if HasAchievement(earned, AchBook10) {
		t.Errorf("did not expect book10 in %v", ids(earned))
	}
}

func TestEarnedAchievements_Rules(t *testing.T) {
	genreLog := func(d int, genre string) readinglog.LogEntry {
		e := quickLog(day(time.July, d, 9), 10)
		e.Genre = genre
		return e
	}

	tests := []struct {
		name   string
		logs   []readinglog.LogEntry
		streak int
		want   []AchievementID
	}{
		{"nothing", nil, 0, nil},
		{"streak three", nil, 3, []AchievementID{AchStreak3}},
		{
			"same title finished twice counts once",
			[]readinglog.LogEntry{finishedLog(day(time.July, 1, 9), "Wonder"), finishedLog(day(time.July, 2, 9), "Wonder")},
			0,
			[]AchievementID{AchBook1, AchDeepDive1},
		},
		{
			"three genres",
			[]readinglog.LogEntry{genreLog(1, "Fantasy"), genreLog(2, "Poetry"), genreLog(3, "Mystery"), genreLog(4, "Poetry")},
			0,
			[]AchievementID{AchGenre3},
		},
		{
			"five genres keeps genre3",
			[]readinglog.LogEntry{genreLog(1, "Fantasy"), genreLog(2, "Poetry"), genreLog(3, "Mystery"), genreLog(4, "Memoir"), genreLog(5, "Biography")},
			0,
			[]AchievementID{AchGenre3, AchGenre5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(EarnedAchievements(tt.logs, tt.streak))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestEarnedAchievements_TenBooks(t *testing.T) {
	var logs []readinglog.LogEntry
	for i, title := range titles(10) {
		logs = append(logs, finishedLog(day(time.July, i+1, 9), title))
	}
	earned := EarnedAchievements(logs, 0)
	for _, want := range []AchievementID{AchBook1, AchBook5, AchBook10} {
		if !HasAchievement(earned, want) {
			t.Errorf("expected %s", want)
		}
	}
}

func TestAllAchievements(t *testing.T) {
	all := AllAchievements()
	if len(all) != 8 {
		t.Fatalf("catalog has %d badges, want 8", len(all))
	}
	all[0].Name = "changed"
	if AllAchievements()[0].Name != "On a Roll" {
		t.Error("AllAchievements must return a copy")
	}
}
