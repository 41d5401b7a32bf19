package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/ourclass/readlog/internal/auth"
	"github.com/ourclass/readlog/internal/readinglog"
)

const settingsSeeded = "seeded"

type demoStudent struct {
	user     readinglog.User
	password string
}

func demoRoster() []demoStudent {
	return []demoStudent{
		{readinglog.User{ID: "s1", Name: "Alice Johnson", Role: readinglog.RoleStudent, Avatar: "avatar1", GoalAchievedWeeks: []string{"2024-29"}}, "password1"},
		{readinglog.User{ID: "s2", Name: "Bob Williams", Role: readinglog.RoleStudent, Avatar: "avatar2"}, "password2"},
		{readinglog.User{ID: "s3", Name: "Charlie Brown", Role: readinglog.RoleStudent, Avatar: "avatar3"}, "password3"},
	}
}

func demoLogs() []readinglog.LogEntry {
	at := func(day, hour, minute int) time.Time {
		return time.Date(2024, time.July, day, hour, minute, 0, 0, time.UTC)
	}
	return []readinglog.LogEntry{
		{
			Timestamp: at(21, 10, 0), StudentID: "s1", StudentName: "Alice Johnson",
			BookTitle: "The Giver", Author: "Lois Lowry", Rating: 5,
			Format: readinglog.FormatPrint, Genre: "Sci fi", FinishedBook: true,
			Reflection: readinglog.DeepDive{
				Focus:    readinglog.FocusTheme,
				Analysis: "The theme of memory is central. The community sacrifices true emotion for stability, which makes you question the cost of a perfect society.",
			},
			TeacherFeedback: "Excellent analysis of the theme. You clearly explained the trade-offs the community made.",
		},
		{
			Timestamp: at(22, 11, 30), StudentID: "s2", StudentName: "Bob Williams",
			BookTitle: "Percy Jackson & The Lightning Thief", Author: "Rick Riordan", Rating: 4,
			Format: readinglog.FormatAudiobook, Genre: "Fantasy",
			Reflection: readinglog.QuickThought{
				Thought:     "The way the author mixes Greek mythology with modern-day America is really cool. The minotaur fight was epic!",
				MinutesRead: 45,
			},
		},
		{
			Timestamp: at(23, 9, 0), StudentID: "s1", StudentName: "Alice Johnson",
			BookTitle: "Hatchet", Author: "Gary Paulsen", Rating: 5,
			Format: readinglog.FormatPrint, Genre: "Realistic fiction",
			Reflection: readinglog.QuickThought{
				Thought:     "I can't believe Brian survived the plane crash. His struggle to make a fire feels so real and intense.",
				MinutesRead: 30,
			},
		},
		{
			Timestamp: at(23, 14, 0), StudentID: "s3", StudentName: "Charlie Brown",
			BookTitle: "Wonder", Author: "R.J. Palacio", Rating: 5,
			Format: readinglog.FormatEBook, Genre: "Realistic fiction", FinishedBook: true,
			Reflection: readinglog.DeepDive{
				Focus:    readinglog.FocusCharacterChange,
				Analysis: "Auggie starts out very shy and afraid of how people see him, but by the end, he gains confidence and learns to value his true friends. The perspectives of other characters really show his impact.",
			},
			TeacherFeedback: "Great point about how the different perspectives show Auggie's impact on others!",
		},
		{
			Timestamp: at(24, 16, 0), StudentID: "s2", StudentName: "Bob Williams",
			BookTitle: "The Hobbit", Author: "J.R.R. Tolkien", Rating: 5,
			Format: readinglog.FormatPrint, Genre: "Fantasy",
			Reflection: readinglog.QuickThought{
				Thought:     "The adventure is getting so exciting! Meeting Gollum and the riddle game in the dark was my favorite part so far.",
				MinutesRead: 60,
			},
		},
	}
}

// Seed loads the demo class the first time a database is opened. It reports
// whether anything was written.
func (s *Store) Seed(ctx context.Context) (bool, error) {
	b := builder()
	query, args := b.Select("value").
		From(b.Table(tableSettings)).
		Where(entsql.EQ("key", settingsSeeded)).
		Query()
	var v string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&v)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("check seed marker: %w", err)
	}

	roster := s.RosterRepo()
	for _, d := range demoRoster() {
		hash, err := auth.HashPassword(d.password)
		if err != nil {
			return false, err
		}
		d.user.PasswordHash = hash
		if err := roster.Save(ctx, d.user); err != nil {
			return false, fmt.Errorf("seed roster: %w", err)
		}
	}

	logs := s.LogRepo()
	for _, e := range demoLogs() {
		if err := logs.Add(ctx, e); err != nil && !errors.Is(err, readinglog.ErrDuplicateTimestamp) {
			return false, fmt.Errorf("seed logs: %w", err)
		}
	}

	if err := s.SettingsRepo().SaveClassSettings(ctx, readinglog.DefaultClassSettings()); err != nil {
		return false, err
	}

	query, args = b.Insert(tableSettings).
		Columns("key", "value").
		Values(settingsSeeded, time.Now().UTC().Format(time.RFC3339)).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return false, fmt.Errorf("write seed marker: %w", err)
	}
	return true, nil
}

// Reset deletes every log, user, goal credit and setting, then seeds the
// demo class again. LLM request events are kept.
func (s *Store) Reset(ctx context.Context) error {
	b := builder()
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, table := range []string{tableLogEntries, tableGoalCredits, tableUsers, tableSettings} {
			query, args := b.Delete(table).Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	_, err = s.Seed(ctx)
	return err
}
