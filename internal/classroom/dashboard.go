package classroom

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ourclass/readlog/internal/leaderboard"
	"github.com/ourclass/readlog/internal/progress"
	"github.com/ourclass/readlog/internal/readinglog"
)

// Book is a finished book on a student's shelf.
type Book struct {
	Title  string
	Author string
	Genre  string
	Rating int
}

// StudentDashboard is everything a student sees about their own progress.
type StudentDashboard struct {
	Student       readinglog.User
	Points        int
	Level         int
	LevelPoints   int
	LevelPercent  float64
	Streak        int
	LongestStreak int
	BooksLogged   int
	BooksFinished int
	Achievements  []progress.Achievement
	Goal          *progress.GoalStatus
	Logs          []readinglog.LogEntry
	Bookshelf     []Book
}

// StudentDashboard computes the student's dashboard as of the service clock.
// A goal met this week is credited first, so the bonus shows in the result.
func (s *Service) StudentDashboard(ctx context.Context, studentID string) (StudentDashboard, error) {
	if _, err := s.EvaluateGoal(ctx, studentID); err != nil {
		return StudentDashboard{}, err
	}
	student, err := s.student(ctx, studentID)
	if err != nil {
		return StudentDashboard{}, err
	}
	logs, err := s.logs.ForStudent(ctx, studentID)
	if err != nil {
		return StudentDashboard{}, err
	}
	return s.dashboard(student, logs), nil
}

func (s *Service) dashboard(student readinglog.User, logs []readinglog.LogEntry) StudentDashboard {
	now := s.now()
	points := progress.TotalPoints(student, logs, s.points)
	inLevel, percent := progress.LevelProgress(points)
	streak := progress.Streak(logs, now)

	d := StudentDashboard{
		Student:       student,
		Points:        points,
		Level:         progress.Level(points),
		LevelPoints:   inLevel,
		LevelPercent:  percent,
		Streak:        streak,
		LongestStreak: progress.LongestStreak(logs, now.Location()),
		BooksLogged:   distinctTitles(logs),
		BooksFinished: progress.FinishedTitles(logs),
		Achievements:  progress.EarnedAchievements(logs, streak),
		Logs:          logs,
		Bookshelf:     bookshelf(logs),
	}
	if status, ok := progress.GoalProgress(student, logs, now); ok {
		d.Goal = &status
	}
	return d
}

// StudentSummary is one row of the class overview.
type StudentSummary struct {
	Student   readinglog.User
	Points    int
	Level     int
	Streak    int
	LogCount  int
	Goal      *progress.GoalStatus
	LastEntry *readinglog.LogEntry
}

// ClassOverview is the teacher's view of the class.
type ClassOverview struct {
	TotalLogs     int
	DistinctBooks int
	AverageRating float64
	TopStreak     int
	Students      []StudentSummary
	RecentLogs    []readinglog.LogEntry
}

// ClassOverview computes class-wide statistics and refreshes the
// leaderboard with every student's standing.
func (s *Service) ClassOverview(ctx context.Context) (ClassOverview, error) {
	if err := s.evaluateGoals(ctx); err != nil {
		return ClassOverview{}, err
	}
	users, err := s.roster.All(ctx)
	if err != nil {
		return ClassOverview{}, err
	}
	logs, err := s.logs.All(ctx)
	if err != nil {
		return ClassOverview{}, err
	}

	now := s.now()
	o := ClassOverview{
		TotalLogs:     len(logs),
		DistinctBooks: distinctTitles(logs),
		AverageRating: averageRating(logs),
		RecentLogs:    logs,
	}

	students := readinglog.Students(users)
	entries := make([]leaderboard.Entry, 0, len(students))
	for _, st := range students {
		own := readinglog.ForStudent(logs, st.ID)
		points := progress.TotalPoints(st, own, s.points)
		sum := StudentSummary{
			Student:  st,
			Points:   points,
			Level:    progress.Level(points),
			Streak:   progress.Streak(own, now),
			LogCount: len(own),
		}
		if status, ok := progress.GoalProgress(st, own, now); ok {
			sum.Goal = &status
		}
		if len(own) > 0 {
			last := own[0]
			sum.LastEntry = &last
		}
		o.TopStreak = max(o.TopStreak, sum.Streak)
		o.Students = append(o.Students, sum)
		entries = append(entries, leaderboard.Entry{
			StudentID: st.ID,
			Name:      st.Name,
			Points:    sum.Points,
			Level:     sum.Level,
			Streak:    sum.Streak,
		})
	}

	if s.board != nil && len(entries) > 0 {
		if err := s.board.Update(ctx, entries...); err != nil {
			s.log.Warn("leaderboard update failed", "error", err)
		}
	}
	return o, nil
}

// evaluateGoals credits every student whose goal for this week is met.
func (s *Service) evaluateGoals(ctx context.Context) error {
	users, err := s.roster.All(ctx)
	if err != nil {
		return err
	}
	for _, u := range readinglog.Students(users) {
		if u.Goal == nil {
			continue
		}
		if _, err := s.EvaluateGoal(ctx, u.ID); err != nil {
			return fmt.Errorf("evaluate goal for %s: %w", u.ID, err)
		}
	}
	return nil
}

// ErrNoLeaderboard is returned by Leaderboard and Rank when the service
// was built without a board.
var ErrNoLeaderboard = errors.New("no leaderboard configured")

// Leaderboard returns the n best-ranked students (all when n <= 0). The
// board is filled by ClassOverview and by every change to a student.
func (s *Service) Leaderboard(ctx context.Context, n int) ([]leaderboard.Entry, error) {
	if s.board == nil {
		return nil, ErrNoLeaderboard
	}
	return s.board.Top(ctx, n)
}

// Rank returns the student's leaderboard entry, refreshed first.
func (s *Service) Rank(ctx context.Context, studentID string) (leaderboard.Entry, error) {
	if s.board == nil {
		return leaderboard.Entry{}, ErrNoLeaderboard
	}
	if _, err := s.student(ctx, studentID); err != nil {
		return leaderboard.Entry{}, err
	}
	s.refreshBoard(ctx, studentID)
	return s.board.Rank(ctx, studentID)
}

// refreshBoard pushes one student's standing to the leaderboard. Failures
// are logged; the leaderboard is a cache of data the store already holds.
func (s *Service) refreshBoard(ctx context.Context, studentID string) {
	if s.board == nil {
		return
	}
	student, err := s.student(ctx, studentID)
	if err != nil {
		return
	}
	logs, err := s.logs.ForStudent(ctx, studentID)
	if err != nil {
		s.log.Warn("leaderboard update failed", "student", studentID, "error", err)
		return
	}
	d := s.dashboard(student, logs)
	err = s.board.Update(ctx, leaderboard.Entry{
		StudentID: student.ID,
		Name:      student.Name,
		Points:    d.Points,
		Level:     d.Level,
		Streak:    d.Streak,
	})
	if err != nil {
		s.log.Warn("leaderboard update failed", "student", studentID, "error", err)
	}
}

// distinctTitles counts titles case-insensitively.
func distinctTitles(logs []readinglog.LogEntry) int {
	seen := make(map[string]struct{}, len(logs))
	for _, e := range logs {
		seen[strings.ToLower(strings.TrimSpace(e.BookTitle))] = struct{}{}
	}
	return len(seen)
}

// averageRating returns the mean rating rounded to one decimal, or 0.
func averageRating(logs []readinglog.LogEntry) float64 {
	if len(logs) == 0 {
		return 0
	}
	total := 0
	for _, e := range logs {
		total += e.Rating
	}
	return math.Round(float64(total)/float64(len(logs))*10) / 10
}

// bookshelf lists finished books, newest first, one per title.
func bookshelf(logs []readinglog.LogEntry) []Book {
	var shelf []Book
	seen := make(map[string]struct{})
	for _, e := range logs {
		if !e.FinishedBook {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(e.BookTitle))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		shelf = append(shelf, Book{
			Title:  e.BookTitle,
			Author: e.Author,
			Genre:  e.Genre,
			Rating: e.Rating,
		})
	}
	return shelf
}
