// Package classroom owns the class state: it persists logs and the roster
// through the store and applies the progress rules to them.
package classroom

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ourclass/readlog/internal/auth"
	"github.com/ourclass/readlog/internal/leaderboard"
	"github.com/ourclass/readlog/internal/progress"
	"github.com/ourclass/readlog/internal/readinglog"
	"github.com/ourclass/readlog/internal/store"
	"github.com/ourclass/readlog/internal/week"
)

var (
	// ErrStudentNotFound is returned when an id does not belong to a student.
	ErrStudentNotFound = errors.New("student not found")

	// ErrInvalidGoal is returned for an unknown goal type or a non-positive
	// target.
	ErrInvalidGoal = errors.New("goal needs a type of books or minutes and a positive value")

	// ErrInvalidClassCode is returned for a blank class code.
	ErrInvalidClassCode = errors.New("class code must not be empty")

	// ErrInvalidName is returned for a blank student name.
	ErrInvalidName = errors.New("student name must not be empty")
)

// generatedPasswordLen is the length of passwords created for new students.
const generatedPasswordLen = 8

// Options configures a Service.
type Options struct {
	Logs     store.LogRepo
	Roster   store.RosterRepo
	Settings store.SettingsRepo

	// Board receives point updates. Nil disables the leaderboard.
	Board leaderboard.Board

	// Points defaults to progress.DefaultPoints().
	Points *progress.PointsConfig

	// Clock defaults to time.Now.
	Clock func() time.Time

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Service applies teacher and student actions to the class.
type Service struct {
	logs     store.LogRepo
	roster   store.RosterRepo
	settings store.SettingsRepo
	board    leaderboard.Board
	points   progress.PointsConfig
	now      func() time.Time
	log      *slog.Logger

	// creditMu makes goal evaluation and crediting one step.
	creditMu sync.Mutex
}

// NewService creates a Service from opts.
func NewService(opts Options) *Service {
	s := &Service{
		logs:     opts.Logs,
		roster:   opts.Roster,
		settings: opts.Settings,
		board:    opts.Board,
		points:   progress.DefaultPoints(),
		now:      opts.Clock,
		log:      opts.Logger,
	}
	if opts.Points != nil {
		s.points = *opts.Points
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// PointsConfig returns the point weights in use.
func (s *Service) PointsConfig() progress.PointsConfig {
	return s.points
}

// AddLogResult is the outcome of AddLog.
type AddLogResult struct {
	Entry        readinglog.LogEntry
	GoalCredited bool
}

// AddLog validates draft, stores it as a new entry by student and then
// evaluates the student's weekly goal.
func (s *Service) AddLog(ctx context.Context, studentID string, draft readinglog.Draft) (AddLogResult, error) {
	student, err := s.student(ctx, studentID)
	if err != nil {
		return AddLogResult{}, err
	}

	entry, err := draft.Build(student, s.now())
	if err != nil {
		return AddLogResult{}, err
	}
	if err := s.logs.Add(ctx, entry); err != nil {
		return AddLogResult{}, fmt.Errorf("add log: %w", err)
	}
	s.log.Info("log added",
		"student", student.ID,
		"book", entry.BookTitle,
		"reflection", entry.ReflectionType())

	credited, err := s.EvaluateGoal(ctx, studentID)
	if err != nil {
		// The entry is stored; StudentDashboard evaluates again.
		s.log.Warn("goal evaluation failed", "student", studentID, "error", err)
	}
	s.refreshBoard(ctx, studentID)
	return AddLogResult{Entry: entry, GoalCredited: credited}, nil
}

// Logs returns every entry, newest first.
func (s *Service) Logs(ctx context.Context) ([]readinglog.LogEntry, error) {
	return s.logs.All(ctx)
}

// UpdateFeedback sets the teacher feedback of the entry at ts. Only the
// feedback changes; the reflection keeps the type it was written with.
func (s *Service) UpdateFeedback(ctx context.Context, ts time.Time, feedback string) (readinglog.LogEntry, error) {
	all, err := s.logs.All(ctx)
	if err != nil {
		return readinglog.LogEntry{}, err
	}
	updated, err := readinglog.SetFeedback(all, ts, strings.TrimSpace(feedback))
	if err != nil {
		return readinglog.LogEntry{}, err
	}
	entry, _ := readinglog.Find(updated, ts)
	if err := s.logs.Update(ctx, entry); err != nil {
		return readinglog.LogEntry{}, fmt.Errorf("save feedback: %w", err)
	}
	s.log.Info("feedback saved", "student", entry.StudentID, "timestamp", entry.Timestamp)
	return entry, nil
}

// SetGoal replaces the student's goal with one for the current week.
func (s *Service) SetGoal(ctx context.Context, studentID string, goalType readinglog.GoalType, value int) (readinglog.User, error) {
	if !goalType.Valid() || value <= 0 {
		return readinglog.User{}, ErrInvalidGoal
	}
	student, err := s.student(ctx, studentID)
	if err != nil {
		return readinglog.User{}, err
	}

	student.Goal = &readinglog.ReadingGoal{
		Type:   goalType,
		Value:  value,
		WeekID: week.ID(s.now()),
	}
	if err := s.roster.Save(ctx, student); err != nil {
		return readinglog.User{}, fmt.Errorf("save goal: %w", err)
	}
	s.log.Info("goal set", "student", studentID, "type", goalType, "value", value, "week", student.Goal.WeekID)

	// This week's logs may already meet the new goal.
	credited, err := s.EvaluateGoal(ctx, studentID)
	if err != nil {
		s.log.Warn("goal evaluation failed", "student", studentID, "error", err)
		return student, nil
	}
	if credited {
		return s.student(ctx, studentID)
	}
	return student, nil
}

// EvaluateGoal credits the student's goal for the current week if it has
// just been met. It reports whether a credit was recorded; repeated calls in
// the same week record at most one.
func (s *Service) EvaluateGoal(ctx context.Context, studentID string) (bool, error) {
	s.creditMu.Lock()
	defer s.creditMu.Unlock()

	student, err := s.student(ctx, studentID)
	if err != nil {
		return false, err
	}
	logs, err := s.logs.ForStudent(ctx, studentID)
	if err != nil {
		return false, err
	}

	now := s.now()
	if !progress.IsGoalNewlyCompleted(student, logs, now) {
		return false, nil
	}

	weekID := week.ID(now)
	credited, err := s.roster.CreditGoalWeek(ctx, studentID, weekID)
	if err != nil {
		return false, err
	}
	if credited {
		s.log.Info("weekly goal achieved", "student", studentID, "week", weekID)
		s.refreshBoard(ctx, studentID)
	}
	return credited, nil
}

// AddStudent adds a student to the roster. An empty password is replaced by
// a generated one; the plain password is returned so it can be handed out.
func (s *Service) AddStudent(ctx context.Context, name, avatar, password string) (readinglog.User, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return readinglog.User{}, "", ErrInvalidName
	}
	if avatar == "" {
		avatar = readinglog.Avatars[0]
	}
	if password == "" {
		generated, err := auth.GeneratePassword(generatedPasswordLen)
		if err != nil {
			return readinglog.User{}, "", err
		}
		password = generated
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return readinglog.User{}, "", err
	}

	u := readinglog.User{
		ID:           uuid.NewString(),
		Role:         readinglog.RoleStudent,
		Name:         name,
		Avatar:       avatar,
		PasswordHash: hash,
	}
	if err := s.roster.Save(ctx, u); err != nil {
		return readinglog.User{}, "", fmt.Errorf("add student: %w", err)
	}
	s.log.Info("student added", "student", u.ID, "name", u.Name)
	s.refreshBoard(ctx, u.ID)
	return u, password, nil
}

// RemoveStudent deletes a student from the roster. Their logs are kept.
func (s *Service) RemoveStudent(ctx context.Context, studentID string) error {
	if _, err := s.student(ctx, studentID); err != nil {
		return err
	}
	if err := s.roster.Delete(ctx, studentID); err != nil {
		return fmt.Errorf("remove student: %w", err)
	}
	if s.board != nil {
		if err := s.board.Remove(ctx, studentID); err != nil {
			s.log.Warn("leaderboard update failed", "student", studentID, "error", err)
		}
	}
	s.log.Info("student removed", "student", studentID)
	return nil
}

// UpdateStudentPassword replaces the student's password.
func (s *Service) UpdateStudentPassword(ctx context.Context, studentID, password string) error {
	student, err := s.student(ctx, studentID)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	student.PasswordHash = hash
	if err := s.roster.Save(ctx, student); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.log.Info("student password changed", "student", studentID)
	return nil
}

// ClassSettings returns the class settings.
func (s *Service) ClassSettings(ctx context.Context) (readinglog.ClassSettings, error) {
	return s.settings.ClassSettings(ctx)
}

// UpdateClassCode changes the code students use to join. Codes are stored
// upper-cased; matching is case-insensitive anyway.
func (s *Service) UpdateClassCode(ctx context.Context, code string) (readinglog.ClassSettings, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return readinglog.ClassSettings{}, ErrInvalidClassCode
	}
	settings, err := s.settings.ClassSettings(ctx)
	if err != nil {
		return readinglog.ClassSettings{}, err
	}
	settings.ClassCode = code
	if err := s.settings.SaveClassSettings(ctx, settings); err != nil {
		return readinglog.ClassSettings{}, err
	}
	s.log.Info("class code changed", "code", code)
	return settings, nil
}

// Roster returns every user.
func (s *Service) Roster(ctx context.Context) ([]readinglog.User, error) {
	return s.roster.All(ctx)
}

// Students returns the students sorted by name.
func (s *Service) Students(ctx context.Context) ([]readinglog.User, error) {
	users, err := s.roster.All(ctx)
	if err != nil {
		return nil, err
	}
	return readinglog.Students(users), nil
}

// Directory snapshots the class code and roster for the login flow.
func (s *Service) Directory(ctx context.Context) (auth.StaticDirectory, error) {
	settings, err := s.settings.ClassSettings(ctx)
	if err != nil {
		return auth.StaticDirectory{}, err
	}
	users, err := s.roster.All(ctx)
	if err != nil {
		return auth.StaticDirectory{}, err
	}
	return auth.StaticDirectory{Code: settings.ClassCode, Roster: users}, nil
}

// Student returns the student with id.
func (s *Service) Student(ctx context.Context, id string) (readinglog.User, error) {
	return s.student(ctx, id)
}

func (s *Service) student(ctx context.Context, id string) (readinglog.User, error) {
	u, err := s.roster.Get(ctx, id)
	if store.IsNotFound(err) {
		return readinglog.User{}, fmt.Errorf("%q: %w", id, ErrStudentNotFound)
	}
	if err != nil {
		return readinglog.User{}, err
	}
	if !u.IsStudent() {
		return readinglog.User{}, fmt.Errorf("%q: %w", id, ErrStudentNotFound)
	}
	return u, nil
}
