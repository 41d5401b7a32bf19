package classroom

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ourclass/readlog/internal/auth"
	"github.com/ourclass/readlog/internal/leaderboard"
	"github.com/ourclass/readlog/internal/readinglog"
	"github.com/ourclass/readlog/internal/store"
)

// clock is a settable test clock.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	svc   *Service
	store *store.Store
	board *leaderboard.Memory
	clock *clock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	st, err := store.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	// Wednesday of ISO week 2024-30.
	clk := &clock{now: time.Date(2024, 7, 24, 15, 0, 0, 0, time.UTC)}
	board := leaderboard.NewMemory()
	svc := NewService(Options{
		Logs:     st.LogRepo(),
		Roster:   st.RosterRepo(),
		Settings: st.SettingsRepo(),
		Board:    board,
		Clock:    clk.Now,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return fixture{svc: svc, store: st, board: board, clock: clk}
}

func (f fixture) addStudent(t *testing.T, name string) readinglog.User {
	t.Helper()
	u, _, err := f.svc.AddStudent(context.Background(), name, "", "secret")
	require.NoError(t, err)
	return u
}

func quickDraft(title string, minutes int) readinglog.Draft {
	return readinglog.Draft{
		BookTitle:    title,
		Author:       "Author",
		Rating:       4,
		Format:       readinglog.FormatPrint,
		Genre:        "Fantasy",
		QuickThought: "I enjoyed the chapter about the dragon a lot.",
		MinutesRead:  minutes,
	}
}

func finishedDraft(title string) readinglog.Draft {
	return readinglog.Draft{
		BookTitle:        title,
		Author:           "Author",
		Rating:           5,
		Format:           readinglog.FormatPrint,
		Genre:            "Mystery",
		FinishedBook:     true,
		DeepDiveFocus:    readinglog.FocusTheme,
		DeepDiveAnalysis: "The theme of friendship runs through the whole book and changes the ending.",
	}
}

func TestAddStudent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, plain, err := f.svc.AddStudent(ctx, "  Dana ", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Dana", u.Name)
	assert.Equal(t, readinglog.RoleStudent, u.Role)
	assert.Equal(t, readinglog.Avatars[0], u.Avatar)
	assert.Len(t, plain, generatedPasswordLen)
	assert.True(t, auth.CredentialFromHash(u.PasswordHash).Verify(plain))

	got, err := f.svc.Student(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Name, got.Name)

	_, _, err = f.svc.AddStudent(ctx, "   ", "", "")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestAddLogBuildsEntryFromClock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addStudent(t, "Dana")

	res, err := f.svc.AddLog(ctx, u.ID, quickDraft("Dragon Days", 30))
	require.NoError(t, err)
	assert.True(t, res.Entry.Timestamp.Equal(f.clock.now))
	assert.Equal(t, u.Name, res.Entry.StudentName)
	assert.False(t, res.GoalCredited)

	logs, err := f.svc.Logs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 30, logs[0].MinutesRead())
}

func TestAddLogRejectsInvalidDraft(t *testing.T) {
	f := newFixture(t)
	u := f.addStudent(t, "Dana")

	draft := quickDraft("", 10)
	_, err := f.svc.AddLog(context.Background(), u.ID, draft)
	var verr *readinglog.ValidationError
	require.ErrorAs(t, err, &verr)

	logs, err := f.svc.Logs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestAddLogUnknownStudent(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.AddLog(context.Background(), "nobody", quickDraft("X", 1))
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestAddLogSameInstantIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addStudent(t, "Dana")

	_, err := f.svc.AddLog(ctx, u.ID, quickDraft("A", 10))
	require.NoError(t, err)
	_, err = f.svc.AddLog(ctx, u.ID, quickDraft("B", 10))
	assert.ErrorIs(t, err, readinglog.ErrDuplicateTimestamp)
}

func TestGoalCreditedOncePerWeek(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addStudent(t, "Dana")

	_, err := f.svc.SetGoal(ctx, u.ID, readinglog.GoalMinutes, 45)
	require.NoError(t, err)

	res, err := f.svc.AddLog(ctx, u.ID, quickDraft("A", 30))
	require.NoError(t, err)
	assert.False(t, res.GoalCredited)

	f.clock.Advance(time.Hour)
	res, err = f.svc.AddLog(ctx, u.ID, quickDraft("A", 20))
	require.NoError(t, err)
	assert.True(t, res.GoalCredited)

	f.clock.Advance(time.Hour)
	res, err = f.svc.AddLog(ctx, u.ID, quickDraft("A", 20))
	require.NoError(t, err)
	assert.False(t, res.GoalCredited)

	credited, err := f.svc.EvaluateGoal(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, credited)

	got, err := f.svc.Student(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-30"}, got.GoalAchievedWeeks)

	d, err := f.svc.StudentDashboard(ctx, u.ID)
	require.NoError(t, err)
	// Three logs plus one goal bonus.
	assert.Equal(t, 3*10+100, d.Points)
	require.NotNil(t, d.Goal)
	assert.True(t, d.Goal.Met)
	assert.True(t, d.Goal.Credited)
}

func TestSetGoalCreditsGoalAlreadyMet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addStudent(t, "Dana")

	_, err := f.svc.AddLog(ctx, u.ID, quickDraft("A", 60))
	require.NoError(t, err)

	got, err := f.svc.SetGoal(ctx, u.ID, readinglog.GoalMinutes, 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-30"}, got.GoalAchievedWeeks)

	for range 2 {
		d, err := f.svc.StudentDashboard(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, 10+100, d.Points)
		assert.Equal(t, []string{"2024-30"}, d.Student.GoalAchievedWeeks)
		require.NotNil(t, d.Goal)
		assert.True(t, d.Goal.Credited)
	}

	rank, err := f.board.Rank(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 110, rank.Points)
}

func TestDashboardCreditsMetGoal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addStudent(t, "Dana")

	_, err := f.svc.AddLog(ctx, u.ID, quickDraft("A", 60))
	require.NoError(t, err)

	// A goal stored without going through SetGoal is picked up on load.
	stored, err := f.svc.Student(ctx, u.ID)
	require.NoError(t, err)
	stored.Goal = &readinglog.ReadingGoal{Type: readinglog.GoalMinutes, Value: 30, WeekID: "2024-30"}
	require.NoError(t, f.store.RosterRepo().Save(ctx, stored))

	for range 2 {
		d, err := f.svc.StudentDashboard(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, 10+100, d.Points)
		assert.Equal(t, []string{"2024-30"}, d.Student.GoalAchievedWeeks)
	}

	credited, err := f.svc.EvaluateGoal(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, credited)

	rank, err := f.board.Rank(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 110, rank.Points)
}

func TestClassOverviewCreditsMetGoals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addStudent(t, "Dana")
	f.addStudent(t, "Eli")

	_, err := f.svc.AddLog(ctx, u.ID, quickDraft("A", 60))
	require.NoError(t, err)
	stored, err := f.svc.Student(ctx, u.ID)
	require.NoError(t, err)
	stored.Goal = &readinglog.ReadingGoal{Type: readinglog.GoalMinutes, Value: 30, WeekID: "2024-30"}
	require.NoError(t, f.store.RosterRepo().Save(ctx, stored))

	o, err := f.svc.ClassOverview(ctx)
	require.NoError(t, err)
	require.Len(t, o.Students, 2)
	assert.Equal(t, "Dana", o.Students[0].Student.Name)
	assert.Equal(t, 10+100, o.Students[0].Points)
	assert.Zero(t, o.Students[1].Points)

	got, err := f.svc.Student(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-30"}, got.GoalAchievedWeeks)
}

func TestBooksGoalCountsFinishedTitles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addStudent(t, "Dana")

	_, err := f.svc.SetGoal(ctx, u.ID, readinglog.GoalBooks, 2)
	require.NoError(t, err)

	res, err := f.svc.AddLog(ctx, u.ID, finishedDraft("One"))
	require.NoError(t, err)
	assert.False(t, res.GoalCredited)

	f.clock.Advance(time.Minute)
	res, err = f.svc.AddLog(ctx, u.ID, finishedDraft("One"))
	require.NoError(t, err)
	assert.False(t, res.GoalCredited, "same title counts once")

	f.clock.Advance(time.Minute)
	res, err = f.svc.AddLog(ctx, u.ID, finishedDraft("Two"))
	require.NoError(t, err)
	assert.True(t, res.GoalCredited)
}

func TestGoalFromLastWeekIsInert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addStudent(t, "Dana")

	_, err := f.svc.SetGoal(ctx, u.ID, readinglog.GoalMinutes, 10)
	require.NoError(t, err)

	f.clock.Advance(7 * 24 * time.Hour)
	res, err := f.svc.AddLog(ctx, u.ID, quickDraft("A", 60))
	require.NoError(t, err)
	assert.False(t, res.GoalCredited)

	d, err := f.svc.StudentDashboard(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, d.Goal)
}

func TestSetGoalValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addStudent(t, "Dana")

	tests := []struct {
		name     string
		goalType readinglog.GoalType
		value    int
	}{
		{"unknown type", readinglog.GoalType("pages"), 3},
		{"zero", readinglog.GoalBooks, 0},
		{"negative", readinglog.GoalMinutes, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.SetGoal(ctx, u.ID, tt.goalType, tt.value)
			assert.ErrorIs(t, err, ErrInvalidGoal)
		})
	}

	got, err := f.svc.SetGoal(ctx, u.ID, readinglog.GoalBooks, 3)
	require.NoError(t, err)
	require.NotNil(t, got.Goal)
	assert.Equal(t, "2024-30", got.Goal.WeekID)
}

func TestUpdateFeedbackKeepsReflection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addStudent(t, "Dana")

	res, err := f.svc.AddLog(ctx, u.ID, quickDraft("A", 15))
	require.NoError(t, err)

	updated, err := f.svc.UpdateFeedback(ctx, res.Entry.Timestamp, "  Great job!  ")
	require.NoError(t, err)
	assert.Equal(t, "Great job!", updated.TeacherFeedback)
	assert.Equal(t, readinglog.ReflectionQuickThought, updated.ReflectionType())

	logs, err := f.svc.Logs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Great job!", logs[0].TeacherFeedback)
	assert.Equal(t, 15, logs[0].MinutesRead())

	_, err = f.svc.UpdateFeedback(ctx, res.Entry.Timestamp.Add(time.Second), "x")
	assert.ErrorIs(t, err, readinglog.ErrEntryNotFound)
}

func TestRemoveStudent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addStudent(t, "Dana")

	_, err := f.svc.AddLog(ctx, u.ID, quickDraft("A", 15))
	require.NoError(t, err)
	_, err = f.board.Rank(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveStudent(ctx, u.ID))

	_, err = f.svc.Student(ctx, u.ID)
	assert.ErrorIs(t, err, ErrStudentNotFound)
	_, err = f.board.Rank(ctx, u.ID)
	assert.ErrorIs(t, err, leaderboard.ErrNotRanked)

	logs, err := f.svc.Logs(ctx)
	require.NoError(t, err)
	assert.Len(t, logs, 1, "logs outlive the student")

	err = f.svc.RemoveStudent(ctx, u.ID)
	assert.True(t, errors.Is(err, ErrStudentNotFound))
}

func TestUpdateStudentPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addStudent(t, "Dana")

	require.NoError(t, f.svc.UpdateStudentPassword(ctx, u.ID, "newpass"))
	got, err := f.svc.Student(ctx, u.ID)
	require.NoError(t, err)
	cred := auth.CredentialFromHash(got.PasswordHash)
	assert.True(t, cred.Verify("newpass"))
	assert.False(t, cred.Verify("secret"))

	assert.Error(t, f.svc.UpdateStudentPassword(ctx, u.ID, ""))
}

func TestUpdateClassCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	settings, err := f.svc.ClassSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, readinglog.DefaultClassCode, settings.ClassCode)

	settings, err = f.svc.UpdateClassCode(ctx, "  owls42 ")
	require.NoError(t, err)
	assert.Equal(t, "OWLS42", settings.ClassCode)

	_, err = f.svc.UpdateClassCode(ctx, " ")
	assert.ErrorIs(t, err, ErrInvalidClassCode)

	dir, err := f.svc.Directory(ctx)
	require.NoError(t, err)
	assert.Equal(t, "OWLS42", dir.ClassCode())
}

func TestDirectoryDrivesLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addStudent(t, "Dana")

	dir, err := f.svc.Directory(ctx)
	require.NoError(t, err)
	teacher, err := auth.NewCredential("teach")
	require.NoError(t, err)

	m := auth.NewMachine(teacher, dir)
	m.ChooseRole(readinglog.RoleStudent)
	m.SubmitClassCode("readers")
	m.SelectProfile(u.ID)
	tr := m.SubmitPassword("secret")
	require.NoError(t, tr.Err)
	assert.Equal(t, auth.StepAuthenticated, m.Step())
	assert.Equal(t, u.ID, m.User().ID)
}

func TestStudentDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addStudent(t, "Dana")

	// Monday, Tuesday and Wednesday of the same week.
	f.clock.now = time.Date(2024, 7, 22, 9, 0, 0, 0, time.UTC)
	_, err := f.svc.AddLog(ctx, u.ID, quickDraft("Dragon Days", 20))
	require.NoError(t, err)
	f.clock.Advance(24 * time.Hour)
	_, err = f.svc.AddLog(ctx, u.ID, quickDraft("dragon days", 20))
	require.NoError(t, err)
	f.clock.Advance(24 * time.Hour)
	_, err = f.svc.AddLog(ctx, u.ID, finishedDraft("Dragon Days"))
	require.NoError(t, err)

	d, err := f.svc.StudentDashboard(ctx, u.ID)
	require.NoError(t, err)
	// 3 logs, one finished book, one deep dive.
	assert.Equal(t, 30+50+25, d.Points)
	assert.Equal(t, 1, d.Level)
	assert.Equal(t, 105, d.LevelPoints)
	assert.InDelta(t, 42.0, d.LevelPercent, 0.001)
	assert.Equal(t, 3, d.Streak)
	assert.Equal(t, 3, d.LongestStreak)
	assert.Equal(t, 1, d.BooksLogged)
	assert.Equal(t, 1, d.BooksFinished)
	require.Len(t, d.Bookshelf, 1)
	assert.Equal(t, "Dragon Days", d.Bookshelf[0].Title)
	require.Len(t, d.Logs, 3)
	assert.True(t, d.Logs[0].IsDeepDive(), "newest first")

	var ids []string
	for _, a := range d.Achievements {
		ids = append(ids, string(a.ID))
	}
	assert.Contains(t, ids, "streak3")
	assert.Contains(t, ids, "book1")
	assert.Contains(t, ids, "deepdive1")
}

func TestClassOverview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addStudent(t, "Alice")
	b := f.addStudent(t, "Bob")
	f.addStudent(t, "Cara")

	f.clock.now = time.Date(2024, 7, 22, 9, 0, 0, 0, time.UTC)
	_, err := f.svc.AddLog(ctx, a.ID, quickDraft("Dune", 20))
	require.NoError(t, err)
	f.clock.Advance(24 * time.Hour)
	_, err = f.svc.AddLog(ctx, a.ID, quickDraft("dune", 20))
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.svc.AddLog(ctx, b.ID, finishedDraft("Holes"))
	require.NoError(t, err)

	o, err := f.svc.ClassOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, o.TotalLogs)
	assert.Equal(t, 2, o.DistinctBooks)
	assert.InDelta(t, 4.3, o.AverageRating, 0.0001)
	assert.Equal(t, 2, o.TopStreak)
	require.Len(t, o.Students, 3)
	assert.Equal(t, "Alice", o.Students[0].Student.Name)
	assert.Equal(t, 2, o.Students[0].LogCount)
	assert.Nil(t, o.Students[2].LastEntry)

	top, err := f.board.Top(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, b.ID, top[0].StudentID, "finished book with deep dive outranks two quick logs")

	board, err := f.svc.Leaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, board, 3)

	rank, err := f.svc.Rank(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rank.Rank)
}

func TestLeaderboardWithoutBoard(t *testing.T) {
	f := newFixture(t)
	svc := NewService(Options{Logs: f.store.LogRepo(), Roster: f.store.RosterRepo(), Settings: f.store.SettingsRepo()})
	_, err := svc.Leaderboard(context.Background(), 3)
	assert.ErrorIs(t, err, ErrNoLeaderboard)
	_, err = svc.Rank(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNoLeaderboard)
}

func TestClassOverviewEmpty(t *testing.T) {
	f := newFixture(t)
	o, err := f.svc.ClassOverview(context.Background())
	require.NoError(t, err)
	assert.Zero(t, o.TotalLogs)
	assert.Zero(t, o.AverageRating)
	assert.Empty(t, o.Students)
}
