package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ourclass/readlog/internal/auth"
	"github.com/ourclass/readlog/internal/classroom"
	"github.com/ourclass/readlog/internal/leaderboard"
	"github.com/ourclass/readlog/internal/router"
	"github.com/ourclass/readlog/internal/screens/dashboard"
	"github.com/ourclass/readlog/internal/screens/login"
	"github.com/ourclass/readlog/internal/screens/welcome"
	"github.com/ourclass/readlog/internal/store"
	"github.com/ourclass/readlog/internal/ui/layout"
)

func newTestOptions(t *testing.T) Options {
	t.Helper()
	st, err := store.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := classroom.NewService(classroom.Options{
		Logs:     st.LogRepo(),
		Roster:   st.RosterRepo(),
		Settings: st.SettingsRepo(),
		Board:    leaderboard.NewMemory(),
		Clock:    func() time.Time { return time.Date(2024, 7, 24, 15, 0, 0, 0, time.UTC) },
		Logger:   logger,
	})
	_, err = svc.UpdateClassCode(context.Background(), "READ24")
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("teach123"), bcrypt.MinCost)
	require.NoError(t, err)
	return Options{
		Service: svc,
		Teacher: auth.CredentialFromHash(string(hash)),
		Logger:  logger,
	}
}

// step feeds msg to the model and resolves one level of returned command.
func step(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(AppModel)
	if cmd != nil {
		if out := cmd(); out != nil {
			next, _ = m.Update(out)
			m = next.(AppModel)
		}
	}
	return m
}

func typeText(t *testing.T, m AppModel, text string) AppModel {
	for _, r := range text {
		m = step(t, m, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return m
}

func TestStartsAtSplash(t *testing.T) {
	m := newAppModel(newTestOptions(t))
	assert.IsType(t, &welcome.WelcomeScreen{}, m.router.Active())

	m = step(t, m, tea.KeyPressMsg{Code: ' '})
	assert.IsType(t, &login.LoginScreen{}, m.router.Active())
	assert.Equal(t, 1, m.router.Depth())
}

func TestTeacherSignInReachesClassOverview(t *testing.T) {
	opts := newTestOptions(t)
	opts.SkipSplash = true
	m := newAppModel(opts)

	// "I'm a student" is first; move down to the teacher.
	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyDown})
	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	m = typeText(t, m, "teach123")
	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	assert.IsType(t, &dashboard.TeacherScreen{}, m.router.Active())
	assert.Equal(t, 1, m.router.Depth())
}

func TestStudentSignInShowsStats(t *testing.T) {
	opts := newTestOptions(t)
	opts.SkipSplash = true
	_, _, err := opts.Service.AddStudent(context.Background(), "Alice", "", "owl")
	require.NoError(t, err)
	m := newAppModel(opts)

	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	m = typeText(t, m, "read24")
	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	m = typeText(t, m, "owl")
	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	s, ok := m.router.Active().(*dashboard.StudentScreen)
	require.True(t, ok)
	step(t, m, s.Init()())
	require.NotNil(t, s.HeaderStats())

	stats := s.HeaderStats()
	assert.Zero(t, stats.Points)
	assert.Contains(t, layout.RenderHeader(s.Title(), stats, 120), "0 pts")
}

func TestEscapeGoesToLoginFlow(t *testing.T) {
	opts := newTestOptions(t)
	opts.SkipSplash = true
	m := newAppModel(opts)

	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	lg := m.router.Active().(*login.LoginScreen)
	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Same(t, lg, m.router.Active(), "esc stays on the login screen")
	assert.Contains(t, lg.View(80, 24), "I'm a student")
}

func TestPopOnEscapeForPushedScreens(t *testing.T) {
	opts := newTestOptions(t)
	opts.SkipSplash = true
	m := newAppModel(opts)
	m.router.Push(dashboard.NewTeacher(dashboard.Deps{Service: opts.Service}))
	require.Equal(t, 2, m.router.Depth())

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
}

func TestCtrlCQuits(t *testing.T) {
	m := newAppModel(newTestOptions(t))
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
