package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ourclass/readlog/internal/classroom"
	"github.com/ourclass/readlog/internal/readinglog"
	"github.com/ourclass/readlog/internal/router"
	"github.com/ourclass/readlog/internal/screen"
	"github.com/ourclass/readlog/internal/ui/components"
	"github.com/ourclass/readlog/internal/ui/layout"
	"github.com/ourclass/readlog/internal/ui/theme"
)

type studentLoadedMsg struct {
	Dashboard classroom.StudentDashboard
	Err       error
}

// StudentScreen shows one student's points, level, streak, goal,
// achievements and latest entries.
type StudentScreen struct {
	deps      Deps
	studentID string

	data     classroom.StudentDashboard
	loaded   bool
	errMsg   string
	notice   string
	analysis string
	thinking bool
}

var (
	_ screen.Screen          = (*StudentScreen)(nil)
	_ screen.KeyHintProvider = (*StudentScreen)(nil)
	_ screen.StatsProvider   = (*StudentScreen)(nil)
)

// NewStudent creates the dashboard for studentID.
func NewStudent(deps Deps, studentID string) *StudentScreen {
	return &StudentScreen{deps: deps, studentID: studentID}
}

func (s *StudentScreen) Init() tea.Cmd {
	return s.load()
}

func (s *StudentScreen) load() tea.Cmd {
	svc, id := s.deps.Service, s.studentID
	return func() tea.Msg {
		d, err := svc.StudentDashboard(context.Background(), id)
		return studentLoadedMsg{Dashboard: d, Err: err}
	}
}

func (s *StudentScreen) Title() string {
	if s.loaded {
		return s.data.Student.Avatar + " " + s.data.Student.Name
	}
	return "My reading"
}

// HeaderStats returns nil until the dashboard has loaded.
func (s *StudentScreen) HeaderStats() *layout.Stats {
	if !s.loaded {
		return nil
	}
	return &layout.Stats{Points: s.data.Points, Streak: s.data.Streak}
}

func (s *StudentScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "n", Description: "New log"},
		{Key: "r", Description: "Refresh"},
	}
	if s.deps.Coach != nil && s.deps.Coach.Available() {
		hints = append(hints, layout.KeyHint{Key: "a", Description: "Reading coach"})
	}
	return append(hints,
		layout.KeyHint{Key: "o", Description: "Sign out"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
}

func (s *StudentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case studentLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.data = msg.Dashboard
		return s, nil

	case LogSavedMsg:
		s.notice = fmt.Sprintf("Logged %q. Keep reading!", msg.Entry.BookTitle)
		if msg.GoalCredited {
			s.notice = "Weekly goal complete! Bonus points earned."
		}
		return s, s.load()

	case analysisMsg:
		s.thinking = false
		s.analysis = msg.Text
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "n":
			if !s.loaded || s.errMsg != "" {
				return s, nil
			}
			form := NewLogForm(s.deps, s.studentID)
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: form} }
		case "r":
			return s, s.load()
		case "a":
			return s, s.analyze()
		case "o":
			if s.deps.Logout == nil {
				return s, nil
			}
			next := s.deps.Logout()
			return s, func() tea.Msg { return router.ResetScreenMsg{Screen: next} }
		}
	}
	return s, nil
}

func (s *StudentScreen) analyze() tea.Cmd {
	c := s.deps.Coach
	if c == nil || !c.Available() || s.thinking || !s.loaded {
		return nil
	}
	s.thinking = true
	logs := s.data.Logs
	return func() tea.Msg {
		text, err := c.AnalyzeStudent(context.Background(), logs)
		return analysisMsg{Text: text, Err: err}
	}
}

func (s *StudentScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Subtitle.Render("Opening your reading journal..."))
	}
	if s.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.ErrorText.Render("Could not load your dashboard: "+s.errMsg))
	}

	d := s.data
	panelWidth := width - 4
	if !layout.IsCompactWidth(width) {
		panelWidth = width/2 - 3
	}

	level := theme.Card.Width(panelWidth).Render(strings.Join([]string{
		theme.Title.Render(fmt.Sprintf("Level %d", d.Level)),
		components.NewProgressBar("", d.LevelPercent, panelWidth-4).View(),
		theme.Subtitle.Render(fmt.Sprintf("%d points total, %d into this level", d.Points, d.LevelPoints)),
		theme.Body.Render(fmt.Sprintf("Streak: %d days (best %d)", d.Streak, d.LongestStreak)),
		theme.Body.Render(fmt.Sprintf("Books logged: %d   Finished: %d", d.BooksLogged, d.BooksFinished)),
	}, "\n"))

	goal := theme.Card.Width(panelWidth).Render(s.goalView(panelWidth - 4))

	var top string
	if layout.IsCompactWidth(width) {
		top = lipgloss.JoinVertical(lipgloss.Left, level, goal)
	} else {
		top = lipgloss.JoinHorizontal(lipgloss.Top, level, "  ", goal)
	}

	sections := []string{top, s.achievementsView()}
	if s.notice != "" {
		sections = append(sections, theme.Reward.Render(s.notice))
	}
	switch {
	case s.thinking:
		sections = append(sections, theme.Hint.Render("Your reading coach is thinking..."))
	case s.analysis != "":
		sections = append(sections, theme.Card.Width(width-4).Render(s.analysis))
	}
	sections = append(sections, s.logsView())

	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(sections, "\n\n"))
}

func (s *StudentScreen) goalView(barWidth int) string {
	g := s.data.Goal
	if g == nil {
		return theme.Title.Render("Weekly goal") + "\n" +
			theme.Hint.Render("No goal this week. Ask your teacher to set one!")
	}
	unit := "books"
	if g.Goal.Type == readinglog.GoalMinutes {
		unit = "minutes"
	}
	lines := []string{
		theme.Title.Render("Weekly goal"),
		components.NewProgressBar("", g.Percent(), barWidth).View(),
		theme.Body.Render(fmt.Sprintf("%d of %d %s", g.Current, g.Target, unit)),
	}
	if g.Credited {
		lines = append(lines, theme.Reward.Render("Goal met this week!"))
	}
	return strings.Join(lines, "\n")
}

func (s *StudentScreen) achievementsView() string {
	if len(s.data.Achievements) == 0 {
		return theme.Hint.Render("No badges yet. Log a book to earn your first one!")
	}
	badges := make([]string, 0, len(s.data.Achievements))
	for _, a := range s.data.Achievements {
		badges = append(badges, theme.Reward.Render(a.Icon+" "+a.Name))
	}
	return theme.Title.Render("Badges") + "\n" + strings.Join(badges, "   ")
}

func (s *StudentScreen) logsView() string {
	if len(s.data.Logs) == 0 {
		return theme.Hint.Render("No reading logs yet. Press n to add one.")
	}
	lines := []string{theme.Title.Render("Recent reading")}
	for i, e := range s.data.Logs {
		if i == recentLogs {
			break
		}
		lines = append(lines, renderEntry(e, false))
	}
	return strings.Join(lines, "\n")
}
