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
	"github.com/ourclass/readlog/internal/ui/layout"
	"github.com/ourclass/readlog/internal/ui/theme"
)

type classLoadedMsg struct {
	Overview classroom.ClassOverview
	Err      error
}

type pane int

const (
	paneStudents pane = iota
	paneLogs
)

const teacherLogRows = 8

// TeacherScreen is the class overview: totals, one row per student and the
// newest entries awaiting feedback.
type TeacherScreen struct {
	deps Deps

	data     classroom.ClassOverview
	loaded   bool
	errMsg   string
	focus    pane
	student  int
	entry    int
	notice   string
	analysis string
	thinking bool
}

var (
	_ screen.Screen          = (*TeacherScreen)(nil)
	_ screen.KeyHintProvider = (*TeacherScreen)(nil)
)

// NewTeacher creates the class overview.
func NewTeacher(deps Deps) *TeacherScreen {
	return &TeacherScreen{deps: deps}
}

func (s *TeacherScreen) Init() tea.Cmd {
	return s.load()
}

func (s *TeacherScreen) load() tea.Cmd {
	svc := s.deps.Service
	return func() tea.Msg {
		o, err := svc.ClassOverview(context.Background())
		return classLoadedMsg{Overview: o, Err: err}
	}
}

func (s *TeacherScreen) Title() string {
	return "Class overview"
}

func (s *TeacherScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Switch list"},
		{Key: "g", Description: "Set goal"},
		{Key: "f", Description: "Feedback"},
	}
	if s.deps.Coach != nil && s.deps.Coach.Available() {
		hints = append(hints, layout.KeyHint{Key: "a", Description: "Class insights"})
	}
	return append(hints,
		layout.KeyHint{Key: "o", Description: "Sign out"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
}

func (s *TeacherScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case classLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.data = msg.Overview
		s.student = min(s.student, max(len(s.data.Students)-1, 0))
		s.entry = min(s.entry, max(s.visibleLogs()-1, 0))
		return s, nil

	case FeedbackSavedMsg:
		s.notice = fmt.Sprintf("Feedback saved for %s.", msg.Entry.StudentName)
		return s, s.load()

	case GoalSavedMsg:
		s.notice = fmt.Sprintf("Goal set for %s.", msg.Student.Name)
		return s, s.load()

	case analysisMsg:
		s.thinking = false
		s.analysis = msg.Text
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "tab":
			if s.focus == paneStudents {
				s.focus = paneLogs
			} else {
				s.focus = paneStudents
			}
		case "up", "k":
			s.move(-1)
		case "down", "j":
			s.move(1)
		case "g":
			if st, ok := s.selectedStudent(); ok {
				form := NewGoalForm(s.deps, st.Student)
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: form} }
			}
		case "f":
			if e, ok := s.selectedEntry(); ok {
				form := NewFeedbackForm(s.deps, e)
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: form} }
			}
		case "a":
			return s, s.analyze()
		case "r":
			return s, s.load()
		case "o":
			if s.deps.Logout != nil {
				next := s.deps.Logout()
				return s, func() tea.Msg { return router.ResetScreenMsg{Screen: next} }
			}
		}
	}
	return s, nil
}

func (s *TeacherScreen) move(delta int) {
	switch s.focus {
	case paneStudents:
		s.student = min(max(s.student+delta, 0), max(len(s.data.Students)-1, 0))
	case paneLogs:
		s.entry = min(max(s.entry+delta, 0), max(s.visibleLogs()-1, 0))
	}
}

func (s *TeacherScreen) visibleLogs() int {
	return min(len(s.data.RecentLogs), teacherLogRows)
}

func (s *TeacherScreen) selectedStudent() (classroom.StudentSummary, bool) {
	if !s.loaded || s.student >= len(s.data.Students) {
		return classroom.StudentSummary{}, false
	}
	return s.data.Students[s.student], true
}

func (s *TeacherScreen) selectedEntry() (readinglog.LogEntry, bool) {
	if !s.loaded || s.entry >= s.visibleLogs() {
		return readinglog.LogEntry{}, false
	}
	return s.data.RecentLogs[s.entry], true
}

func (s *TeacherScreen) analyze() tea.Cmd {
	c := s.deps.Coach
	if c == nil || !c.Available() || s.thinking || !s.loaded {
		return nil
	}
	s.thinking = true
	logs := s.data.RecentLogs
	return func() tea.Msg {
		text, err := c.AnalyzeClass(context.Background(), logs)
		return analysisMsg{Text: text, Err: err}
	}
}

func (s *TeacherScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Subtitle.Render("Gathering the class's reading..."))
	}
	if s.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.ErrorText.Render("Could not load the class: "+s.errMsg))
	}

	o := s.data
	totals := theme.Card.Width(width - 4).Render(fmt.Sprintf(
		"%s   %s   %s   %s",
		stat("Logs", fmt.Sprint(o.TotalLogs)),
		stat("Books", fmt.Sprint(o.DistinctBooks)),
		stat("Avg rating", fmt.Sprintf("%.1f", o.AverageRating)),
		stat("Top streak", fmt.Sprintf("%d days", o.TopStreak)),
	))

	sections := []string{totals, s.studentsView(), s.logsView()}
	if s.notice != "" {
		sections = append(sections, theme.Reward.Render(s.notice))
	}
	switch {
	case s.thinking:
		sections = append(sections, theme.Hint.Render("Looking for patterns in the class's reading..."))
	case s.analysis != "":
		sections = append(sections, theme.Card.Width(width-4).Render(s.analysis))
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(sections, "\n\n"))
}

func stat(label, value string) string {
	return theme.Subtitle.Render(label+": ") + theme.Reward.Render(value)
}

func (s *TeacherScreen) studentsView() string {
	lines := []string{s.paneTitle("Students", paneStudents)}
	if len(s.data.Students) == 0 {
		return lines[0] + "\n" + theme.Hint.Render("No students yet. Add some with `readlog roster add`.")
	}
	for i, st := range s.data.Students {
		goal := "no goal"
		if g := st.Goal; g != nil {
			goal = fmt.Sprintf("goal %d/%d %s", g.Current, g.Target, g.Goal.Type)
			if g.Credited {
				goal += " ✓"
			}
		}
		row := fmt.Sprintf("%s %-12s  %4d pts  L%-2d  streak %-2d  %2d logs  %s",
			st.Student.Avatar, truncate(st.Student.Name, 12), st.Points, st.Level, st.Streak, st.LogCount, goal)
		lines = append(lines, s.row(row, s.focus == paneStudents && i == s.student))
	}
	return strings.Join(lines, "\n")
}

func (s *TeacherScreen) logsView() string {
	lines := []string{s.paneTitle("Recent logs", paneLogs)}
	if len(s.data.RecentLogs) == 0 {
		return lines[0] + "\n" + theme.Hint.Render("Nobody has logged any reading yet.")
	}
	for i := range s.visibleLogs() {
		e := s.data.RecentLogs[i]
		mark := "  "
		if s.focus == paneLogs && i == s.entry {
			mark = theme.Selected.Render("▸ ")
		}
		lines = append(lines, mark+strings.ReplaceAll(renderEntry(e, true), "\n", "\n  "))
	}
	return strings.Join(lines, "\n")
}

func (s *TeacherScreen) paneTitle(title string, p pane) string {
	if s.focus == p {
		return theme.Title.Render(title)
	}
	return theme.Subtitle.Render(title)
}

func (s *TeacherScreen) row(text string, selected bool) string {
	if selected {
		return theme.Selected.Render("▸ " + text)
	}
	return theme.Unselected.Render("  " + text)
}
