// Package login is the sign-in screen. It renders whichever step the
// auth.Machine is at and feeds it the user's input.
package login

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ourclass/readlog/internal/auth"
	"github.com/ourclass/readlog/internal/readinglog"
	"github.com/ourclass/readlog/internal/router"
	"github.com/ourclass/readlog/internal/screen"
	"github.com/ourclass/readlog/internal/ui/components"
	"github.com/ourclass/readlog/internal/ui/layout"
	"github.com/ourclass/readlog/internal/ui/theme"
)

// Next builds the screen shown once user has signed in.
type Next func(user readinglog.User) screen.Screen

// LoginScreen walks the user through role, class code, profile and
// password.
type LoginScreen struct {
	machine *auth.Machine
	next    Next

	roles    components.Menu
	profiles components.Menu
	input    components.TextInput
	shown    auth.Step
}

var (
	_ screen.Screen          = (*LoginScreen)(nil)
	_ screen.KeyHintProvider = (*LoginScreen)(nil)
	_ screen.EscapeHandler   = (*LoginScreen)(nil)
)

// New creates a login screen at the role choice.
func New(machine *auth.Machine, next Next) *LoginScreen {
	s := &LoginScreen{machine: machine, next: next}
	s.roles = components.NewMenu([]components.MenuItem{
		{Label: "I'm a student", Value: string(readinglog.RoleStudent)},
		{Label: "I'm the teacher", Value: string(readinglog.RoleTeacher)},
	})
	s.sync()
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return nil
}

func (s *LoginScreen) Title() string {
	return "Sign in"
}

// HandlesEscape is true so esc walks the flow back instead of popping.
func (s *LoginScreen) HandlesEscape() bool {
	return true
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	switch s.machine.Step() {
	case auth.StepInitial, auth.StepStudentProfileSelect:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Select"},
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case components.ChosenMsg:
		switch s.machine.Step() {
		case auth.StepInitial:
			s.machine.ChooseRole(readinglog.Role(msg.Item.Value))
		case auth.StepStudentProfileSelect:
			s.machine.SelectProfile(msg.Item.Value)
		}
		return s, s.afterInput()

	case tea.KeyPressMsg:
		if msg.String() == "esc" {
			s.machine.Back()
			return s, s.afterInput()
		}
	}

	var cmd tea.Cmd
	switch s.machine.Step() {
	case auth.StepInitial:
		s.roles, cmd = s.roles.Update(msg)
	case auth.StepStudentProfileSelect:
		s.profiles, cmd = s.profiles.Update(msg)
	case auth.StepTeacherCredential, auth.StepStudentClassCode, auth.StepStudentCredential:
		if key, ok := msg.(tea.KeyPressMsg); ok && key.String() == "enter" {
			s.submit()
			return s, s.afterInput()
		}
		s.input, cmd = s.input.Update(msg)
	}
	return s, cmd
}

func (s *LoginScreen) submit() {
	value := s.input.Value()
	switch s.machine.Step() {
	case auth.StepStudentClassCode:
		s.machine.SubmitClassCode(value)
	default:
		s.machine.SubmitPassword(value)
	}
}

// afterInput resyncs widgets with the machine and hands off on success.
func (s *LoginScreen) afterInput() tea.Cmd {
	if s.machine.Step() == auth.StepAuthenticated {
		user := s.machine.User()
		if user == nil {
			return nil
		}
		next := s.next(*user)
		return func() tea.Msg { return router.ResetScreenMsg{Screen: next} }
	}
	return s.sync()
}

// sync rebuilds the widget for the machine's step when the step changed,
// and restores the held field after a rejected entry.
func (s *LoginScreen) sync() tea.Cmd {
	step := s.machine.Step()
	changed := step != s.shown
	s.shown = step

	switch step {
	case auth.StepTeacherCredential, auth.StepStudentCredential:
		if changed {
			s.input = components.NewPasswordInput("password")
		}
	case auth.StepStudentClassCode:
		if changed {
			s.input = components.NewTextInput("class code", 16)
		}
	case auth.StepStudentProfileSelect:
		if changed {
			items := make([]components.MenuItem, 0, len(s.machine.Students()))
			for _, st := range s.machine.Students() {
				items = append(items, components.MenuItem{
					Label: fmt.Sprintf("%s  %s", st.Avatar, st.Name),
					Value: st.ID,
				})
			}
			s.profiles = components.NewMenu(items)
		}
		return nil
	default:
		return nil
	}
	s.input.Model.SetValue(s.machine.Field())
	return s.input.Init()
}

func (s *LoginScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render(s.heading()))
	b.WriteString("\n\n")

	switch s.machine.Step() {
	case auth.StepInitial:
		b.WriteString(s.roles.View())
	case auth.StepStudentProfileSelect:
		if s.machine.EmptyRoster() {
			b.WriteString(theme.Hint.Render("No profiles yet."))
			b.WriteString("\n")
		} else {
			b.WriteString(s.profiles.View())
		}
	default:
		b.WriteString("  " + s.input.View())
		b.WriteString("\n")
	}

	if text := s.machine.ErrorText(); text != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Render(text))
	}

	card := theme.Card.Width(min(width-4, 56)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (s *LoginScreen) heading() string {
	switch s.machine.Step() {
	case auth.StepTeacherCredential:
		return "Teacher password"
	case auth.StepStudentClassCode:
		return "Enter your class code"
	case auth.StepStudentProfileSelect:
		return "Who's reading today?"
	case auth.StepStudentCredential:
		if sel := s.machine.Selected(); sel != nil {
			return fmt.Sprintf("Hi %s! Enter your password", sel.Name)
		}
		return "Enter your password"
	default:
		return "Welcome to the class library"
	}
}
