package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ourclass/readlog/internal/readinglog"
	"github.com/ourclass/readlog/internal/router"
	"github.com/ourclass/readlog/internal/screen"
	"github.com/ourclass/readlog/internal/ui/components"
	"github.com/ourclass/readlog/internal/ui/layout"
	"github.com/ourclass/readlog/internal/ui/theme"
)

// GoalSavedMsg is sent after the teacher sets a goal.
type GoalSavedMsg struct {
	Student readinglog.User
}

type savedMsg struct {
	entry   readinglog.LogEntry
	student readinglog.User
	err     error
}

type suggestionMsg struct {
	text string
	err  error
}

// popThen pops the form and then delivers msg to the screen underneath.
func popThen(msg tea.Msg) tea.Cmd {
	return tea.Sequence(
		func() tea.Msg { return router.PopScreenMsg{} },
		func() tea.Msg { return msg },
	)
}

func formCard(width, height int, body string) string {
	card := theme.Card.Width(min(width-4, 76)).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

// FeedbackForm edits the teacher feedback on one entry.
type FeedbackForm struct {
	deps     Deps
	entry    readinglog.LogEntry
	input    components.TextInput
	errMsg   string
	thinking bool
}

var _ screen.KeyHintProvider = (*FeedbackForm)(nil)

// NewFeedbackForm starts from the entry's current feedback.
func NewFeedbackForm(deps Deps, entry readinglog.LogEntry) *FeedbackForm {
	in := components.NewTextInput("Great job! Next time try...", 500)
	in.Model.SetValue(entry.TeacherFeedback)
	return &FeedbackForm{deps: deps, entry: entry, input: in}
}

func (f *FeedbackForm) Init() tea.Cmd { return f.input.Init() }

func (f *FeedbackForm) Title() string { return "Feedback" }

func (f *FeedbackForm) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Save"}}
	if f.deps.Coach != nil && f.deps.Coach.Available() {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+G", Description: "Suggest"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Cancel"})
}

func (f *FeedbackForm) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if msg.err != nil {
			f.errMsg = msg.err.Error()
			return f, nil
		}
		return f, popThen(FeedbackSavedMsg{Entry: msg.entry})

	case suggestionMsg:
		f.thinking = false
		if msg.err != nil {
			f.errMsg = msg.text
			return f, nil
		}
		f.input.Model.SetValue(msg.text)
		return f, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			svc, ts, text := f.deps.Service, f.entry.Timestamp, f.input.Value()
			return f, func() tea.Msg {
				e, err := svc.UpdateFeedback(context.Background(), ts, text)
				return savedMsg{entry: e, err: err}
			}
		case "ctrl+g":
			return f, f.suggest()
		}
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

func (f *FeedbackForm) suggest() tea.Cmd {
	c := f.deps.Coach
	if c == nil || !c.Available() || f.thinking {
		return nil
	}
	f.thinking = true
	entry := f.entry
	return func() tea.Msg {
		text, err := c.SuggestFeedback(context.Background(), entry)
		return suggestionMsg{text: text, err: err}
	}
}

func (f *FeedbackForm) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Feedback for %s", f.entry.StudentName)))
	b.WriteString("\n\n")
	b.WriteString(renderEntry(f.entry, false))
	b.WriteString("\n\n  " + f.input.View())
	if f.thinking {
		b.WriteString("\n\n" + theme.Hint.Render("Drafting a suggestion..."))
	}
	if f.errMsg != "" {
		b.WriteString("\n\n" + theme.ErrorText.Render(f.errMsg))
	}
	return formCard(width, height, b.String())
}

// GoalForm sets a student's goal for the current week: the type first,
// then the target.
type GoalForm struct {
	deps     Deps
	student  readinglog.User
	types    components.Menu
	goalType readinglog.GoalType
	input    components.TextInput
	errMsg   string
}

var (
	_ screen.KeyHintProvider = (*GoalForm)(nil)
	_ screen.EscapeHandler   = (*GoalForm)(nil)
)

// NewGoalForm creates a goal form for student.
func NewGoalForm(deps Deps, student readinglog.User) *GoalForm {
	in := components.NewTextInput("3", 4)
	in.NumericOnly = true
	return &GoalForm{
		deps:    deps,
		student: student,
		input:   in,
		types: components.NewMenu([]components.MenuItem{
			{Label: "Books finished this week", Value: string(readinglog.GoalBooks)},
			{Label: "Minutes read this week", Value: string(readinglog.GoalMinutes)},
		}),
	}
}

func (f *GoalForm) Init() tea.Cmd { return nil }

func (f *GoalForm) Title() string { return "Weekly goal" }

func (f *GoalForm) HandlesEscape() bool { return true }

func (f *GoalForm) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Next"},
		{Key: "Esc", Description: "Back"},
	}
}

func (f *GoalForm) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if msg.err != nil {
			f.errMsg = msg.err.Error()
			return f, nil
		}
		return f, popThen(GoalSavedMsg{Student: msg.student})

	case components.ChosenMsg:
		f.goalType = readinglog.GoalType(msg.Item.Value)
		return f, f.input.Init()

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			if f.goalType == "" {
				return f, func() tea.Msg { return router.PopScreenMsg{} }
			}
			f.goalType = ""
			f.errMsg = ""
			return f, nil
		case "enter":
			if f.goalType != "" {
				return f, f.save()
			}
		}
	}

	var cmd tea.Cmd
	if f.goalType == "" {
		f.types, cmd = f.types.Update(msg)
	} else {
		f.input, cmd = f.input.Update(msg)
	}
	return f, cmd
}

func (f *GoalForm) save() tea.Cmd {
	value, err := f.input.NumericValue()
	if err != nil || value <= 0 {
		f.errMsg = "Enter a number greater than zero."
		return nil
	}
	svc, id, typ := f.deps.Service, f.student.ID, f.goalType
	return func() tea.Msg {
		u, err := svc.SetGoal(context.Background(), id, typ, value)
		return savedMsg{student: u, err: err}
	}
}

func (f *GoalForm) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Goal for %s", f.student.Name)))
	b.WriteString("\n\n")
	if f.goalType == "" {
		b.WriteString(f.types.View())
	} else {
		b.WriteString(theme.Body.Render(fmt.Sprintf("How many %s?", f.goalType)))
		b.WriteString("\n\n  " + f.input.View())
	}
	if f.errMsg != "" {
		b.WriteString("\n\n" + theme.ErrorText.Render(f.errMsg))
	}
	return formCard(width, height, b.String())
}
