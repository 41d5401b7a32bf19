package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
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

// field names match the draft's JSON keys so validation errors can point
// back at the question that produced them.
type field string

const (
	fieldTitle    field = "bookTitle"
	fieldAuthor   field = "author"
	fieldRating   field = "rating"
	fieldFormat   field = "format"
	fieldGenre    field = "genre"
	fieldFinished field = "finishedBook"
	fieldThought  field = "quickThought"
	fieldMinutes  field = "minutesRead"
	fieldFocus    field = "deepDiveFocus"
	fieldAnalysis field = "deepDiveAnalysis"
)

type question struct {
	field  field
	prompt string
	// choices turns the question into a menu
	choices []string
}

type logSubmittedMsg struct {
	Entry        readinglog.LogEntry
	GoalCredited bool
	Err          error
}

// LogFormScreen asks one question at a time and files the log on the last
// answer.
type LogFormScreen struct {
	deps      Deps
	studentID string

	answers map[field]string
	pos     int
	input   components.TextInput
	menu    components.Menu
	errMsg  string
	saving  bool
}

var (
	_ screen.Screen          = (*LogFormScreen)(nil)
	_ screen.KeyHintProvider = (*LogFormScreen)(nil)
	_ screen.EscapeHandler   = (*LogFormScreen)(nil)
)

// NewLogForm creates an empty form for studentID.
func NewLogForm(deps Deps, studentID string) *LogFormScreen {
	f := &LogFormScreen{deps: deps, studentID: studentID, answers: map[field]string{}}
	f.show()
	return f
}

func (f *LogFormScreen) Init() tea.Cmd {
	return f.input.Init()
}

func (f *LogFormScreen) Title() string {
	return "New reading log"
}

func (f *LogFormScreen) HandlesEscape() bool {
	return true
}

func (f *LogFormScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Next"},
		{Key: "Esc", Description: "Previous"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (f *LogFormScreen) questions() []question {
	qs := []question{
		{field: fieldTitle, prompt: "What book are you reading?"},
		{field: fieldAuthor, prompt: "Who wrote it?"},
		{field: fieldRating, prompt: "How many stars would you give it? (1-5)"},
		{field: fieldFormat, prompt: "How are you reading it?", choices: formats()},
		{field: fieldGenre, prompt: "What genre is it?", choices: readinglog.Genres},
		{field: fieldFinished, prompt: "Did you finish the book?", choices: []string{"No, still reading", "Yes, I finished it!"}},
	}
	if f.finished() {
		return append(qs,
			question{field: fieldFocus, prompt: "Pick a focus for your Deep Dive", choices: foci()},
			question{field: fieldAnalysis, prompt: fmt.Sprintf("Write your Deep Dive (at least %d characters)", readinglog.MinDeepDiveLen)},
		)
	}
	return append(qs,
		question{field: fieldThought, prompt: fmt.Sprintf("Share a quick thought (at least %d characters)", readinglog.MinQuickThoughtLen)},
		question{field: fieldMinutes, prompt: "How many minutes did you read?"},
	)
}

func (f *LogFormScreen) finished() bool {
	return strings.HasPrefix(f.answers[fieldFinished], "Yes")
}

func formats() []string {
	out := make([]string, 0, 4)
	for _, fm := range readinglog.AllFormats() {
		out = append(out, string(fm))
	}
	return out
}

func foci() []string {
	out := make([]string, 0, 6)
	for _, fc := range readinglog.AllFoci() {
		out = append(out, string(fc))
	}
	return out
}

func (f *LogFormScreen) current() question {
	return f.questions()[f.pos]
}

// show builds the widget for the current question, prefilled with any
// earlier answer.
func (f *LogFormScreen) show() {
	q := f.current()
	prev := f.answers[q.field]
	if q.choices != nil {
		items := make([]components.MenuItem, len(q.choices))
		for i, c := range q.choices {
			items[i] = components.MenuItem{Label: c, Value: c}
		}
		f.menu = components.NewMenu(items)
		for i, c := range q.choices {
			if c == prev {
				f.menu.Selected = i
			}
		}
		return
	}
	limit := 120
	if q.field == fieldThought || q.field == fieldAnalysis {
		limit = 2000
	}
	f.input = components.NewTextInput("", limit)
	f.input.NumericOnly = q.field == fieldRating || q.field == fieldMinutes
	f.input.Model.SetValue(prev)
}

func (f *LogFormScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case logSubmittedMsg:
		f.saving = false
		if msg.Err != nil {
			f.errMsg = msg.Err.Error()
			var verr *readinglog.ValidationError
			if errors.As(msg.Err, &verr) {
				f.jumpTo(field(verr.First()))
			}
			return f, nil
		}
		saved := LogSavedMsg{Entry: msg.Entry, GoalCredited: msg.GoalCredited}
		return f, tea.Sequence(
			func() tea.Msg { return router.PopScreenMsg{} },
			func() tea.Msg { return saved },
		)

	case components.ChosenMsg:
		return f, f.answer(msg.Item.Value)

	case tea.KeyPressMsg:
		if f.saving {
			return f, nil
		}
		switch msg.String() {
		case "esc":
			if f.pos == 0 {
				return f, func() tea.Msg { return router.PopScreenMsg{} }
			}
			f.pos--
			f.errMsg = ""
			f.show()
			return f, nil
		case "enter":
			if f.current().choices == nil {
				return f, f.answer(f.input.Value())
			}
		}
	}

	var cmd tea.Cmd
	if f.current().choices != nil {
		f.menu, cmd = f.menu.Update(msg)
	} else {
		f.input, cmd = f.input.Update(msg)
	}
	return f, cmd
}

// answer records value and moves on, submitting after the last question.
func (f *LogFormScreen) answer(value string) tea.Cmd {
	f.answers[f.current().field] = value
	f.errMsg = ""
	if f.pos < len(f.questions())-1 {
		f.pos++
		f.show()
		if f.current().choices != nil {
			return nil
		}
		return f.input.Init()
	}
	return f.submit()
}

func (f *LogFormScreen) jumpTo(name field) {
	for i, q := range f.questions() {
		if q.field == name {
			f.pos = i
			f.show()
			return
		}
	}
}

// Draft assembles the answers. Unparseable numbers become zero and are
// caught by validation.
func (f *LogFormScreen) Draft() readinglog.Draft {
	rating, _ := strconv.Atoi(f.answers[fieldRating])
	minutes, _ := strconv.Atoi(f.answers[fieldMinutes])
	d := readinglog.Draft{
		BookTitle:    f.answers[fieldTitle],
		Author:       f.answers[fieldAuthor],
		Rating:       rating,
		Format:       readinglog.Format(f.answers[fieldFormat]),
		Genre:        f.answers[fieldGenre],
		FinishedBook: f.finished(),
	}
	if d.FinishedBook {
		d.DeepDiveFocus = readinglog.DeepDiveFocus(f.answers[fieldFocus])
		d.DeepDiveAnalysis = f.answers[fieldAnalysis]
	} else {
		d.QuickThought = f.answers[fieldThought]
		d.MinutesRead = minutes
	}
	return d
}

func (f *LogFormScreen) submit() tea.Cmd {
	f.saving = true
	svc, id, draft := f.deps.Service, f.studentID, f.Draft()
	return func() tea.Msg {
		res, err := svc.AddLog(context.Background(), id, draft)
		return logSubmittedMsg{Entry: res.Entry, GoalCredited: res.GoalCredited, Err: err}
	}
}

func (f *LogFormScreen) View(width, height int) string {
	qs := f.questions()
	q := qs[f.pos]

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Question %d of %d", f.pos+1, len(qs))))
	b.WriteString("\n\n")
	b.WriteString(theme.Title.Render(q.prompt))
	b.WriteString("\n\n")
	if q.choices != nil {
		b.WriteString(f.menu.View())
	} else {
		b.WriteString("  " + f.input.View())
		if q.field == fieldThought || q.field == fieldAnalysis {
			b.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("  %d characters", len([]rune(strings.TrimSpace(f.input.Value()))))))
		}
	}
	if f.saving {
		b.WriteString("\n\n" + theme.Hint.Render("Saving..."))
	}
	if f.errMsg != "" {
		b.WriteString("\n\n" + theme.ErrorText.Render(f.errMsg))
	}

	card := theme.Card.Width(min(width-4, 76)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
