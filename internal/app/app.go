package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ourclass/readlog/internal/auth"
	"github.com/ourclass/readlog/internal/classroom"
	"github.com/ourclass/readlog/internal/coach"
	"github.com/ourclass/readlog/internal/readinglog"
	"github.com/ourclass/readlog/internal/router"
	"github.com/ourclass/readlog/internal/screen"
	"github.com/ourclass/readlog/internal/screens/dashboard"
	"github.com/ourclass/readlog/internal/screens/login"
	"github.com/ourclass/readlog/internal/screens/welcome"
	"github.com/ourclass/readlog/internal/ui/layout"
)

// Options holds dependencies for the TUI.
type Options struct {
	Service *classroom.Service
	// Teacher is the credential checked at teacher sign-in.
	Teacher auth.Credential
	Coach   *coach.Coach
	Logger  *slog.Logger
	// SkipSplash starts at the sign-in screen.
	SkipSplash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel starting at the splash screen.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Coach == nil {
		opts.Coach = coach.New(nil, coach.WithLogger(opts.Logger))
	}
	f := &flow{opts: opts}

	var first screen.Screen
	if opts.SkipSplash {
		first = f.login()
	} else {
		first = welcome.New(f.login)
	}
	return AppModel{router: router.New(first)}
}

// flow builds the screens that follow each other around sign-in.
type flow struct {
	opts Options
}

func (f *flow) login() screen.Screen {
	dir := &liveDirectory{svc: f.opts.Service, log: f.opts.Logger}
	return login.New(auth.NewMachine(f.opts.Teacher, dir), f.home)
}

func (f *flow) home(user readinglog.User) screen.Screen {
	f.opts.Logger.Info("signed in", "role", user.Role, "user", user.ID)
	deps := dashboard.Deps{
		Service: f.opts.Service,
		Coach:   f.opts.Coach,
		Logout:  f.login,
	}
	if user.IsStudent() {
		return dashboard.NewStudent(deps, user.ID)
	}
	return dashboard.NewTeacher(deps)
}

// liveDirectory reads the class code and roster at the moment the login
// flow asks, so changes made from the CLI show up without a restart.
type liveDirectory struct {
	svc *classroom.Service
	log *slog.Logger
}

func (d *liveDirectory) ClassCode() string {
	cs, err := d.svc.ClassSettings(context.Background())
	if err != nil {
		d.log.Error("load class settings", "error", err)
		return ""
	}
	return cs.ClassCode
}

func (d *liveDirectory) Students() []readinglog.User {
	students, err := d.svc.Students(context.Background())
	if err != nil {
		d.log.Error("load roster", "error", err)
		return nil
	}
	return students
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	var stats *layout.Stats
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatsProvider); ok {
			stats = sp.HeaderStats()
		}
	}

	header := layout.RenderHeader(title, stats, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Any key", Description: "Continue"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
