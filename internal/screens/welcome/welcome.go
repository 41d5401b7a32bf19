package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ourclass/readlog/internal/router"
	"github.com/ourclass/readlog/internal/screen"
	"github.com/ourclass/readlog/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	pagesEnd     = 600 * time.Millisecond
	bannerEnd    = 1500 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

const bookArt = `   _______  _______
  /       \/       \
 |  ~~~~   ||  ~~~   |
 |  ~~~~~  ||  ~~~~  |
 |  ~~~    ||  ~~~~~ |
 |_________||________|
        \___/`

// page flip frames shown beside the book
var pageFrames = []string{"❯", "❯❯", "❯❯❯"}

type tickMsg time.Time

// WelcomeScreen plays a short splash and hands over to the sign-in screen
// on the first key press.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with next() when done.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		// Any key skips whatever is left of the animation.
		w.elapsed = totalDur
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	book := lipgloss.NewStyle().Foreground(theme.Primary).Render(bookArt)
	if w.elapsed >= pagesEnd {
		flip := lipgloss.NewStyle().Foreground(theme.Accent).
			Render(pageFrames[w.tickCount%len(pageFrames)])
		lines := strings.Split(book, "\n")
		if len(lines) > 3 {
			lines[3] = lines[3] + "  " + flip
		}
		book = strings.Join(lines, "\n")
	}
	sections = append(sections, book)

	if w.elapsed >= bannerEnd {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Every page counts!"),
			"",
			theme.Hint.Render("press any key to continue"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n"))
}
