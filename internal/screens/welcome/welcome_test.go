package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ourclass/readlog/internal/router"
	"github.com/ourclass/readlog/internal/screen"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "login" }
func (s *stubScreen) Title() string                          { return "Sign in" }

func newTestWelcome() (*WelcomeScreen, *int) {
	calls := 0
	return New(func() screen.Screen {
		calls++
		return &stubScreen{}
	}), &calls
}

func sendTicks(w *WelcomeScreen, n int) {
	for i := 0; i < n; i++ {
		w.Update(tickMsg(time.Now()))
	}
}

func TestPhases(t *testing.T) {
	w, _ := newTestWelcome()
	assert.NotContains(t, w.View(100, 30), "Every page counts")

	sendTicks(w, 6)
	assert.Equal(t, pagesEnd, w.elapsed)
	assert.NotContains(t, w.View(100, 30), "Every page counts")

	sendTicks(w, 9)
	assert.Equal(t, bannerEnd, w.elapsed)
	assert.Contains(t, w.View(100, 30), "Every page counts")
}

func TestElapsedCapped(t *testing.T) {
	w, calls := newTestWelcome()
	sendTicks(w, 60)
	assert.Equal(t, totalDur, w.elapsed)
	assert.Zero(t, *calls, "ticks alone should not leave the splash")
}

func TestKeypressTransitions(t *testing.T) {
	tests := []struct {
		name  string
		ticks int
	}{
		{"mid animation", 3},
		{"after animation", 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, calls := newTestWelcome()
			sendTicks(w, tt.ticks)

			_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
			require.NotNil(t, cmd)
			msg, ok := cmd().(router.ReplaceScreenMsg)
			require.True(t, ok)
			assert.NotNil(t, msg.Screen)
			assert.Equal(t, 1, *calls)
		})
	}
}

func TestTransitionOnlyOnce(t *testing.T) {
	w, calls := newTestWelcome()
	w.Update(tea.KeyPressMsg{Code: 'a'})
	_, cmd := w.Update(tea.KeyPressMsg{Code: 'b'})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, *calls)
}

func TestBannerFallsBackWhenNarrow(t *testing.T) {
	assert.Contains(t, RenderBanner(40), "R E A D L O G")
	assert.False(t, strings.Contains(RenderBanner(100), "R E A D L O G"))
}

func TestTitleEmpty(t *testing.T) {
	w, _ := newTestWelcome()
	assert.Empty(t, w.Title())
}
