package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestRenderHeader(t *testing.T) {
	tests := []struct {
		name    string
		stats   *Stats
		want    []string
		notWant []string
	}{
		{"no stats", nil, []string{"readlog", "Sign in"}, []string{"pts"}},
		{"with stats", &Stats{Points: 135, Streak: 4}, []string{"135 pts", "4 day"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RenderHeader("Sign in", tt.stats, 100)
			for _, s := range tt.want {
				assert.Contains(t, h, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, h, s)
			}
		})
	}
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader("Home", nil, 80)
	footer := RenderFooter([]KeyHint{{Key: "q", Description: "Quit"}}, 80)
	frame := RenderFrame(header, "body", footer, 80, 24)
	assert.Equal(t, 24, lipgloss.Height(frame))
	assert.True(t, strings.Contains(frame, "body"))
}

func TestSizeChecks(t *testing.T) {
	assert.True(t, IsTooSmall(MinWidth-1, MinHeight))
	assert.False(t, IsTooSmall(MinWidth, MinHeight))
	assert.True(t, IsCompactWidth(CompactWidthThreshold-1))
	assert.Contains(t, RenderMinSizeMessage(40, 10), "Terminal too small")
}
