package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ourclass/readlog/internal/ui/theme"
)

// ProgressBar is a horizontal bar for a percentage in [0, 100].
type ProgressBar struct {
	Label   string
	Percent float64
	Width   int
}

// NewProgressBar creates a bar of the given total width.
func NewProgressBar(label string, percent float64, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, Width: width}
}

func (p ProgressBar) View() string {
	label := ""
	if p.Label != "" {
		label = theme.Body.Render(p.Label) + "  "
	}
	const suffixWidth = 6 // "  100%"
	barWidth := max(p.Width-lipgloss.Width(label)-suffixWidth, 4)

	pct := min(max(p.Percent, 0), 100)
	filled := int(float64(barWidth) * pct / 100)

	return label +
		theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		theme.Subtitle.Render(fmt.Sprintf("  %d%%", int(pct)))
}
