package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/ourclass/readlog/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ███████╗ █████╗ ██████╗ ██╗      ██████╗  ██████╗
 ██╔══██╗██╔════╝██╔══██╗██╔══██╗██║     ██╔═══██╗██╔════╝
 ██████╔╝█████╗  ███████║██║  ██║██║     ██║   ██║██║  ███╗
 ██╔══██╗██╔══╝  ██╔══██║██║  ██║██║     ██║   ██║██║   ██║
 ██║  ██║███████╗██║  ██║██████╔╝███████╗╚██████╔╝╚██████╔╝
 ╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚═════╝ ╚══════╝ ╚═════╝  ╚═════╝`

const bannerCompact = "R E A D L O G"

// RenderBanner returns the READLOG banner, falling back to spaced letters
// below 62 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 62 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
