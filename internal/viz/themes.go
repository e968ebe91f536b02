package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/morphcontours/internal/params"
)

// Palette is the panel color scheme. It follows the animation's own
// background and line colors, so changing theme restyles the whole view.
type Palette struct {
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Highlight  lipgloss.Color
	Border     lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

func PaletteFor(p params.Parameters) Palette {
	bg, line := p.BackgroundColor, p.LineColor
	return Palette{
		Background: lipgloss.Color(bg.Hex()),
		Text:       lipgloss.Color(line.Hex()),
		Muted:      lipgloss.Color(bg.Blend(line, 0.55).Hex()),
		Highlight:  lipgloss.Color(bg.Blend(line, 0.15).Hex()),
		Border:     lipgloss.Color(bg.Blend(line, 0.3).Hex()),
		Success:    lipgloss.Color("#2f855a"),
		Warning:    lipgloss.Color("#b7791f"),
		Error:      lipgloss.Color("#c53030"),
	}
}
