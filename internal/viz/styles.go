package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Styles struct {
	Panel    lipgloss.Style
	Header   lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Graph    lipgloss.Style
	Help     lipgloss.Style
	Running  lipgloss.Style
	Paused   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
}

func NewStyles(p Palette) Styles {
	base := lipgloss.NewStyle().Background(p.Background)
	return Styles{
		Panel: base.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			BorderBackground(p.Background).
			Foreground(p.Text).
			Padding(1, 2).
			Width(46),
		Header: base.
			Bold(true).
			Foreground(p.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(p.Border),
		Label:    base.Foreground(p.Muted).Width(18),
		Value:    base.Foreground(p.Text),
		Selected: base.Foreground(p.Text).Background(p.Highlight).Bold(true),
		Muted:    base.Foreground(p.Muted),
		Graph:    base.Foreground(p.Text),
		Help:     base.Foreground(p.Muted).Italic(true),
		Running:  base.Foreground(p.Success).Bold(true),
		Paused:   base.Foreground(p.Warning).Bold(true),
		Error:    base.Foreground(p.Error).Bold(true),
		Success:  base.Foreground(p.Success).Bold(true),
	}
}

// ProgressBar renders percent (0..100) as a bar of the given width.
func ProgressBar(percent, width int) string {
	filled := percent * width / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Slider renders v's position within [lo, hi].
func Slider(v, lo, hi float64, width int) string {
	ratio := 0.0
	if hi > lo {
		ratio = (v - lo) / (hi - lo)
	}
	if ratio < 0 {
		ratio = 0
	} else if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}
