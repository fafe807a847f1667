package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tasktray/tasktray/internal/settings"
)

// faintBelow is the opacity under which the whole surface renders faint.
const faintBelow = 50

type palette struct {
	fg, muted, accent, done, danger, border lipgloss.Color
}

var palettes = map[settings.Theme]palette{
	settings.ThemeDark: {
		fg:     lipgloss.Color("252"),
		muted:  lipgloss.Color("244"),
		accent: lipgloss.Color("39"),
		done:   lipgloss.Color("71"),
		danger: lipgloss.Color("203"),
		border: lipgloss.Color("238"),
	},
	settings.ThemeLight: {
		fg:     lipgloss.Color("235"),
		muted:  lipgloss.Color("245"),
		accent: lipgloss.Color("25"),
		done:   lipgloss.Color("28"),
		danger: lipgloss.Color("160"),
		border: lipgloss.Color("250"),
	},
}

// Styles is the rendered look for one theme and opacity.
type Styles struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Done     lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Badge    lipgloss.Style
	Error    lipgloss.Style
	Footer   lipgloss.Style
}

// NewStyles builds the styles for a theme. Opacity below 50 renders the
// surface faint since a terminal has no alpha channel.
func NewStyles(theme settings.Theme, opacity int) Styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[settings.ThemeDark]
	}
	faint := opacity < faintBelow

	base := lipgloss.NewStyle().Foreground(p.fg).Faint(faint)
	return Styles{
		Frame: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1).
			Faint(faint),
		Title:    base.Bold(true).Foreground(p.accent),
		Text:     base,
		Muted:    base.Foreground(p.muted),
		Done:     base.Foreground(p.done).Strikethrough(true),
		Cursor:   base.Foreground(p.accent).Bold(true),
		Selected: base.Bold(true),
		Badge:    base.Foreground(p.accent),
		Error:    base.Foreground(p.danger),
		Footer:   base.Foreground(p.muted).MarginTop(1),
	}
}
