package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kamesh14151/nexus/internal/theme"
)

// styles are derived from the active palette and rebuilt on theme change.
type styles struct {
	palette theme.Palette

	header   lipgloss.Style
	title    lipgloss.Style
	artist   lipgloss.Style
	album    lipgloss.Style
	time     lipgloss.Style
	status   lipgloss.Style
	help     lipgloss.Style
	section  lipgloss.Style
	current  lipgloss.Style
	cursor   lipgloss.Style
	row      lipgloss.Style
	fill     lipgloss.Style
	empty    lipgloss.Style
	dialog   lipgloss.Style
	on       lipgloss.Style
	off      lipgloss.Style
	selected lipgloss.Style
}

func newStyles(p theme.Palette) styles {
	accent := lipgloss.Color(p.Accent)
	text := lipgloss.Color(p.Text)
	muted := lipgloss.Color(p.Muted)
	subtle := lipgloss.Color(p.Subtle)

	return styles{
		palette: p,

		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(text),

		artist: lipgloss.NewStyle().
			Foreground(muted),

		album: lipgloss.NewStyle().
			Italic(true).
			Foreground(subtle),

		time: lipgloss.NewStyle().
			Foreground(muted),

		status: lipgloss.NewStyle().
			Foreground(text),

		help: lipgloss.NewStyle().
			Foreground(subtle),

		section: lipgloss.NewStyle().
			Bold(true).
			Foreground(muted),

		current: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		cursor: lipgloss.NewStyle().
			Background(lipgloss.Color(p.Highlight)),

		row: lipgloss.NewStyle().
			Foreground(text),

		fill: lipgloss.NewStyle().
			Foreground(accent),

		empty: lipgloss.NewStyle().
			Foreground(subtle),

		dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 3),

		on: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		off: lipgloss.NewStyle().
			Foreground(subtle),

		selected: lipgloss.NewStyle().
			Foreground(text).
			Background(lipgloss.Color(p.Highlight)),
	}
}
