package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/kamesh14151/nexus/internal/visualizer"
)

// progressCells returns how many of width cells are filled for ratio.
func progressCells(ratio float64, width int) int {
	ratio = max(0, min(ratio, 1))
	return int(ratio * float64(width))
}

func (s styles) renderProgressBar(ratio float64, width int) string {
	width = max(width, 10)
	filled := progressCells(ratio, width)
	return s.fill.Render(strings.Repeat("━", filled)) +
		s.empty.Render(strings.Repeat("─", width-filled))
}

// renderBars draws the visualizer bars height rows tall, each bar colWidth
// cells wide and colored by its opacity.
func (s styles) renderBars(bars []visualizer.Bar, height, colWidth int) []string {
	if len(bars) == 0 {
		return nil
	}
	colWidth = max(colWidth, 1)
	base, _ := colorful.Hex(s.palette.Highlight)
	accent, _ := colorful.Hex(s.palette.Accent)
	top, _ := colorful.Hex(s.palette.Secondary)

	columns := make([][]rune, len(bars))
	colStyles := make([]lipgloss.Style, len(bars))
	for i, b := range bars {
		columns[i] = visualizer.BarGlyphs(b.Level, height)
		hue := accent.BlendHcl(top, float64(i)/float64(max(len(bars)-1, 1)))
		c := base.BlendRgb(hue, b.Opacity).Clamped()
		colStyles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
	}

	rows := make([]string, height)
	for r := range height {
		var line strings.Builder
		for i := range bars {
			if i > 0 {
				line.WriteByte(' ')
			}
			line.WriteString(colStyles[i].Render(strings.Repeat(string(columns[i][r]), colWidth)))
		}
		rows[r] = line.String()
	}
	return rows
}

// barColumnWidth fits n bars separated by single spaces into width.
func barColumnWidth(n, width int) int {
	if n <= 0 {
		return 1
	}
	return max(1, (width-(n-1))/n)
}

// truncate shortens s to fit width display cells, adding an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// fitRow places left and right with at least one space between them,
// truncating left so the row is exactly width cells.
func fitRow(left, right string, width int) string {
	rw := lipgloss.Width(right)
	left = truncate(left, max(width-rw-1, 1))
	gap := max(width-lipgloss.Width(left)-rw, 1)
	return left + strings.Repeat(" ", gap) + right
}
