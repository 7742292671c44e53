package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kamesh14151/nexus/internal/util"
)

const (
	margin       = 2
	barsHeight   = 6
	lyricsChrome = 7

	// rows above the playlist: blank, header, blank, cover block, blank,
	// progress, blank, bars, blank, section
	listTop = 4 + coverRows + 2 + barsHeight + 2
	// rows below it: blank, help
	listBottom = 2

	fallbackWidth  = 60
	fallbackHeight = listTop + listBottom + 8
)

// layout is where the clickable parts of the main view sit.
type layout struct {
	progressY int
	barX      int
	barWidth  int
	listY     int
	listRows  int
}

func (m Model) viewWidth() int {
	if m.width < 30 {
		return fallbackWidth
	}
	return m.width
}

func (m Model) viewHeight() int {
	if m.height <= 0 {
		return fallbackHeight
	}
	return m.height
}

func (m Model) playlistRows() int {
	return max(m.viewHeight()-listTop-listBottom, 3)
}

func (m Model) timeLabels() (elapsed, total string) {
	p := m.surf.progress
	return util.FormatDuration(p.Elapsed), util.FormatDuration(p.Total)
}

func (m Model) layout() layout {
	inner := m.viewWidth() - 2*margin
	elapsed, total := m.timeLabels()
	return layout{
		progressY: 3 + coverRows + 1,
		barX:      margin + len(elapsed) + 1,
		barWidth:  max(inner-len(elapsed)-len(total)-2, 10),
		listY:     listTop,
		listRows:  m.playlistRows(),
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	switch {
	case m.browsing:
		return m.frame(m.header(), "", m.browser.View())
	case m.confirming:
		return m.confirmView()
	case m.showLyrics:
		return m.lyricsView()
	}
	return m.pad(m.mainLines())
}

func (m Model) mainLines() []string {
	s := m.styles
	lay := m.layout()
	inner := m.viewWidth() - 2*margin

	lines := []string{"", m.header(), ""}
	lines = append(lines, m.nowPlaying(inner)...)
	lines = append(lines, "")

	elapsed, total := m.timeLabels()
	lines = append(lines, fmt.Sprintf("%s %s %s",
		s.time.Render(elapsed),
		s.renderProgressBar(m.surf.progress.Fraction, lay.barWidth),
		s.time.Render(total)))
	lines = append(lines, "")

	bars := m.surf.bars
	lines = append(lines, s.renderBars(bars, barsHeight, barColumnWidth(len(bars), inner))...)
	lines = append(lines, "")

	lines = append(lines, s.section.Render(fmt.Sprintf("Playlist (%d)", len(m.surf.rows))))
	lines = append(lines, m.playlistLines(inner, lay.listRows)...)
	lines = append(lines, "", s.help.Render(helpText(len(m.surf.rows) > 0)))

	for i, l := range lines {
		if l != "" {
			lines[i] = strings.Repeat(" ", margin) + l
		}
	}
	return lines
}

func (m Model) header() string {
	left := m.styles.header.Render(appTitle) + "  " + m.styles.help.Render(m.styles.palette.Name)
	right := m.styles.renderToast(m.surf.toast)
	if right == "" {
		return left
	}
	return fitRow(left, right, m.viewWidth()-2*margin)
}

// nowPlaying renders the cover beside the track details and transport.
func (m Model) nowPlaying(width int) []string {
	s := m.styles
	cover := m.surf.cover.get(m.surf.now)
	if cover == nil {
		cover = s.placeholderCover()
	}

	infoWidth := max(width-coverCols-3, 10)
	title, artist, album := "No track loaded", "", ""
	if t := m.surf.now; t != nil {
		title, artist, album = t.Name, t.Artist, t.Album
	}

	st := m.surf.transport
	icon, text := playIcon(st.Playing)
	status := s.status.Render(icon+"  "+text) + "  " + s.shuffleIcon(st.Shuffled) + " " + s.repeatIcon(st.Repeated)

	info := []string{
		s.title.Render(truncate(title, infoWidth)),
		s.artist.Render(truncate(artist, infoWidth)),
		s.album.Render(truncate(album, infoWidth)),
		"",
		status,
		s.status.Render(renderVolumePercent(m.surf.volume, m.surf.tier)),
	}

	block := lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Join(cover, "\n"),
		"   ",
		strings.Join(info, "\n"))
	out := strings.Split(block, "\n")
	for len(out) < coverRows {
		out = append(out, "")
	}
	return out[:coverRows]
}

func (m Model) playlistLines(width, rows int) []string {
	s := m.styles
	if len(m.surf.rows) == 0 {
		lines := make([]string, rows)
		lines[0] = s.help.Render("No songs yet. Press a to add music.")
		return lines
	}

	lines := make([]string, 0, rows)
	end := min(m.offset+rows, len(m.surf.rows))
	for i := m.offset; i < end; i++ {
		r := m.surf.rows[i]
		marker := "  "
		if r.Current {
			marker = "♪ "
		}
		left := fmt.Sprintf("%s%2d. %s · %s", marker, i+1, r.Name, r.Artist)
		right := "--:--"
		if r.Duration > 0 {
			right = util.FormatDuration(r.Duration)
		}
		line := fitRow(left, right, width)

		switch {
		case i == m.cursor:
			line = s.selected.Render(line)
		case r.Current:
			line = s.current.Render(line)
		default:
			line = s.row.Render(line)
		}
		lines = append(lines, line)
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return lines
}

func (m Model) confirmView() string {
	s := m.styles
	box := s.dialog.Render(lipgloss.JoinVertical(lipgloss.Center,
		s.title.Render("Clear the entire playlist?"),
		"",
		s.help.Render("y confirm   n cancel")))
	return lipgloss.Place(m.viewWidth(), m.viewHeight(), lipgloss.Center, lipgloss.Center, box)
}

func (m Model) lyricsView() string {
	name := "No track loaded"
	if m.surf.now != nil {
		name = m.surf.now.Name
	}
	section := m.styles.section.Render("Lyrics · " + truncate(name, m.viewWidth()-2*margin-9))
	return m.frame(m.header(), section, m.lyrics.View(), "", m.styles.help.Render("↑/↓ scroll  l/esc close"))
}

// frame lays out blocks with the standard margin under a blank top row.
func (m Model) frame(blocks ...string) string {
	lines := []string{""}
	for _, b := range blocks {
		for _, l := range strings.Split(b, "\n") {
			if l != "" {
				l = strings.Repeat(" ", margin) + l
			}
			lines = append(lines, l)
		}
	}
	return m.pad(lines)
}

// pad fills the view to the window height so stale rows are overwritten.
func (m Model) pad(lines []string) string {
	for len(lines) < m.height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
