package ui

import (
	"bytes"
	"image"
	_ "image/jpeg" // JPEG decoder for cover art
	_ "image/png"  // PNG decoder for cover art
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"

	"github.com/kamesh14151/nexus/internal/playlist"
)

const (
	coverCols = 16
	coverRows = 8 // two pixels per row with half blocks
)

// coverCache keeps the rendered cover of the last track shown.
type coverCache struct {
	key   string
	lines []string
}

// get returns the rendered cover for t, or nil when t has no usable picture.
func (c *coverCache) get(t *playlist.Track) []string {
	if t == nil || len(t.Cover) == 0 {
		return nil
	}
	key := t.ID + ":" + strconv.Itoa(len(t.Cover))
	if key == c.key {
		return c.lines
	}
	lines, err := renderCover(t.Cover, coverCols, coverRows)
	if err != nil {
		lines = nil
	}
	c.key, c.lines = key, lines
	return lines
}

// renderCover decodes an embedded picture and draws it with upper half
// blocks: foreground is the top pixel, background the bottom one.
func renderCover(data []byte, cols, rows int) ([]string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	img = resize.Resize(uint(cols), uint(rows*2), img, resize.Lanczos3)

	lines := make([]string, rows)
	for y := range rows {
		var b strings.Builder
		for x := range cols {
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexAt(img, x, y*2))).
				Background(lipgloss.Color(hexAt(img, x, y*2+1))).
				Render("▀"))
		}
		lines[y] = b.String()
	}
	return lines, nil
}

func hexAt(img image.Image, x, y int) string {
	b := img.Bounds()
	c, ok := colorful.MakeColor(img.At(b.Min.X+x, b.Min.Y+y))
	if !ok {
		return "#000000"
	}
	return c.Hex()
}

// placeholderCover is the default art shown without a picture.
func (s styles) placeholderCover() []string {
	from, _ := colorful.Hex(s.palette.Highlight)
	to, _ := colorful.Hex(s.palette.Accent)

	lines := make([]string, coverRows)
	for y := range coverRows {
		bg := from.BlendHcl(to, float64(y)/float64(coverRows-1)).Clamped()
		cell := strings.Repeat(" ", coverCols)
		if y == coverRows/2-1 {
			pad := (coverCols - 1) / 2
			cell = strings.Repeat(" ", pad) + "♪" + strings.Repeat(" ", coverCols-pad-1)
		}
		lines[y] = lipgloss.NewStyle().
			Foreground(lipgloss.Color(s.palette.Text)).
			Background(lipgloss.Color(bg.Hex())).
			Render(cell)
	}
	return lines
}
