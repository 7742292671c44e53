// Package theme defines the named color palettes of the player.
package theme

import (
	"strings"

	"github.com/samber/lo"
)

const DefaultName = "default"

// Palette is a set of hex colors used by the UI styles.
type Palette struct {
	Name      string
	Accent    string // progress fill, current row, bars
	Secondary string // gradient end of the bars
	Text      string
	Muted     string
	Subtle    string // help line, borders
	Highlight string // cursor row background
}

var palettes = []Palette{
	{
		Name:      DefaultName,
		Accent:    "#6C5CE7",
		Secondary: "#A29BFE",
		Text:      "#FFFFFF",
		Muted:     "#AAAAAA",
		Subtle:    "#666666",
		Highlight: "#2D2A4A",
	},
	{
		Name:      "dark",
		Accent:    "#BB86FC",
		Secondary: "#03DAC6",
		Text:      "#E0E0E0",
		Muted:     "#9E9E9E",
		Subtle:    "#5C5C5C",
		Highlight: "#1F1F1F",
	},
	{
		Name:      "light",
		Accent:    "#0984E3",
		Secondary: "#74B9FF",
		Text:      "#2D3436",
		Muted:     "#636E72",
		Subtle:    "#B2BEC3",
		Highlight: "#DFE6E9",
	},
	{
		Name:      "ocean",
		Accent:    "#00B4D8",
		Secondary: "#90E0EF",
		Text:      "#CAF0F8",
		Muted:     "#8ECAE6",
		Subtle:    "#457B9D",
		Highlight: "#023E8A",
	},
	{
		Name:      "sunset",
		Accent:    "#FF7675",
		Secondary: "#FDCB6E",
		Text:      "#FFEAA7",
		Muted:     "#E17055",
		Subtle:    "#A0522D",
		Highlight: "#4A2C2A",
	},
}

// Names returns the theme names in cycling order.
func Names() []string {
	return lo.Map(palettes, func(p Palette, _ int) string { return p.Name })
}

// Lookup returns the palette called name (case-insensitive).
func Lookup(name string) (Palette, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	return lo.Find(palettes, func(p Palette) bool { return p.Name == name })
}

// Default returns the default palette.
func Default() Palette {
	return palettes[0]
}

// Resolve returns the first known palette among candidates, or the default.
func Resolve(candidates ...string) Palette {
	for _, name := range candidates {
		if p, ok := Lookup(name); ok {
			return p
		}
	}
	return Default()
}

// Next returns the palette after name, wrapping around. Unknown names
// start from the default.
func Next(name string) Palette {
	_, idx, ok := lo.FindIndexOf(palettes, func(p Palette) bool { return p.Name == name })
	if !ok {
		return Default()
	}
	return palettes[(idx+1)%len(palettes)]
}
