package visualizer

var barChars = []rune(" ▁▂▃▄▅▆▇█")

// BarGlyphs returns the glyphs of a bar with the given level (0..1) drawn
// height rows tall, top row first. Partial cells use eighth blocks.
func BarGlyphs(level float64, height int) []rune {
	height = max(height, 1)
	filled := clamp01(level) * float64(height)

	out := make([]rune, height)
	for row := range height {
		fromBottom := float64(height - 1 - row)
		idx := 0
		switch {
		case filled >= fromBottom+1:
			idx = len(barChars) - 1
		case filled > fromBottom:
			idx = int((filled - fromBottom) * float64(len(barChars)-1))
		}
		out[row] = barChars[idx]
	}
	return out
}
