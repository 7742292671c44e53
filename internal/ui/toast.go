package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	toastSteps = 30 // 3 s at toastStep
	toastFade  = 3  // steps spent fading in and out
)

// toast is a transient notification that fades in, holds, and fades out.
type toast struct {
	id   int64
	text string
	step int
}

func (t toast) active() bool {
	return t.text != "" && t.step < toastSteps
}

// alpha returns the toast's visibility in [0,1].
func (t toast) alpha() float64 {
	switch {
	case !t.active():
		return 0
	case t.step < toastFade:
		return float64(t.step+1) / toastFade
	case t.step >= toastSteps-toastFade:
		return float64(toastSteps-t.step) / toastFade
	default:
		return 1
	}
}

func (s styles) renderToast(t toast) string {
	if !t.active() {
		return ""
	}
	from, _ := colorful.Hex(s.palette.Highlight)
	to, _ := colorful.Hex(s.palette.Accent)
	c := from.BlendLab(to, t.alpha()).Clamped()
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Hex())).Render("● " + t.text)
}
