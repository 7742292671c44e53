package ui

import tea "github.com/charmbracelet/bubbletea"

const (
	seekStep   = 5 // seconds
	volumeStep = 0.05
)

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "ctrl+c":
		return true
	}
	return false
}

func helpText(hasTracks bool) string {
	s := "a add  "
	if hasTracks {
		s += "space play/pause  n/p track  ←/→ seek  s shuffle  r repeat  enter play  c clear  "
	}
	s += "+/- volume  m mute  l lyrics  t theme  q quit"
	return s
}
