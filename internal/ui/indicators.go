package ui

import (
	"fmt"
	"math"

	"github.com/kamesh14151/nexus/internal/controller"
)

// repeatIcon returns the repeat indicator, lit when on.
func (s styles) repeatIcon(on bool) string {
	if on {
		return s.on.Render("[repeat]")
	}
	return s.off.Render("[repeat]")
}

// shuffleIcon returns the shuffle indicator, lit when on.
func (s styles) shuffleIcon(on bool) string {
	if on {
		return s.on.Render("[shuffle]")
	}
	return s.off.Render("[shuffle]")
}

func playIcon(playing bool) (icon, text string) {
	if playing {
		return "▶", "playing"
	}
	return "❚❚", "paused"
}

func volumeIcon(tier controller.VolumeTier) string {
	switch tier {
	case controller.VolumeMuted:
		return "🔇"
	case controller.VolumeLow:
		return "🔉"
	default:
		return "🔊"
	}
}

func renderVolumePercent(vol float64, tier controller.VolumeTier) string {
	return fmt.Sprintf("%s %d%%", volumeIcon(tier), int(math.Round(vol*100)))
}
