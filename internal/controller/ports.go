package controller

import (
	"time"

	"github.com/kamesh14151/nexus/internal/playlist"
)

// MediaOutput is the audio device the controller drives.
type MediaOutput interface {
	Load(path string) error
	Play() error
	Pause()
	Stop()
	SeekTo(pos time.Duration) error
	SetVolume(v float64)
	Duration() time.Duration // <= 0 when unknown
	Position() time.Duration
}

// Display receives everything the controller wants shown.
type Display interface {
	RenderPlaylist(rows []Row)
	// RenderNowPlaying shows the current track; nil means the empty state.
	RenderNowPlaying(t *playlist.Track)
	RenderTransport(s TransportState)
	RenderProgress(p Progress)
	RenderVolume(v float64, tier VolumeTier)
	Notify(msg string)
}

// MetadataSource reads tags for a track off the UI goroutine and later
// delivers a MetadataResult back to Controller.ApplyMetadata.
type MetadataSource interface {
	RequestMetadata(trackID, path string)
}

// MetadataResult is the outcome of one asynchronous tag read.
type MetadataResult struct {
	TrackID   string
	Title     string
	Artist    string
	Album     string
	Cover     []byte
	CoverMIME string
	Err       error
}

// Row is one rendered playlist line.
type Row struct {
	Name     string
	Artist   string
	Duration time.Duration
	Current  bool
}

// Progress is the rendered playback position.
type Progress struct {
	Elapsed  time.Duration
	Total    time.Duration
	Fraction float64
}

// TransportState is the externally visible playback state.
type TransportState struct {
	Playing      bool
	Shuffled     bool
	Repeated     bool
	CurrentIndex int
	Volume       float64
}

// Phase is the coarse lifecycle of the controller.
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseLoadedPaused
	PhaseLoadedPlaying
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "Empty"
	case PhaseLoadedPaused:
		return "LoadedPaused"
	case PhaseLoadedPlaying:
		return "LoadedPlaying"
	default:
		return "Unknown"
	}
}

// VolumeTier buckets the volume for the indicator icon.
type VolumeTier int

const (
	VolumeMuted VolumeTier = iota
	VolumeLow
	VolumeFull
)

func (t VolumeTier) String() string {
	switch t {
	case VolumeMuted:
		return "muted"
	case VolumeLow:
		return "low"
	default:
		return "full"
	}
}

// TierFor returns the volume tier for v.
func TierFor(v float64) VolumeTier {
	switch {
	case v <= 0:
		return VolumeMuted
	case v < 0.5:
		return VolumeLow
	default:
		return VolumeFull
	}
}
