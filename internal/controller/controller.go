// Package controller implements the playback state machine: it owns the
// playlist and transport state, drives a MediaOutput and tells a Display
// what to show.
package controller

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/samber/lo"

	"github.com/kamesh14151/nexus/internal/media"
	"github.com/kamesh14151/nexus/internal/playlist"
)

// Options configures a Controller.
type Options struct {
	Metadata MetadataSource // optional
	Logger   *slog.Logger   // optional, discards when nil
	Rand     *rand.Rand     // shuffle source, time-seeded when nil
	Volume   float64        // initial volume, clamped to [0,1]
}

// Controller is the playback state machine. It is not safe for concurrent
// use; every method must be called from the UI goroutine.
type Controller struct {
	media   MediaOutput
	display Display
	meta    MetadataSource
	log     *slog.Logger

	list    *playlist.Playlist
	playing bool
	repeat  bool
	volume  float64
}

// New creates a Controller in the Empty phase and applies the initial volume.
func New(out MediaOutput, display Display, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Controller{
		media:   out,
		display: display,
		meta:    opts.Metadata,
		log:     logger,
		list:    playlist.New(opts.Rand),
		volume:  clamp01(opts.Volume),
	}
	c.media.SetVolume(c.volume)
	return c
}

// State returns a snapshot of the transport state.
func (c *Controller) State() TransportState {
	return TransportState{
		Playing:      c.playing,
		Shuffled:     c.list.IsShuffled(),
		Repeated:     c.repeat,
		CurrentIndex: c.list.CurrentIndex(),
		Volume:       c.volume,
	}
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase {
	switch {
	case c.list.IsEmpty():
		return PhaseEmpty
	case c.playing:
		return PhaseLoadedPlaying
	default:
		return PhaseLoadedPaused
	}
}

// Tracks returns copies of the tracks in presentation order.
func (c *Controller) Tracks() []playlist.Track {
	return c.list.Tracks()
}

// Current returns a copy of the current track and true, or false when empty.
func (c *Controller) Current() (playlist.Track, bool) {
	t := c.list.Current()
	if t == nil {
		return playlist.Track{}, false
	}
	return *t, true
}

// Len returns the number of tracks.
func (c *Controller) Len() int {
	return c.list.Len()
}

// ImportTracks appends every path with a supported audio extension and
// returns how many were accepted. Importing into an empty playlist starts
// playback of the first track.
func (c *Controller) ImportTracks(paths []string) int {
	if len(paths) == 0 {
		return 0
	}
	accepted := lo.Filter(paths, func(p string, _ int) bool {
		return media.IsAudioFile(p)
	})
	if len(accepted) == 0 {
		c.display.Notify(MsgNoAudioFiles)
		return 0
	}

	wasEmpty := c.list.IsEmpty()
	c.list.Append(lo.Map(accepted, func(p string, _ int) playlist.Track {
		return playlist.NewTrack(p)
	})...)
	c.log.Info("tracks imported", "accepted", len(accepted), "rejected", len(paths)-len(accepted))

	c.renderPlaylist()
	c.display.Notify(fmt.Sprintf("Added %d song(s)", len(accepted)))

	if wasEmpty {
		// failures are already surfaced as a notification
		_ = c.Play(0)
	} else {
		c.renderTransport()
	}
	return len(accepted)
}

// Play loads and starts the track at index.
func (c *Controller) Play(index int) error {
	t := c.list.Track(index)
	if t == nil {
		return fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, index, c.list.Len())
	}
	c.list.SetCurrentIndex(index)

	if err := c.start(t); err != nil {
		return err
	}

	c.OnMetadataReady()
	c.display.RenderNowPlaying(t)
	c.renderTransport()
	c.ExtractMetadata(index)
	return nil
}

func (c *Controller) start(t *playlist.Track) error {
	err := c.media.Load(t.Path)
	if err == nil {
		err = c.media.Play()
	}
	if err != nil {
		c.playing = false
		// nothing from the previous track may keep playing
		c.media.Stop()
		c.log.Error("playback failed", "track", t.Name, "path", t.Path, "error", err)
		c.display.Notify(MsgPlaybackFailed)
		c.renderPlaylist()
		c.renderTransport()
		return fmt.Errorf("%w: %s: %w", ErrPlaybackFailed, t.Name, err)
	}
	c.playing = true
	return nil
}

// TogglePlayPause pauses while playing and resumes otherwise.
func (c *Controller) TogglePlayPause() error {
	if c.list.IsEmpty() {
		c.display.Notify(MsgAddSongsFirst)
		return ErrEmptyPlaylist
	}
	if c.playing {
		c.media.Pause()
		c.playing = false
		c.renderTransport()
		return nil
	}
	if err := c.media.Play(); err != nil {
		c.playing = false
		c.log.Error("resume failed", "error", err)
		c.display.Notify(MsgPlaybackFailed)
		c.renderTransport()
		return fmt.Errorf("%w: %w", ErrPlaybackFailed, err)
	}
	c.playing = true
	c.renderTransport()
	return nil
}

// Next replays the current track when repeat is on, otherwise advances
// with wrap-around. It is a no-op on an empty playlist.
func (c *Controller) Next() error {
	n := c.list.Len()
	if n == 0 {
		return nil
	}
	if c.repeat {
		return c.Play(c.list.CurrentIndex())
	}
	return c.Play((c.list.CurrentIndex() + 1) % n)
}

// Previous steps back with wrap-around. Repeat does not apply.
func (c *Controller) Previous() error {
	n := c.list.Len()
	if n == 0 {
		return nil
	}
	return c.Play((c.list.CurrentIndex() - 1 + n) % n)
}

// OnMediaEnded handles the natural end of the current track.
func (c *Controller) OnMediaEnded() error {
	return c.Next()
}

// ToggleShuffle flips shuffle mode. The current index is kept as a position.
// Turning shuffle off only notifies when an order was actually restored.
func (c *Controller) ToggleShuffle() {
	shuffled, restored := c.list.ToggleShuffle()
	switch {
	case shuffled:
		c.display.Notify(MsgShuffled)
	case restored:
		c.display.Notify(MsgOrderRestored)
	}
	c.renderPlaylist()
	c.renderTransport()
}

// ToggleRepeat flips repeat mode.
func (c *Controller) ToggleRepeat() {
	c.repeat = !c.repeat
	if c.repeat {
		c.display.Notify(MsgRepeatOn)
	} else {
		c.display.Notify(MsgRepeatOff)
	}
	c.renderTransport()
}

// SetVolume clamps v to [0,1], applies it and returns its tier.
func (c *Controller) SetVolume(v float64) VolumeTier {
	c.volume = clamp01(v)
	c.media.SetVolume(c.volume)
	tier := TierFor(c.volume)
	c.display.RenderVolume(c.volume, tier)
	return tier
}

// Volume returns the current volume.
func (c *Controller) Volume() float64 {
	return c.volume
}

// SeekTo jumps to fraction of the current track's duration. It does
// nothing while the duration is unknown.
func (c *Controller) SeekTo(fraction float64) {
	total := c.media.Duration()
	if total <= 0 {
		return
	}
	c.seek(time.Duration(clamp01(fraction) * float64(total)))
}

// SeekBy moves the position by delta, clamped to the track bounds.
func (c *Controller) SeekBy(delta time.Duration) {
	total := c.media.Duration()
	if total <= 0 {
		return
	}
	pos := c.media.Position() + delta
	c.seek(max(0, min(pos, total)))
}

func (c *Controller) seek(pos time.Duration) {
	if err := c.media.SeekTo(pos); err != nil {
		c.log.Warn("seek failed", "pos", pos, "error", err)
		return
	}
	c.OnTimeUpdate()
}

// ClearPlaylist stops playback and removes every track. Repeat and volume
// are kept. Callers confirm with the user first.
func (c *Controller) ClearPlaylist() {
	if c.list.IsEmpty() {
		return
	}
	c.media.Stop()
	c.list.Clear()
	c.playing = false
	c.log.Info("playlist cleared")

	c.renderPlaylist()
	c.display.RenderNowPlaying(nil)
	c.display.RenderProgress(Progress{})
	c.renderTransport()
	c.display.Notify(MsgCleared)
}

// ExtractMetadata asks the MetadataSource for the tags of the track at
// index, at most once per track.
func (c *Controller) ExtractMetadata(index int) {
	t := c.list.Track(index)
	if t == nil || t.MetadataRequested || c.meta == nil {
		return
	}
	t.MetadataRequested = true
	c.meta.RequestMetadata(t.ID, t.Path)
}

// ApplyMetadata stores a completed tag read on the track it was made for.
// Failures are logged and the defaults kept.
func (c *Controller) ApplyMetadata(res MetadataResult) {
	if res.Err != nil {
		c.log.Warn("metadata parsing failed, using default info", "track", res.TrackID, "error", res.Err)
		return
	}
	t, idx := c.list.Find(res.TrackID)
	if t == nil {
		return
	}
	if res.Title != "" {
		t.Name = res.Title
	}
	if res.Artist != "" {
		t.Artist = res.Artist
	}
	if res.Album != "" {
		t.Album = res.Album
	}
	if len(res.Cover) > 0 {
		t.Cover = res.Cover
		t.CoverMIME = res.CoverMIME
	}

	c.renderPlaylist()
	if idx == c.list.CurrentIndex() {
		c.display.RenderNowPlaying(t)
	}
}

// OnMetadataReady records the output's duration on the current track.
func (c *Controller) OnMetadataReady() {
	if t := c.list.Current(); t != nil {
		if d := c.media.Duration(); d > 0 {
			t.Duration = d
		}
	}
	c.renderPlaylist()
	c.OnTimeUpdate()
}

// OnTimeUpdate renders the playback position.
func (c *Controller) OnTimeUpdate() {
	c.display.RenderProgress(c.progress())
}

func (c *Controller) progress() Progress {
	total := c.media.Duration()
	elapsed := c.media.Position()
	p := Progress{Elapsed: elapsed, Total: total}
	if total > 0 {
		p.Fraction = clamp01(float64(elapsed) / float64(total))
	}
	return p
}

func (c *Controller) renderPlaylist() {
	cur := c.list.CurrentIndex()
	rows := lo.Map(c.list.Tracks(), func(t playlist.Track, i int) Row {
		return Row{
			Name:     t.Name,
			Artist:   t.Artist,
			Duration: t.Duration,
			Current:  i == cur,
		}
	})
	c.display.RenderPlaylist(rows)
}

func (c *Controller) renderTransport() {
	c.display.RenderTransport(c.State())
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
