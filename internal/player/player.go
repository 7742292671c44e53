// Package player decodes local audio files and plays them through oto.
package player

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/kamesh14151/nexus/internal/visualizer"
)

const (
	sampleRate    = 44100
	channelCount  = 2
	bitDepth      = 2 // 16-bit = 2 bytes
	bytesPerFrame = channelCount * bitDepth
	bytesPerSec   = sampleRate * bytesPerFrame

	// tapSize holds a little more than one FFT window of stereo samples.
	tapSize         = 16384
	monitorInterval = 100 * time.Millisecond
)

var (
	// ErrNotLoaded is returned by operations that need a loaded track.
	ErrNotLoaded = errors.New("no track loaded")
	// ErrUnsupportedFormat is returned for file extensions without a decoder.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// stream is the part of *oto.Player the Player drives.
type stream interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(volume float64)
}

// countingReader wraps the decoder, tracks bytes read and copies them into
// the analysis tap.
type countingReader struct {
	reader io.Reader
	tap    *visualizer.RingBuffer
	pos    int64
	eof    bool
	mu     sync.Mutex
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	if n > 0 && cr.tap != nil {
		cr.tap.Write(p[:n])
	}
	cr.mu.Lock()
	cr.pos += int64(n)
	if err == io.EOF {
		cr.eof = true
	}
	cr.mu.Unlock()
	return n, err
}

func (cr *countingReader) Pos() int64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos
}

func (cr *countingReader) EOF() bool {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.eof
}

// SetPos moves the counted position after a seek and clears the EOF mark.
func (cr *countingReader) SetPos(pos int64) {
	cr.mu.Lock()
	cr.pos = pos
	cr.eof = false
	cr.mu.Unlock()
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

func newOtoStream(r io.Reader) (stream, error) {
	ctx, err := initOto()
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	return ctx.NewPlayer(r), nil
}

// Player is the audio output. It holds at most one loaded track; Load
// replaces it. All methods are safe for concurrent use.
type Player struct {
	mu sync.Mutex

	decoder     audioDecoder
	counter     *countingReader
	stream      stream
	newStream   func(io.Reader) (stream, error)
	tap         *visualizer.RingBuffer
	bytesPerSec int64
	duration    time.Duration
	volume      float64
	paused      bool
	closed      bool

	done    chan struct{}
	stopMon chan struct{}
	cleanup func()
}

// New creates an idle Player. The audio device is opened on first Load.
func New() *Player {
	return &Player{
		newStream:   newOtoStream,
		tap:         visualizer.NewRingBuffer(tapSize),
		bytesPerSec: bytesPerSec,
		volume:      0.8,
		paused:      true,
	}
}

// Tap returns the analysis buffer that receives a copy of every PCM byte
// handed to the audio device.
func (p *Player) Tap() *visualizer.RingBuffer {
	return p.tap
}

// Load opens the file at path and prepares it paused at the start. Any
// previously loaded track is released first, so a failed Load leaves the
// player idle.
func (p *Player) Load(path string) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return errors.New("player closed")
	}
	p.releaseLocked()
	if p.tap != nil {
		p.tap.Clear()
	}
	p.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	dec, err := newDecoder(f)
	if err != nil {
		f.Close()
		return err
	}
	out := toOutputFormat(dec)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		f.Close()
		return errors.New("player closed")
	}
	p.releaseLocked()

	counter := &countingReader{reader: out, tap: p.tap}
	st, err := p.newStream(counter)
	if err != nil {
		f.Close()
		return err
	}
	st.SetVolume(p.volume)

	p.decoder = out
	p.counter = counter
	p.stream = st
	p.duration = time.Duration(float64(out.Length()) / float64(p.bytesPerSec) * float64(time.Second))
	p.paused = true
	p.cleanup = func() { f.Close() }
	p.done = make(chan struct{})
	p.stopMon = make(chan struct{})

	go p.monitor(p.stopMon, p.done)
	return nil
}

func (p *Player) monitor(stop <-chan struct{}, done chan struct{}) {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		p.mu.Lock()
		ended := !p.paused && p.counter != nil && p.counter.EOF() &&
			p.stream != nil && !p.stream.IsPlaying()
		p.mu.Unlock()

		if ended {
			close(done)
			return
		}
	}
}

// Done returns a channel that is closed when the loaded track plays to its
// end. Each Load creates a new channel; nil when nothing is loaded.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Play starts or resumes the loaded track.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return ErrNotLoaded
	}
	p.stream.Play()
	p.paused = false
	return nil
}

// Pause pauses playback. Safe to call with nothing loaded.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream != nil {
		p.stream.Pause()
	}
	p.paused = true
}

// Stop halts playback and unloads the current track.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.releaseLocked()
	if p.tap != nil {
		p.tap.Clear()
	}
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	counter, bps := p.counter, p.bytesPerSec
	p.mu.Unlock()

	if counter == nil || bps <= 0 {
		return 0
	}
	secs := float64(counter.Pos()) / float64(bps)
	return time.Duration(secs * float64(time.Second))
}

// Duration returns the total duration of the loaded track, 0 if none.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

// clampSeekByteOffset converts pos to a byte offset clamped to [0,total]
// and aligned down to a whole frame.
func clampSeekByteOffset(pos time.Duration, bytesPerSec, total, frameSize int64) int64 {
	off := int64(pos.Seconds() * float64(bytesPerSec))
	off = max(0, min(off, total))
	if frameSize > 0 {
		off -= off % frameSize
	}
	return off
}

// SeekTo moves playback to pos. The oto player is recreated to flush its
// buffer; playback resumes if it was playing.
func (p *Player) SeekTo(pos time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.decoder == nil {
		return ErrNotLoaded
	}
	off := clampSeekByteOffset(pos, p.bytesPerSec, p.decoder.Length(), bytesPerFrame)
	if _, err := p.decoder.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("seeking: %w", err)
	}
	p.counter.SetPos(off)
	if p.tap != nil {
		p.tap.Clear()
	}

	if p.stream != nil {
		p.stream.Pause()
	}
	st, err := p.newStream(p.counter)
	if err != nil {
		p.stream = nil
		p.paused = true
		return err
	}
	st.SetVolume(p.volume)
	p.stream = st
	if !p.paused {
		p.stream.Play()
	}
	return nil
}

// Volume returns current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets volume (clamped to 0.0 - 1.0).
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = max(0, min(v, 1))
	if p.stream != nil {
		p.stream.SetVolume(p.volume)
	}
}

// Close releases all resources. Further Loads fail.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.releaseLocked()
}

func (p *Player) releaseLocked() {
	if p.stopMon != nil {
		close(p.stopMon)
		p.stopMon = nil
	}
	if p.stream != nil {
		p.stream.Pause()
		p.stream = nil
	}
	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	p.decoder = nil
	p.counter = nil
	p.duration = 0
	p.paused = true
	p.done = nil
}
