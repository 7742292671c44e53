// Package visualizer turns the PCM stream fed to the audio device into
// frequency bars for display.
package visualizer

import (
	"encoding/binary"
	"time"
)

const (
	DefaultBins = 32
	DefaultFPS  = 30

	idleOpacity = 0.3
	minOpacity  = 0.1
)

// Analyser is a source of recent PCM bytes (interleaved stereo s16le).
// *RingBuffer implements it.
type Analyser interface {
	Read(n int) []byte
}

// Bar is one visualizer column.
type Bar struct {
	Level   float64 // 0..1
	Opacity float64 // 0.1..1 while running, 0.3 when idle
}

// Sampler produces one set of bars per animation frame. Each Start begins a
// new generation; frame ticks carry their generation so ticks scheduled
// before a Stop are recognised as stale. Not safe for concurrent use.
type Sampler struct {
	tap     Analyser
	bins    int
	fps     int
	bands   *bandAnalyzer
	springs springField
	gen     uint64
	running bool
}

// NewSampler creates a Sampler reading from tap. Non-positive bins or fps
// use the defaults.
func NewSampler(tap Analyser, bins, fps int) *Sampler {
	if bins <= 0 {
		bins = DefaultBins
	}
	bins = min(bins, maxBandCount)
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Sampler{
		tap:     tap,
		bins:    bins,
		fps:     fps,
		bands:   newBandAnalyzer(bins),
		springs: newSpringField(fps, bins),
	}
}

// Bins returns the number of bars per frame.
func (s *Sampler) Bins() int { return s.bins }

// Interval returns the time between frames.
func (s *Sampler) Interval() time.Duration {
	return time.Second / time.Duration(s.fps)
}

// Start begins a sampling run and returns its generation.
func (s *Sampler) Start() uint64 {
	s.gen++
	s.running = true
	return s.gen
}

// Stop ends the current run. Pending ticks of that run become stale.
func (s *Sampler) Stop() {
	s.gen++
	s.running = false
	s.springs.reset()
}

// Running reports whether a run is active.
func (s *Sampler) Running() bool { return s.running }

// Current reports whether gen is the active run.
func (s *Sampler) Current(gen uint64) bool {
	return s.running && gen == s.gen
}

// Sample reads the latest window from the tap and returns the smoothed bars.
func (s *Sampler) Sample() []Bar {
	var raw []byte
	if s.tap != nil {
		raw = s.tap.Read(fftSize * 2 * 2)
	}
	levels := s.bands.process(samplesFromBytes(raw))

	bars := make([]Bar, s.bins)
	for i, target := range levels {
		v := clamp01(s.springs.step(i, target))
		bars[i] = Bar{Level: v, Opacity: minOpacity + (1-minOpacity)*v}
	}
	return bars
}

// Idle returns the resting bars shown while nothing plays.
func (s *Sampler) Idle() []Bar {
	bars := make([]Bar, s.bins)
	for i := range bars {
		bars[i] = Bar{Level: 0, Opacity: idleOpacity}
	}
	return bars
}

// samplesFromBytes decodes little-endian int16 samples, ignoring a trailing
// odd byte.
func samplesFromBytes(raw []byte) []int16 {
	out := make([]int16, len(raw)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return out
}
