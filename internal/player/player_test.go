package player

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/kamesh14151/nexus/internal/visualizer"
)

type stubSeekDecoder struct {
	pos        int64
	length     int64
	sampleRate int
	channels   int
	seekErr    error
}

func (d *stubSeekDecoder) Read([]byte) (int, error) { return 0, io.EOF }

func (d *stubSeekDecoder) Seek(offset int64, whence int) (int64, error) {
	if d.seekErr != nil {
		return d.pos, d.seekErr
	}
	switch whence {
	case io.SeekStart:
		d.pos = offset
	case io.SeekCurrent:
		d.pos += offset
	case io.SeekEnd:
		d.pos = d.length + offset
	}
	return d.pos, nil
}

func (d *stubSeekDecoder) Length() int64     { return d.length }
func (d *stubSeekDecoder) SampleRate() int   { return d.sampleRate }
func (d *stubSeekDecoder) ChannelCount() int { return d.channels }

type fakeStream struct {
	playing bool
	volume  float64
}

func (s *fakeStream) Play()               { s.playing = true }
func (s *fakeStream) Pause()              { s.playing = false }
func (s *fakeStream) IsPlaying() bool     { return s.playing }
func (s *fakeStream) SetVolume(v float64) { s.volume = v }

// drainingStream stands in for the device: the test pulls PCM from the
// reader and the stream stops reporting playback once it is exhausted.
type drainingStream struct {
	mu      sync.Mutex
	r       io.Reader
	playing bool
}

func (s *drainingStream) Play()             { s.set(true) }
func (s *drainingStream) Pause()            { s.set(false) }
func (s *drainingStream) SetVolume(float64) {}

func (s *drainingStream) set(playing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = playing
}

func (s *drainingStream) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *drainingStream) drain(t *testing.T) {
	t.Helper()
	if _, err := io.ReadAll(s.r); err != nil {
		t.Fatalf("draining stream: %v", err)
	}
	s.set(false)
}

func newDrainingPlayer(streams *[]*drainingStream) *Player {
	p := New()
	p.newStream = func(r io.Reader) (stream, error) {
		st := &drainingStream{r: r}
		*streams = append(*streams, st)
		return st, nil
	}
	return p
}

// pcmDecoder serves fixed 16-bit PCM at an arbitrary rate and layout.
type pcmDecoder struct {
	*bytes.Reader
	rate     int
	channels int
}

func newPCMDecoder(rate, channels int, samples ...int16) *pcmDecoder {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return &pcmDecoder{Reader: bytes.NewReader(buf), rate: rate, channels: channels}
}

func (d *pcmDecoder) Length() int64     { return d.Size() }
func (d *pcmDecoder) SampleRate() int   { return d.rate }
func (d *pcmDecoder) ChannelCount() int { return d.channels }

func frames(t *testing.T, raw []byte) [][2]int16 {
	t.Helper()
	if len(raw)%bytesPerFrame != 0 {
		t.Fatalf("output of %d bytes is not frame aligned", len(raw))
	}
	out := make([][2]int16, len(raw)/bytesPerFrame)
	for i := range out {
		out[i][0] = int16(binary.LittleEndian.Uint16(raw[i*4:]))
		out[i][1] = int16(binary.LittleEndian.Uint16(raw[i*4+2:]))
	}
	return out
}

func TestClampSeekByteOffsetClampsAndAligns(t *testing.T) {
	got := clampSeekByteOffset(3900*time.Millisecond, 10, 10, 4)
	if got != 8 {
		t.Fatalf("expected clamped aligned seek offset 8, got %d", got)
	}

	got = clampSeekByteOffset(-1*time.Second, 10, 100, 4)
	if got != 0 {
		t.Fatalf("expected negative seek to clamp to 0, got %d", got)
	}
}

func TestPauseSetsPausedOnIdlePlayer(t *testing.T) {
	p := &Player{}
	p.Pause()
	if !p.paused {
		t.Fatal("expected pause to set paused state")
	}
}

func TestOperationsWithoutTrack(t *testing.T) {
	p := New()
	if err := p.Play(); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("Play() error = %v, want ErrNotLoaded", err)
	}
	if err := p.SeekTo(time.Second); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("SeekTo() error = %v, want ErrNotLoaded", err)
	}
	if p.Duration() != 0 || p.Position() != 0 {
		t.Fatalf("expected zero duration and position, got %v/%v", p.Duration(), p.Position())
	}
	if p.Done() != nil {
		t.Fatal("expected nil done channel before Load")
	}
	p.Stop()
}

func TestLoadUnsupportedFormat(t *testing.T) {
	p := New()
	path := t.TempDir() + "/clip.aiff"
	if err := writeBytes(path, []byte("FORM")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := p.Load(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Load() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDoneClosesWhenTrackPlaysOut(t *testing.T) {
	var streams []*drainingStream
	p := newDrainingPlayer(&streams)
	defer p.Close()
	path := writeWAV(t, sampleRate, channelCount, 16, make([]byte, 64*bytesPerFrame))

	if err := p.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	done := p.Done()
	if done == nil {
		t.Fatal("expected a done channel after Load")
	}
	if err := p.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	streams[0].drain(t)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("done channel was not closed after the track ended")
	}
	if err := p.Load(path); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	next := p.Done()
	if next == nil || next == done {
		t.Fatal("expected a fresh done channel for the second Load")
	}
	select {
	case <-next:
		t.Fatal("fresh done channel closed before playback")
	default:
	}
}

func TestDoneStaysOpenWhilePaused(t *testing.T) {
	var streams []*drainingStream
	p := newDrainingPlayer(&streams)
	defer p.Close()
	path := writeWAV(t, sampleRate, channelCount, 16, make([]byte, 8*bytesPerFrame))

	if err := p.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	streams[0].drain(t)

	select {
	case <-p.Done():
		t.Fatal("done closed for a track that never started")
	case <-time.After(3 * monitorInterval):
	}
}

func TestFailedLoadReleasesPreviousTrack(t *testing.T) {
	var streams []*drainingStream
	p := newDrainingPlayer(&streams)
	defer p.Close()
	path := writeWAV(t, sampleRate, channelCount, 16, make([]byte, 64*bytesPerFrame))

	if err := p.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := p.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}

	if err := p.Load(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Fatal("expected Load of a missing file to fail")
	}
	if streams[0].IsPlaying() {
		t.Fatal("previous track still playing after a failed Load")
	}
	if p.Done() != nil {
		t.Fatal("expected no done channel after a failed Load")
	}
	if p.Duration() != 0 {
		t.Fatalf("Duration() = %v, want 0", p.Duration())
	}
	if err := p.Play(); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("Play() error = %v, want ErrNotLoaded", err)
	}
}

func TestFailedDecodeReleasesPreviousTrack(t *testing.T) {
	var streams []*drainingStream
	p := newDrainingPlayer(&streams)
	defer p.Close()
	path := writeWAV(t, sampleRate, channelCount, 16, make([]byte, 64*bytesPerFrame))
	if err := p.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := p.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}

	bad := filepath.Join(t.TempDir(), "notes.ogg")
	if err := writeBytes(bad, []byte("not audio")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := p.Load(bad); err == nil {
		t.Fatal("expected Load of garbage to fail")
	}
	if streams[0].IsPlaying() || p.Done() != nil {
		t.Fatal("previous track survived a failed decode")
	}
}

func TestSeekToClampsAndAlignsToFrameBoundary(t *testing.T) {
	dec := &stubSeekDecoder{
		length:     41,
		sampleRate: 44100,
		channels:   2,
	}
	counter := &countingReader{}
	old := &fakeStream{}
	var created *fakeStream
	p := &Player{
		decoder:     dec,
		counter:     counter,
		stream:      old,
		bytesPerSec: 10,
		volume:      0.5,
		paused:      true,
		newStream: func(io.Reader) (stream, error) {
			created = &fakeStream{}
			return created, nil
		},
	}

	if err := p.SeekTo(3900 * time.Millisecond); err != nil {
		t.Fatalf("SeekTo returned error: %v", err)
	}
	if dec.pos != 36 {
		t.Fatalf("expected decoder seek position 36, got %d", dec.pos)
	}
	if got := counter.Pos(); got != 36 {
		t.Fatalf("expected counter position 36, got %d", got)
	}
	if created == nil || created.playing {
		t.Fatal("expected a fresh paused stream after seeking while paused")
	}
	if created.volume != 0.5 {
		t.Fatalf("expected volume carried to new stream, got %v", created.volume)
	}
}

func TestSeekToResumesWhenPlaying(t *testing.T) {
	dec := &stubSeekDecoder{length: 1000, sampleRate: 44100, channels: 2}
	var created *fakeStream
	p := &Player{
		decoder:     dec,
		counter:     &countingReader{},
		stream:      &fakeStream{playing: true},
		bytesPerSec: 100,
		newStream: func(io.Reader) (stream, error) {
			created = &fakeStream{}
			return created, nil
		},
	}

	if err := p.SeekTo(2 * time.Second); err != nil {
		t.Fatalf("SeekTo returned error: %v", err)
	}
	if !created.playing {
		t.Fatal("expected playback to resume on the new stream")
	}
	if got := p.Position(); got != 2*time.Second {
		t.Fatalf("Position() = %v, want 2s", got)
	}
}

func TestSeekErrorKeepsPosition(t *testing.T) {
	dec := &stubSeekDecoder{length: 100, seekErr: errors.New("boom")}
	counter := &countingReader{pos: 12}
	p := &Player{decoder: dec, counter: counter, bytesPerSec: 10}

	if err := p.SeekTo(5 * time.Second); err == nil {
		t.Fatal("expected seek error")
	}
	if counter.Pos() != 12 {
		t.Fatalf("expected counter untouched, got %d", counter.Pos())
	}
}

func TestPlayerCloseRunsCleanupOnce(t *testing.T) {
	calls := 0
	p := &Player{
		stopMon: make(chan struct{}),
		cleanup: func() {
			calls++
		},
	}

	p.Close()
	p.Close()

	if calls != 1 {
		t.Fatalf("expected cleanup to run once, got %d", calls)
	}
}

func TestSetVolumeClamps(t *testing.T) {
	st := &fakeStream{}
	p := &Player{stream: st}

	p.SetVolume(1.5)
	if p.Volume() != 1 || st.volume != 1 {
		t.Fatalf("expected volume clamped to 1, got %v/%v", p.Volume(), st.volume)
	}
	p.SetVolume(-3)
	if p.Volume() != 0 {
		t.Fatalf("expected volume clamped to 0, got %v", p.Volume())
	}
}

func TestCountingReaderFeedsTap(t *testing.T) {
	tap := visualizer.NewRingBuffer(16)
	cr := &countingReader{reader: bytes.NewReader([]byte{1, 2, 3, 4, 5, 6}), tap: tap}

	buf := make([]byte, 4)
	if n, _ := cr.Read(buf); n != 4 {
		t.Fatalf("expected 4 bytes, got %d", n)
	}
	if _, err := io.ReadAll(cr); err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if cr.Pos() != 6 {
		t.Fatalf("expected position 6, got %d", cr.Pos())
	}
	if !cr.EOF() {
		t.Fatal("expected EOF to be recorded")
	}
	if got := tap.Read(6); !bytes.Equal(got, []byte{1, 2, 3, 4, 5, 6}) {
		t.Fatalf("tap holds %v", got)
	}

	cr.SetPos(0)
	if cr.EOF() {
		t.Fatal("expected SetPos to clear EOF")
	}
}

func TestToOutputFormatPassesThroughNativeFormat(t *testing.T) {
	dec := newPCMDecoder(44100, 2, 1, 2)
	if got := toOutputFormat(dec); got != audioDecoder(dec) {
		t.Fatal("expected matching decoder to be returned unchanged")
	}
}

func TestResamplerUpsamplesMono(t *testing.T) {
	r := toOutputFormat(newPCMDecoder(22050, 1, 0, 100, 200, 300))

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	got := frames(t, raw)
	want := []int16{0, 50, 100, 150, 200, 250, 300, 300}
	if len(got) != len(want) {
		t.Fatalf("expected %d frames, got %d (%v)", len(want), len(got), got)
	}
	for i, w := range want {
		if got[i][0] != w || got[i][1] != w {
			t.Fatalf("frame %d = %v, want [%d %d]", i, got[i], w, w)
		}
	}
	if r.Length() != int64(len(raw)) {
		t.Fatalf("Length() = %d, want %d", r.Length(), len(raw))
	}
}

func TestResamplerDownsamplesStereo(t *testing.T) {
	r := toOutputFormat(newPCMDecoder(88200, 2,
		10, -10,
		20, -20,
		30, -30,
		40, -40,
	))

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	got := frames(t, raw)
	want := [][2]int16{{10, -10}, {30, -30}}
	if len(got) != len(want) {
		t.Fatalf("expected %d frames, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frame %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestResamplerSeek(t *testing.T) {
	r := toOutputFormat(newPCMDecoder(22050, 1, 0, 100, 200, 300))

	pos, err := r.Seek(9, io.SeekStart)
	if err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if pos != 8 {
		t.Fatalf("expected frame-aligned position 8, got %d", pos)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	got := frames(t, raw)
	if len(got) == 0 || got[0][0] != 100 {
		t.Fatalf("expected playback to resume at source frame 1, got %v", got)
	}
}

func writeBytes(path string, b []byte) error {
	return os.WriteFile(path, b, 0o644)
}
