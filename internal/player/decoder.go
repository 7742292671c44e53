package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// audioDecoder yields interleaved signed 16-bit little-endian PCM at the
// source's own rate and channel count. Length and Seek offsets count those
// output bytes.
type audioDecoder interface {
	io.ReadSeeker
	Length() int64
	SampleRate() int
	ChannelCount() int
}

// newDecoder picks a decoder by file extension.
func newDecoder(f *os.File) (audioDecoder, error) {
	switch ext := strings.ToLower(filepath.Ext(f.Name())); ext {
	case ".mp3":
		return newMP3Decoder(f)
	case ".wav":
		return newWAVDecoder(f)
	case ".flac":
		return newFLACDecoder(f)
	case ".ogg":
		return newOGGDecoder(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// pcmCursor tracks the output position of a decoder that converts whole
// source blocks and hands them out in pieces.
type pcmCursor struct {
	pending   []byte
	pos       int64
	total     int64
	frameSize int64
}

// drain serves p from bytes left over by the previous block.
func (c *pcmCursor) drain(p []byte) (int, bool) {
	if len(c.pending) == 0 {
		return 0, false
	}
	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	c.pos += int64(n)
	return n, true
}

// emit copies a freshly converted block into p and keeps the rest.
func (c *pcmCursor) emit(p, block []byte) int {
	n := copy(p, block)
	if n < len(block) {
		c.pending = block[n:]
	}
	c.pos += int64(n)
	return n
}

// target resolves a Seek request to a clamped output position and the
// source frame it falls in.
func (c *pcmCursor) target(offset int64, whence int) (pos, frame int64) {
	switch whence {
	case io.SeekCurrent:
		pos = c.pos + offset
	case io.SeekEnd:
		pos = c.total + offset
	default:
		pos = offset
	}
	pos = max(0, min(pos, c.total))
	return pos, pos / max(c.frameSize, 1)
}

func (c *pcmCursor) moveTo(pos int64) (int64, error) {
	c.pending = nil
	c.pos = pos
	return pos, nil
}

// putSample stores v as the i-th 16-bit sample of out, saturating.
func putSample(out []byte, i, v int) {
	v = max(-32768, min(v, 32767))
	binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(v)))
}

type mp3Decoder struct {
	*mp3.Decoder
}

func newMP3Decoder(f *os.File) (*mp3Decoder, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Decoder{Decoder: dec}, nil
}

// ChannelCount is always 2: go-mp3 decodes to stereo.
func (d *mp3Decoder) ChannelCount() int { return 2 }

type wavDecoder struct {
	pcmCursor
	file      *os.File
	dataStart int64
	rate      int
	channels  int
	srcWidth  int // bytes per source sample
}

func newWAVDecoder(f *os.File) (*wavDecoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	channels, bits := int(dec.NumChans), int(dec.BitDepth)
	if channels == 0 || bits == 0 || bits%8 != 0 || bits > 32 {
		return nil, fmt.Errorf("unsupported WAV layout: %d channels, %d bit", channels, bits)
	}
	dataStart, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locating WAV PCM data: %w", err)
	}

	width := bits / 8
	frames := dec.PCMLen() / int64(channels*width)
	return &wavDecoder{
		pcmCursor: pcmCursor{
			total:     frames * int64(channels) * 2,
			frameSize: int64(channels) * 2,
		},
		file:      f,
		dataStart: dataStart,
		rate:      int(dec.SampleRate),
		channels:  channels,
		srcWidth:  width,
	}, nil
}

func (d *wavDecoder) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}

	src := make([]byte, max(len(p)/2, 1)*d.srcWidth)
	n, err := io.ReadFull(d.file, src)
	count := n / d.srcWidth
	if count == 0 {
		if err == nil || errors.Is(err, io.ErrUnexpectedEOF) {
			err = io.EOF
		}
		return 0, err
	}

	block := make([]byte, count*2)
	for i := range count {
		putSample(block, i, wavSample(src[i*d.srcWidth:], d.srcWidth))
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	return d.emit(p, block), err
}

// wavSample converts one little-endian source sample to 16-bit range.
func wavSample(b []byte, width int) int {
	switch width {
	case 1:
		return (int(b[0]) - 128) << 8 // 8-bit WAV is unsigned
	case 2:
		return int(int16(binary.LittleEndian.Uint16(b)))
	case 3:
		v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
		return int(v<<8>>16) // sign extend, keep the top 16 bits
	default:
		return int(int32(binary.LittleEndian.Uint32(b)) >> 16)
	}
}

func (d *wavDecoder) Seek(offset int64, whence int) (int64, error) {
	pos, frame := d.target(offset, whence)
	src := d.dataStart + frame*int64(d.channels*d.srcWidth)
	if _, err := d.file.Seek(src, io.SeekStart); err != nil {
		return d.pos, err
	}
	return d.moveTo(pos)
}

func (d *wavDecoder) Length() int64     { return d.total }
func (d *wavDecoder) SampleRate() int   { return d.rate }
func (d *wavDecoder) ChannelCount() int { return d.channels }

type flacDecoder struct {
	pcmCursor
	stream   *flac.Stream
	rate     int
	channels int
	shift    int // bits to drop (positive) or add (negative) to reach 16
}

func newFLACDecoder(f *os.File) (*flacDecoder, error) {
	stream, err := flac.NewSeek(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	info := stream.Info
	channels := int(info.NChannels)
	return &flacDecoder{
		pcmCursor: pcmCursor{
			total:     int64(info.NSamples) * int64(channels) * 2,
			frameSize: int64(channels) * 2,
		},
		stream:   stream,
		rate:     int(info.SampleRate),
		channels: channels,
		shift:    int(info.BitsPerSample) - 16,
	}, nil
}

func (d *flacDecoder) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}

	fr, err := d.stream.ParseNext()
	if err != nil {
		return 0, err
	}
	samples := int(fr.Subframes[0].NSamples)
	block := make([]byte, samples*d.channels*2)
	for i := range samples {
		for ch := range d.channels {
			v := int(fr.Subframes[ch].Samples[i])
			if d.shift > 0 {
				v >>= d.shift
			} else {
				v <<= -d.shift
			}
			putSample(block, i*d.channels+ch, v)
		}
	}
	return d.emit(p, block), nil
}

func (d *flacDecoder) Seek(offset int64, whence int) (int64, error) {
	pos, frame := d.target(offset, whence)
	if _, err := d.stream.Seek(uint64(frame)); err != nil {
		return d.pos, err
	}
	return d.moveTo(pos)
}

func (d *flacDecoder) Length() int64     { return d.total }
func (d *flacDecoder) SampleRate() int   { return d.rate }
func (d *flacDecoder) ChannelCount() int { return d.channels }

type oggDecoder struct {
	pcmCursor
	reader *oggvorbis.Reader
}

func newOGGDecoder(f *os.File) (*oggDecoder, error) {
	r, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	return &oggDecoder{
		pcmCursor: pcmCursor{
			total:     r.Length() * int64(r.Channels()) * 2,
			frameSize: int64(r.Channels()) * 2,
		},
		reader: r,
	}, nil
}

func (d *oggDecoder) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}

	samples := make([]float32, max(len(p)/2, 1))
	n, err := d.reader.Read(samples)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}
	block := make([]byte, n*2)
	for i, s := range samples[:n] {
		putSample(block, i, int(max(-1, min(s, 1))*32767))
	}
	return d.emit(p, block), err
}

func (d *oggDecoder) Seek(offset int64, whence int) (int64, error) {
	pos, frame := d.target(offset, whence)
	if err := d.reader.SetPosition(frame); err != nil {
		return d.pos, err
	}
	return d.moveTo(pos)
}

func (d *oggDecoder) Length() int64     { return d.total }
func (d *oggDecoder) SampleRate() int   { return d.reader.SampleRate() }
func (d *oggDecoder) ChannelCount() int { return d.reader.Channels() }
