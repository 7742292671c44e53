package player

import (
	"encoding/binary"
	"io"
	"math"
)

type stereoFrame [2]float64

// resampler converts a decoder's native PCM to the output format
// (44.1 kHz stereo) with linear interpolation. Mono sources are duplicated
// to both channels; extra channels beyond the first two are dropped.
type resampler struct {
	src     audioDecoder
	srcCh   int
	step    float64 // source frames per output frame
	frames  []stereoFrame
	pos     float64 // fractional index into frames
	pending []byte  // trailing partial source frame
	scratch []byte
	srcEOF  bool
	outPos  int64
}

// toOutputFormat returns src unchanged when it already matches the output
// format, otherwise a resampling wrapper around it.
func toOutputFormat(src audioDecoder) audioDecoder {
	rate, ch := src.SampleRate(), src.ChannelCount()
	if rate == sampleRate && ch == channelCount {
		return src
	}
	if rate <= 0 {
		rate = sampleRate
	}
	if ch <= 0 {
		ch = 1
	}
	return &resampler{
		src:     src,
		srcCh:   ch,
		step:    float64(rate) / float64(sampleRate),
		scratch: make([]byte, 4096*ch*2),
	}
}

func (r *resampler) fill() error {
	n, err := r.src.Read(r.scratch)
	if n > 0 {
		data := append(r.pending, r.scratch[:n]...)
		fb := r.srcCh * 2
		whole := len(data) / fb * fb
		for off := 0; off < whole; off += fb {
			left := float64(int16(binary.LittleEndian.Uint16(data[off:])))
			right := left
			if r.srcCh > 1 {
				right = float64(int16(binary.LittleEndian.Uint16(data[off+2:])))
			}
			r.frames = append(r.frames, stereoFrame{left, right})
		}
		r.pending = append(r.pending[:0], data[whole:]...)
	}
	if err == io.EOF {
		r.srcEOF = true
		return nil
	}
	return err
}

func (r *resampler) Read(p []byte) (int, error) {
	written := 0
	for written+bytesPerFrame <= len(p) {
		i := int(r.pos)
		for i+1 >= len(r.frames) && !r.srcEOF {
			if err := r.fill(); err != nil {
				r.outPos += int64(written)
				return written, err
			}
		}
		if i >= len(r.frames) {
			break
		}
		a := r.frames[i]
		b := a
		if i+1 < len(r.frames) {
			b = r.frames[i+1]
		}
		frac := r.pos - float64(i)
		for ch := range channelCount {
			v := a[ch] + (b[ch]-a[ch])*frac
			binary.LittleEndian.PutUint16(p[written+ch*2:], uint16(clampSample(v)))
		}
		written += bytesPerFrame
		r.pos += r.step
	}

	// drop consumed frames
	if drop := min(int(r.pos), len(r.frames)); drop > 0 {
		r.frames = append(r.frames[:0], r.frames[drop:]...)
		r.pos -= float64(drop)
	}

	r.outPos += int64(written)
	if written == 0 && r.srcEOF {
		return 0, io.EOF
	}
	return written, nil
}

func (r *resampler) Seek(offset int64, whence int) (int64, error) {
	total := r.Length()
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = r.outPos + offset
	case io.SeekEnd:
		newPos = total + offset
	}
	newPos = max(0, min(newPos, total))
	newPos -= newPos % bytesPerFrame

	srcFrame := int64(float64(newPos/bytesPerFrame) * r.step)
	if _, err := r.src.Seek(srcFrame*int64(r.srcCh*2), io.SeekStart); err != nil {
		return r.outPos, err
	}
	r.frames = r.frames[:0]
	r.pending = r.pending[:0]
	r.pos = 0
	r.srcEOF = false
	r.outPos = newPos
	return newPos, nil
}

func (r *resampler) Length() int64 {
	srcFrames := r.src.Length() / int64(r.srcCh*2)
	return int64(float64(srcFrames)/r.step) * bytesPerFrame
}

func (r *resampler) SampleRate() int   { return sampleRate }
func (r *resampler) ChannelCount() int { return channelCount }

func clampSample(v float64) int16 {
	v = math.Round(v)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
