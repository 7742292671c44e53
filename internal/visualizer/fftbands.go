package visualizer

import "math"

const (
	fftSize      = 1024
	peakDecay    = 0.995
	peakFloor    = 0.02
	maxBandCount = 256
)

// bandAnalyzer turns a window of stereo int16 samples into per-band
// magnitudes: mono mix, Hann window, FFT, logarithmic banding, then
// normalization against a slowly decaying peak.
type bandAnalyzer struct {
	plan   *fftPlan
	window []float64
	real   []float64
	imag   []float64
	lo, hi []int // bin range [lo,hi) per band
	levels []float64
	peak   float64
}

func newBandAnalyzer(numBands int) *bandAnalyzer {
	a := &bandAnalyzer{
		plan:   newFFTPlan(fftSize),
		window: make([]float64, fftSize),
		real:   make([]float64, fftSize),
		imag:   make([]float64, fftSize),
		lo:     make([]int, numBands),
		hi:     make([]int, numBands),
		levels: make([]float64, numBands),
		peak:   peakFloor,
	}
	for i := range fftSize {
		a.window[i] = 0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(i)/float64(fftSize-1)))
	}

	maxBin := fftSize / 2
	for b := range numBands {
		lo := int(math.Pow(float64(maxBin), float64(b)/float64(numBands)))
		hi := int(math.Pow(float64(maxBin), float64(b+1)/float64(numBands)))
		lo = max(lo, 1)
		if hi <= lo {
			hi = lo + 1
		}
		a.lo[b], a.hi[b] = lo, min(hi, maxBin)
	}
	return a
}

// process analyses samples and returns band levels in [0,1]. With fewer
// than one window of samples every level is 0. The returned slice is reused.
func (a *bandAnalyzer) process(samples []int16) []float64 {
	if len(samples) < fftSize*2 {
		clear(a.levels)
		return a.levels
	}
	// use the most recent window
	samples = samples[len(samples)-fftSize*2:]

	for i := range fftSize {
		l, r := float64(samples[i*2]), float64(samples[i*2+1])
		a.real[i] = (l + r) / 65536.0 * a.window[i]
		a.imag[i] = 0
	}

	a.plan.transform(a.real, a.imag)

	frameMax := 0.0
	for b := range a.levels {
		sum := 0.0
		for i := a.lo[b]; i < a.hi[b]; i++ {
			sum += math.Hypot(a.real[i], a.imag[i])
		}
		a.levels[b] = sum / float64(a.hi[b]-a.lo[b])
		frameMax = max(frameMax, a.levels[b])
	}

	a.peak = max(a.peak*peakDecay, frameMax, peakFloor)
	for b, v := range a.levels {
		a.levels[b] = clamp01(v / a.peak)
	}
	return a.levels
}

// bandOf returns the band that contains FFT bin, or -1.
func (a *bandAnalyzer) bandOf(bin int) int {
	for b := range a.lo {
		if bin >= a.lo[b] && bin < a.hi[b] {
			return b
		}
	}
	return -1
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
