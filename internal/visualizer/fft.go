package visualizer

import "math"

// fftPlan holds the twiddle factors for a fixed power-of-two size.
type fftPlan struct {
	n   int
	cos []float64
	sin []float64
}

func newFFTPlan(n int) *fftPlan {
	p := &fftPlan{n: n, cos: make([]float64, n/2), sin: make([]float64, n/2)}
	for k := range n / 2 {
		angle := -2.0 * math.Pi * float64(k) / float64(n)
		p.cos[k] = math.Cos(angle)
		p.sin[k] = math.Sin(angle)
	}
	return p
}

// transform performs an in-place radix-2 Cooley-Tukey FFT.
// len(real) and len(imag) must both equal p.n.
func (p *fftPlan) transform(real, imag []float64) {
	n := p.n
	if n <= 1 {
		return
	}

	// bit-reversal permutation
	j := 0
	for i := 1; i < n; i++ {
		bit := n >> 1
		for j&bit != 0 {
			j ^= bit
			bit >>= 1
		}
		j ^= bit
		if i < j {
			real[i], real[j] = real[j], real[i]
			imag[i], imag[j] = imag[j], imag[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		stride := n / size
		for i := 0; i < n; i += size {
			for k := range half {
				wr, wi := p.cos[k*stride], p.sin[k*stride]
				a := i + k
				b := a + half
				tr := wr*real[b] - wi*imag[b]
				ti := wr*imag[b] + wi*real[b]
				real[b] = real[a] - tr
				imag[b] = imag[a] - ti
				real[a] += tr
				imag[a] += ti
			}
		}
	}
}
