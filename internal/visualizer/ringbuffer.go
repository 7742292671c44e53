package visualizer

import "sync"

var _ Analyser = (*RingBuffer)(nil)

// RingBuffer keeps the most recent PCM bytes written to the audio device.
// The player's reader goroutine writes; the sampler reads on frame ticks.
type RingBuffer struct {
	mu   sync.Mutex
	buf  []byte
	next int // index of the next write
	fill int
}

// NewRingBuffer creates a buffer holding the last size bytes.
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{buf: make([]byte, max(size, 1))}
}

// Write records p, dropping the oldest bytes once full.
func (rb *RingBuffer) Write(p []byte) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	size := len(rb.buf)
	if len(p) >= size {
		copy(rb.buf, p[len(p)-size:])
		rb.next, rb.fill = 0, size
		return
	}
	n := copy(rb.buf[rb.next:], p)
	copy(rb.buf, p[n:])
	rb.next = (rb.next + len(p)) % size
	rb.fill = min(rb.fill+len(p), size)
}

// Read returns a copy of the last n bytes written, fewer if the buffer
// holds less.
func (rb *RingBuffer) Read(n int) []byte {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	n = min(n, rb.fill)
	if n <= 0 {
		return nil
	}
	size := len(rb.buf)
	start := (rb.next - n + size) % size
	out := make([]byte, n)
	k := copy(out, rb.buf[start:min(start+n, size)])
	copy(out[k:], rb.buf)
	return out
}

// Len returns the number of buffered bytes.
func (rb *RingBuffer) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.fill
}

// Clear drops everything buffered, e.g. when a new track is loaded.
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.next, rb.fill = 0, 0
}
