// ABOUTME: Ring buffer holding the most recent mono samples
// ABOUTME: Written by capture callbacks or file readers, read once per frame
package audio

import "sync"

// History keeps the newest samples of a stream, overwriting the oldest.
// Writes typically come from a device callback thread, so access is locked.
type History struct {
	buffer []float32
	pos    int // next write position
	filled int // samples written so far, capped at len(buffer)
	mu     sync.Mutex
}

// NewHistory creates a history holding capacity samples
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buffer: make([]float32, capacity)}
}

// Write appends samples, discarding the oldest when full
func (h *History) Write(samples []float32) {
	h.mu.Lock()
	defer h.mu.Unlock()

	size := len(h.buffer)
	// Only the tail can survive a write longer than the buffer
	if len(samples) > size {
		samples = samples[len(samples)-size:]
	}

	n := copy(h.buffer[h.pos:], samples)
	if n < len(samples) {
		copy(h.buffer, samples[n:])
	}
	h.pos = (h.pos + len(samples)) % size

	h.filled += len(samples)
	if h.filled > size {
		h.filled = size
	}
}

// Latest copies the newest len(dst) samples into dst in chronological order.
// Until enough audio has arrived the front of dst is zero-filled.
// It returns how many real samples were copied.
func (h *History) Latest(dst []float32) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	want := len(dst)
	have := h.filled
	if have > want {
		have = want
	}

	pad := want - have
	for i := 0; i < pad; i++ {
		dst[i] = 0
	}

	size := len(h.buffer)
	start := (h.pos - have + size) % size
	for i := 0; i < have; i++ {
		dst[pad+i] = h.buffer[(start+i)%size]
	}
	return have
}

// Len returns how many samples are currently held
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.filled
}

// Cap returns the history capacity
func (h *History) Cap() int {
	return len(h.buffer)
}

// Reset discards all samples
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pos = 0
	h.filled = 0
}
