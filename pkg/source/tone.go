// ABOUTME: Synthetic tone source
// ABOUTME: Generates a sine wave, optionally gliding between two pitches
package source

import (
	"math"
	"sync"
	"time"

	"github.com/Resonate-Protocol/voiceflap/pkg/audio"
)

// Tone generates a sine wave that advances one frame hop per block.
// With a glide it sweeps linearly up to the target pitch and back.
type Tone struct {
	mu          sync.Mutex
	frequency   float64
	glideTo     float64
	glidePeriod time.Duration
	amplitude   float64
	sampleRate  int
	hop         int

	sampleIndex uint64
	phase       float64
	history     *audio.History
	scratch     []float32
	closed      bool
}

// ToneOption configures a Tone
type ToneOption func(*Tone)

// WithGlide sweeps from the base frequency to toHz and back every period
func WithGlide(toHz float64, period time.Duration) ToneOption {
	return func(t *Tone) {
		t.glideTo = toHz
		t.glidePeriod = period
	}
}

// WithAmplitude sets the peak amplitude (default 0.5)
func WithAmplitude(amp float64) ToneOption {
	return func(t *Tone) { t.amplitude = amp }
}

// WithHop sets how many new samples each LatestBlock call generates
func WithHop(samples int) ToneOption {
	return func(t *Tone) {
		if samples > 0 {
			t.hop = samples
		}
	}
}

// NewTone creates a tone source at frequency Hz
func NewTone(sampleRate int, frequency float64, opts ...ToneOption) *Tone {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	t := &Tone{
		frequency:  frequency,
		amplitude:  0.5, // 50% volume
		sampleRate: sampleRate,
		hop:        hopSize(sampleRate, DefaultFPS),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// LatestBlock advances the tone by one hop and returns the newest block
func (t *Tone) LatestBlock(block []float32) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0, ErrClosed
	}

	if t.history == nil || t.history.Cap() < len(block) {
		t.history = audio.NewHistory(len(block) + t.hop)
		// Prime so the first block is all signal
		t.generate(len(block))
	} else {
		t.generate(t.hop)
	}

	t.history.Latest(block)
	return t.sampleRate, nil
}

// Frequency returns the instantaneous frequency of the next sample
func (t *Tone) Frequency() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frequencyAt(t.sampleIndex)
}

func (t *Tone) frequencyAt(index uint64) float64 {
	if t.glideTo <= 0 || t.glidePeriod <= 0 {
		return t.frequency
	}
	elapsed := float64(index) / float64(t.sampleRate)
	cycle := math.Mod(elapsed/t.glidePeriod.Seconds(), 1)
	// Triangle: up for the first half of the period, down for the second
	pos := 1 - math.Abs(2*cycle-1)
	return t.frequency + (t.glideTo-t.frequency)*pos
}

// generate appends n phase-continuous samples to the history
func (t *Tone) generate(n int) {
	if cap(t.scratch) < n {
		t.scratch = make([]float32, n)
	}
	buf := t.scratch[:n]

	for i := range buf {
		buf[i] = float32(t.amplitude * math.Sin(t.phase))
		t.phase += 2 * math.Pi * t.frequencyAt(t.sampleIndex) / float64(t.sampleRate)
		if t.phase > 2*math.Pi {
			t.phase -= 2 * math.Pi
		}
		t.sampleIndex++
	}
	t.history.Write(buf)
}

// Close stops the tone
func (t *Tone) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}
