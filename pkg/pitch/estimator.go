// ABOUTME: Autocorrelation pitch estimator (ACF2+)
// ABOUTME: Estimates the fundamental frequency of one block of mono samples
package pitch

import (
	"math"
	"strconv"
)

const (
	// DefaultSilenceThreshold is the RMS level below which a block is unvoiced
	DefaultSilenceThreshold = 0.01

	// DefaultClipThreshold is the amplitude used to trim the block edges
	DefaultClipThreshold = 0.2
)

// Estimate is a fundamental frequency in Hz
type Estimate float64

// Unvoiced marks a block with no detectable pitch
const Unvoiced Estimate = -1

// Voiced reports whether e is a usable frequency.
// Non-finite and non-positive values are treated the same as Unvoiced.
func (e Estimate) Voiced() bool {
	f := float64(e)
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Hz returns the frequency, or NaN when the estimate is unvoiced
func (e Estimate) Hz() float64 {
	if !e.Voiced() {
		return math.NaN()
	}
	return float64(e)
}

// String renders the rounded frequency, or "--" when unvoiced
func (e Estimate) String() string {
	if !e.Voiced() {
		return "--"
	}
	return strconv.Itoa(int(math.Round(float64(e))))
}

// Estimator runs ACF2+ pitch detection.
// The zero value is not usable; call NewEstimator.
// An Estimator reuses its correlation scratch space between calls and must
// not be shared between goroutines.
type Estimator struct {
	silence float64
	clip    float64
	corr    []float64
}

// Option configures an Estimator
type Option func(*Estimator)

// WithSilenceThreshold overrides the RMS gate
func WithSilenceThreshold(rms float64) Option {
	return func(e *Estimator) { e.silence = rms }
}

// WithClipThreshold overrides the edge-trimming amplitude
func WithClipThreshold(amp float64) Option {
	return func(e *Estimator) { e.clip = amp }
}

// NewEstimator creates an estimator with the default thresholds
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{
		silence: DefaultSilenceThreshold,
		clip:    DefaultClipThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate returns the fundamental frequency of samples recorded at sampleRate.
// samples is read but never modified.
func (e *Estimator) Estimate(samples []float32, sampleRate int) Estimate {
	if len(samples) == 0 || sampleRate <= 0 {
		return Unvoiced
	}

	if RMS(samples) < e.silence {
		return Unvoiced
	}

	buf := e.trim(samples)
	n := len(buf)
	if n < 3 {
		return Unvoiced
	}

	c := e.autocorrelate(buf)

	// Walk down the lag-0 peak to the first trough
	d := 0
	for d+1 < n && c[d] > c[d+1] {
		d++
	}

	maxVal, maxPos := -1.0, -1
	for i := d; i < n; i++ {
		if c[i] > maxVal {
			maxVal = c[i]
			maxPos = i
		}
	}
	// A peak on the last lag means the correlation never rose again, as for
	// a DC offset, so there is no period to report
	if maxPos <= 0 || maxPos == n-1 {
		return Unvoiced
	}

	t0 := float64(maxPos)

	// Parabolic refinement needs both neighbours
	if maxPos-1 >= 0 && maxPos+1 < n {
		x1, x2, x3 := c[maxPos-1], c[maxPos], c[maxPos+1]
		a := (x1 + x3 - 2*x2) / 2
		b := (x3 - x1) / 2
		if a != 0 {
			t0 -= b / (2 * a)
		}
	}

	if t0 <= 0 {
		return Unvoiced
	}

	f := Estimate(float64(sampleRate) / t0)
	if !f.Voiced() {
		return Unvoiced
	}
	return f
}

// trim drops the block edges up to the first sample below the clip threshold
// on each side, searching at most half the block from either end.
func (e *Estimator) trim(samples []float32) []float32 {
	size := len(samples)
	start, end := 0, size-1

	for i := 0; i < size/2; i++ {
		if math.Abs(float64(samples[i])) < e.clip {
			start = i
			break
		}
	}
	for i := 1; i < size/2; i++ {
		if math.Abs(float64(samples[size-i])) < e.clip {
			end = size - i
			break
		}
	}

	if end <= start {
		return nil
	}
	return samples[start:end]
}

// autocorrelate computes c[i] = sum_j buf[j]*buf[j+i] for every lag in [0, n)
func (e *Estimator) autocorrelate(buf []float32) []float64 {
	n := len(buf)
	if cap(e.corr) < n {
		e.corr = make([]float64, n)
	}
	c := e.corr[:n]

	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j < n-i; j++ {
			sum += float64(buf[j]) * float64(buf[j+i])
		}
		c[i] = sum
	}
	return c
}

// RMS returns the root-mean-square amplitude of samples
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// Detect estimates the pitch of samples with a throwaway Estimator.
// Prefer a long-lived Estimator in per-frame loops.
func Detect(samples []float32, sampleRate int) Estimate {
	return NewEstimator().Estimate(samples, sampleRate)
}
