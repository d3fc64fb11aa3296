// ABOUTME: Tests for audio resampler
// ABOUTME: Tests linear interpolation resampling between sample rates
package resample

import (
	"math"
	"testing"
)

func TestNewResampler(t *testing.T) {
	r := New(44100, 48000, 2)

	if r == nil {
		t.Fatal("expected resampler to be created")
	}

	if r.inputRate != 44100 {
		t.Errorf("expected inputRate 44100, got %d", r.inputRate)
	}

	if r.outputRate != 48000 {
		t.Errorf("expected outputRate 48000, got %d", r.outputRate)
	}

	if r.channels != 2 {
		t.Errorf("expected channels 2, got %d", r.channels)
	}
}

func TestResampleUpsampling(t *testing.T) {
	// 44100 -> 48000 (upsampling by factor of ~1.088)
	r := New(44100, 48000, 2)

	input := make([]float32, 200)
	for i := range input {
		input[i] = float32(i) / 200 // Ramp signal
	}

	expectedSize := int(float64(len(input)) * float64(48000) / float64(44100))
	output := make([]float32, r.OutputSamplesNeeded(len(input)))

	n := r.Resample(input, output)

	if n == 0 {
		t.Fatal("resampler produced no output")
	}

	// Allow some tolerance due to rounding
	if n < expectedSize-10 || n > expectedSize+10 {
		t.Errorf("expected ~%d samples, got %d", expectedSize, n)
	}
}

func TestResampleDownsampling(t *testing.T) {
	// 48000 -> 44100 (downsampling by factor of ~0.91875)
	r := New(48000, 44100, 2)

	input := make([]float32, 200)
	for i := range input {
		input[i] = float32(i) / 200
	}

	expectedSize := int(float64(len(input)) * float64(44100) / float64(48000))
	output := make([]float32, r.OutputSamplesNeeded(len(input)))

	n := r.Resample(input, output)

	if n == 0 {
		t.Fatal("resampler produced no output")
	}

	if n < expectedSize-10 || n > expectedSize+10 {
		t.Errorf("expected ~%d samples, got %d", expectedSize, n)
	}
}

func TestResampleSameRate(t *testing.T) {
	r := New(48000, 48000, 1)

	input := make([]float32, 100)
	for i := range input {
		input[i] = float32(i) / 100
	}

	output := make([]float32, len(input)+10)
	n := r.Resample(input, output)

	// The last frame waits for the next chunk
	if n != len(input)-1 {
		t.Fatalf("expected %d samples, got %d", len(input)-1, n)
	}
	for i := 0; i < n; i++ {
		if output[i] != input[i] {
			t.Errorf("sample %d: expected %v, got %v", i, input[i], output[i])
		}
	}
}

func TestResampleChunksAreContinuous(t *testing.T) {
	r := New(44100, 48000, 1)

	// Feed a ramp whose value equals its frame index
	var out []float32
	next := 0
	for chunk := 0; chunk < 20; chunk++ {
		input := make([]float32, 100)
		for i := range input {
			input[i] = float32(next)
			next++
		}
		buf := make([]float32, r.OutputSamplesNeeded(len(input)))
		n := r.Resample(input, buf)
		out = append(out, buf[:n]...)
	}

	ratio := r.Ratio()
	for k, v := range out {
		want := float64(k) * ratio
		if math.Abs(float64(v)-want) > 1e-2 {
			t.Fatalf("output %d: expected %.4f, got %.4f", k, want, v)
		}
	}

	wantLen := int(float64(next-1) / ratio)
	if len(out) < wantLen-2 || len(out) > wantLen+2 {
		t.Errorf("expected ~%d samples, got %d", wantLen, len(out))
	}
}

func TestResampleStereo(t *testing.T) {
	// Test that stereo channels are handled correctly
	r := New(44100, 48000, 2)

	input := make([]float32, 20) // 10 stereo frames
	for i := 0; i < 10; i++ {
		input[i*2] = 0.5    // Left channel
		input[i*2+1] = -0.5 // Right channel
	}

	output := make([]float32, r.OutputSamplesNeeded(len(input)))
	n := r.Resample(input, output)

	if n == 0 {
		t.Fatal("resampler produced no output")
	}

	for i := 0; i < n/2; i++ {
		if output[i*2] != 0.5 || output[i*2+1] != -0.5 {
			t.Fatalf("frame %d: expected (0.5, -0.5), got (%v, %v)", i, output[i*2], output[i*2+1])
		}
	}
}

func TestResampleLargeRatioUp(t *testing.T) {
	// Test large upsampling ratio (44.1k -> 192k)
	r := New(44100, 192000, 2)

	input := make([]float32, 200)
	for i := range input {
		input[i] = float32(i) / 200
	}

	output := make([]float32, r.OutputSamplesNeeded(len(input)))
	n := r.Resample(input, output)

	if n < len(input)*3 {
		t.Errorf("expected at least 3x upsampling, got %d from %d", n, len(input))
	}
}

func TestResampleSmallOutputDropsInput(t *testing.T) {
	r := New(48000, 48000, 1)

	input := make([]float32, 100)
	output := make([]float32, 10)
	if n := r.Resample(input, output); n != 10 {
		t.Fatalf("expected 10 samples, got %d", n)
	}

	// Next chunk resumes from the carried frame
	if r.position != -1 {
		t.Errorf("expected position -1, got %v", r.position)
	}
}

func TestResampleReset(t *testing.T) {
	r := New(44100, 48000, 1)
	out := make([]float32, 64)
	r.Resample([]float32{1, 1, 1, 1}, out)

	r.Reset()
	if r.position != 0 || r.havePrev {
		t.Error("expected reset state")
	}
	if n := r.Resample(nil, out); n != 0 {
		t.Errorf("expected no output for empty input, got %d", n)
	}
}
