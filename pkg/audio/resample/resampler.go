// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Used to bring decoded file audio to the analysis sample rate
package resample

import "math"

// Resampler performs linear interpolation to convert between sample rates.
// It keeps the last frame of each chunk so consecutive chunks join smoothly.
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
	position   float64 // read position in input frames; -1 addresses lastFrame
	lastFrame  []float32
	havePrev   bool
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	if channels < 1 {
		channels = 1
	}
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
		lastFrame:  make([]float32, channels),
	}
}

// Resample converts input samples to output sample rate using linear interpolation
// input: interleaved samples at inputRate
// output: interleaved samples at outputRate
// Size output with OutputSamplesNeeded; input that does not fit is dropped.
func (r *Resampler) Resample(input []float32, output []float32) int {
	inputFrames := len(input) / r.channels
	if inputFrames == 0 {
		return 0
	}
	outputFrames := len(output) / r.channels

	outIdx := 0
	for outIdx < outputFrames {
		inputIdx := int(math.Floor(r.position))

		// Need the frame after inputIdx to interpolate
		if inputIdx+1 >= inputFrames {
			break
		}
		if inputIdx < 0 && !r.havePrev {
			inputIdx = 0
			r.position = 0
		}

		frac := float32(r.position - float64(inputIdx))
		for ch := 0; ch < r.channels; ch++ {
			s1 := r.frameSample(input, inputIdx, ch)
			s2 := input[(inputIdx+1)*r.channels+ch]
			output[outIdx*r.channels+ch] = s1 + (s2-s1)*frac
		}

		outIdx++
		r.position += r.ratio
	}

	copy(r.lastFrame, input[(inputFrames-1)*r.channels:inputFrames*r.channels])
	r.havePrev = true

	// Rebase so the next chunk starts at frame 0
	r.position -= float64(inputFrames)
	if r.position < -1 {
		r.position = -1
	}

	return outIdx * r.channels
}

func (r *Resampler) frameSample(input []float32, idx, ch int) float32 {
	if idx < 0 {
		return r.lastFrame[ch]
	}
	return input[idx*r.channels+ch]
}

// Reset resets the resampler state
func (r *Resampler) Reset() {
	r.position = 0.0
	r.havePrev = false
	for i := range r.lastFrame {
		r.lastFrame[i] = 0
	}
}

// Ratio returns input frames consumed per output frame
func (r *Resampler) Ratio() float64 {
	return r.ratio
}

// OutputSamplesNeeded returns an output size large enough for inputSamples
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	inputFrames := inputSamples / r.channels
	outputFrames := int(math.Ceil(float64(inputFrames+1)/r.ratio)) + 1
	return outputFrames * r.channels
}

// InputSamplesNeeded calculates how many input samples are needed to produce output samples
func (r *Resampler) InputSamplesNeeded(outputSamples int) int {
	outputFrames := outputSamples / r.channels
	inputFrames := int(math.Ceil(float64(outputFrames) * r.ratio))
	return inputFrames * r.channels
}
