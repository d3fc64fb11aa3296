// ABOUTME: Audio type definitions
// ABOUTME: Defines stream formats and float/integer sample conversions
package audio

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23

	int16Scale = 32768.0
	int24Scale = 8388608.0
)

// Format describes an audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Frames returns how many frames n interleaved samples hold
func (f Format) Frames(n int) int {
	if f.Channels <= 0 {
		return 0
	}
	return n / f.Channels
}

// FloatFromInt16 converts a 16-bit sample to the [-1, 1) range
func FloatFromInt16(sample int16) float32 {
	return float32(sample) / int16Scale
}

// FloatToInt16 converts a float sample to 16-bit, clipping out-of-range values
func FloatToInt16(sample float32) int16 {
	v := float64(sample) * int16Scale
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// FloatFromInt24 converts a sign-extended 24-bit sample to the [-1, 1) range
func FloatFromInt24(sample int32) float32 {
	return float32(float64(sample) / int24Scale)
}

// FloatToInt24 converts a float sample to 24-bit, clipping out-of-range values
func FloatToInt24(sample float32) int32 {
	v := float64(sample) * int24Scale
	if v > Max24Bit {
		return Max24Bit
	}
	if v < Min24Bit {
		return Min24Bit
	}
	return int32(v)
}

// FloatFromBits converts a signed integer sample of the given bit depth to [-1, 1)
func FloatFromBits(sample int32, bitDepth int) float32 {
	if bitDepth <= 0 || bitDepth > 32 {
		return 0
	}
	return float32(float64(sample) / float64(uint64(1)<<(bitDepth-1)))
}

// SampleTo24Bit converts int32 to 24-bit packed bytes (little-endian)
func SampleTo24Bit(sample int32) [3]byte {
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}

// Downmix averages interleaved frames into mono.
// It writes min(len(dst), frames) samples and returns that count.
func Downmix(dst, interleaved []float32, channels int) int {
	if channels <= 1 {
		return copy(dst, interleaved)
	}

	frames := len(interleaved) / channels
	if frames > len(dst) {
		frames = len(dst)
	}

	scale := 1 / float32(channels)
	for i := 0; i < frames; i++ {
		var sum float32
		for ch := 0; ch < channels; ch++ {
			sum += interleaved[i*channels+ch]
		}
		dst[i] = sum * scale
	}
	return frames
}
