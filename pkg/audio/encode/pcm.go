// ABOUTME: PCM audio encoder
// ABOUTME: Encodes float samples to 16-bit or 24-bit little-endian PCM bytes
package encode

import (
	"encoding/binary"
	"fmt"

	"github.com/Resonate-Protocol/voiceflap/pkg/audio"
)

// PCMEncoder encodes PCM audio
type PCMEncoder struct {
	bitDepth int
}

// NewPCM creates a new PCM encoder
func NewPCM(format audio.Format) (*PCMEncoder, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM encoder: %s", format.Codec)
	}

	if format.BitDepth != 16 && format.BitDepth != 24 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", format.BitDepth)
	}

	return &PCMEncoder{
		bitDepth: format.BitDepth,
	}, nil
}

// BytesPerSample returns the encoded size of one sample
func (e *PCMEncoder) BytesPerSample() int {
	return e.bitDepth / 8
}

// Encode converts float samples to PCM bytes, clipping out-of-range values
func (e *PCMEncoder) Encode(samples []float32) ([]byte, error) {
	output := make([]byte, len(samples)*e.BytesPerSample())
	e.EncodeInto(output, samples)
	return output, nil
}

// EncodeInto writes samples into dst and returns the number of bytes written.
// Samples that do not fit in dst are skipped.
func (e *PCMEncoder) EncodeInto(dst []byte, samples []float32) int {
	width := e.BytesPerSample()
	n := len(samples)
	if n*width > len(dst) {
		n = len(dst) / width
	}

	if e.bitDepth == 24 {
		// 24-bit PCM: 3 bytes per sample
		for i := 0; i < n; i++ {
			b := audio.SampleTo24Bit(audio.FloatToInt24(samples[i]))
			dst[i*3] = b[0]
			dst[i*3+1] = b[1]
			dst[i*3+2] = b[2]
		}
		return n * 3
	}

	// 16-bit PCM: 2 bytes per sample
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(dst[i*2:], uint16(audio.FloatToInt16(samples[i])))
	}
	return n * 2
}

// Close releases resources
func (e *PCMEncoder) Close() error {
	return nil
}
