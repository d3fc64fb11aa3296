// ABOUTME: PCM audio decoder
// ABOUTME: Decodes 16-bit and 24-bit little-endian PCM audio to float samples
package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/voiceflap/pkg/audio"
)

// PCMDecoder decodes PCM audio
type PCMDecoder struct {
	bitDepth int
}

// NewPCM creates a new PCM decoder
func NewPCM(format audio.Format) (*PCMDecoder, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM decoder: %s", format.Codec)
	}

	if format.BitDepth != 16 && format.BitDepth != 24 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", format.BitDepth)
	}

	return &PCMDecoder{
		bitDepth: format.BitDepth,
	}, nil
}

// BytesPerSample returns the encoded size of one sample
func (d *PCMDecoder) BytesPerSample() int {
	return d.bitDepth / 8
}

// Decode converts PCM bytes to float samples
func (d *PCMDecoder) Decode(data []byte) ([]float32, error) {
	samples := make([]float32, len(data)/d.BytesPerSample())
	n := d.DecodeInto(samples, data)
	return samples[:n], nil
}

// DecodeInto converts PCM bytes into dst and returns the number of samples written
func (d *PCMDecoder) DecodeInto(dst []float32, data []byte) int {
	width := d.BytesPerSample()
	n := len(data) / width
	if n > len(dst) {
		n = len(dst)
	}

	if d.bitDepth == 24 {
		for i := 0; i < n; i++ {
			b := [3]byte{data[i*3], data[i*3+1], data[i*3+2]}
			dst[i] = audio.FloatFromInt24(audio.SampleFrom24Bit(b))
		}
		return n
	}

	for i := 0; i < n; i++ {
		sample16 := int16(binary.LittleEndian.Uint16(data[i*2:]))
		dst[i] = audio.FloatFromInt16(sample16)
	}
	return n
}

// pcmStream reads headerless PCM from a seekable source
type pcmStream struct {
	src     io.ReadSeeker
	closer  io.Closer
	format  audio.Format
	decoder *PCMDecoder
	buf     []byte
}

// NewPCMStream reads raw little-endian PCM in the given format from rs
func NewPCMStream(rs io.ReadSeeker, format audio.Format) (Stream, error) {
	return newPCMStream(rs, nil, format)
}

func newPCMStream(rs io.ReadSeeker, closer io.Closer, format audio.Format) (Stream, error) {
	decoder, err := NewPCM(format)
	if err != nil {
		return nil, err
	}
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return nil, fmt.Errorf("invalid PCM format: %d Hz, %d channels", format.SampleRate, format.Channels)
	}
	return &pcmStream{
		src:     rs,
		closer:  closer,
		format:  format,
		decoder: decoder,
	}, nil
}

func (s *pcmStream) Read(samples []float32) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	need := len(samples) * s.decoder.BytesPerSample()
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	buf := s.buf[:need]

	n, err := io.ReadFull(s.src, buf)
	if err == io.ErrUnexpectedEOF {
		err = nil
	}
	decoded := s.decoder.DecodeInto(samples, buf[:n])
	if err == io.EOF || (err == nil && decoded == 0) {
		return decoded, io.EOF
	}
	return decoded, err
}

func (s *pcmStream) Format() audio.Format { return s.format }
func (s *pcmStream) Rewind() error        { return rewindTo(s.src) }
func (s *pcmStream) Close() error         { return closeIf(s.closer) }
