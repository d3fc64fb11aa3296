// ABOUTME: MP3 audio decoder
// ABOUTME: Streams MP3 audio as float samples
package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/voiceflap/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// mp3Stream decodes MP3 through go-mp3, which always yields 16-bit stereo
type mp3Stream struct {
	src     io.ReadSeeker
	closer  io.Closer
	decoder *mp3.Decoder
	format  audio.Format
	buf     []byte
}

// NewMP3Stream decodes MP3 data from rs
func NewMP3Stream(rs io.ReadSeeker) (Stream, error) {
	return newMP3Stream(rs, nil)
}

func newMP3Stream(rs io.ReadSeeker, closer io.Closer) (Stream, error) {
	decoder, err := mp3.NewDecoder(rs)
	if err != nil {
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}

	return &mp3Stream{
		src:     rs,
		closer:  closer,
		decoder: decoder,
		format: audio.Format{
			Codec:      "mp3",
			SampleRate: decoder.SampleRate(),
			Channels:   2, // MP3 decoder outputs stereo
			BitDepth:   16,
		},
	}, nil
}

func (s *mp3Stream) Read(samples []float32) (int, error) {
	// Read bytes from decoder (MP3 decoder outputs int16 = 2 bytes per sample)
	numBytes := len(samples) * 2
	if cap(s.buf) < numBytes {
		s.buf = make([]byte, numBytes)
	}
	buf := s.buf[:numBytes]

	n, err := s.decoder.Read(buf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("mp3 decode error: %w", err)
	}

	numSamples := n / 2
	for i := 0; i < numSamples; i++ {
		sample16 := int16(binary.LittleEndian.Uint16(buf[i*2 : i*2+2]))
		samples[i] = audio.FloatFromInt16(sample16)
	}
	return numSamples, err
}

func (s *mp3Stream) Format() audio.Format { return s.format }

func (s *mp3Stream) Rewind() error {
	if err := rewindTo(s.src); err != nil {
		return err
	}
	decoder, err := mp3.NewDecoder(s.src)
	if err != nil {
		return fmt.Errorf("failed to create new decoder: %w", err)
	}
	s.decoder = decoder
	return nil
}

func (s *mp3Stream) Close() error { return closeIf(s.closer) }
