// ABOUTME: FLAC audio decoder
// ABOUTME: Streams FLAC frames as interleaved float samples
package decode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/voiceflap/pkg/audio"
	"github.com/mewkiz/flac"
)

// flacStream decodes FLAC frame by frame, holding leftovers between reads
type flacStream struct {
	src     io.ReadSeeker
	closer  io.Closer
	stream  *flac.Stream
	format  audio.Format
	pending []float32
}

// NewFLACStream decodes FLAC data from rs
func NewFLACStream(rs io.ReadSeeker) (Stream, error) {
	return newFLACStream(rs, nil)
}

func newFLACStream(rs io.ReadSeeker, closer io.Closer) (Stream, error) {
	stream, err := flac.New(rs)
	if err != nil {
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}

	info := stream.Info
	return &flacStream{
		src:    rs,
		closer: closer,
		stream: stream,
		format: audio.Format{
			Codec:      "flac",
			SampleRate: int(info.SampleRate),
			Channels:   int(info.NChannels),
			BitDepth:   int(info.BitsPerSample),
		},
	}, nil
}

func (s *flacStream) Read(samples []float32) (int, error) {
	read := 0
	for read < len(samples) {
		if len(s.pending) == 0 {
			if err := s.parseNext(); err != nil {
				if read > 0 && err == io.EOF {
					return read, nil
				}
				return read, err
			}
		}
		n := copy(samples[read:], s.pending)
		s.pending = s.pending[n:]
		read += n
	}
	return read, nil
}

// parseNext decodes one FLAC frame into pending
func (s *flacStream) parseNext() error {
	frame, err := s.stream.ParseNext()
	if err != nil {
		return err
	}

	channels := s.format.Channels
	blockSize := int(frame.BlockSize)
	need := blockSize * channels
	if cap(s.pending) < need {
		s.pending = make([]float32, need)
	}
	s.pending = s.pending[:need]

	// FLAC stores samples as signed integers with the stream's bit depth
	for i := 0; i < blockSize; i++ {
		for ch := 0; ch < channels; ch++ {
			sample := frame.Subframes[ch].Samples[i]
			s.pending[i*channels+ch] = audio.FloatFromBits(sample, s.format.BitDepth)
		}
	}
	return nil
}

func (s *flacStream) Format() audio.Format { return s.format }

func (s *flacStream) Rewind() error {
	if err := rewindTo(s.src); err != nil {
		return err
	}
	stream, err := flac.New(s.src)
	if err != nil {
		return fmt.Errorf("failed to create new stream: %w", err)
	}
	s.stream = stream
	s.pending = s.pending[:0]
	return nil
}

func (s *flacStream) Close() error { return closeIf(s.closer) }
