// ABOUTME: Ogg Opus audio decoder
// ABOUTME: Streams Opus files as float samples through libopusfile
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/voiceflap/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

// OpusSampleRate is the rate libopusfile always decodes to
const OpusSampleRate = 48000

// opusHeadMagic starts the Opus identification header
var opusHeadMagic = []byte("OpusHead")

// readOnly hides Close so closing an opus.Stream leaves the file open
type readOnly struct {
	io.Reader
}

// opusStream decodes an Ogg Opus file
type opusStream struct {
	src    io.ReadSeeker
	closer io.Closer
	stream *opus.Stream
	format audio.Format
}

// NewOpusStream decodes Ogg Opus data from rs
func NewOpusStream(rs io.ReadSeeker) (Stream, error) {
	return newOpusStream(rs, nil)
}

func newOpusStream(rs io.ReadSeeker, closer io.Closer) (Stream, error) {
	channels, err := opusChannels(rs)
	if err != nil {
		return nil, err
	}

	stream, err := opus.NewStream(readOnly{rs})
	if err != nil {
		return nil, fmt.Errorf("failed to create opus stream: %w", err)
	}

	return &opusStream{
		src:    rs,
		closer: closer,
		stream: stream,
		format: audio.Format{
			Codec:      "opus",
			SampleRate: OpusSampleRate,
			Channels:   channels,
			BitDepth:   16,
		},
	}, nil
}

// opusChannels reads the channel count from the identification header and
// leaves rs at the start of the data
func opusChannels(rs io.ReadSeeker) (int, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(rs, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return 0, fmt.Errorf("failed to read opus header: %w", err)
	}
	if err := rewindTo(rs); err != nil {
		return 0, err
	}
	return parseOpusChannels(head[:n])
}

// parseOpusChannels finds the OpusHead packet in the first Ogg page
func parseOpusChannels(head []byte) (int, error) {
	idx := bytes.Index(head, opusHeadMagic)
	// Magic, version byte, then the channel count
	if idx < 0 || idx+9 >= len(head) {
		return 0, fmt.Errorf("%w: missing OpusHead", ErrUnsupportedFormat)
	}
	channels := int(head[idx+9])
	if channels == 0 {
		return 0, fmt.Errorf("%w: opus stream has no channels", ErrUnsupportedFormat)
	}
	return channels, nil
}

func (s *opusStream) Read(samples []float32) (int, error) {
	channels := s.format.Channels
	if len(samples) < channels {
		return 0, nil
	}
	// Decoding stops at whole frames
	usable := samples[:len(samples)/channels*channels]

	perChannel, err := s.stream.ReadFloat32(usable)
	if err != nil {
		return 0, err
	}
	return perChannel * channels, nil
}

func (s *opusStream) Format() audio.Format { return s.format }

func (s *opusStream) Rewind() error {
	s.stream.Close()
	if err := rewindTo(s.src); err != nil {
		return err
	}
	stream, err := opus.NewStream(readOnly{s.src})
	if err != nil {
		return fmt.Errorf("failed to create opus stream: %w", err)
	}
	s.stream = stream
	return nil
}

func (s *opusStream) Close() error {
	s.stream.Close()
	return closeIf(s.closer)
}
