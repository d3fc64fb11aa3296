// ABOUTME: Decoded audio stream interface and file opener
// ABOUTME: Picks a decoder by file extension and exposes float samples
package decode

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Resonate-Protocol/voiceflap/pkg/audio"
)

// ErrUnsupportedFormat is returned for files no decoder understands
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Stream is a decoded audio stream of interleaved float samples in [-1, 1]
type Stream interface {
	// Read fills samples and returns how many were written.
	// It returns io.EOF once the stream is exhausted.
	Read(samples []float32) (int, error)

	// Format describes the decoded samples
	Format() audio.Format

	// Rewind restarts the stream from the beginning
	Rewind() error

	// Close releases decoder resources and the underlying file
	Close() error
}

// RawFormat is assumed for headerless .raw and .pcm files
var RawFormat = audio.Format{
	Codec:      "pcm",
	SampleRate: 44100,
	Channels:   1,
	BitDepth:   16,
}

// Extensions lists the file extensions Open understands
var Extensions = []string{".mp3", ".flac", ".opus", ".ogg", ".raw", ".pcm"}

// Supported reports whether Open has a decoder for path's extension
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Open decodes the file at path, choosing a decoder by extension
func Open(path string) (Stream, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !Supported(path) {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, ext, strings.Join(Extensions, ", "))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}

	var s Stream
	switch ext {
	case ".mp3":
		s, err = newMP3Stream(f, f)
	case ".flac":
		s, err = newFLACStream(f, f)
	case ".opus", ".ogg":
		s, err = newOpusStream(f, f)
	default:
		s, err = newPCMStream(f, f, RawFormat)
	}
	if err != nil {
		f.Close()
		return nil, err
	}

	format := s.Format()
	log.Printf("Loaded %s: %s (sample rate: %d Hz, channels: %d)",
		format.Codec, filepath.Base(path), format.SampleRate, format.Channels)
	return s, nil
}

// rewindTo seeks rs back to the start of the data
func rewindTo(rs io.Seeker) error {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to start: %w", err)
	}
	return nil
}

// closeIf closes c when it is set
func closeIf(c io.Closer) error {
	if c == nil {
		return nil
	}
	return c.Close()
}
