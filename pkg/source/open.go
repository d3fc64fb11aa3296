// ABOUTME: Source selection from configuration
// ABOUTME: Builds a mic, tone or file source from a name and audio settings
package source

import (
	"fmt"
	"time"

	"github.com/Resonate-Protocol/voiceflap/pkg/audio/capture"
)

// Source kinds accepted by Open; anything else is treated as a file path
const (
	KindMic  = "mic"
	KindTone = "tone"
)

// Options selects and configures a source
type Options struct {
	Kind        string // "mic", "tone" or a file path
	Backend     string // capture backend for "mic"
	SampleRate  int
	BlockSize   int
	FPS         int
	ToneHz      float64
	ToneGlideHz float64       // glide target for "tone", 0 for a steady pitch
	GlidePeriod time.Duration // glide cycle length, default 4s
}

// Open builds the source described by opts
func Open(opts Options) (Source, error) {
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.BlockSize <= 0 {
		opts.BlockSize = DefaultBlockSize
	}
	hop := hopSize(opts.SampleRate, opts.FPS)

	switch opts.Kind {
	case KindMic, "":
		dev, err := capture.New(opts.Backend)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAcquisition, err)
		}
		// Two blocks of headroom so a slow frame still sees contiguous audio
		return NewMic(dev, opts.SampleRate, 1, opts.BlockSize*2)

	case KindTone:
		hz := opts.ToneHz
		if hz <= 0 {
			hz = 440
		}
		toneOpts := []ToneOption{WithHop(hop)}
		if opts.ToneGlideHz > 0 {
			period := opts.GlidePeriod
			if period <= 0 {
				period = 4 * time.Second
			}
			toneOpts = append(toneOpts, WithGlide(opts.ToneGlideHz, period))
		}
		return NewTone(opts.SampleRate, hz, toneOpts...), nil

	default:
		return NewFile(opts.Kind, opts.SampleRate, hop)
	}
}
