// ABOUTME: Audio file source
// ABOUTME: Plays a decoded file at frame pace, looping at the end
package source

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"sync"

	"github.com/Resonate-Protocol/voiceflap/pkg/audio"
	"github.com/Resonate-Protocol/voiceflap/pkg/audio/decode"
	"github.com/Resonate-Protocol/voiceflap/pkg/audio/resample"
)

// maxStalls bounds consecutive empty reads before giving up on a stream
const maxStalls = 16

// File reads a decoded audio stream one frame hop per block, converting it
// to mono at the analysis sample rate. The stream restarts at EOF.
type File struct {
	mu         sync.Mutex
	stream     decode.Stream
	format     audio.Format
	sampleRate int
	hop        int
	resampler  *resample.Resampler
	history    *audio.History

	readBuf   []float32
	mono      []float32
	resampled []float32
	loops     int
	closed    bool
}

// NewFile opens the audio file at path and plays it at sampleRate,
// advancing hop samples per block
func NewFile(path string, sampleRate, hop int) (*File, error) {
	stream, err := decode.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAcquisition, err)
	}
	f, err := NewFileFromStream(stream, sampleRate, hop)
	if err != nil {
		stream.Close()
		return nil, err
	}
	return f, nil
}

// NewFileFromStream plays an already decoded stream; the File takes ownership
func NewFileFromStream(stream decode.Stream, sampleRate, hop int) (*File, error) {
	format := stream.Format()
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return nil, fmt.Errorf("invalid stream format: %d Hz, %d channels", format.SampleRate, format.Channels)
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if hop <= 0 {
		hop = hopSize(sampleRate, DefaultFPS)
	}

	f := &File{
		stream:     stream,
		format:     format,
		sampleRate: sampleRate,
		hop:        hop,
	}
	if format.SampleRate != sampleRate {
		f.resampler = resample.New(format.SampleRate, sampleRate, 1)
		log.Printf("Resampling %s from %d Hz to %d Hz", format.Codec, format.SampleRate, sampleRate)
	}
	return f, nil
}

// LatestBlock advances playback by one hop and returns the newest block
func (f *File) LatestBlock(block []float32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return 0, ErrClosed
	}

	want := f.hop
	if f.history == nil || f.history.Cap() < len(block) {
		f.history = audio.NewHistory(len(block) + f.hop)
		want = len(block)
	}

	if err := f.fill(want); err != nil {
		return 0, err
	}

	f.history.Latest(block)
	return f.sampleRate, nil
}

// fill appends at least n analysis-rate samples to the history
func (f *File) fill(n int) error {
	produced := 0
	emptyPasses := 0
	stalls := 0

	for produced < n {
		frames := n - produced
		if f.resampler != nil {
			frames = int(math.Ceil(float64(frames)*f.resampler.Ratio())) + 1
		}

		got, err := f.readMono(frames)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read %s stream: %w", f.format.Codec, err)
		}

		if got > 0 {
			emptyPasses = 0
			stalls = 0
			produced += f.push(f.mono[:got])
		} else if err == nil {
			stalls++
			if stalls > maxStalls {
				return fmt.Errorf("%s stream stalled", f.format.Codec)
			}
		}

		if errors.Is(err, io.EOF) {
			if got == 0 {
				emptyPasses++
				if emptyPasses > 1 {
					return fmt.Errorf("%s stream contains no audio", f.format.Codec)
				}
			}
			if err := f.stream.Rewind(); err != nil {
				return err
			}
			f.loops++
			if f.loops == 1 {
				log.Printf("Reached end of %s stream, looping", f.format.Codec)
			}
		}
	}
	return nil
}

// readMono reads up to frames frames from the stream into f.mono
func (f *File) readMono(frames int) (int, error) {
	channels := f.format.Channels
	need := frames * channels
	if cap(f.readBuf) < need {
		f.readBuf = make([]float32, need)
	}
	if cap(f.mono) < frames {
		f.mono = make([]float32, frames)
	}

	n, err := f.stream.Read(f.readBuf[:need])
	if n == 0 && err == nil {
		// Decoders may return nothing without an error between frames
		return 0, nil
	}
	got := audio.Downmix(f.mono[:frames], f.readBuf[:n], channels)
	return got, err
}

// push resamples mono samples if needed and writes them to the history
func (f *File) push(mono []float32) int {
	if f.resampler == nil {
		f.history.Write(mono)
		return len(mono)
	}

	size := f.resampler.OutputSamplesNeeded(len(mono))
	if cap(f.resampled) < size {
		f.resampled = make([]float32, size)
	}
	n := f.resampler.Resample(mono, f.resampled[:size])
	f.history.Write(f.resampled[:n])
	return n
}

// Format returns the decoded stream's native format
func (f *File) Format() audio.Format {
	return f.format
}

// Loops returns how many times the stream has restarted
func (f *File) Loops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loops
}

// Close closes the underlying stream
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	return f.stream.Close()
}
