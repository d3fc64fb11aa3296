// ABOUTME: Oto-based audio output implementation
// ABOUTME: Handles PCM playback with software volume control using oto library
package output

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/Resonate-Protocol/voiceflap/pkg/audio"
	"github.com/Resonate-Protocol/voiceflap/pkg/audio/encode"
	"github.com/ebitengine/oto/v3"
)

// Oto output implementation using oto library
type Oto struct {
	mu         sync.Mutex
	otoCtx     *oto.Context
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	encoder    *encode.PCMEncoder
	scratch    []float32
	sampleRate int
	channels   int
	volume     int
	muted      bool
	ready      bool
}

// NewOto creates a new Oto output
func NewOto() *Oto {
	return &Oto{
		volume: 100,
		muted:  false,
	}
}

// Open initializes the output device
func (o *Oto) Open(sampleRate, channels int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	// If already initialized with same format, reuse the existing context
	if o.otoCtx != nil && o.sampleRate == sampleRate && o.channels == channels {
		log.Printf("Audio output already initialized with same format, reusing context")
		return nil
	}

	// oto only allows one context per process
	if o.otoCtx != nil {
		log.Printf("Warning: format change detected (%dHz %dch -> %dHz %dch) but oto doesn't support reinitialization. Continuing with existing context.",
			o.sampleRate, o.channels, sampleRate, channels)
		return nil
	}

	encoder, err := encode.NewPCM(audio.Format{
		Codec:      "pcm",
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   16,
	})
	if err != nil {
		return err
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	o.otoCtx = ctx
	o.encoder = encoder
	o.sampleRate = sampleRate
	o.channels = channels

	// Create pipe for continuous streaming
	o.pipeReader, o.pipeWriter = io.Pipe()

	// Create persistent player that reads from the pipe
	o.player = o.otoCtx.NewPlayer(o.pipeReader)
	o.player.Play()

	o.ready = true

	log.Printf("Audio output initialized: %dHz, %d channels", sampleRate, channels)

	return nil
}

// Write outputs audio samples (blocks until written)
func (o *Oto) Write(samples []float32) error {
	o.mu.Lock()
	if !o.ready {
		o.mu.Unlock()
		return fmt.Errorf("output not initialized")
	}

	if cap(o.scratch) < len(samples) {
		o.scratch = make([]float32, len(samples))
	}
	scaled := o.scratch[:len(samples)]
	applyVolume(scaled, samples, o.volume, o.muted)

	data, _ := o.encoder.Encode(scaled)
	writer := o.pipeWriter
	o.mu.Unlock()

	// Write to pipe (which feeds the persistent player)
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("pipe write failed: %w", err)
	}

	return nil
}

// Close releases output resources
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.pipeWriter != nil {
		o.pipeWriter.Close()
		o.pipeWriter = nil
	}
	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
	if o.pipeReader != nil {
		o.pipeReader.Close()
		o.pipeReader = nil
	}
	if o.otoCtx != nil {
		o.otoCtx.Suspend()
		o.ready = false
	}
	return nil
}

// SetVolume sets the volume (0-100)
func (o *Oto) SetVolume(volume int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.volume = clampVolume(volume)
	log.Printf("Volume set to %d", o.volume)
}

// SetMuted sets mute state
func (o *Oto) SetMuted(muted bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.muted = muted
	log.Printf("Muted: %v", muted)
}

// GetVolume returns current volume
func (o *Oto) GetVolume() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume
}

// IsMuted returns mute state
func (o *Oto) IsMuted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.muted
}

func clampVolume(volume int) int {
	if volume < 0 {
		return 0
	}
	if volume > 100 {
		return 100
	}
	return volume
}

// applyVolume writes samples scaled by volume and mute into dst, clipping to [-1, 1]
func applyVolume(dst, samples []float32, volume int, muted bool) {
	multiplier := float32(getVolumeMultiplier(volume, muted))

	for i, sample := range samples {
		scaled := sample * multiplier
		if scaled > 1 {
			scaled = 1
		} else if scaled < -1 {
			scaled = -1
		}
		dst[i] = scaled
	}
}

// getVolumeMultiplier calculates volume multiplier
func getVolumeMultiplier(volume int, muted bool) float64 {
	if muted {
		return 0.0
	}
	return float64(volume) / 100.0
}
