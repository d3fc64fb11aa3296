//go:build portaudio

// ABOUTME: PortAudio capture implementation
// ABOUTME: Cross-platform microphone capture using PortAudio
package capture

import (
	"fmt"
	"log"

	"github.com/gordonklaus/portaudio"
)

// PortAudio capture implementation
type PortAudio struct {
	stream *portaudio.Stream
}

// NewPortAudio creates a new PortAudio capture device
func NewPortAudio() *PortAudio {
	return &PortAudio{}
}

// Open initializes PortAudio and starts the default input stream
func (p *PortAudio) Open(sampleRate, channels int, onSamples func([]float32)) error {
	if p.stream != nil {
		return fmt.Errorf("capture device already open")
	}
	if onSamples == nil {
		return fmt.Errorf("capture callback is required")
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(channels, 0, float64(sampleRate), 0, func(in []float32) {
		onSamples(in)
	})
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to open stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("failed to start stream: %w", err)
	}

	p.stream = stream
	log.Printf("Audio capture initialized: %dHz, %d channels (portaudio)", sampleRate, channels)
	return nil
}

// Close releases resources
func (p *PortAudio) Close() error {
	if p.stream == nil {
		return nil
	}
	if err := p.stream.Stop(); err != nil {
		return err
	}
	if err := p.stream.Close(); err != nil {
		return err
	}
	p.stream = nil
	return portaudio.Terminate()
}
