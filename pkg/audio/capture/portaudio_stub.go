//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package capture

import (
	"fmt"
)

// PortAudio capture implementation (stub)
type PortAudio struct{}

// NewPortAudio creates a new PortAudio capture device
func NewPortAudio() *PortAudio {
	return &PortAudio{}
}

// Open always fails without the portaudio build tag
func (p *PortAudio) Open(sampleRate, channels int, onSamples func([]float32)) error {
	return fmt.Errorf("PortAudio support not enabled (build with -tags portaudio)")
}

// Close releases resources
func (p *PortAudio) Close() error {
	return nil
}
