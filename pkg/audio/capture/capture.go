// ABOUTME: Microphone capture interface definition
// ABOUTME: Common interface and backend selection for capture devices
package capture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrUnknownBackend is returned for backend names New does not know
var ErrUnknownBackend = errors.New("unknown capture backend")

// Device represents an audio input device
type Device interface {
	// Open starts capturing; onSamples receives interleaved float samples
	// from the device thread and must not retain the slice.
	Open(sampleRate, channels int, onSamples func(samples []float32)) error

	// Close stops capturing and releases device resources
	Close() error
}

// Backend names accepted by New
const (
	BackendMalgo     = "malgo"
	BackendPortAudio = "portaudio"
)

// New returns the capture device for a backend name
func New(backend string) (Device, error) {
	switch backend {
	case BackendMalgo, "":
		return NewMalgo(), nil
	case BackendPortAudio:
		return NewPortAudio(), nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s, %s)", ErrUnknownBackend, backend, BackendMalgo, BackendPortAudio)
	}
}

// decodeFloat32LE converts little-endian float32 bytes into dst
func decodeFloat32LE(dst []float32, data []byte) int {
	n := len(data) / 4
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return n
}
