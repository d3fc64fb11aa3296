// ABOUTME: Microphone audio source
// ABOUTME: Feeds captured device audio into a history ring read once per frame
package source

import (
	"fmt"
	"log"
	"sync"

	"github.com/Resonate-Protocol/voiceflap/pkg/audio"
	"github.com/Resonate-Protocol/voiceflap/pkg/audio/capture"
)

// Mic reads the newest samples captured from an input device
type Mic struct {
	device     capture.Device
	history    *audio.History
	sampleRate int
	channels   int

	// mono is only touched from the device callback
	mono []float32

	mu     sync.Mutex
	closed bool
}

// NewMic opens device and starts capturing into a history of capacity samples.
// A device that cannot be opened is reported as ErrAcquisition.
func NewMic(device capture.Device, sampleRate, channels, capacity int) (*Mic, error) {
	if channels < 1 {
		channels = 1
	}
	m := &Mic{
		device:     device,
		history:    audio.NewHistory(capacity),
		sampleRate: sampleRate,
		channels:   channels,
	}

	if err := device.Open(sampleRate, channels, m.onSamples); err != nil {
		// Open may have initialised backend state before failing
		if cerr := device.Close(); cerr != nil {
			log.Printf("Error releasing capture device: %v", cerr)
		}
		return nil, fmt.Errorf("%w: %w", ErrAcquisition, err)
	}

	log.Printf("Microphone open: %d Hz, %d channels, %d sample history", sampleRate, channels, capacity)
	return m, nil
}

// onSamples runs on the device thread
func (m *Mic) onSamples(samples []float32) {
	frames := len(samples) / m.channels
	if cap(m.mono) < frames {
		m.mono = make([]float32, frames)
	}
	n := audio.Downmix(m.mono[:frames], samples, m.channels)
	m.history.Write(m.mono[:n])
}

// LatestBlock copies the newest captured samples into block.
// Before enough audio arrives the front of block is silence.
func (m *Mic) LatestBlock(block []float32) (int, error) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return 0, ErrClosed
	}
	if len(block) > m.history.Cap() {
		return 0, fmt.Errorf("block of %d samples exceeds capture history of %d", len(block), m.history.Cap())
	}

	m.history.Latest(block)
	return m.sampleRate, nil
}

// Close stops the capture device
func (m *Mic) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	return m.device.Close()
}
