// ABOUTME: Malgo-based microphone capture
// ABOUTME: Uses miniaudio via malgo to deliver float samples from the default input
package capture

import (
	"fmt"
	"log"
	"sync"

	"github.com/gen2brain/malgo"
)

// Malgo capture implementation using malgo/miniaudio library
type Malgo struct {
	mu         sync.Mutex
	malgoCtx   *malgo.AllocatedContext
	device     *malgo.Device
	sampleRate int
	channels   int
	onSamples  func([]float32)
	scratch    []float32
}

// NewMalgo creates a new Malgo capture device
func NewMalgo() *Malgo {
	return &Malgo{}
}

// Open initializes the default capture device
func (m *Malgo) Open(sampleRate, channels int, onSamples func([]float32)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		return fmt.Errorf("capture device already open")
	}
	if sampleRate <= 0 || channels <= 0 {
		return fmt.Errorf("invalid capture format: %d Hz, %d channels", sampleRate, channels)
	}
	if onSamples == nil {
		return fmt.Errorf("capture callback is required")
	}

	// Create malgo context if needed
	if m.malgoCtx == nil {
		ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
		if err != nil {
			return fmt.Errorf("failed to initialize malgo context: %w", err)
		}
		m.malgoCtx = ctx
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = uint32(channels)
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	m.onSamples = onSamples
	m.sampleRate = sampleRate
	m.channels = channels

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, pInputSamples []byte, frameCount uint32) {
			m.dataCallback(pInputSamples, frameCount)
		},
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("failed to start device: %w", err)
	}

	m.device = device

	log.Printf("Audio capture initialized: %dHz, %d channels (malgo/F32)", sampleRate, channels)

	return nil
}

// dataCallback is called by malgo with captured frames
func (m *Malgo) dataCallback(pInput []byte, frameCount uint32) {
	total := int(frameCount) * m.channels
	if cap(m.scratch) < total {
		m.scratch = make([]float32, total)
	}
	samples := m.scratch[:total]
	n := decodeFloat32LE(samples, pInput)
	m.onSamples(samples[:n])
}

// Close releases capture resources
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		if err := m.device.Stop(); err != nil {
			log.Printf("Warning: device stop error: %v", err)
		}
		m.device.Uninit()
		m.device = nil
	}

	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			log.Printf("Warning: malgo context uninit error: %v", err)
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
	return nil
}
