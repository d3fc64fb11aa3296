// ABOUTME: Tests for capture backends
// ABOUTME: Verifies backend selection and sample decoding
package capture

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestBackendsImplementDevice(t *testing.T) {
	var _ Device = (*Malgo)(nil)
	var _ Device = (*PortAudio)(nil)
}

func TestNewBackend(t *testing.T) {
	dev, err := New(BackendMalgo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := dev.(*Malgo); !ok {
		t.Errorf("expected *Malgo, got %T", dev)
	}

	dev, err = New("")
	if err != nil || dev == nil {
		t.Fatalf("expected default backend, got %v (%v)", dev, err)
	}

	dev, err = New(BackendPortAudio)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := dev.(*PortAudio); !ok {
		t.Errorf("expected *PortAudio, got %T", dev)
	}

	_, err = New("alsa")
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestMalgoOpenValidatesArguments(t *testing.T) {
	m := NewMalgo()
	if err := m.Open(0, 1, func([]float32) {}); err == nil {
		t.Error("expected error for zero sample rate")
	}
	if err := m.Open(44100, 1, nil); err == nil {
		t.Error("expected error for nil callback")
	}
	if err := m.Close(); err != nil {
		t.Errorf("close of unopened device failed: %v", err)
	}
}

func TestDecodeFloat32LE(t *testing.T) {
	want := []float32{0, 0.5, -0.25, 1}
	data := make([]byte, len(want)*4)
	for i, v := range want {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}

	dst := make([]float32, len(want))
	if n := decodeFloat32LE(dst, data); n != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), n)
	}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("sample %d: expected %v, got %v", i, want[i], dst[i])
		}
	}

	short := make([]float32, 2)
	if n := decodeFloat32LE(short, data); n != 2 {
		t.Errorf("expected decode limited to 2 samples, got %d", n)
	}
}

func TestMalgoCallbackDeliversSamples(t *testing.T) {
	var got []float32
	m := &Malgo{channels: 2, onSamples: func(s []float32) {
		got = append(got, s...)
	}}

	data := make([]byte, 4*4)
	for i, v := range []float32{0.1, 0.2, 0.3, 0.4} {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	m.dataCallback(data, 2)

	if len(got) != 4 || got[3] != 0.4 {
		t.Errorf("expected 4 delivered samples, got %v", got)
	}
}
