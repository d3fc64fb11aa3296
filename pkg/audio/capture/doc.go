// ABOUTME: Audio capture package for reading the microphone
// ABOUTME: Provides Device interface with malgo and PortAudio backends
// Package capture delivers microphone audio as float samples.
//
// The malgo backend is always available. The PortAudio backend needs the
// portaudio build tag and the PortAudio C library.
//
// Example:
//
//	dev, err := capture.New("malgo")
//	err = dev.Open(44100, 1, func(samples []float32) { history.Write(samples) })
//	defer dev.Close()
package capture
