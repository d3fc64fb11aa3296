// ABOUTME: Audio decoder package for multiple codec support
// ABOUTME: Provides the Stream interface and implementations for PCM, Opus, FLAC, MP3
// Package decode turns audio files into float sample streams.
//
// Supports: raw PCM (16-bit and 24-bit), Ogg Opus, FLAC, MP3
//
// All streams implement the Stream interface and output interleaved float32
// samples in [-1, 1] at the file's native rate and channel count.
//
// Example:
//
//	s, err := decode.Open("melody.flac")
//	n, err := s.Read(samples)
package decode
