// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, History and sample conversion functions
// Package audio provides the sample types shared by capture, decoding and
// pitch analysis.
//
// Analysis works on mono float32 samples in [-1, 1]. This package converts
// between that representation and the integer PCM used by devices and files:
//   - 16-bit and 24-bit ↔ float conversions with clipping
//   - 24-bit packed byte helpers
//   - Downmix of interleaved frames to mono
//
// History is a locked ring of the newest samples. Capture callbacks write to
// it; the game loop copies the latest block out once per frame.
//
// Example:
//
//	h := audio.NewHistory(4096)
//	h.Write(samples)
//	block := make([]float32, 2048)
//	h.Latest(block)
package audio
