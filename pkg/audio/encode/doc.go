// ABOUTME: Audio encoder package for encoding float samples to PCM
// ABOUTME: Provides Encoder interface and the PCM implementation
// Package encode provides audio encoders.
//
// Supports: PCM (16-bit and 24-bit little-endian)
//
// Encoders accept float32 samples in [-1, 1] and clip anything outside.
//
// Example:
//
//	encoder, err := encode.NewPCM(format)
//	data, err := encoder.Encode(samples)
package encode
