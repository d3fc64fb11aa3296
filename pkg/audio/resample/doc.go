// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts audio between different sample rates
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation for converting between sample rates.
// Handles both upsampling and downsampling of float samples, carrying
// state across chunks so a stream can be converted piece by piece.
//
// Example:
//
//	r := resample.New(48000, 44100, 1)
//	out := make([]float32, r.OutputSamplesNeeded(len(in)))
//	n := r.Resample(in, out)
package resample
