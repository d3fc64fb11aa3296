// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides Output interface and the oto implementation
// Package output provides audio playback interfaces.
//
// The oto backend plays interleaved float samples as 16-bit PCM with a
// software volume control.
//
// Example:
//
//	out := output.NewOto()
//	err := out.Open(44100, 1)
//	err = out.Write(samples)
package output
