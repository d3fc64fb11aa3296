// ABOUTME: Audio sources for the pitch game
// ABOUTME: Documents microphone, tone and file sources
// Package source supplies the pitch game with audio.
//
// Every Source hands out the newest block of mono samples once per frame:
// Mic from a capture device, Tone from a synthetic sine, and File from a
// decoded MP3, FLAC, Ogg Opus or raw PCM file played at frame pace.
//
//	src, err := source.Open(source.Options{Kind: "tone", ToneHz: 330})
//	block := make([]float32, 2048)
//	rate, err := src.LatestBlock(block)
package source
