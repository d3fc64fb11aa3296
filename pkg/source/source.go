// ABOUTME: Audio source abstraction for the pitch game
// ABOUTME: Supplies the most recent block of mono samples once per frame
package source

import (
	"errors"
)

const (
	// DefaultSampleRate is the analysis sample rate
	DefaultSampleRate = 44100

	// DefaultBlockSize is the number of samples analysed per frame
	DefaultBlockSize = 2048

	// DefaultFPS is the frame rate used to size per-call hops
	DefaultFPS = 60
)

var (
	// ErrAcquisition reports that no audio input could be started
	ErrAcquisition = errors.New("audio acquisition failed")

	// ErrClosed is returned by sources used after Close
	ErrClosed = errors.New("audio source closed")
)

// Source supplies audio to the game, one block per frame
type Source interface {
	// LatestBlock fills block with the newest mono samples in [-1, 1],
	// oldest first, and returns their sample rate. The block is owned by
	// the caller and reused every frame.
	LatestBlock(block []float32) (sampleRate int, err error)

	// Close releases the source
	Close() error
}

// hopSize returns how many samples one frame advances at fps
func hopSize(sampleRate, fps int) int {
	if fps <= 0 {
		fps = DefaultFPS
	}
	hop := sampleRate / fps
	if hop < 1 {
		hop = 1
	}
	return hop
}
