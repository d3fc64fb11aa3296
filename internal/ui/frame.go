// ABOUTME: Display sink abstraction for rendered game frames
// ABOUTME: Defines Frame, the Renderer interface and non-interactive renderers
package ui

import (
	"log"

	"github.com/Resonate-Protocol/voiceflap/internal/game"
	"github.com/Resonate-Protocol/voiceflap/pkg/pitch"
)

// Frame is everything a renderer needs to draw one game frame
type Frame struct {
	Snapshot  game.Snapshot
	Pitch     pitch.Estimate
	SessionID string
}

// Note returns the semitone label for the frame's pitch, "-" when unvoiced
func (f Frame) Note() string {
	return pitch.Label(f.Pitch)
}

// GameOver reports whether the frame shows a stopped game
func (f Frame) GameOver() bool {
	return f.Snapshot.Phase == game.Stopped
}

// Renderer receives one frame per game update. Render must not block
// the game loop for long.
type Renderer interface {
	Render(Frame)
}

// Nop discards frames
type Nop struct{}

func (Nop) Render(Frame) {}

// LogRenderer writes a line per interesting frame to the standard logger
type LogRenderer struct {
	every     int
	lastScore int
	seen      bool
}

// NewLogRenderer logs every n-th frame plus every score change and the
// game over frame. n <= 0 disables periodic lines.
func NewLogRenderer(n int) *LogRenderer {
	return &LogRenderer{every: n}
}

func (r *LogRenderer) Render(f Frame) {
	snap := f.Snapshot
	switch {
	case f.GameOver():
		log.Printf("GAME OVER! Score: %d (%d frames, session %s)", snap.Score, snap.Frames, f.SessionID)
	case !r.seen:
		log.Printf("Game started: session %s", f.SessionID)
	case snap.Score != r.lastScore:
		log.Printf("Score: %d", snap.Score)
	case r.every > 0 && snap.Frames%r.every == 0:
		log.Printf("Frame %d: pitch %s Hz, note %s, y %.1f, score %d",
			snap.Frames, f.Pitch, f.Note(), snap.Character.Y, snap.Score)
	}
	r.seen = true
	r.lastScore = snap.Score
}
