// ABOUTME: Game loop state machine
// ABOUTME: Advances one fixed time-step per pitch estimate until a collision
package game

import (
	"fmt"
	"math/rand"

	"github.com/Resonate-Protocol/voiceflap/pkg/pitch"
)

// Phase is the game lifecycle state
type Phase int

const (
	Playing Phase = iota
	Stopped
)

func (p Phase) String() string {
	switch p {
	case Playing:
		return "PLAYING"
	case Stopped:
		return "STOPPED"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Step reports what happened during one Update
type Step struct {
	Passed   int  // obstacles recycled this frame
	GameOver bool // set only on the frame that stopped the game
	Score    int
}

// Snapshot is a read-only copy of the world for renderers
type Snapshot struct {
	Geometry  Geometry
	Phase     Phase
	Score     int
	Time      float64
	Frames    int
	Character Character
	Obstacles []Obstacle // generation order, oldest first
}

// Game owns the character, score and phase, and drives the course
type Game struct {
	geom   Geometry
	course *Course
	char   Character
	phase  Phase
	score  int
	time   float64
	frames int
}

// New creates a game with a course sized to cover the viewport.
// rng seeds obstacle gaps; pass a fixed seed for reproducible runs.
func New(geom Geometry, rng *rand.Rand) (*Game, error) {
	course, err := NewCourse(geom, geom.ObstacleCount(), rng)
	if err != nil {
		return nil, err
	}
	return NewWithCourse(geom, course), nil
}

// NewWithCourse creates a game around an existing course
func NewWithCourse(geom Geometry, course *Course) *Game {
	return &Game{
		geom:   geom,
		course: course,
		char:   Character{Y: geom.Height / 2},
		phase:  Playing,
	}
}

// Update advances the game one frame using the current pitch estimate.
// Once the game has stopped Update changes nothing.
func (g *Game) Update(e pitch.Estimate) Step {
	if g.phase == Stopped {
		return Step{Score: g.score}
	}

	g.time += g.geom.Step
	g.frames++

	g.char.Follow(g.geom, e)

	passed := g.course.Advance()
	g.score += passed

	step := Step{Passed: passed, Score: g.score}
	if g.course.Hits(g.char.Bounds(g.geom)) {
		g.phase = Stopped
		step.GameOver = true
	}
	return step
}

// Phase returns the current phase
func (g *Game) Phase() Phase {
	return g.phase
}

// Score returns the number of obstacles passed
func (g *Game) Score() int {
	return g.score
}

// Character returns a copy of the character
func (g *Game) Character() Character {
	return g.char
}

// Course returns the obstacle course
func (g *Game) Course() *Course {
	return g.course
}

// Geometry returns the playfield constants
func (g *Game) Geometry() Geometry {
	return g.geom
}

// Snapshot copies the current world state
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Geometry:  g.geom,
		Phase:     g.phase,
		Score:     g.score,
		Time:      g.time,
		Frames:    g.frames,
		Character: g.char,
		Obstacles: g.course.InGenerationOrder(),
	}
}
