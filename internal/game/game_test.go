// ABOUTME: Tests for the game state
// ABOUTME: Covers pitch mapping, scoring and collision detection
package game

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Resonate-Protocol/voiceflap/pkg/pitch"
)

func newTestGame(t *testing.T, geom Geometry, seed int64) *Game {
	t.Helper()
	g, err := New(geom, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return g
}

// wideOpen returns a geometry whose gap covers nearly the whole height,
// so a character held mid-screen never collides.
func wideOpen() Geometry {
	geom := DefaultGeometry()
	geom.GapHeight = geom.Height - 1
	return geom
}

func TestNewGame(t *testing.T) {
	g := newTestGame(t, DefaultGeometry(), 1)

	assert.Equal(t, Playing, g.Phase())
	assert.Equal(t, 0, g.Score())
	assert.Equal(t, 360.0, g.Character().Y)
	assert.Equal(t, 4, g.Course().Len())
}

func TestNewGameRejectsBadGeometry(t *testing.T) {
	geom := DefaultGeometry()
	geom.Height = -1
	_, err := New(geom, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestGeometryValidateJoinsProblems(t *testing.T) {
	require.NoError(t, DefaultGeometry().Validate())

	geom := DefaultGeometry()
	geom.Width = 0
	geom.Step = math.Inf(1)
	geom.MinPitch = 600
	err := geom.Validate()
	require.ErrorIs(t, err, ErrInvalidGeometry)
	assert.Contains(t, err.Error(), "width")
	assert.Contains(t, err.Error(), "step")
	assert.Contains(t, err.Error(), "min pitch")
}

func TestUnvoicedHoldsPosition(t *testing.T) {
	g := newTestGame(t, DefaultGeometry(), 1)

	for i := 0; i < 10; i++ {
		step := g.Update(pitch.Unvoiced)
		require.False(t, step.GameOver)
	}
	assert.Equal(t, 360.0, g.Character().Y)

	g.Update(pitch.Estimate(math.NaN()))
	g.Update(pitch.Estimate(math.Inf(1)))
	assert.Equal(t, 360.0, g.Character().Y)
}

func TestPitchSteersCharacter(t *testing.T) {
	geom := DefaultGeometry()

	high := newTestGame(t, geom, 1)
	high.Update(pitch.Estimate(geom.MaxPitch))
	assert.InDelta(t, 342, high.Character().Y, 1e-9, "max pitch targets the top")

	low := newTestGame(t, geom, 1)
	low.Update(pitch.Estimate(geom.MinPitch))
	assert.InDelta(t, 378, low.Character().Y, 1e-9, "min pitch targets the bottom")

	below := newTestGame(t, geom, 1)
	below.Update(pitch.Estimate(50))
	assert.InDelta(t, 378, below.Character().Y, 1e-9, "pitch below range clamps")

	above := newTestGame(t, geom, 1)
	above.Update(pitch.Estimate(5000))
	assert.InDelta(t, 342, above.Character().Y, 1e-9, "pitch above range clamps")

	mid := newTestGame(t, geom, 1)
	mid.Update(pitch.Estimate(math.Sqrt(geom.MinPitch * geom.MaxPitch)))
	assert.InDelta(t, 360, mid.Character().Y, 1e-9, "geometric mean targets the middle")
}

func TestCharacterConvergesToTarget(t *testing.T) {
	geom := DefaultGeometry()
	g := newTestGame(t, geom, 1)

	// Stay clear of the first obstacle, which arrives on frame 161
	for i := 0; i < 150; i++ {
		g.Update(pitch.Estimate(geom.MaxPitch))
	}
	assert.InDelta(t, 0, g.Character().Y, 0.5)
	assert.Equal(t, Playing, g.Phase())
}

func TestTargetY(t *testing.T) {
	geom := DefaultGeometry()

	y, ok := TargetY(geom, pitch.Estimate(geom.MaxPitch))
	assert.True(t, ok)
	assert.InDelta(t, 0, y, 1e-9)

	y, ok = TargetY(geom, pitch.Estimate(geom.MinPitch))
	assert.True(t, ok)
	assert.InDelta(t, geom.Height, y, 1e-9)

	_, ok = TargetY(geom, pitch.Unvoiced)
	assert.False(t, ok)
}

func TestScoreCountsRecycledObstacles(t *testing.T) {
	g := newTestGame(t, wideOpen(), 3)

	for i := 0; i < 231; i++ {
		step := g.Update(pitch.Unvoiced)
		require.Equal(t, 0, step.Passed)
	}
	assert.Equal(t, 0, g.Score())

	step := g.Update(pitch.Unvoiced)
	assert.Equal(t, 1, step.Passed)
	assert.Equal(t, 1, step.Score)
	assert.Equal(t, 1, g.Score())
}

func TestScoreIsMonotonic(t *testing.T) {
	g := newTestGame(t, wideOpen(), 5)

	prev := 0
	sum := 0
	for i := 0; i < 3000; i++ {
		step := g.Update(pitch.Unvoiced)
		require.False(t, step.GameOver)
		require.GreaterOrEqual(t, step.Score, prev)
		sum += step.Passed
		require.Equal(t, sum, step.Score)
		prev = step.Score
	}
	assert.Greater(t, g.Score(), 10)
	assert.Equal(t, Playing, g.Phase())
}

func TestCollisionStopsGame(t *testing.T) {
	geom := DefaultGeometry()
	g := newTestGame(t, geom, 1)

	// Gaps at the very top: the bottom pillars block the held character
	for i := range g.course.slots {
		g.course.slots[i].GapTop = 0
	}

	// The first obstacle reaches the character's right edge after 160 frames
	for i := 0; i < 160; i++ {
		step := g.Update(pitch.Unvoiced)
		require.False(t, step.GameOver, "frame %d", i+1)
	}

	step := g.Update(pitch.Unvoiced)
	assert.True(t, step.GameOver)
	assert.Equal(t, Stopped, g.Phase())
	assert.Equal(t, "STOPPED", g.Phase().String())
}

func TestStoppedGameIsFrozen(t *testing.T) {
	geom := DefaultGeometry()
	g := newTestGame(t, geom, 1)
	for i := range g.course.slots {
		g.course.slots[i].GapTop = 0
	}

	over := 0
	for i := 0; i < 400; i++ {
		if g.Update(pitch.Unvoiced).GameOver {
			over++
		}
	}
	require.Equal(t, 1, over, "game over is reported once")

	before := g.Snapshot()
	for i := 0; i < 50; i++ {
		step := g.Update(pitch.Estimate(geom.MaxPitch))
		assert.False(t, step.GameOver)
		assert.Equal(t, 0, step.Passed)
		assert.Equal(t, before.Score, step.Score)
	}
	assert.Equal(t, before, g.Snapshot())
}

func TestSnapshot(t *testing.T) {
	geom := DefaultGeometry()
	g := newTestGame(t, geom, 1)
	g.Update(pitch.Unvoiced)
	g.Update(pitch.Unvoiced)

	snap := g.Snapshot()
	assert.Equal(t, Playing, snap.Phase)
	assert.Equal(t, 2, snap.Frames)
	assert.Equal(t, 2*geom.Step, snap.Time)
	require.Len(t, snap.Obstacles, 4)
	assert.Equal(t, 396.0, snap.Obstacles[0].X)

	// Snapshots are copies
	snap.Obstacles[0].X = 0
	assert.Equal(t, 396.0, g.Snapshot().Obstacles[0].X)
}
