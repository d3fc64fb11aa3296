// ABOUTME: Pitch-driven character and its smoothing rule
// ABOUTME: Maps a pitch estimate to a target height and eases toward it
package game

import (
	"math"

	"github.com/Resonate-Protocol/voiceflap/pkg/pitch"
)

// Damping is the fraction of the distance to the target covered per frame
const Damping = 0.05

// Character is the square the player steers with their voice.
// Y is the top edge and is not clamped to the viewport.
type Character struct {
	Y float64
}

// Bounds returns the character's collision square
func (c Character) Bounds(g Geometry) Rect {
	return RectFromCorner(g.CharX, c.Y, g.CharSize, g.CharSize)
}

// TargetY maps a pitch onto the viewport on a log scale.
// Higher pitch gives a smaller y. The second result is false when the
// estimate is unvoiced or the mapping is not finite.
func TargetY(g Geometry, e pitch.Estimate) (float64, bool) {
	if !e.Voiced() {
		return 0, false
	}

	logMin := math.Log2(g.MinPitch)
	yRange := math.Log2(g.MaxPitch) - logMin
	bounded := math.Log2(e.Hz()) - logMin
	if bounded < 0 {
		bounded = 0
	} else if bounded > yRange {
		bounded = yRange
	}

	target := g.Height - bounded/yRange*g.Height
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return 0, false
	}
	return target, true
}

// Follow eases the character toward the height for e.
// Unvoiced frames leave the character where it is.
func (c *Character) Follow(g Geometry, e pitch.Estimate) {
	target, ok := TargetY(g, e)
	diff := 0.0
	if ok {
		diff = target - c.Y
	}
	c.Y += Damping * diff
}
