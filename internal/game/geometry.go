// ABOUTME: Playfield geometry and axis-aligned overlap tests
// ABOUTME: Describes course dimensions and rectangles by center and extent
package game

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry reports playfield constants that cannot produce a game
var ErrInvalidGeometry = errors.New("invalid game geometry")

// Geometry holds the immutable playfield constants for a run.
// Units are abstract world units; renderers scale them to their surface.
type Geometry struct {
	Width     float64 // viewport width
	Height    float64 // viewport height
	GapHeight float64 // vertical opening between pillars
	GapWidth  float64 // pillar width
	CharSize  float64 // side of the square character
	CharX     float64 // fixed left edge of the character
	Spacing   float64 // horizontal distance between obstacles
	Step      float64 // per-frame horizontal scroll and time advance
	MinPitch  float64 // pitch mapped to the bottom of the viewport
	MaxPitch  float64 // pitch mapped to the top of the viewport
}

// DefaultGeometry returns the classic playfield constants
func DefaultGeometry() Geometry {
	return Geometry{
		Width:     1280,
		Height:    720,
		GapHeight: 200,
		GapWidth:  60,
		CharSize:  30,
		CharX:     50,
		Spacing:   400,
		Step:      2,
		MinPitch:  200,
		MaxPitch:  500,
	}
}

// Validate checks every constant and returns all problems joined
func (g Geometry) Validate() error {
	var errs []error
	positive := []struct {
		name  string
		value float64
	}{
		{"width", g.Width},
		{"height", g.Height},
		{"gap height", g.GapHeight},
		{"gap width", g.GapWidth},
		{"character size", g.CharSize},
		{"spacing", g.Spacing},
		{"step", g.Step},
		{"min pitch", g.MinPitch},
		{"max pitch", g.MaxPitch},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			errs = append(errs, fmt.Errorf("%w: %s must be positive and finite, got %v", ErrInvalidGeometry, p.name, p.value))
		}
	}
	if g.CharX < 0 {
		errs = append(errs, fmt.Errorf("%w: character x must not be negative, got %v", ErrInvalidGeometry, g.CharX))
	}
	if g.GapHeight >= g.Height {
		errs = append(errs, fmt.Errorf("%w: gap height %v must be smaller than height %v", ErrInvalidGeometry, g.GapHeight, g.Height))
	}
	if g.MinPitch >= g.MaxPitch {
		errs = append(errs, fmt.Errorf("%w: min pitch %v must be below max pitch %v", ErrInvalidGeometry, g.MinPitch, g.MaxPitch))
	}
	return errors.Join(errs...)
}

// ObstacleCount returns how many obstacles cover the viewport
func (g Geometry) ObstacleCount() int {
	return int(math.Ceil(g.Width / g.Spacing))
}

// Rect is an axis-aligned rectangle described by its center and full extents
type Rect struct {
	CX, CY float64
	W, H   float64
}

// RectFromCorner builds a Rect from its top-left corner and size
func RectFromCorner(x, y, w, h float64) Rect {
	return Rect{CX: x + w/2, CY: y + h/2, W: w, H: h}
}

// Overlaps reports whether a and b intersect.
// Rectangles that only touch along an edge do not overlap.
func Overlaps(a, b Rect) bool {
	return math.Abs(a.CX-b.CX) < (a.W+b.W)/2 &&
		math.Abs(a.CY-b.CY) < (a.H+b.H)/2
}
