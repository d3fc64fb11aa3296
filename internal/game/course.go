// ABOUTME: Obstacle course with fixed spacing and random gaps
// ABOUTME: Recycles off-screen obstacle slots instead of allocating new ones
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// ErrNotPassed is returned when recycling an obstacle still on screen
var ErrNotPassed = errors.New("obstacle has not left the viewport")

// Obstacle is a pair of pillars with a passable gap between them
type Obstacle struct {
	X            float64 // left edge, negative once scrolling off-screen
	GapTop       float64 // top of the gap
	CourseHeight float64 // playfield height when the obstacle was placed
}

// Right returns the obstacle's right edge
func (o Obstacle) Right(g Geometry) float64 {
	return o.X + g.GapWidth
}

// Passed reports whether the obstacle has fully left the viewport
func (o Obstacle) Passed(g Geometry) bool {
	return o.Right(g) < 0
}

// Pillars returns the top and bottom pillar rectangles
func (o Obstacle) Pillars(g Geometry) (top, bottom Rect) {
	top = RectFromCorner(o.X, 0, g.GapWidth, o.GapTop)
	bottomY := o.GapTop + g.GapHeight
	bottom = RectFromCorner(o.X, bottomY, g.GapWidth, o.CourseHeight-bottomY)
	return top, bottom
}

// Hits reports whether r overlaps either pillar
func (o Obstacle) Hits(g Geometry, r Rect) bool {
	top, bottom := o.Pillars(g)
	return Overlaps(r, top) || Overlaps(r, bottom)
}

// Course owns a fixed arena of obstacle slots.
// Slots are never added or removed; recycling resets a slot in place.
type Course struct {
	geom   Geometry
	rng    *rand.Rand
	slots  []Obstacle
	last   int // slot of the most recently placed obstacle, -1 before the first
	passed []bool
	seq    []uint64 // placement sequence number per slot
	next   uint64
}

// NewCourse generates count obstacles spaced geom.Spacing apart, the first
// one geom.Spacing from the origin.
func NewCourse(geom Geometry, count int, rng *rand.Rand) (*Course, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: obstacle count must be positive, got %d", ErrInvalidGeometry, count)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrInvalidGeometry)
	}

	c := &Course{
		geom:   geom,
		rng:    rng,
		slots:  make([]Obstacle, count),
		last:   -1,
		passed: make([]bool, count),
		seq:    make([]uint64, count),
	}
	for i := range c.slots {
		c.place(i)
	}
	return c, nil
}

// place puts slot i one spacing after the last placed obstacle with a fresh gap
func (c *Course) place(i int) {
	lastX := 0.0
	if c.last >= 0 {
		lastX = c.slots[c.last].X
	}

	c.slots[i] = Obstacle{
		X:            lastX + c.geom.Spacing,
		GapTop:       c.rng.Float64() * (c.geom.Height - c.geom.GapHeight),
		CourseHeight: c.geom.Height,
	}
	c.last = i
	c.seq[i] = c.next
	c.next++
}

// order returns slot indices from the oldest placement to the newest
func (c *Course) order() []int {
	idx := make([]int, len(c.slots))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return c.seq[idx[a]] < c.seq[idx[b]] })
	return idx
}

// Recycle moves slot i behind the last placed obstacle with a new gap.
// Only obstacles that have fully left the viewport may be recycled.
func (c *Course) Recycle(i int) error {
	if i < 0 || i >= len(c.slots) {
		return fmt.Errorf("obstacle slot %d out of range [0, %d)", i, len(c.slots))
	}
	if !c.slots[i].Passed(c.geom) {
		return fmt.Errorf("%w: slot %d right edge at %v", ErrNotPassed, i, c.slots[i].Right(c.geom))
	}
	c.place(i)
	return nil
}

// Advance scrolls the course one frame and returns how many obstacles were
// recycled. Obstacles already past the left edge at the start of the frame
// are recycled instead of shifted; they are placed after every other
// obstacle has moved, oldest first, so spacing stays exact.
func (c *Course) Advance() int {
	for i := range c.slots {
		if c.slots[i].Passed(c.geom) {
			c.passed[i] = true
			continue
		}
		c.slots[i].X -= c.geom.Step
	}

	recycled := 0
	for _, i := range c.order() {
		if !c.passed[i] {
			continue
		}
		c.passed[i] = false
		c.place(i)
		recycled++
	}
	return recycled
}

// Len returns the number of slots
func (c *Course) Len() int {
	return len(c.slots)
}

// Obstacle returns a copy of slot i
func (c *Course) Obstacle(i int) Obstacle {
	return c.slots[i]
}

// Obstacles returns a copy of every slot in slot order
func (c *Course) Obstacles() []Obstacle {
	out := make([]Obstacle, len(c.slots))
	copy(out, c.slots)
	return out
}

// InGenerationOrder returns a copy of the slots ordered oldest to newest
func (c *Course) InGenerationOrder() []Obstacle {
	out := make([]Obstacle, 0, len(c.slots))
	for _, i := range c.order() {
		out = append(out, c.slots[i])
	}
	return out
}

// Hits reports whether r overlaps any obstacle
func (c *Course) Hits(r Rect) bool {
	for i := range c.slots {
		if c.slots[i].Hits(c.geom, r) {
			return true
		}
	}
	return false
}
