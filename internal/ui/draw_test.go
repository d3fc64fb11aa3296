// ABOUTME: Tests for the terminal rasterizer
// ABOUTME: Checks pillar placement, the character cell and degenerate sizes
package ui

import (
	"strings"
	"testing"

	"github.com/Resonate-Protocol/voiceflap/internal/game"
)

func testFrame(y float64, obstacles ...game.Obstacle) Frame {
	return Frame{
		Snapshot: game.Snapshot{
			Geometry:  game.DefaultGeometry(),
			Phase:     game.Playing,
			Character: game.Character{Y: y},
			Obstacles: obstacles,
		},
	}
}

func cell(lines []string, row, col int) rune {
	return []rune(lines[row])[col]
}

func TestDrawSize(t *testing.T) {
	lines := strings.Split(Draw(testFrame(360), 80, 20), "\n")
	if len(lines) != 20 {
		t.Fatalf("expected 20 rows, got %d", len(lines))
	}
	for i, l := range lines {
		if n := len([]rune(l)); n != 80 {
			t.Errorf("row %d has %d cells, expected 80", i, n)
		}
	}
}

func TestDrawDegenerate(t *testing.T) {
	if Draw(testFrame(360), 0, 10) != "" {
		t.Error("expected empty output for zero columns")
	}
	if Draw(testFrame(360), 10, -1) != "" {
		t.Error("expected empty output for negative rows")
	}
	if Draw(Frame{}, 10, 10) != "" {
		t.Error("expected empty output for zero geometry")
	}
}

func TestDrawPillars(t *testing.T) {
	o := game.Obstacle{X: 400, GapTop: 300, CourseHeight: 720}
	// 0.1 cells per world unit on both axes
	lines := strings.Split(Draw(testFrame(360, o), 128, 72), "\n")

	for _, col := range []int{40, 45} {
		if cell(lines, 0, col) != cellPillar || cell(lines, 29, col) != cellPillar {
			t.Errorf("expected top pillar in column %d", col)
		}
		if cell(lines, 30, col) != cellEmpty || cell(lines, 49, col) != cellEmpty {
			t.Errorf("expected gap in column %d", col)
		}
		if cell(lines, 50, col) != cellPillar || cell(lines, 71, col) != cellPillar {
			t.Errorf("expected bottom pillar in column %d", col)
		}
	}
	if cell(lines, 0, 39) != cellEmpty || cell(lines, 0, 46) != cellEmpty {
		t.Error("pillar wider than its obstacle")
	}
}

func TestDrawCharacter(t *testing.T) {
	lines := strings.Split(Draw(testFrame(360), 128, 72), "\n")
	if cell(lines, 37, 6) != cellPlayer {
		t.Errorf("expected character at row 37 col 6, got row %q", lines[37])
	}

	// Off-screen heights are clamped to the border rows
	lines = strings.Split(Draw(testFrame(-500), 128, 72), "\n")
	if cell(lines, 0, 6) != cellPlayer {
		t.Error("expected character clamped to the top row")
	}
	lines = strings.Split(Draw(testFrame(5000), 128, 72), "\n")
	if cell(lines, 71, 6) != cellPlayer {
		t.Error("expected character clamped to the bottom row")
	}
}
