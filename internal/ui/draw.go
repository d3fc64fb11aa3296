// ABOUTME: Terminal rasterizer for the game world
// ABOUTME: Scales world coordinates onto a grid of character cells
package ui

import (
	"strings"
)

const (
	cellEmpty  = ' '
	cellPillar = '█'
	cellPlayer = '@'
)

// Draw rasterizes the frame into rows lines of cols cells, separated by
// newlines. A cell is filled when its center lies inside a pillar. The
// character is always drawn, clamped to the visible rows.
func Draw(f Frame, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	geom := f.Snapshot.Geometry
	if geom.Width <= 0 || geom.Height <= 0 {
		return ""
	}

	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = make([]rune, cols)
		for c := range grid[r] {
			grid[r][c] = cellEmpty
		}
	}

	sx := float64(cols) / geom.Width
	sy := float64(rows) / geom.Height

	for _, o := range f.Snapshot.Obstacles {
		for c := 0; c < cols; c++ {
			x := (float64(c) + 0.5) / sx
			if x < o.X || x > o.Right(geom) {
				continue
			}
			for r := 0; r < rows; r++ {
				y := (float64(r) + 0.5) / sy
				if y <= o.GapTop || y >= o.GapTop+geom.GapHeight {
					grid[r][c] = cellPillar
				}
			}
		}
	}

	ch := f.Snapshot.Character
	col := clampCell(int((geom.CharX+geom.CharSize/2)*sx), cols)
	row := clampCell(int((ch.Y+geom.CharSize/2)*sy), rows)
	grid[row][col] = cellPlayer

	lines := make([]string, rows)
	for r := range grid {
		lines[r] = string(grid[r])
	}
	return strings.Join(lines, "\n")
}

func clampCell(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
