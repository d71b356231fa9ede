package pdf

import (
	"sort"
	"strings"
)

// glyph is one positioned run of text, usually a single character
type glyph struct {
	text     string
	x, y     float64
	width    float64
	fontSize float64
}

// minimum cells for a line to count as a table row
const minCellsPerRow = 2

// buildGrid groups glyphs into lines by baseline and splits each line into
// cells wherever the horizontal gap exceeds cellGap.
func buildGrid(glyphs []glyph, rowTolerance, cellGap float64) Grid {
	var grid Grid
	for _, line := range groupByRow(glyphs, rowTolerance) {
		row := splitCells(line, cellGap)
		if nonEmpty(row) >= minCellsPerRow {
			grid = append(grid, row)
		}
	}
	return grid
}

// groupByRow sorts glyphs top to bottom and collects those whose baselines lie
// within tolerance of the first glyph of the line.
func groupByRow(glyphs []glyph, tolerance float64) [][]glyph {
	if len(glyphs) == 0 {
		return nil
	}

	sorted := make([]glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].y != sorted[j].y {
			return sorted[i].y > sorted[j].y
		}
		return sorted[i].x < sorted[j].x
	})

	var rows [][]glyph
	current := []glyph{sorted[0]}
	currentY := sorted[0].y

	for _, g := range sorted[1:] {
		if abs(g.y-currentY) <= tolerance {
			current = append(current, g)
			continue
		}
		rows = append(rows, current)
		current = []glyph{g}
		currentY = g.y
	}
	rows = append(rows, current)

	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].x < row[j].x })
	}
	return rows
}

// splitCells walks a line left to right. A gap wider than cellGap starts a new
// cell; a smaller gap wider than a quarter em becomes a space.
func splitCells(line []glyph, cellGap float64) Row {
	var (
		row     Row
		cell    strings.Builder
		prevEnd float64
	)

	for i, g := range line {
		if i > 0 {
			gap := g.x - prevEnd
			switch {
			case gap > cellGap:
				row = append(row, strings.TrimSpace(cell.String()))
				cell.Reset()
			case gap > spaceWidth(g.fontSize) && !endsWithSpace(cell.String()) && !strings.HasPrefix(g.text, " "):
				cell.WriteByte(' ')
			}
		}
		cell.WriteString(g.text)
		if end := g.x + g.width; end > prevEnd || i == 0 {
			prevEnd = end
		}
	}
	row = append(row, strings.TrimSpace(cell.String()))
	return row
}

func spaceWidth(fontSize float64) float64 {
	if fontSize <= 0 {
		return 1
	}
	return fontSize / 4
}

func endsWithSpace(s string) bool {
	return strings.HasSuffix(s, " ")
}

func nonEmpty(row Row) int {
	n := 0
	for _, c := range row {
		if c != "" {
			n++
		}
	}
	return n
}

// abs returns the absolute value of a float64
func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
