package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// run lays out s as fixed-width glyphs starting at x
func run(s string, x, y float64) []glyph {
	const w = 6.0
	glyphs := make([]glyph, 0, len(s))
	for i, ch := range s {
		glyphs = append(glyphs, glyph{text: string(ch), x: x + float64(i)*w, y: y, width: w, fontSize: 10})
	}
	return glyphs
}

func concat(runs ...[]glyph) []glyph {
	var out []glyph
	for _, r := range runs {
		out = append(out, r...)
	}
	return out
}

func TestBuildGrid(t *testing.T) {
	tests := []struct {
		name   string
		glyphs []glyph
		want   Grid
	}{
		{
			name: "empty",
		},
		{
			name:   "single cell lines are dropped",
			glyphs: concat(run("Highlights", 50, 700), run("Quarter ended June", 50, 680)),
		},
		{
			name: "cells split on wide gaps",
			glyphs: concat(
				run("Crude Throughput", 50, 700),
				run("4.52", 300, 700),
				run("4.61", 360, 700),
			),
			want: Grid{{"Crude Throughput", "4.52", "4.61"}},
		},
		{
			name: "rows ordered top to bottom and glyphs left to right",
			glyphs: concat(
				run("20.4", 300, 600),
				run("Market Share", 50, 600),
				run("Exports", 50, 620),
				run("1.10", 300, 620.5),
			),
			want: Grid{
				{"Exports", "1.10"},
				{"Market Share", "20.4"},
			},
		},
		{
			name: "narrow gap becomes a space",
			glyphs: concat(
				run("Gross", 50, 500),
				run("Margin", 50+5*6+3, 500),
				run("8.5", 300, 500),
			),
			want: Grid{{"Gross Margin", "8.5"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildGrid(tt.glyphs, defaultRowTolerance, defaultCellGap)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitCellsZeroWidthGlyphs(t *testing.T) {
	// Zero-width glyphs still start a new cell after a wide gap
	line := []glyph{
		{text: "A", x: 10, width: 6, fontSize: 10},
		{text: "1", x: 100, width: 0, fontSize: 10},
		{text: "2", x: 200, width: 0, fontSize: 10},
	}
	assert.Equal(t, Row{"A", "1", "2"}, splitCells(line, defaultCellGap))
}
