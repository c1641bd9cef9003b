package text

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/glyphquad/engine/gfx/renderer2d"
)

// LayoutOptions places a monospaced grid of glyph quads. Origin is the
// top-left corner of the first glyph in a Y-up world.
type LayoutOptions struct {
	Origin     mgl32.Vec3
	Cell       mgl32.Vec2 // quad size
	Advance    float32    // pen step per rune
	LineHeight float32    // downward step per '\n'
}

// Layout emits one quad per rune of s in reading order. '\n' starts a new
// line and '\r' is skipped; neither emits a quad.
func Layout(s string, table *GlyphTable, opts LayoutOptions) []renderer2d.QuadDescriptor {
	quads := make([]renderer2d.QuadDescriptor, 0, len(s))
	penX, penY := opts.Origin.X(), opts.Origin.Y()

	for _, r := range s {
		switch r {
		case '\n':
			penX = opts.Origin.X()
			penY -= opts.LineHeight
			continue
		case '\r':
			continue
		}
		quads = append(quads, renderer2d.QuadDescriptor{
			Position: mgl32.Vec3{penX, penY, opts.Origin.Z()},
			Size:     opts.Cell,
			Glyph:    table.Resolve(r),
		})
		penX += opts.Advance
	}
	return quads
}

// Measure returns the extent of the block Layout would produce for s.
func Measure(s string, opts LayoutOptions) (width, height float32) {
	if s == "" {
		return 0, 0
	}
	lines := 1
	col, widest := 0, 0
	for _, r := range s {
		switch r {
		case '\n':
			lines++
			col = 0
			continue
		case '\r':
			continue
		}
		col++
		if col > widest {
			widest = col
		}
	}
	if widest > 0 {
		width = float32(widest-1)*opts.Advance + opts.Cell.X()
	}
	height = float32(lines-1)*opts.LineHeight + opts.Cell.Y()
	return width, height
}
