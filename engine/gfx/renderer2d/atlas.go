package renderer2d

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/glyphquad/engine/core"
	"github.com/pkg/errors"
)

// GlyphID selects a cell of the atlas grid. Cell g sits at column g%Columns,
// row g/Columns, counting from the top-left cell.
type GlyphID uint32

// AtlasLayout is the grid shape of an atlas texture. It is fixed for the
// lifetime of the texture.
type AtlasLayout struct {
	Columns uint32
	Rows    uint32
}

// NewAtlasLayout validates the grid shape. Each side is limited to
// core.MaxAtlasDimension cells.
func NewAtlasLayout(columns, rows uint32) (AtlasLayout, error) {
	if columns == 0 || rows == 0 || columns > core.MaxAtlasDimension || rows > core.MaxAtlasDimension {
		return AtlasLayout{}, errors.Wrapf(core.ErrInvalidAtlasLayout, "%dx%d", columns, rows)
	}
	return AtlasLayout{Columns: columns, Rows: rows}, nil
}

// AtlasLayoutFromPixels derives the grid of an atlas image made of equal
// cellW x cellH cells.
func AtlasLayoutFromPixels(imgW, imgH, cellW, cellH int) (AtlasLayout, error) {
	if cellW <= 0 || cellH <= 0 || imgW < cellW || imgH < cellH {
		return AtlasLayout{}, errors.Wrapf(core.ErrInvalidAtlasLayout, "image %dx%d, cell %dx%d", imgW, imgH, cellW, cellH)
	}
	if imgW%cellW != 0 || imgH%cellH != 0 {
		return AtlasLayout{}, errors.Wrapf(core.ErrInvalidAtlasLayout, "image %dx%d is not a whole number of %dx%d cells", imgW, imgH, cellW, cellH)
	}
	return NewAtlasLayout(uint32(imgW/cellW), uint32(imgH/cellH))
}

// Cells is the number of addressable glyphs.
func (l AtlasLayout) Cells() uint32 { return l.Columns * l.Rows }

func (l AtlasLayout) Contains(g GlyphID) bool { return uint32(g) < l.Cells() }

// UVRect holds the UV corners of one atlas cell, origin at the top-left texel.
type UVRect struct {
	TopLeft     mgl32.Vec2
	BottomLeft  mgl32.Vec2
	BottomRight mgl32.Vec2
	TopRight    mgl32.Vec2
}

// Corners returns TL, BL, BR, TR. The mesh index pattern depends on this order.
func (r UVRect) Corners() [4]mgl32.Vec2 {
	return [4]mgl32.Vec2{r.TopLeft, r.BottomLeft, r.BottomRight, r.TopRight}
}

// GlyphToUVRect maps glyph to its cell. ok is false when glyph lies outside
// the grid; the returned rect is then meaningless.
func GlyphToUVRect(glyph GlyphID, layout AtlasLayout) (rect UVRect, ok bool) {
	if layout.Columns == 0 || layout.Rows == 0 || !layout.Contains(glyph) {
		return UVRect{}, false
	}
	cw := 1 / float32(layout.Columns)
	ch := 1 / float32(layout.Rows)
	col := float32(uint32(glyph) % layout.Columns)
	row := float32(uint32(glyph) / layout.Columns)

	u0, v0 := col*cw, row*ch
	return UVRect{
		TopLeft:     mgl32.Vec2{u0, v0},
		BottomLeft:  mgl32.Vec2{u0, v0 + ch},
		BottomRight: mgl32.Vec2{u0 + cw, v0 + ch},
		TopRight:    mgl32.Vec2{u0 + cw, v0},
	}, true
}

// AtlasIndex resolves every glyph id to a cell. Ids outside the grid resolve
// to the fallback cell.
type AtlasIndex struct {
	layout   AtlasLayout
	fallback GlyphID
	rects    []UVRect
}

func NewAtlasIndex(layout AtlasLayout, fallback GlyphID) (*AtlasIndex, error) {
	if layout.Columns == 0 || layout.Rows == 0 {
		return nil, errors.Wrapf(core.ErrInvalidAtlasLayout, "%dx%d", layout.Columns, layout.Rows)
	}
	if !layout.Contains(fallback) {
		return nil, errors.Wrapf(core.ErrInvalidGlyph, "fallback %d outside %dx%d atlas", fallback, layout.Columns, layout.Rows)
	}
	idx := &AtlasIndex{layout: layout, fallback: fallback, rects: make([]UVRect, layout.Cells())}
	for g := range idx.rects {
		idx.rects[g], _ = GlyphToUVRect(GlyphID(g), layout)
	}
	return idx, nil
}

func (a *AtlasIndex) Layout() AtlasLayout { return a.layout }
func (a *AtlasIndex) Fallback() GlyphID   { return a.fallback }

// Lookup never fails: glyphs outside the grid get the fallback cell.
func (a *AtlasIndex) Lookup(glyph GlyphID) UVRect {
	if !a.layout.Contains(glyph) {
		return a.rects[a.fallback]
	}
	return a.rects[glyph]
}

// Resolve returns the glyph actually drawn for glyph.
func (a *AtlasIndex) Resolve(glyph GlyphID) GlyphID {
	if !a.layout.Contains(glyph) {
		return a.fallback
	}
	return glyph
}
