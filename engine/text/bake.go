package text

import (
	"image"
	"image/draw"

	"github.com/hubastard/glyphquad/engine/core"
	"github.com/hubastard/glyphquad/engine/gfx/renderer2d"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultFont is the TrueType source used when no atlas image is configured.
var DefaultFont = gomono.TTF

// BakeGridAtlas rasterises every rune of table into its grid cell: white
// glyphs with alpha coverage on a transparent background, each centred in a
// cellPx x cellPx cell and clipped to it. Cells without a rune stay empty.
func BakeGridAtlas(ttf []byte, table *GlyphTable, layout renderer2d.AtlasLayout, cellPx int) (*image.RGBA, error) {
	if cellPx <= 0 {
		return nil, errors.Wrapf(core.ErrInvalidAtlasLayout, "cell size %dpx", cellPx)
	}
	if layout.Columns == 0 || layout.Rows == 0 {
		return nil, errors.Wrapf(core.ErrInvalidAtlasLayout, "%dx%d", layout.Columns, layout.Rows)
	}
	if err := table.Validate(layout); err != nil {
		return nil, err
	}

	ft, err := opentype.Parse(ttf)
	if err != nil {
		return nil, errors.Wrap(err, "parse font")
	}
	// Leave a quarter of the cell as margin so descenders and accents fit.
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: float64(cellPx) * 0.75, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrap(err, "new face")
	}
	defer face.Close()

	m := face.Metrics()
	ascent, descent := m.Ascent.Round(), m.Descent.Round()
	// Baseline offset that centres the ascent+descent box vertically.
	baseline := (cellPx-(ascent+descent))/2 + ascent

	dst := image.NewRGBA(image.Rect(0, 0, int(layout.Columns)*cellPx, int(layout.Rows)*cellPx))
	for _, e := range table.Entries() {
		col := int(uint32(e.Glyph) % layout.Columns)
		row := int(uint32(e.Glyph) / layout.Columns)
		cellRect := image.Rect(col*cellPx, row*cellPx, (col+1)*cellPx, (row+1)*cellPx)

		adv, ok := face.GlyphAdvance(e.Rune)
		if !ok {
			core.LogWarn("font has no glyph for %q (cell %d)", e.Rune, e.Glyph)
			continue
		}
		drawer := &font.Drawer{
			Dst:  dst.SubImage(cellRect).(draw.Image),
			Src:  image.White,
			Face: face,
			Dot:  fixed.P(cellRect.Min.X+(cellPx-adv.Round())/2, cellRect.Min.Y+baseline),
		}
		drawer.DrawString(string(e.Rune))
	}
	return dst, nil
}
